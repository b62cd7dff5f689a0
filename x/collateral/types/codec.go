package types

import (
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MsgFactories maps envelope type names to the module's messages
var MsgFactories = map[string]func() sdk.Msg{
	ModuleName + "/MsgCreateCollateralPool": func() sdk.Msg { return &MsgCreateCollateralPool{} },
	ModuleName + "/MsgClaimRefundedTokens":  func() sdk.Msg { return &MsgClaimRefundedTokens{} },
}

// RegisterLegacyAminoCodec registers the module's messages on cdc under
// their envelope names
func RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	for name, factory := range MsgFactories {
		cdc.RegisterConcrete(factory(), name, nil)
	}
}
