package types

import (
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MsgFactories maps envelope type names to the module's messages
var MsgFactories = map[string]func() sdk.Msg{
	ModuleName + "/MsgCreateRefundPool": func() sdk.Msg { return &MsgCreateRefundPool{} },
	ModuleName + "/MsgRefund":           func() sdk.Msg { return &MsgRefund{} },
}

// RegisterLegacyAminoCodec registers the module's messages on cdc under
// their envelope names
func RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	for name, factory := range MsgFactories {
		cdc.RegisterConcrete(factory(), name, nil)
	}
}
