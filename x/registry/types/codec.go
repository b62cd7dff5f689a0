package types

import (
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MsgFactories maps envelope type names to the module's messages
var MsgFactories = map[string]func() sdk.Msg{
	ModuleName + "/MsgTransferPool":        func() sdk.Msg { return &MsgTransferPool{} },
	ModuleName + "/MsgSetApprovedProvider": func() sdk.Msg { return &MsgSetApprovedProvider{} },
	ModuleName + "/MsgApprovePool":         func() sdk.Msg { return &MsgApprovePool{} },
	ModuleName + "/MsgSetApprovalForAll":   func() sdk.Msg { return &MsgSetApprovalForAll{} },
	ModuleName + "/MsgWithdrawPool":        func() sdk.Msg { return &MsgWithdrawPool{} },
}

// RegisterLegacyAminoCodec registers the module's messages on cdc under
// their envelope names
func RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	for name, factory := range MsgFactories {
		cdc.RegisterConcrete(factory(), name, nil)
	}
}
