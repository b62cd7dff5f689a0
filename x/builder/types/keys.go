package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "builder"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// Store keys
var (
	ParamsKey = []byte{0x01}
)

// ModuleAddress is the builder identity. Collateral pools are transferred
// here to trigger a rebuild.
func ModuleAddress() sdk.AccAddress {
	return authtypes.NewModuleAddress("refundbuilder")
}
