package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "collateral"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// Store key prefixes
var (
	RecordKeyPrefix = []byte{0x01}
)

// ModuleAddress is the provider identity of collateral pools
func ModuleAddress() sdk.AccAddress {
	return authtypes.NewModuleAddress("collateralprovider")
}

// RecordKey returns the key of the record of a collateral pool
func RecordKey(poolID uint64) []byte {
	return append(append([]byte{}, RecordKeyPrefix...), sdk.Uint64ToBigEndian(poolID)...)
}
