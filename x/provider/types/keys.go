package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "provider"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// Store key prefixes
var (
	StartAmountKeyPrefix = []byte{0x01}
)

// StartAmountKey returns the key of the original deposit of a timed pool
func StartAmountKey(poolID uint64) []byte {
	return append(append([]byte{}, StartAmountKeyPrefix...), sdk.Uint64ToBigEndian(poolID)...)
}
