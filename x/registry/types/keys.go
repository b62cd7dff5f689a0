package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "registry"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// Store key prefixes
var (
	PoolKeyPrefix          = []byte{0x01}
	NextPoolIDKey          = []byte{0x02}
	ApprovedKeyPrefix      = []byte{0x03}
	OwnerIndexKeyPrefix    = []byte{0x04}
	PoolApprovalPrefix     = []byte{0x05}
	OperatorApprovalPrefix = []byte{0x06}
)

// ModuleAddress is the identity the registry uses when it notifies receivers.
func ModuleAddress() sdk.AccAddress {
	return authtypes.NewModuleAddress(ModuleName)
}

// PoolKey returns the store key of a pool record
func PoolKey(poolID uint64) []byte {
	return append(append([]byte{}, PoolKeyPrefix...), sdk.Uint64ToBigEndian(poolID)...)
}

// ApprovedKey returns the allowlist key of a provider
func ApprovedKey(addr sdk.AccAddress) []byte {
	return append(append([]byte{}, ApprovedKeyPrefix...), addr...)
}

// OwnerIndexPrefix returns the prefix of all pools held by owner
func OwnerIndexPrefix(owner sdk.AccAddress) []byte {
	bz := append(append([]byte{}, OwnerIndexKeyPrefix...), byte(len(owner)))
	return append(bz, owner...)
}

// OwnerIndexKey returns the owner index key of a single pool
func OwnerIndexKey(owner sdk.AccAddress, poolID uint64) []byte {
	return append(OwnerIndexPrefix(owner), sdk.Uint64ToBigEndian(poolID)...)
}

// PoolApprovalKey returns the key of the single delegate approved for a pool
func PoolApprovalKey(poolID uint64) []byte {
	return append(append([]byte{}, PoolApprovalPrefix...), sdk.Uint64ToBigEndian(poolID)...)
}

// OperatorApprovalKey returns the key of an owner -> operator approval
func OperatorApprovalKey(owner, operator sdk.AccAddress) []byte {
	bz := append(append([]byte{}, OperatorApprovalPrefix...), byte(len(owner)))
	bz = append(bz, owner...)
	return append(bz, operator...)
}
