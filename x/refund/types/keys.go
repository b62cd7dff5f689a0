package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "refund"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// Store key prefixes
var (
	LinkKeyPrefix        = []byte{0x01}
	CollateralLinkPrefix = []byte{0x02}
)

// ModuleAddress is the provider identity of refund pools
func ModuleAddress() sdk.AccAddress {
	return authtypes.NewModuleAddress("refundprovider")
}

// LinkKey returns the key of the collateral id of a refund pool
func LinkKey(refundPoolID uint64) []byte {
	return append(append([]byte{}, LinkKeyPrefix...), sdk.Uint64ToBigEndian(refundPoolID)...)
}

// CollateralLinksPrefix returns the prefix of all refund pools of a collateral pool
func CollateralLinksPrefix(collateralPoolID uint64) []byte {
	return append(append([]byte{}, CollateralLinkPrefix...), sdk.Uint64ToBigEndian(collateralPoolID)...)
}

// CollateralLinkKey indexes refundPoolID under its collateral pool
func CollateralLinkKey(collateralPoolID, refundPoolID uint64) []byte {
	return append(CollateralLinksPrefix(collateralPoolID), sdk.Uint64ToBigEndian(refundPoolID)...)
}
