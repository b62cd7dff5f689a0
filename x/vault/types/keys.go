package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "vault"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// Store key prefixes
var (
	BalanceKeyPrefix = []byte{0x01}
	TrustedSignerKey = []byte{0x02}
	NonceKeyPrefix   = []byte{0x03}
)

// ModuleAddress is the account that holds deposited value
func ModuleAddress() sdk.AccAddress {
	return authtypes.NewModuleAddress(ModuleName)
}

// BalanceKey returns the key of the balance of addr in token
func BalanceKey(token string, addr sdk.AccAddress) []byte {
	key := append([]byte{}, BalanceKeyPrefix...)
	key = append(key, byte(len(token)))
	key = append(key, []byte(token)...)
	return append(key, addr...)
}

// NonceKey returns the key of the deposit nonce of addr
func NonceKey(addr sdk.AccAddress) []byte {
	return append(append([]byte{}, NonceKeyPrefix...), addr...)
}
