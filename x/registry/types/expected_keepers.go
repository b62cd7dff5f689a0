package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// PoolProvider is a strategy module that owns the release rules of its pools.
// Implementations are registered on the registry at wiring time.
type PoolProvider interface {
	// Address is the identity recorded as Pool.Provider
	Address() sdk.AccAddress
	// Name is a human readable provider name
	Name() string
	// Releasable returns the value that could be withdrawn right now
	Releasable(ctx sdk.Context, pool Pool) math.Int
	// Withdraw releases up to amount (zero meaning everything available)
	// and persists the new params through the registry.
	Withdraw(ctx sdk.Context, pool Pool, amount math.Int) (math.Int, error)
}

// TransferReceiver is notified after a pool has been transferred to its address.
// caller is always the registry's own module address.
type TransferReceiver interface {
	OnPoolReceived(ctx sdk.Context, caller, operator, from sdk.AccAddress, poolID uint64, payload []byte) error
}

// VaultKeeper holds the custody of pool value
type VaultKeeper interface {
	Release(ctx sdk.Context, to sdk.AccAddress, token string, amount math.Int) error
}
