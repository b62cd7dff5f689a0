package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	registrytypes "github.com/openalpha/lockdeal/x/registry/types"
)

// RegistryKeeper is the pool table providers write through
type RegistryKeeper interface {
	MintPool(ctx sdk.Context, caller, owner sdk.AccAddress, token string, params []math.Int) (uint64, error)
	GetPool(ctx sdk.Context, poolID uint64) (*registrytypes.Pool, error)
	SetPoolParams(ctx sdk.Context, caller sdk.AccAddress, poolID uint64, params []math.Int) error
	IsApproved(ctx sdk.Context, addr sdk.AccAddress) bool
}

// VaultKeeper takes custody of deposited value
type VaultKeeper interface {
	DepositFrom(ctx sdk.Context, from sdk.AccAddress, token string, amount math.Int, sig []byte) error
}
