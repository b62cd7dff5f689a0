package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	collateraltypes "github.com/openalpha/lockdeal/x/collateral/types"
	registrytypes "github.com/openalpha/lockdeal/x/registry/types"
)

// RegistryKeeper is the pool table the builder reads and transfers through
type RegistryKeeper interface {
	Address() sdk.AccAddress
	GetPool(ctx sdk.Context, poolID uint64) (*registrytypes.Pool, error)
	GetNextPoolID(ctx sdk.Context) uint64
	TransferFrom(ctx sdk.Context, sender, from, to sdk.AccAddress, poolID uint64, payload []byte) error
}

// VaultKeeper takes custody of the batch totals
type VaultKeeper interface {
	DepositFrom(ctx sdk.Context, from sdk.AccAddress, token string, amount math.Int, sig []byte) error
}

// PoolRegistrar is a provider that can register pools the builder already
// deposited for
type PoolRegistrar interface {
	Address() sdk.AccAddress
	Name() string
	ParamsLen() int
	RegisterPool(ctx sdk.Context, caller, owner sdk.AccAddress, token string, params []math.Int) (uint64, error)
}

// CollateralKeeper opens and grows collateral pools
type CollateralKeeper interface {
	Address() sdk.AccAddress
	GetRecord(ctx sdk.Context, poolID uint64) (collateraltypes.CollateralRecord, bool)
	RegisterCollateralPool(ctx sdk.Context, caller, owner sdk.AccAddress, mainCoin, token string, mainCoinAmount, finishTime, rate math.Int) (uint64, error)
	Increase(ctx sdk.Context, caller sdk.AccAddress, poolID uint64, extraTokenAmount math.Int) (math.Int, error)
}

// RefundKeeper opens refund pools linked to a collateral pool
type RefundKeeper interface {
	Address() sdk.AccAddress
	ValidateCollateral(ctx sdk.Context, collateralPoolID uint64) error
	RegisterRefundPool(ctx sdk.Context, caller, owner sdk.AccAddress, token string, amount, finishTime math.Int, collateralPoolID uint64) (uint64, error)
}
