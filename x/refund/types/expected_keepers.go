package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	collateraltypes "github.com/openalpha/lockdeal/x/collateral/types"
	registrytypes "github.com/openalpha/lockdeal/x/registry/types"
)

// RegistryKeeper is the pool table the ledger writes through
type RegistryKeeper interface {
	MintPool(ctx sdk.Context, caller, owner sdk.AccAddress, token string, params []math.Int) (uint64, error)
	GetPool(ctx sdk.Context, poolID uint64) (*registrytypes.Pool, error)
	SetPoolParams(ctx sdk.Context, caller sdk.AccAddress, poolID uint64, params []math.Int) error
	IsApproved(ctx sdk.Context, addr sdk.AccAddress) bool
	GetApproved(ctx sdk.Context, poolID uint64) sdk.AccAddress
	IsApprovedForAll(ctx sdk.Context, owner, operator sdk.AccAddress) bool
}

// CollateralKeeper backs refund pools
type CollateralKeeper interface {
	Address() sdk.AccAddress
	GetRecord(ctx sdk.Context, poolID uint64) (collateraltypes.CollateralRecord, bool)
	Swap(ctx sdk.Context, caller sdk.AccAddress, poolID uint64, tokenAmount math.Int) (math.Int, error)
}

// VaultKeeper holds refund pool tokens and collateral main coin
type VaultKeeper interface {
	DepositFrom(ctx sdk.Context, from sdk.AccAddress, token string, amount math.Int, sig []byte) error
	Release(ctx sdk.Context, to sdk.AccAddress, token string, amount math.Int) error
}
