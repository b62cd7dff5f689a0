package keeper

import (
	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lockdeal/x/provider/types"
)

// Keeper is one schedule strategy. Lock wraps Deal and Timed wraps Lock; the
// wrapping keeper delegates the parts of the rule it shares with inner.
type Keeper struct {
	kind     types.Kind
	inner    *Keeper
	storeKey storetypes.StoreKey
	registry types.RegistryKeeper
	vault    types.VaultKeeper
	logger   log.Logger
}

// NewDealProvider creates the lump-sum provider
func NewDealProvider(
	storeKey storetypes.StoreKey,
	registry types.RegistryKeeper,
	vault types.VaultKeeper,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		kind:     types.KindDeal,
		storeKey: storeKey,
		registry: registry,
		vault:    vault,
		logger:   logger.With("module", "x/provider", "kind", types.KindDeal.String()),
	}
}

// NewLockProvider creates the lock-until provider on top of deal
func NewLockProvider(deal *Keeper) *Keeper {
	return deal.wrap(types.KindLock)
}

// NewTimedProvider creates the linear vesting provider on top of lock
func NewTimedProvider(lock *Keeper) *Keeper {
	return lock.wrap(types.KindTimed)
}

func (k *Keeper) wrap(kind types.Kind) *Keeper {
	return &Keeper{
		kind:     kind,
		inner:    k,
		storeKey: k.storeKey,
		registry: k.registry,
		vault:    k.vault,
		logger:   k.logger.With("kind", kind.String()),
	}
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

// Kind returns the schedule kind
func (k *Keeper) Kind() types.Kind {
	return k.kind
}

// Address is the identity recorded on pools this provider creates
func (k *Keeper) Address() sdk.AccAddress {
	return k.kind.Address()
}

// Name implements registry PoolProvider
func (k *Keeper) Name() string {
	return k.kind.String() + "provider"
}

// ParamsLen returns the params length of pools of this kind
func (k *Keeper) ParamsLen() int {
	return k.kind.ParamsLen()
}

// GetStartAmount returns the original deposit of a timed pool
func (k *Keeper) GetStartAmount(ctx sdk.Context, poolID uint64) math.Int {
	bz := k.GetStore(ctx).Get(types.StartAmountKey(poolID))
	if bz == nil {
		return math.Int{}
	}
	var amount math.Int
	if err := amount.Unmarshal(bz); err != nil {
		return math.Int{}
	}
	return amount
}

func (k *Keeper) setStartAmount(ctx sdk.Context, poolID uint64, amount math.Int) {
	bz, _ := amount.Marshal()
	k.GetStore(ctx).Set(types.StartAmountKey(poolID), bz)
}

func blockTime(ctx sdk.Context) math.Int {
	return math.NewInt(ctx.BlockTime().Unix())
}
