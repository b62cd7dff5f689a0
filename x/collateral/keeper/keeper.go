package keeper

import (
	"encoding/json"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lockdeal/x/collateral/types"
)

// Keeper is the collateral ledger. Its pools hold main coin under the Deal
// rule and carry a conversion rate used to size refunds.
type Keeper struct {
	storeKey storetypes.StoreKey
	registry types.RegistryKeeper
	vault    types.VaultKeeper
	logger   log.Logger
}

// NewKeeper creates a new collateral keeper
func NewKeeper(
	storeKey storetypes.StoreKey,
	registry types.RegistryKeeper,
	vault types.VaultKeeper,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		storeKey: storeKey,
		registry: registry,
		vault:    vault,
		logger:   logger.With("module", "x/collateral"),
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

// Address is the provider identity recorded on collateral pools
func (k *Keeper) Address() sdk.AccAddress {
	return types.ModuleAddress()
}

// Name implements registry PoolProvider
func (k *Keeper) Name() string {
	return "collateralprovider"
}

// SetRecord saves a collateral record
func (k *Keeper) SetRecord(ctx sdk.Context, record types.CollateralRecord) {
	bz, _ := json.Marshal(record)
	k.GetStore(ctx).Set(types.RecordKey(record.PoolID), bz)
}

// GetRecord returns the record of a collateral pool
func (k *Keeper) GetRecord(ctx sdk.Context, poolID uint64) (types.CollateralRecord, bool) {
	bz := k.GetStore(ctx).Get(types.RecordKey(poolID))
	if bz == nil {
		return types.CollateralRecord{}, false
	}
	var record types.CollateralRecord
	if err := json.Unmarshal(bz, &record); err != nil {
		return types.CollateralRecord{}, false
	}
	return record, true
}

// Rate returns the conversion rate of a collateral pool, zero when unknown
func (k *Keeper) Rate(ctx sdk.Context, poolID uint64) math.Int {
	record, ok := k.GetRecord(ctx, poolID)
	if !ok {
		return math.ZeroInt()
	}
	return record.RateToWei
}

// IsCollateralPool reports whether poolID was created by this ledger
func (k *Keeper) IsCollateralPool(ctx sdk.Context, poolID uint64) bool {
	pool, err := k.registry.GetPool(ctx, poolID)
	if err != nil {
		return false
	}
	return pool.HasProvider(k.Address())
}

func blockTime(ctx sdk.Context) math.Int {
	return math.NewInt(ctx.BlockTime().Unix())
}
