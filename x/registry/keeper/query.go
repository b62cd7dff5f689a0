package keeper

import (
	"encoding/json"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lockdeal/x/registry/types"
)

// Releasable returns what the owner of poolID could withdraw right now
func (k *Keeper) Releasable(ctx sdk.Context, poolID uint64) (math.Int, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return math.ZeroInt(), err
	}
	provider, ok := k.GetProvider(pool.Provider)
	if !ok {
		return math.ZeroInt(), types.ErrProviderNotRegistered.Wrapf("pool %d provider %s", poolID, pool.Provider)
	}
	return provider.Releasable(ctx, *pool), nil
}

// GetPoolsByOwner returns all pools currently held by owner, ordered by id
func (k *Keeper) GetPoolsByOwner(ctx sdk.Context, owner sdk.AccAddress) []*types.Pool {
	prefix := types.OwnerIndexPrefix(owner)
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), prefix)
	defer iterator.Close()

	var pools []*types.Pool
	for ; iterator.Valid(); iterator.Next() {
		poolID := sdk.BigEndianToUint64(iterator.Key()[len(prefix):])
		pool, err := k.GetPool(ctx, poolID)
		if err != nil {
			continue
		}
		pools = append(pools, pool)
	}
	return pools
}

// GetPools returns up to limit pools starting at id start
func (k *Keeper) GetPools(ctx sdk.Context, start uint64, limit int) []*types.Pool {
	store := k.GetStore(ctx)
	iterator := store.Iterator(types.PoolKey(start), storetypes.PrefixEndBytes(types.PoolKeyPrefix))
	defer iterator.Close()

	var pools []*types.Pool
	for ; iterator.Valid(); iterator.Next() {
		if limit > 0 && len(pools) >= limit {
			break
		}
		var pool types.Pool
		if err := json.Unmarshal(iterator.Value(), &pool); err != nil {
			continue
		}
		pools = append(pools, &pool)
	}
	return pools
}

// TotalPools returns how many pool ids were ever assigned
func (k *Keeper) TotalPools(ctx sdk.Context) uint64 {
	return k.GetNextPoolID(ctx)
}
