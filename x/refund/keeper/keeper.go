package keeper

import (
	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lockdeal/x/refund/types"
)

// Keeper is the refund ledger. Each refund pool holds tokens under the Deal
// rule and is linked once to the collateral pool guaranteeing it.
type Keeper struct {
	storeKey   storetypes.StoreKey
	registry   types.RegistryKeeper
	collateral types.CollateralKeeper
	vault      types.VaultKeeper
	logger     log.Logger
}

// NewKeeper creates a new refund keeper
func NewKeeper(
	storeKey storetypes.StoreKey,
	registry types.RegistryKeeper,
	collateral types.CollateralKeeper,
	vault types.VaultKeeper,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		storeKey:   storeKey,
		registry:   registry,
		collateral: collateral,
		vault:      vault,
		logger:     logger.With("module", "x/refund"),
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

// Address is the provider identity recorded on refund pools
func (k *Keeper) Address() sdk.AccAddress {
	return types.ModuleAddress()
}

// Name implements registry PoolProvider
func (k *Keeper) Name() string {
	return "refundprovider"
}

func (k *Keeper) setLink(ctx sdk.Context, refundPoolID, collateralPoolID uint64) {
	store := k.GetStore(ctx)
	store.Set(types.LinkKey(refundPoolID), sdk.Uint64ToBigEndian(collateralPoolID))
	store.Set(types.CollateralLinkKey(collateralPoolID, refundPoolID), []byte{0x01})
}

// PoolIDToCollateralID returns the collateral pool guaranteeing
// refundPoolID, or 0 when it is not a refund pool.
func (k *Keeper) PoolIDToCollateralID(ctx sdk.Context, refundPoolID uint64) uint64 {
	bz := k.GetStore(ctx).Get(types.LinkKey(refundPoolID))
	if bz == nil {
		return 0
	}
	return sdk.BigEndianToUint64(bz)
}

// IsRefundPool reports whether refundPoolID has a collateral link
func (k *Keeper) IsRefundPool(ctx sdk.Context, refundPoolID uint64) bool {
	return k.GetStore(ctx).Has(types.LinkKey(refundPoolID))
}

// GetRefundPools lists the refund pools linked to a collateral pool
func (k *Keeper) GetRefundPools(ctx sdk.Context, collateralPoolID uint64) []uint64 {
	prefix := types.CollateralLinksPrefix(collateralPoolID)
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), prefix)
	defer iterator.Close()

	var ids []uint64
	for ; iterator.Valid(); iterator.Next() {
		ids = append(ids, sdk.BigEndianToUint64(iterator.Key()[len(prefix):]))
	}
	return ids
}

func blockTime(ctx sdk.Context) math.Int {
	return math.NewInt(ctx.BlockTime().Unix())
}
