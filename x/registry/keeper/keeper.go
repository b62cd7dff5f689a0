package keeper

import (
	"encoding/json"
	"strconv"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lockdeal/x/registry/types"
)

// Keeper owns the canonical pool table and the provider allowlist
type Keeper struct {
	storeKey  storetypes.StoreKey
	vault     types.VaultKeeper
	providers map[string]types.PoolProvider
	receivers map[string]types.TransferReceiver
	authority string
	logger    log.Logger
}

// NewKeeper creates a new registry keeper
func NewKeeper(
	storeKey storetypes.StoreKey,
	vault types.VaultKeeper,
	authority string,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		storeKey:  storeKey,
		vault:     vault,
		providers: make(map[string]types.PoolProvider),
		receivers: make(map[string]types.TransferReceiver),
		authority: authority,
		logger:    logger.With("module", "x/registry"),
	}
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetAuthority returns the allowlist administrator
func (k *Keeper) GetAuthority() string {
	return k.authority
}

// Address returns the registry's own identity
func (k *Keeper) Address() sdk.AccAddress {
	return types.ModuleAddress()
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

// RegisterProvider makes a provider reachable for withdraw routing
func (k *Keeper) RegisterProvider(p types.PoolProvider) {
	k.providers[p.Address().String()] = p
}

// GetProvider returns the provider registered under addr
func (k *Keeper) GetProvider(addr string) (types.PoolProvider, bool) {
	p, ok := k.providers[addr]
	return p, ok
}

// RegisterReceiver installs the transfer hook of addr
func (k *Keeper) RegisterReceiver(addr sdk.AccAddress, r types.TransferReceiver) {
	k.receivers[addr.String()] = r
}

// ============ Pool Operations ============

// GetNextPoolID returns the id the next created pool will receive
func (k *Keeper) GetNextPoolID(ctx sdk.Context) uint64 {
	bz := k.GetStore(ctx).Get(types.NextPoolIDKey)
	if bz == nil {
		return 0
	}
	return sdk.BigEndianToUint64(bz)
}

func (k *Keeper) setNextPoolID(ctx sdk.Context, id uint64) {
	k.GetStore(ctx).Set(types.NextPoolIDKey, sdk.Uint64ToBigEndian(id))
}

// SetPool saves a pool to the store
func (k *Keeper) SetPool(ctx sdk.Context, pool *types.Pool) {
	bz, _ := json.Marshal(pool)
	k.GetStore(ctx).Set(types.PoolKey(pool.PoolID), bz)
}

// GetPool retrieves a pool from the store
func (k *Keeper) GetPool(ctx sdk.Context, poolID uint64) (*types.Pool, error) {
	bz := k.GetStore(ctx).Get(types.PoolKey(poolID))
	if bz == nil {
		return nil, types.ErrNotFound.Wrapf("pool %d", poolID)
	}
	var pool types.Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return nil, types.ErrNotFound.Wrapf("pool %d: %s", poolID, err)
	}
	return &pool, nil
}

// MintPool registers a new pool. Only allow-listed providers may call it; the
// caller becomes the pool's provider.
func (k *Keeper) MintPool(ctx sdk.Context, caller, owner sdk.AccAddress, token string, params []math.Int) (uint64, error) {
	if !k.IsApproved(ctx, caller) {
		return 0, types.ErrUnauthorized.Wrapf("%s is not an approved provider", caller)
	}
	if owner.Empty() {
		return 0, types.ErrZeroAddress.Wrap("owner")
	}
	if token == "" {
		return 0, types.ErrZeroAddress.Wrap("token")
	}
	if err := types.ValidateParams(params); err != nil {
		return 0, err
	}

	poolID := k.GetNextPoolID(ctx)
	pool := types.NewPool(poolID, caller, owner, token, params)
	k.SetPool(ctx, pool)
	k.GetStore(ctx).Set(types.OwnerIndexKey(owner, poolID), []byte{0x01})
	k.setNextPoolID(ctx, poolID+1)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePoolCreated,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyProvider, pool.Provider),
			sdk.NewAttribute(types.AttributeKeyOwner, pool.Owner),
			sdk.NewAttribute(types.AttributeKeyToken, token),
			sdk.NewAttribute(types.AttributeKeyParams, formatParams(params)),
		),
	)

	return poolID, nil
}

// SetPoolParams replaces the params of a pool. Only the pool's own provider
// may do this, and the params length cannot change.
func (k *Keeper) SetPoolParams(ctx sdk.Context, caller sdk.AccAddress, poolID uint64, params []math.Int) error {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return err
	}
	if !k.IsApproved(ctx, caller) {
		return types.ErrUnauthorized.Wrapf("%s is not an approved provider", caller)
	}
	if !pool.HasProvider(caller) {
		return types.ErrInvalidPoolProvider.Wrapf("pool %d belongs to %s", poolID, pool.Provider)
	}
	if len(params) != len(pool.Params) {
		return types.ErrInvalidParams.Wrapf("expected %d params, got %d", len(pool.Params), len(params))
	}
	if err := types.ValidateParams(params); err != nil {
		return err
	}

	pool.Params = types.CopyParams(params)
	k.SetPool(ctx, pool)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePoolUpdated,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyParams, formatParams(params)),
		),
	)
	return nil
}

func formatParams(params []math.Int) string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = p.String()
	}
	bz, _ := json.Marshal(out)
	return string(bz)
}
