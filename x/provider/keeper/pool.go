package keeper

import (
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lockdeal/x/provider/types"
	registrytypes "github.com/openalpha/lockdeal/x/registry/types"
)

// CreatePool takes custody of params[0] of token from `from` and registers a
// pool owned by owner.
func (k *Keeper) CreatePool(ctx sdk.Context, from, owner sdk.AccAddress, token string, params []math.Int, sig []byte) (uint64, error) {
	if err := types.ValidateSchedule(k.kind, params, blockTime(ctx)); err != nil {
		return 0, err
	}
	if err := k.vault.DepositFrom(ctx, from, token, params[types.ParamAmount], sig); err != nil {
		return 0, err
	}
	return k.createPool(ctx, owner, token, params)
}

// RegisterPool registers a pool whose value was already deposited by the
// caller. Only allow-listed modules may use it.
func (k *Keeper) RegisterPool(ctx sdk.Context, caller, owner sdk.AccAddress, token string, params []math.Int) (uint64, error) {
	if !k.registry.IsApproved(ctx, caller) {
		return 0, types.ErrUnauthorized.Wrapf("%s is not an approved module", caller)
	}
	if err := types.ValidateSchedule(k.kind, params, blockTime(ctx)); err != nil {
		return 0, err
	}
	return k.createPool(ctx, owner, token, params)
}

func (k *Keeper) createPool(ctx sdk.Context, owner sdk.AccAddress, token string, params []math.Int) (uint64, error) {
	poolID, err := k.registry.MintPool(ctx, k.Address(), owner, token, params)
	if err != nil {
		return 0, err
	}
	if k.kind == types.KindTimed {
		k.setStartAmount(ctx, poolID, params[types.ParamAmount])
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProviderPoolCreated,
			sdk.NewAttribute(types.AttributeKeyKind, k.kind.String()),
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyOwner, owner.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, params[types.ParamAmount].String()),
		),
	)
	return poolID, nil
}

// Releasable implements registry PoolProvider
func (k *Keeper) Releasable(ctx sdk.Context, pool registrytypes.Pool) math.Int {
	return k.releasable(ctx, pool, blockTime(ctx))
}

func (k *Keeper) releasable(ctx sdk.Context, pool registrytypes.Pool, now math.Int) math.Int {
	if len(pool.Params) != k.ParamsLen() {
		return math.ZeroInt()
	}
	switch k.kind {
	case types.KindLock:
		if !types.Unlocked(pool.Params, now) {
			return math.ZeroInt()
		}
		inner := pool
		inner.Params = pool.Params[:k.inner.ParamsLen()]
		return k.inner.releasable(ctx, inner, now)
	case types.KindTimed:
		// the lock gate is the vesting start, stored in the same slot
		if !types.Unlocked(pool.Params, now) {
			return math.ZeroInt()
		}
		return types.LinearReleasable(pool.Params, k.GetStartAmount(ctx, pool.PoolID), now)
	default:
		return types.DealReleasable(pool.Params, now)
	}
}

// Withdraw implements registry PoolProvider. A zero amount withdraws
// everything currently releasable.
func (k *Keeper) Withdraw(ctx sdk.Context, pool registrytypes.Pool, amount math.Int) (math.Int, error) {
	if !pool.HasProvider(k.Address()) {
		return math.ZeroInt(), types.ErrInvalidPoolProvider.Wrapf("pool %d provider %s", pool.PoolID, pool.Provider)
	}
	released, params, err := types.SettleWithdraw(pool, k.Releasable(ctx, pool), amount)
	if err != nil {
		return math.ZeroInt(), err
	}
	if err := k.registry.SetPoolParams(ctx, k.Address(), pool.PoolID, params); err != nil {
		return math.ZeroInt(), err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProviderWithdraw,
			sdk.NewAttribute(types.AttributeKeyKind, k.kind.String()),
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(pool.PoolID, 10)),
			sdk.NewAttribute(types.AttributeKeyAmount, released.String()),
			sdk.NewAttribute(types.AttributeKeyRemaining, params[types.ParamAmount].String()),
		),
	)
	return released, nil
}
