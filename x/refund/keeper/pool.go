package keeper

import (
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	providertypes "github.com/openalpha/lockdeal/x/provider/types"
	"github.com/openalpha/lockdeal/x/refund/types"
	registrytypes "github.com/openalpha/lockdeal/x/registry/types"
)

// CreateRefundPool deposits amount of token from `from` and opens a refund
// pool for owner guaranteed by collateralPoolID.
func (k *Keeper) CreateRefundPool(
	ctx sdk.Context,
	from, owner sdk.AccAddress,
	token string,
	amount, finishTime math.Int,
	collateralPoolID uint64,
	sig []byte,
) (uint64, error) {
	params := []math.Int{amount, finishTime}
	if err := k.validate(ctx, token, params, collateralPoolID); err != nil {
		return 0, err
	}
	if err := k.vault.DepositFrom(ctx, from, token, amount, sig); err != nil {
		return 0, err
	}
	return k.createPool(ctx, owner, token, params, collateralPoolID)
}

// RegisterRefundPool opens a refund pool whose tokens the caller already
// deposited. Only allow-listed modules may use it.
func (k *Keeper) RegisterRefundPool(
	ctx sdk.Context,
	caller, owner sdk.AccAddress,
	token string,
	amount, finishTime math.Int,
	collateralPoolID uint64,
) (uint64, error) {
	if !k.registry.IsApproved(ctx, caller) {
		return 0, types.ErrUnauthorized.Wrapf("%s is not an approved module", caller)
	}
	params := []math.Int{amount, finishTime}
	if err := k.validate(ctx, token, params, collateralPoolID); err != nil {
		return 0, err
	}
	return k.createPool(ctx, owner, token, params, collateralPoolID)
}

// ValidateCollateral checks that collateralPoolID was created by the
// collateral ledger.
func (k *Keeper) ValidateCollateral(ctx sdk.Context, collateralPoolID uint64) error {
	pool, err := k.registry.GetPool(ctx, collateralPoolID)
	if err != nil {
		return types.ErrInvalidCollateralProvider.Wrapf("collateral pool %d: %s", collateralPoolID, err)
	}
	if !pool.HasProvider(k.collateral.Address()) {
		return types.ErrInvalidCollateralProvider.Wrapf("pool %d provider %s", collateralPoolID, pool.Provider)
	}
	return nil
}

func (k *Keeper) validate(ctx sdk.Context, token string, params []math.Int, collateralPoolID uint64) error {
	if err := k.ValidateCollateral(ctx, collateralPoolID); err != nil {
		return err
	}
	if record, ok := k.collateral.GetRecord(ctx, collateralPoolID); ok && record.Token != token {
		return types.ErrTokenMismatch.Wrapf("collateral %d backs %s, not %s", collateralPoolID, record.Token, token)
	}
	return providertypes.ValidateSchedule(providertypes.KindDeal, params, blockTime(ctx))
}

func (k *Keeper) createPool(ctx sdk.Context, owner sdk.AccAddress, token string, params []math.Int, collateralPoolID uint64) (uint64, error) {
	poolID, err := k.registry.MintPool(ctx, k.Address(), owner, token, params)
	if err != nil {
		return 0, err
	}
	k.setLink(ctx, poolID, collateralPoolID)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRefundPoolCreated,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyCollateralPoolID, strconv.FormatUint(collateralPoolID, 10)),
			sdk.NewAttribute(types.AttributeKeyOwner, owner.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, params[providertypes.ParamAmount].String()),
		),
	)
	return poolID, nil
}

// Refund hands the remaining tokens of a refund pool to its collateral and
// pays the owner their main coin value. It closes the refund pool.
func (k *Keeper) Refund(ctx sdk.Context, sender sdk.AccAddress, poolID uint64) (math.Int, error) {
	pool, err := k.registry.GetPool(ctx, poolID)
	if err != nil {
		return math.ZeroInt(), err
	}
	if !pool.HasProvider(k.Address()) || !k.IsRefundPool(ctx, poolID) {
		return math.ZeroInt(), types.ErrNotRefundPool.Wrapf("pool %d", poolID)
	}
	owner := pool.OwnerAddress()
	if !k.canAct(ctx, sender, owner, poolID) {
		return math.ZeroInt(), types.ErrNotOwnerOrApproved.Wrapf("%s cannot refund pool %d", sender, poolID)
	}
	if pool.IsClosed() {
		return math.ZeroInt(), providertypes.ErrPoolClosed.Wrapf("pool %d", poolID)
	}

	collateralPoolID := k.PoolIDToCollateralID(ctx, poolID)
	collateralPool, err := k.registry.GetPool(ctx, collateralPoolID)
	if err != nil {
		return math.ZeroInt(), err
	}
	tokens := pool.Amount()
	mainCoin, err := k.collateral.Swap(ctx, k.Address(), collateralPoolID, tokens)
	if err != nil {
		return math.ZeroInt(), err
	}

	params := registrytypes.CopyParams(pool.Params)
	params[providertypes.ParamAmount] = math.ZeroInt()
	if err := k.registry.SetPoolParams(ctx, k.Address(), poolID, params); err != nil {
		return math.ZeroInt(), err
	}
	if err := k.vault.Release(ctx, owner, collateralPool.Token, mainCoin); err != nil {
		return math.ZeroInt(), err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRefund,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyCollateralPoolID, strconv.FormatUint(collateralPoolID, 10)),
			sdk.NewAttribute(types.AttributeKeyAmount, tokens.String()),
			sdk.NewAttribute(types.AttributeKeyMainCoin, mainCoin.String()),
		),
	)
	return mainCoin, nil
}

func (k *Keeper) canAct(ctx sdk.Context, sender, owner sdk.AccAddress, poolID uint64) bool {
	if sender.Equals(owner) {
		return true
	}
	if approved := k.registry.GetApproved(ctx, poolID); approved != nil && sender.Equals(approved) {
		return true
	}
	return k.registry.IsApprovedForAll(ctx, owner, sender)
}

// Releasable implements registry PoolProvider with the Deal rule
func (k *Keeper) Releasable(ctx sdk.Context, pool registrytypes.Pool) math.Int {
	return providertypes.DealReleasable(pool.Params, blockTime(ctx))
}

// Withdraw implements registry PoolProvider
func (k *Keeper) Withdraw(ctx sdk.Context, pool registrytypes.Pool, amount math.Int) (math.Int, error) {
	if !pool.HasProvider(k.Address()) {
		return math.ZeroInt(), types.ErrNotRefundPool.Wrapf("pool %d provider %s", pool.PoolID, pool.Provider)
	}
	released, params, err := providertypes.SettleWithdraw(pool, k.Releasable(ctx, pool), amount)
	if err != nil {
		return math.ZeroInt(), err
	}
	if err := k.registry.SetPoolParams(ctx, k.Address(), pool.PoolID, params); err != nil {
		return math.ZeroInt(), err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRefundWithdraw,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(pool.PoolID, 10)),
			sdk.NewAttribute(types.AttributeKeyAmount, released.String()),
			sdk.NewAttribute(types.AttributeKeyRemaining, params[providertypes.ParamAmount].String()),
		),
	)
	return released, nil
}
