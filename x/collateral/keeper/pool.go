package keeper

import (
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lockdeal/x/collateral/types"
	providertypes "github.com/openalpha/lockdeal/x/provider/types"
	registrytypes "github.com/openalpha/lockdeal/x/registry/types"
)

// CreateCollateralPool deposits mainCoinAmount of mainCoin from `from` and
// opens a collateral pool for owner backing refunds of token at rate.
func (k *Keeper) CreateCollateralPool(
	ctx sdk.Context,
	from, owner sdk.AccAddress,
	mainCoin, token string,
	mainCoinAmount, finishTime, rate math.Int,
	sig []byte,
) (uint64, error) {
	params := []math.Int{mainCoinAmount, finishTime}
	if err := validate(params, token, rate, blockTime(ctx)); err != nil {
		return 0, err
	}
	if err := k.vault.DepositFrom(ctx, from, mainCoin, mainCoinAmount, sig); err != nil {
		return 0, err
	}
	return k.createPool(ctx, owner, mainCoin, token, params, rate)
}

// RegisterCollateralPool opens a collateral pool whose main coin the caller
// already deposited. Only allow-listed modules may use it.
func (k *Keeper) RegisterCollateralPool(
	ctx sdk.Context,
	caller, owner sdk.AccAddress,
	mainCoin, token string,
	mainCoinAmount, finishTime, rate math.Int,
) (uint64, error) {
	if !k.registry.IsApproved(ctx, caller) {
		return 0, types.ErrUnauthorized.Wrapf("%s is not an approved module", caller)
	}
	params := []math.Int{mainCoinAmount, finishTime}
	if err := validate(params, token, rate, blockTime(ctx)); err != nil {
		return 0, err
	}
	return k.createPool(ctx, owner, mainCoin, token, params, rate)
}

func validate(params []math.Int, token string, rate, now math.Int) error {
	if token == "" {
		return types.ErrInvalidToken
	}
	if rate.IsNil() || !rate.IsPositive() {
		return types.ErrInvalidRate
	}
	return providertypes.ValidateSchedule(providertypes.KindDeal, params, now)
}

func (k *Keeper) createPool(ctx sdk.Context, owner sdk.AccAddress, mainCoin, token string, params []math.Int, rate math.Int) (uint64, error) {
	poolID, err := k.registry.MintPool(ctx, k.Address(), owner, mainCoin, params)
	if err != nil {
		return 0, err
	}
	k.SetRecord(ctx, types.CollateralRecord{
		PoolID:         poolID,
		RateToWei:      rate,
		Token:          token,
		RefundedTokens: math.ZeroInt(),
	})

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCollateralCreated,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyMainCoin, mainCoin),
			sdk.NewAttribute(types.AttributeKeyToken, token),
			sdk.NewAttribute(types.AttributeKeyMainCoinDiff, params[providertypes.ParamAmount].String()),
			sdk.NewAttribute(types.AttributeKeyRate, rate.String()),
		),
	)
	return poolID, nil
}

func (k *Keeper) getCollateral(ctx sdk.Context, poolID uint64) (*registrytypes.Pool, types.CollateralRecord, error) {
	pool, err := k.registry.GetPool(ctx, poolID)
	if err != nil {
		return nil, types.CollateralRecord{}, err
	}
	if !pool.HasProvider(k.Address()) {
		return nil, types.CollateralRecord{}, types.ErrNotCollateralPool.Wrapf("pool %d provider %s", poolID, pool.Provider)
	}
	record, ok := k.GetRecord(ctx, poolID)
	if !ok {
		return nil, types.CollateralRecord{}, types.ErrNotCollateralPool.Wrapf("pool %d has no record", poolID)
	}
	return pool, record, nil
}

// Increase grows the main coin backing of a collateral pool by the value of
// extraTokenAmount at the pool's rate, rounded down. The caller must already
// hold that main coin in custody; the added amount is returned.
func (k *Keeper) Increase(ctx sdk.Context, caller sdk.AccAddress, poolID uint64, extraTokenAmount math.Int) (math.Int, error) {
	if !k.registry.IsApproved(ctx, caller) {
		return math.ZeroInt(), types.ErrUnauthorized.Wrapf("%s is not an approved module", caller)
	}
	pool, record, err := k.getCollateral(ctx, poolID)
	if err != nil {
		return math.ZeroInt(), err
	}

	extraMainCoin, err := types.MainCoinFor(extraTokenAmount, record.RateToWei)
	if err != nil {
		return math.ZeroInt(), err
	}
	params := registrytypes.CopyParams(pool.Params)
	params[providertypes.ParamAmount], err = params[providertypes.ParamAmount].SafeAdd(extraMainCoin)
	if err != nil {
		return math.ZeroInt(), types.ErrInvalidAmount.Wrapf("pool %d: %s", poolID, err)
	}
	if err := k.registry.SetPoolParams(ctx, k.Address(), poolID, params); err != nil {
		return math.ZeroInt(), err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCollateralIncreased,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyTokenAmount, extraTokenAmount.String()),
			sdk.NewAttribute(types.AttributeKeyMainCoinDiff, extraMainCoin.String()),
			sdk.NewAttribute(types.AttributeKeyRemaining, params[providertypes.ParamAmount].String()),
		),
	)
	return extraMainCoin, nil
}

// Swap takes tokenAmount of refunded tokens into the collateral pool and
// frees their main coin value. It is only possible before the collateral
// finish time. The returned main coin is still in custody; the caller
// releases it.
func (k *Keeper) Swap(ctx sdk.Context, caller sdk.AccAddress, poolID uint64, tokenAmount math.Int) (math.Int, error) {
	if !k.registry.IsApproved(ctx, caller) {
		return math.ZeroInt(), types.ErrUnauthorized.Wrapf("%s is not an approved module", caller)
	}
	if tokenAmount.IsNil() || !tokenAmount.IsPositive() {
		return math.ZeroInt(), types.ErrZeroAmount
	}
	pool, record, err := k.getCollateral(ctx, poolID)
	if err != nil {
		return math.ZeroInt(), err
	}
	if blockTime(ctx).GTE(pool.Params[providertypes.ParamFinishTime]) {
		return math.ZeroInt(), types.ErrRefundWindowClosed.Wrapf("pool %d", poolID)
	}

	mainCoin, err := types.MainCoinFor(tokenAmount, record.RateToWei)
	if err != nil {
		return math.ZeroInt(), err
	}
	if mainCoin.GT(pool.Amount()) {
		return math.ZeroInt(), types.ErrInsufficientCollateral.Wrapf("pool %d holds %s, refund needs %s", poolID, pool.Amount(), mainCoin)
	}
	params := registrytypes.CopyParams(pool.Params)
	params[providertypes.ParamAmount] = params[providertypes.ParamAmount].Sub(mainCoin)
	if err := k.registry.SetPoolParams(ctx, k.Address(), poolID, params); err != nil {
		return math.ZeroInt(), err
	}
	refunded, err := record.RefundedTokens.SafeAdd(tokenAmount)
	if err != nil {
		return math.ZeroInt(), types.ErrInvalidAmount.Wrapf("pool %d refunded tokens: %s", poolID, err)
	}
	record.RefundedTokens = refunded
	k.SetRecord(ctx, record)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCollateralSwapped,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyTokenAmount, tokenAmount.String()),
			sdk.NewAttribute(types.AttributeKeyMainCoinDiff, mainCoin.String()),
		),
	)
	return mainCoin, nil
}

// ClaimRefundedTokens pays out the tokens collected through refunds to the
// collateral pool owner once the pool finished.
func (k *Keeper) ClaimRefundedTokens(ctx sdk.Context, sender sdk.AccAddress, poolID uint64) (math.Int, error) {
	pool, record, err := k.getCollateral(ctx, poolID)
	if err != nil {
		return math.ZeroInt(), err
	}
	owner := pool.OwnerAddress()
	if !owner.Equals(sender) {
		return math.ZeroInt(), types.ErrNotOwner.Wrapf("%s does not own pool %d", sender, poolID)
	}
	if blockTime(ctx).LT(pool.Params[providertypes.ParamFinishTime]) {
		return math.ZeroInt(), types.ErrNotFinished.Wrapf("pool %d", poolID)
	}
	claimed := record.RefundedTokens
	if claimed.IsZero() {
		return math.ZeroInt(), types.ErrNothingToClaim.Wrapf("pool %d", poolID)
	}
	record.RefundedTokens = math.ZeroInt()
	k.SetRecord(ctx, record)
	if err := k.vault.Release(ctx, owner, record.Token, claimed); err != nil {
		return math.ZeroInt(), err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRefundClaimed,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyToken, record.Token),
			sdk.NewAttribute(types.AttributeKeyTokenAmount, claimed.String()),
		),
	)
	return claimed, nil
}

// Releasable implements registry PoolProvider with the Deal rule
func (k *Keeper) Releasable(ctx sdk.Context, pool registrytypes.Pool) math.Int {
	return providertypes.DealReleasable(pool.Params, blockTime(ctx))
}

// Withdraw implements registry PoolProvider
func (k *Keeper) Withdraw(ctx sdk.Context, pool registrytypes.Pool, amount math.Int) (math.Int, error) {
	if !pool.HasProvider(k.Address()) {
		return math.ZeroInt(), types.ErrNotCollateralPool.Wrapf("pool %d provider %s", pool.PoolID, pool.Provider)
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
			types.EventTypeCollateralWithdraw,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(pool.PoolID, 10)),
			sdk.NewAttribute(types.AttributeKeyMainCoinDiff, released.String()),
			sdk.NewAttribute(types.AttributeKeyRemaining, params[providertypes.ParamAmount].String()),
		),
	)
	return released, nil
}
