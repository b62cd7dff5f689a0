package keeper

import (
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lockdeal/x/builder/types"
	collateraltypes "github.com/openalpha/lockdeal/x/collateral/types"
)

// BuildMassPools takes custody of the batch total from sender once and creates
// one pool per allocation, in order, with params [amount, schedule...]. The
// whole batch commits or none of it does. It returns the first pool id; the
// rest follow sequentially.
func (k *Keeper) BuildMassPools(
	ctx sdk.Context,
	sender sdk.AccAddress,
	providerSelector string,
	token string,
	allocations []types.Allocation,
	schedule []math.Int,
	sig []byte,
) (uint64, error) {
	total, err := types.ValidateAllocations(allocations, k.GetParams(ctx).MaxBatchSize)
	if err != nil {
		return 0, err
	}
	if token == "" {
		return 0, types.ErrZeroAddress.Wrap("token")
	}
	provider, ok := k.GetProvider(providerSelector)
	if !ok {
		return 0, types.ErrInvalidProvider.Wrapf("%q", providerSelector)
	}
	if len(schedule)+1 != provider.ParamsLen() {
		return 0, types.ErrInvalidParams.Wrapf("%s takes %d schedule params, got %d", provider.Name(), provider.ParamsLen()-1, len(schedule))
	}

	cacheCtx, write := ctx.CacheContext()
	if err := k.vault.DepositFrom(cacheCtx, sender, token, total, sig); err != nil {
		return 0, err
	}
	firstPoolID := k.registry.GetNextPoolID(cacheCtx)
	for i, a := range allocations {
		params := append([]math.Int{a.Amount}, schedule...)
		if _, err := provider.RegisterPool(cacheCtx, k.Address(), a.User, token, params); err != nil {
			return 0, errorsmod.Wrapf(err, "allocation %d", i)
		}
	}
	write()

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeMassPoolsBuilt,
			sdk.NewAttribute(types.AttributeKeyToken, token),
			sdk.NewAttribute(types.AttributeKeyProvider, provider.Address().String()),
			sdk.NewAttribute(types.AttributeKeyFirstPoolID, strconv.FormatUint(firstPoolID, 10)),
			sdk.NewAttribute(types.AttributeKeyCount, strconv.Itoa(len(allocations))),
			sdk.NewAttribute(types.AttributeKeyTotalAmount, total.String()),
		),
	)
	k.logger.Info("mass pools built", "provider", provider.Name(), "first_pool_id", firstPoolID, "count", len(allocations))
	return firstPoolID, nil
}

// BuildRefundMassPools opens a collateral pool for sender holding
// mainCoinAmount, then one refund pool per allocation linked to it. The rate
// is floor(mainCoinAmount * 10^21 / total). Refund pools and the collateral
// share finishTime.
func (k *Keeper) BuildRefundMassPools(
	ctx sdk.Context,
	sender sdk.AccAddress,
	token, mainCoin string,
	allocations []types.Allocation,
	mainCoinAmount, finishTime math.Int,
	tokenSig, mainCoinSig []byte,
) (collateralPoolID, firstRefundPoolID uint64, err error) {
	total, err := types.ValidateAllocations(allocations, k.GetParams(ctx).MaxBatchSize)
	if err != nil {
		return 0, 0, err
	}
	if token == "" || mainCoin == "" {
		return 0, 0, types.ErrZeroAddress.Wrap("token")
	}
	if mainCoinAmount.IsNil() || !mainCoinAmount.IsPositive() {
		return 0, 0, types.ErrZeroAmount.Wrap("main coin amount")
	}
	rate, err := collateraltypes.RateFor(mainCoinAmount, total)
	if err != nil {
		return 0, 0, err
	}

	cacheCtx, write := ctx.CacheContext()
	if err := k.vault.DepositFrom(cacheCtx, sender, token, total, tokenSig); err != nil {
		return 0, 0, err
	}
	if err := k.vault.DepositFrom(cacheCtx, sender, mainCoin, mainCoinAmount, mainCoinSig); err != nil {
		return 0, 0, err
	}
	collateralPoolID, err = k.collateral.RegisterCollateralPool(cacheCtx, k.Address(), sender, mainCoin, token, mainCoinAmount, finishTime, rate)
	if err != nil {
		return 0, 0, err
	}
	firstRefundPoolID, err = k.createRefundPools(cacheCtx, token, allocations, finishTime, collateralPoolID)
	if err != nil {
		return 0, 0, err
	}
	write()

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRefundMassPoolsBuilt,
			sdk.NewAttribute(types.AttributeKeyToken, token),
			sdk.NewAttribute(types.AttributeKeyProvider, k.refund.Address().String()),
			sdk.NewAttribute(types.AttributeKeyCollateralPoolID, strconv.FormatUint(collateralPoolID, 10)),
			sdk.NewAttribute(types.AttributeKeyFirstPoolID, strconv.FormatUint(firstRefundPoolID, 10)),
			sdk.NewAttribute(types.AttributeKeyCount, strconv.Itoa(len(allocations))),
			sdk.NewAttribute(types.AttributeKeyTotalAmount, total.String()),
			sdk.NewAttribute(types.AttributeKeyMainCoinAmount, mainCoinAmount.String()),
		),
	)
	return collateralPoolID, firstRefundPoolID, nil
}

func (k *Keeper) createRefundPools(
	ctx sdk.Context,
	token string,
	allocations []types.Allocation,
	finishTime math.Int,
	collateralPoolID uint64,
) (uint64, error) {
	firstPoolID := k.registry.GetNextPoolID(ctx)
	for i, a := range allocations {
		if _, err := k.refund.RegisterRefundPool(ctx, k.Address(), a.User, token, a.Amount, finishTime, collateralPoolID); err != nil {
			return 0, errorsmod.Wrapf(err, "allocation %d", i)
		}
	}
	return firstPoolID, nil
}
