package keeper

import (
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lockdeal/x/builder/types"
	collateraltypes "github.com/openalpha/lockdeal/x/collateral/types"
	providertypes "github.com/openalpha/lockdeal/x/provider/types"
)

// OnPoolReceived implements registry TransferReceiver. A collateral pool
// transferred to the builder with an encoded RebuildPayload attaches new
// refund pools to it and grows its backing; the pool then goes back to
// `from`. Any failure reverts the transfer that delivered it.
func (k *Keeper) OnPoolReceived(ctx sdk.Context, caller, operator, from sdk.AccAddress, poolID uint64, payload []byte) error {
	if !caller.Equals(k.registry.Address()) {
		return types.ErrInvalidLockDealNFT.Wrapf("caller %s", caller)
	}
	if len(payload) == 0 {
		return types.ErrEmptyBytesArray
	}
	if err := k.refund.ValidateCollateral(ctx, poolID); err != nil {
		return types.ErrInvalidCollateralProvider.Wrapf("pool %d: %s", poolID, err)
	}

	cmd, err := types.DecodeRebuildPayload(payload)
	if err != nil {
		return err
	}
	total, err := types.ValidateAllocations(cmd.Allocations, k.GetParams(ctx).MaxBatchSize)
	if err != nil {
		return err
	}
	if !total.Equal(cmd.TotalAmount) {
		return types.ErrAmountMismatch.Wrapf("allocations sum to %s, total is %s", total, cmd.TotalAmount)
	}

	collateralPool, err := k.registry.GetPool(ctx, poolID)
	if err != nil {
		return err
	}
	record, ok := k.collateral.GetRecord(ctx, poolID)
	if !ok {
		return types.ErrInvalidCollateralProvider.Wrapf("pool %d has no collateral record", poolID)
	}
	mainCoin := collateralPool.Token
	finishTime := collateralPool.Params[providertypes.ParamFinishTime]

	cacheCtx, write := ctx.CacheContext()
	if err := k.vault.DepositFrom(cacheCtx, from, record.Token, cmd.TotalAmount, cmd.TokenSignature); err != nil {
		return err
	}
	firstPoolID, err := k.createRefundPools(cacheCtx, record.Token, cmd.Allocations, finishTime, poolID)
	if err != nil {
		return err
	}
	extraMainCoin, err := k.collateral.Increase(cacheCtx, k.Address(), poolID, cmd.TotalAmount)
	if err != nil {
		return err
	}
	if extraMainCoin.IsPositive() {
		if err := k.vault.DepositFrom(cacheCtx, from, mainCoin, extraMainCoin, cmd.MainCoinSignature); err != nil {
			return errorsmod.Wrap(err, "main coin")
		}
	}
	if err := k.registry.TransferFrom(cacheCtx, k.Address(), k.Address(), from, poolID, nil); err != nil {
		return err
	}
	write()

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePoolsRebuilt,
			sdk.NewAttribute(types.AttributeKeyToken, record.Token),
			sdk.NewAttribute(types.AttributeKeyProvider, k.refund.Address().String()),
			sdk.NewAttribute(types.AttributeKeyCollateralPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyFirstPoolID, strconv.FormatUint(firstPoolID, 10)),
			sdk.NewAttribute(types.AttributeKeyCount, strconv.Itoa(len(cmd.Allocations))),
			sdk.NewAttribute(types.AttributeKeyTotalAmount, cmd.TotalAmount.String()),
			sdk.NewAttribute(types.AttributeKeyMainCoinAmount, extraMainCoin.String()),
			sdk.NewAttribute(types.AttributeKeyOperator, operator.String()),
		),
	)
	k.logger.Info("collateral rebuilt",
		"collateral_pool_id", poolID,
		"first_pool_id", firstPoolID,
		"count", len(cmd.Allocations),
		"main_coin", extraMainCoin.String(),
	)
	return nil
}

// RebuildCost returns the main coin `from` must provide when rebuilding
// collateralPoolID with totalAmount tokens.
func (k *Keeper) RebuildCost(ctx sdk.Context, collateralPoolID uint64, totalAmount math.Int) (math.Int, error) {
	if err := k.refund.ValidateCollateral(ctx, collateralPoolID); err != nil {
		return math.ZeroInt(), types.ErrInvalidCollateralProvider.Wrapf("pool %d: %s", collateralPoolID, err)
	}
	record, ok := k.collateral.GetRecord(ctx, collateralPoolID)
	if !ok {
		return math.ZeroInt(), types.ErrInvalidCollateralProvider.Wrapf("pool %d has no collateral record", collateralPoolID)
	}
	return collateraltypes.MainCoinFor(totalAmount, record.RateToWei)
}
