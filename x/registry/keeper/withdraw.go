package keeper

import (
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lockdeal/x/registry/types"
)

// Withdraw routes a withdrawal through the pool's provider and instructs the
// vault to release the freed value to the pool owner.
func (k *Keeper) Withdraw(ctx sdk.Context, sender sdk.AccAddress, poolID uint64, amount math.Int) (math.Int, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return math.ZeroInt(), err
	}
	owner := pool.OwnerAddress()
	if !k.isApprovedOrOwner(ctx, sender, owner, poolID) {
		return math.ZeroInt(), types.ErrNotOwnerOrApproved.Wrapf("%s cannot withdraw pool %d", sender, poolID)
	}
	provider, ok := k.GetProvider(pool.Provider)
	if !ok {
		return math.ZeroInt(), types.ErrProviderNotRegistered.Wrapf("pool %d provider %s", poolID, pool.Provider)
	}

	released, err := provider.Withdraw(ctx, *pool, amount)
	if err != nil {
		return math.ZeroInt(), err
	}
	if err := k.vault.Release(ctx, owner, pool.Token, released); err != nil {
		return math.ZeroInt(), err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePoolWithdrawn,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyOwner, owner.String()),
			sdk.NewAttribute(types.AttributeKeyToken, pool.Token),
			sdk.NewAttribute(types.AttributeKeyAmount, released.String()),
		),
	)
	k.logger.Debug("pool withdrawn", "pool_id", poolID, "provider", provider.Name(), "amount", released.String())
	return released, nil
}
