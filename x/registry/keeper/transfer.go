package keeper

import (
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lockdeal/x/registry/types"
)

// TransferFrom moves poolID from `from` to `to`. sender must be the owner, the
// pool's approved delegate or an operator of the owner. When `to` registered a
// TransferReceiver it is notified with the payload after ownership moved, and a
// receiver error fails the whole transfer.
func (k *Keeper) TransferFrom(ctx sdk.Context, sender, from, to sdk.AccAddress, poolID uint64, payload []byte) error {
	if to.Empty() {
		return types.ErrZeroAddress.Wrap("recipient")
	}
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return err
	}
	owner := pool.OwnerAddress()
	if !owner.Equals(from) {
		return types.ErrNotOwnerOrApproved.Wrapf("%s does not own pool %d", from, poolID)
	}
	if !k.isApprovedOrOwner(ctx, sender, owner, poolID) {
		return types.ErrNotOwnerOrApproved.Wrapf("%s cannot move pool %d", sender, poolID)
	}

	// the receiver runs against the staged transfer; nothing lands unless it accepts
	cacheCtx, write := ctx.CacheContext()
	store := k.GetStore(cacheCtx)
	store.Delete(types.PoolApprovalKey(poolID))
	store.Delete(types.OwnerIndexKey(owner, poolID))
	store.Set(types.OwnerIndexKey(to, poolID), []byte{0x01})
	pool.Owner = to.String()
	k.SetPool(cacheCtx, pool)

	cacheCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePoolTransferred,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyFrom, from.String()),
			sdk.NewAttribute(types.AttributeKeyTo, to.String()),
		),
	)

	if receiver, ok := k.receivers[to.String()]; ok {
		if err := receiver.OnPoolReceived(cacheCtx, k.Address(), sender, from, poolID, payload); err != nil {
			return err
		}
	}
	write()
	return nil
}

// Approve sets the single delegate allowed to move poolID. An empty spender
// clears it.
func (k *Keeper) Approve(ctx sdk.Context, sender, spender sdk.AccAddress, poolID uint64) error {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return err
	}
	owner := pool.OwnerAddress()
	if !owner.Equals(sender) && !k.IsApprovedForAll(ctx, owner, sender) {
		return types.ErrNotOwnerOrApproved.Wrapf("%s cannot approve pool %d", sender, poolID)
	}
	if owner.Equals(spender) {
		return types.ErrSelfApproval
	}

	store := k.GetStore(ctx)
	if spender.Empty() {
		store.Delete(types.PoolApprovalKey(poolID))
	} else {
		store.Set(types.PoolApprovalKey(poolID), spender)
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePoolApproval,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyOwner, owner.String()),
			sdk.NewAttribute(types.AttributeKeySpender, spender.String()),
		),
	)
	return nil
}

// GetApproved returns the delegate of poolID, if any
func (k *Keeper) GetApproved(ctx sdk.Context, poolID uint64) sdk.AccAddress {
	return k.GetStore(ctx).Get(types.PoolApprovalKey(poolID))
}

// SetApprovalForAll grants or revokes operator rights over every pool of owner
func (k *Keeper) SetApprovalForAll(ctx sdk.Context, owner, operator sdk.AccAddress, approved bool) error {
	if operator.Empty() {
		return types.ErrZeroAddress.Wrap("operator")
	}
	if owner.Equals(operator) {
		return types.ErrSelfApproval
	}
	store := k.GetStore(ctx)
	if approved {
		store.Set(types.OperatorApprovalKey(owner, operator), []byte{0x01})
	} else {
		store.Delete(types.OperatorApprovalKey(owner, operator))
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOperatorApproval,
			sdk.NewAttribute(types.AttributeKeyOwner, owner.String()),
			sdk.NewAttribute(types.AttributeKeyOperator, operator.String()),
			sdk.NewAttribute(types.AttributeKeyAllowed, strconv.FormatBool(approved)),
		),
	)
	return nil
}

// IsApprovedForAll reports whether operator may act on all pools of owner
func (k *Keeper) IsApprovedForAll(ctx sdk.Context, owner, operator sdk.AccAddress) bool {
	return k.GetStore(ctx).Has(types.OperatorApprovalKey(owner, operator))
}

func (k *Keeper) isApprovedOrOwner(ctx sdk.Context, sender, owner sdk.AccAddress, poolID uint64) bool {
	if sender.Empty() {
		return false
	}
	if sender.Equals(owner) {
		return true
	}
	if approved := k.GetApproved(ctx, poolID); approved != nil && sender.Equals(approved) {
		return true
	}
	return k.IsApprovedForAll(ctx, owner, sender)
}
