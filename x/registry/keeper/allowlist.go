package keeper

import (
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lockdeal/x/registry/types"
)

// SetApproved toggles allowlist membership of a provider module
func (k *Keeper) SetApproved(ctx sdk.Context, authority string, provider sdk.AccAddress, allowed bool) error {
	if authority != k.authority {
		return types.ErrUnauthorized.Wrapf("expected %s, got %s", k.authority, authority)
	}
	if provider.Empty() {
		return types.ErrZeroAddress.Wrap("provider")
	}

	store := k.GetStore(ctx)
	if allowed {
		store.Set(types.ApprovedKey(provider), []byte{0x01})
	} else {
		store.Delete(types.ApprovedKey(provider))
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProviderApproved,
			sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
			sdk.NewAttribute(types.AttributeKeyAllowed, strconv.FormatBool(allowed)),
		),
	)
	k.logger.Info("provider allowlist updated", "provider", provider.String(), "allowed", allowed)
	return nil
}

// IsApproved reports whether addr may create or mutate pools
func (k *Keeper) IsApproved(ctx sdk.Context, addr sdk.AccAddress) bool {
	if addr.Empty() {
		return false
	}
	return k.GetStore(ctx).Has(types.ApprovedKey(addr))
}
