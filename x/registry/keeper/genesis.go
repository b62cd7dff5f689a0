package keeper

import (
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lockdeal/x/registry/types"
)

// InitGenesis seeds the provider allowlist
func (k *Keeper) InitGenesis(ctx sdk.Context, gs *types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return err
	}
	for _, p := range gs.ApprovedProviders {
		addr, _ := sdk.AccAddressFromBech32(p)
		if err := k.SetApproved(ctx, k.authority, addr, true); err != nil {
			return err
		}
	}
	return nil
}

// ExportGenesis returns the current allowlist
func (k *Keeper) ExportGenesis(ctx sdk.Context) *types.GenesisState {
	gs := types.DefaultGenesis()
	for _, addr := range k.ApprovedProviders(ctx) {
		gs.ApprovedProviders = append(gs.ApprovedProviders, addr.String())
	}
	return gs
}

// ApprovedProviders lists the allowlist in key order
func (k *Keeper) ApprovedProviders(ctx sdk.Context) []sdk.AccAddress {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), types.ApprovedKeyPrefix)
	defer iterator.Close()

	var out []sdk.AccAddress
	for ; iterator.Valid(); iterator.Next() {
		addr := iterator.Key()[len(types.ApprovedKeyPrefix):]
		out = append(out, append(sdk.AccAddress(nil), addr...))
	}
	return out
}
