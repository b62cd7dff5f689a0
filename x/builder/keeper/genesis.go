package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lockdeal/x/builder/types"
)

// InitGenesis stores the genesis params
func (k *Keeper) InitGenesis(ctx sdk.Context, gs *types.GenesisState) error {
	return k.SetParams(ctx, gs.Params)
}

// ExportGenesis returns the current params
func (k *Keeper) ExportGenesis(ctx sdk.Context) *types.GenesisState {
	return &types.GenesisState{Params: k.GetParams(ctx)}
}
