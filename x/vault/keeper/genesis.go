package keeper

import (
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/openalpha/lockdeal/x/vault/types"
)

// InitGenesis installs the trusted signer and credits genesis balances
func (k *Keeper) InitGenesis(ctx sdk.Context, gs *types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return err
	}
	if gs.TrustedSigner != "" {
		if err := k.SetTrustedSigner(ctx, k.authority, common.HexToAddress(gs.TrustedSigner)); err != nil {
			return err
		}
	}
	for _, b := range gs.Balances {
		addr, _ := sdk.AccAddressFromBech32(b.Address)
		amount, _ := math.NewIntFromString(b.Amount)
		k.setBalance(ctx, addr, b.Token, amount)
	}
	return nil
}

// ExportGenesis returns the trusted signer and every non-zero balance
func (k *Keeper) ExportGenesis(ctx sdk.Context) *types.GenesisState {
	gs := types.DefaultGenesis()
	if signer, ok := k.GetTrustedSigner(ctx); ok {
		gs.TrustedSigner = signer.Hex()
	}

	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), types.BalanceKeyPrefix)
	defer iterator.Close()
	for ; iterator.Valid(); iterator.Next() {
		key := iterator.Key()[len(types.BalanceKeyPrefix):]
		if len(key) == 0 || 1+int(key[0]) > len(key) {
			continue
		}
		n := 1 + int(key[0])
		token := string(key[1:n])
		addr := sdk.AccAddress(append([]byte(nil), key[n:]...))

		var amount math.Int
		if err := amount.Unmarshal(iterator.Value()); err != nil {
			k.logger.Error("skipping unreadable balance", "token", token, "address", addr.String(), "error", err)
			continue
		}
		gs.Balances = append(gs.Balances, types.Balance{Address: addr.String(), Token: token, Amount: amount.String()})
	}
	return gs
}
