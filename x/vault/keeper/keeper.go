package keeper

import (
	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/openalpha/lockdeal/x/vault/types"
)

// Keeper holds per-token balances and the custody account backing every pool
type Keeper struct {
	storeKey  storetypes.StoreKey
	authority string
	logger    log.Logger
}

// NewKeeper creates a new vault keeper
func NewKeeper(storeKey storetypes.StoreKey, authority string, logger log.Logger) *Keeper {
	return &Keeper{
		storeKey:  storeKey,
		authority: authority,
		logger:    logger.With("module", "x/vault"),
	}
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

// Address returns the custody account
func (k *Keeper) Address() sdk.AccAddress {
	return types.ModuleAddress()
}

// GetBalance returns the balance of addr in token
func (k *Keeper) GetBalance(ctx sdk.Context, addr sdk.AccAddress, token string) math.Int {
	bz := k.GetStore(ctx).Get(types.BalanceKey(token, addr))
	if bz == nil {
		return math.ZeroInt()
	}
	var amount math.Int
	if err := amount.Unmarshal(bz); err != nil {
		return math.ZeroInt()
	}
	return amount
}

func (k *Keeper) setBalance(ctx sdk.Context, addr sdk.AccAddress, token string, amount math.Int) {
	store := k.GetStore(ctx)
	if amount.IsZero() {
		store.Delete(types.BalanceKey(token, addr))
		return
	}
	bz, _ := amount.Marshal()
	store.Set(types.BalanceKey(token, addr), bz)
}

// Locked returns the value of token currently held in custody
func (k *Keeper) Locked(ctx sdk.Context, token string) math.Int {
	return k.GetBalance(ctx, k.Address(), token)
}

// GetTrustedSigner returns the deposit signer, if one is configured
func (k *Keeper) GetTrustedSigner(ctx sdk.Context) (common.Address, bool) {
	bz := k.GetStore(ctx).Get(types.TrustedSignerKey)
	if bz == nil {
		return common.Address{}, false
	}
	return common.BytesToAddress(bz), true
}

// GetNonce returns the number of deposits addr has made
func (k *Keeper) GetNonce(ctx sdk.Context, addr sdk.AccAddress) uint64 {
	bz := k.GetStore(ctx).Get(types.NonceKey(addr))
	if bz == nil {
		return 0
	}
	return sdk.BigEndianToUint64(bz)
}

func (k *Keeper) incrementNonce(ctx sdk.Context, addr sdk.AccAddress) {
	k.GetStore(ctx).Set(types.NonceKey(addr), sdk.Uint64ToBigEndian(k.GetNonce(ctx, addr)+1))
}
