package keeper

import (
	"encoding/json"
	"strings"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lockdeal/x/builder/types"
)

// Keeper orchestrates batch pool creation and the collateral rebuild protocol
type Keeper struct {
	storeKey   storetypes.StoreKey
	registry   types.RegistryKeeper
	vault      types.VaultKeeper
	collateral types.CollateralKeeper
	refund     types.RefundKeeper
	providers  map[string]types.PoolRegistrar
	authority  string
	logger     log.Logger
}

// NewKeeper creates a new builder keeper
func NewKeeper(
	storeKey storetypes.StoreKey,
	registry types.RegistryKeeper,
	vault types.VaultKeeper,
	collateral types.CollateralKeeper,
	refund types.RefundKeeper,
	authority string,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		storeKey:   storeKey,
		registry:   registry,
		vault:      vault,
		collateral: collateral,
		refund:     refund,
		providers:  make(map[string]types.PoolRegistrar),
		authority:  authority,
		logger:     logger.With("module", "x/builder"),
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

// Address is the builder identity
func (k *Keeper) Address() sdk.AccAddress {
	return types.ModuleAddress()
}

// RegisterProvider makes p selectable by address or name in mass builds
func (k *Keeper) RegisterProvider(p types.PoolRegistrar) {
	k.providers[p.Address().String()] = p
	k.providers[strings.ToLower(p.Name())] = p
}

// GetProvider resolves a provider selector (address, name, or name without
// the "provider" suffix)
func (k *Keeper) GetProvider(selector string) (types.PoolRegistrar, bool) {
	if p, ok := k.providers[selector]; ok {
		return p, true
	}
	name := strings.ToLower(selector)
	if p, ok := k.providers[name]; ok {
		return p, true
	}
	p, ok := k.providers[name+"provider"]
	return p, ok
}

// GetParams returns the builder params
func (k *Keeper) GetParams(ctx sdk.Context) types.Params {
	bz := k.GetStore(ctx).Get(types.ParamsKey)
	if bz == nil {
		return types.DefaultParams()
	}
	var params types.Params
	if err := json.Unmarshal(bz, &params); err != nil {
		return types.DefaultParams()
	}
	return params
}

// SetParams stores the builder params
func (k *Keeper) SetParams(ctx sdk.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	bz, err := json.Marshal(params)
	if err != nil {
		return err
	}
	k.GetStore(ctx).Set(types.ParamsKey, bz)
	return nil
}

// UpdateParams replaces the params. Authority only.
func (k *Keeper) UpdateParams(ctx sdk.Context, authority string, params types.Params) error {
	if authority != k.authority {
		return types.ErrUnauthorized.Wrapf("expected %s, got %s", k.authority, authority)
	}
	return k.SetParams(ctx, params)
}
