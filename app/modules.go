package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/module"

	"github.com/openalpha/lockdeal/x/builder"
	buildertypes "github.com/openalpha/lockdeal/x/builder/types"
	"github.com/openalpha/lockdeal/x/collateral"
	collateraltypes "github.com/openalpha/lockdeal/x/collateral/types"
	"github.com/openalpha/lockdeal/x/provider"
	providertypes "github.com/openalpha/lockdeal/x/provider/types"
	"github.com/openalpha/lockdeal/x/refund"
	refundtypes "github.com/openalpha/lockdeal/x/refund/types"
	"github.com/openalpha/lockdeal/x/registry"
	registrytypes "github.com/openalpha/lockdeal/x/registry/types"
	"github.com/openalpha/lockdeal/x/vault"
	vaulttypes "github.com/openalpha/lockdeal/x/vault/types"
)

// ModuleBasic is the stateless part of an engine module
type ModuleBasic interface {
	module.HasName
	RegisterLegacyAminoCodec(*codec.LegacyAmino)
}

// ModuleBasics lists every engine module in genesis order
var ModuleBasics = []ModuleBasic{
	vault.AppModuleBasic{},
	registry.AppModuleBasic{},
	provider.AppModuleBasic{},
	collateral.AppModuleBasic{},
	refund.AppModuleBasic{},
	builder.AppModuleBasic{},
}

// msgRouter is a module that executes its own messages
type msgRouter interface {
	module.HasName
	Route(ctx sdk.Context, msg sdk.Msg) (any, error)
}

// genesisModule is a module with state loaded at height zero
type genesisModule interface {
	module.HasName
	module.HasGenesis
}

// GenesisState maps module names to their raw genesis JSON
type GenesisState map[string]json.RawMessage

// DefaultGenesis returns the state written on first start: every module
// identity that mints pools is approved, and the builder params and trusted
// signer come from cfg.
func DefaultGenesis(cfg Config) GenesisState {
	approved := []string{
		collateraltypes.ModuleAddress().String(),
		refundtypes.ModuleAddress().String(),
		buildertypes.ModuleAddress().String(),
	}
	for _, kind := range providertypes.Kinds() {
		approved = append(approved, kind.Address().String())
	}

	vaultGenesis := vaulttypes.DefaultGenesis()
	vaultGenesis.TrustedSigner = cfg.TrustedSigner

	gs := GenesisState{}
	gs.set(registrytypes.ModuleName, &registrytypes.GenesisState{ApprovedProviders: approved})
	gs.set(vaulttypes.ModuleName, vaultGenesis)
	gs.set(buildertypes.ModuleName, &buildertypes.GenesisState{Params: buildertypes.Params{MaxBatchSize: cfg.MaxBatchSize}})
	return gs
}

func (gs GenesisState) set(name string, v any) {
	bz, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	gs[name] = bz
}

// initModules builds the AppModules over the wired keepers
func (app *App) initModules() {
	app.genesisModules = []genesisModule{
		vault.NewAppModule(app.VaultKeeper),
		registry.NewAppModule(app.RegistryKeeper),
		builder.NewAppModule(app.BuilderKeeper),
	}

	routers := []msgRouter{
		vault.NewAppModule(app.VaultKeeper),
		registry.NewAppModule(app.RegistryKeeper),
		provider.NewAppModule(app.DealProvider, app.LockProvider, app.TimedProvider),
		collateral.NewAppModule(app.CollateralKeeper),
		refund.NewAppModule(app.RefundKeeper),
		builder.NewAppModule(app.BuilderKeeper),
	}
	app.routers = make(map[string]msgRouter, len(routers))
	for _, r := range routers {
		app.routers[r.Name()] = r
	}
}

// ValidateGenesis checks every module section of gs. Unknown sections are
// rejected.
func (app *App) ValidateGenesis(gs GenesisState) error {
	known := make(map[string]struct{}, len(app.genesisModules))
	for _, m := range app.genesisModules {
		name := m.Name()
		known[name] = struct{}{}
		if err := m.ValidateGenesis(app.encoding.Codec, nil, gs[name]); err != nil {
			return fmt.Errorf("%s genesis: %w", name, err)
		}
	}
	for name := range gs {
		if _, ok := known[name]; !ok {
			return fmt.Errorf("genesis section %q has no module", name)
		}
	}
	return nil
}

// initChain writes gs through every genesis module
func (app *App) initChain(gs GenesisState) func(ctx sdk.Context) error {
	return func(ctx sdk.Context) error {
		for _, m := range app.genesisModules {
			m.InitGenesis(ctx, app.encoding.Codec, gs[m.Name()])
		}
		return nil
	}
}

// ExportGenesis returns the module configuration and balances at the latest
// height. Pools are not part of genesis.
func (app *App) ExportGenesis() (GenesisState, error) {
	gs := GenesisState{}
	err := app.Query(func(ctx sdk.Context) error {
		for _, m := range app.genesisModules {
			gs[m.Name()] = m.ExportGenesis(ctx, app.encoding.Codec)
		}
		return nil
	})
	return gs, err
}

func (app *App) route(ctx sdk.Context, msg sdk.Msg) (any, error) {
	name, _, ok := strings.Cut(MsgTypeName(msg), "/")
	if !ok {
		return nil, ErrUnknownMsg
	}
	r, ok := app.routers[name]
	if !ok {
		return nil, ErrUnknownMsg
	}
	return r.Route(ctx, msg)
}
