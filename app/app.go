package app

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	pruningtypes "cosmossdk.io/store/pruning/types"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"

	lockmetrics "github.com/openalpha/lockdeal/metrics"
	builderkeeper "github.com/openalpha/lockdeal/x/builder/keeper"
	buildertypes "github.com/openalpha/lockdeal/x/builder/types"
	collateralkeeper "github.com/openalpha/lockdeal/x/collateral/keeper"
	collateraltypes "github.com/openalpha/lockdeal/x/collateral/types"
	providerkeeper "github.com/openalpha/lockdeal/x/provider/keeper"
	providertypes "github.com/openalpha/lockdeal/x/provider/types"
	refundkeeper "github.com/openalpha/lockdeal/x/refund/keeper"
	refundtypes "github.com/openalpha/lockdeal/x/refund/types"
	registrykeeper "github.com/openalpha/lockdeal/x/registry/keeper"
	registrytypes "github.com/openalpha/lockdeal/x/registry/types"
	vaultkeeper "github.com/openalpha/lockdeal/x/vault/keeper"
	vaulttypes "github.com/openalpha/lockdeal/x/vault/types"
)

// Event is a committed module event with flattened attributes
type Event struct {
	Height     int64             `json:"height"`
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

// EventListener observes the events of every committed execution
type EventListener func(height int64, events []Event)

// App is the pool engine: one commit multistore, the module keepers wired
// together, and serial all-or-nothing execution on top of them.
type App struct {
	logger  log.Logger
	cfg     Config
	db      dbm.DB
	cms     storetypes.CommitMultiStore
	keys    map[string]*storetypes.KVStoreKey
	metrics *lockmetrics.Collector
	now     func() time.Time

	mu        sync.RWMutex
	listeners []EventListener

	encoding       EncodingConfig
	genesis        GenesisState
	genesisModules []genesisModule
	routers        map[string]msgRouter

	// Module keepers
	VaultKeeper      *vaultkeeper.Keeper
	RegistryKeeper   *registrykeeper.Keeper
	DealProvider     *providerkeeper.Keeper
	LockProvider     *providerkeeper.Keeper
	TimedProvider    *providerkeeper.Keeper
	CollateralKeeper *collateralkeeper.Keeper
	RefundKeeper     *refundkeeper.Keeper
	BuilderKeeper    *builderkeeper.Keeper
}

// Option customises an App
type Option func(*App)

// WithClock overrides the block time source
func WithClock(now func() time.Time) Option {
	return func(app *App) { app.now = now }
}

// WithGenesis replaces the default genesis written on an empty database
func WithGenesis(gs GenesisState) Option {
	return func(app *App) { app.genesis = gs }
}

// WithMetrics attaches a metrics collector
func WithMetrics(c *lockmetrics.Collector) Option {
	return func(app *App) { app.metrics = c }
}

// NewApp mounts every module store on db, wires the keepers and, on an empty
// database, writes the genesis state.
func NewApp(logger log.Logger, db dbm.DB, cfg Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	keys := storetypes.NewKVStoreKeys(
		vaulttypes.StoreKey,
		registrytypes.StoreKey,
		providertypes.StoreKey,
		collateraltypes.StoreKey,
		refundtypes.StoreKey,
		buildertypes.StoreKey,
	)

	cms := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	cms.SetPruning(pruningtypes.NewPruningOptionsFromString(cfg.Pruning))
	for _, key := range keys {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, nil)
	}
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("failed to load store: %w", err)
	}

	app := &App{
		logger:   logger.With("module", "app"),
		cfg:      cfg,
		db:       db,
		cms:      cms,
		keys:     keys,
		now:      time.Now,
		encoding: MakeEncodingConfig(),
	}
	for _, opt := range opts {
		opt(app)
	}

	app.VaultKeeper = vaultkeeper.NewKeeper(keys[vaulttypes.StoreKey], cfg.Authority, logger)
	app.RegistryKeeper = registrykeeper.NewKeeper(keys[registrytypes.StoreKey], app.VaultKeeper, cfg.Authority, logger)
	app.DealProvider = providerkeeper.NewDealProvider(keys[providertypes.StoreKey], app.RegistryKeeper, app.VaultKeeper, logger)
	app.LockProvider = providerkeeper.NewLockProvider(app.DealProvider)
	app.TimedProvider = providerkeeper.NewTimedProvider(app.LockProvider)
	app.CollateralKeeper = collateralkeeper.NewKeeper(keys[collateraltypes.StoreKey], app.RegistryKeeper, app.VaultKeeper, logger)
	app.RefundKeeper = refundkeeper.NewKeeper(keys[refundtypes.StoreKey], app.RegistryKeeper, app.CollateralKeeper, app.VaultKeeper, logger)
	app.BuilderKeeper = builderkeeper.NewKeeper(
		keys[buildertypes.StoreKey],
		app.RegistryKeeper,
		app.VaultKeeper,
		app.CollateralKeeper,
		app.RefundKeeper,
		cfg.Authority,
		logger,
	)

	for _, p := range app.providers() {
		app.RegistryKeeper.RegisterProvider(p)
	}
	app.RegistryKeeper.RegisterReceiver(app.BuilderKeeper.Address(), app.BuilderKeeper)
	app.BuilderKeeper.RegisterProvider(app.DealProvider)
	app.BuilderKeeper.RegisterProvider(app.LockProvider)
	app.BuilderKeeper.RegisterProvider(app.TimedProvider)

	app.initModules()

	if app.LastHeight() == 0 {
		if app.genesis == nil {
			app.genesis = DefaultGenesis(cfg)
		}
		if err := app.ValidateGenesis(app.genesis); err != nil {
			return nil, fmt.Errorf("invalid genesis: %w", err)
		}
		if _, err := app.Execute(app.initChain(app.genesis)); err != nil {
			return nil, fmt.Errorf("failed to initialise state: %w", err)
		}
	}

	app.logger.Info("engine loaded", "height", app.LastHeight(), "backend", cfg.DBBackend)
	return app, nil
}

func (app *App) providers() []registrytypes.PoolProvider {
	return []registrytypes.PoolProvider{
		app.DealProvider,
		app.LockProvider,
		app.TimedProvider,
		app.CollateralKeeper,
		app.RefundKeeper,
	}
}

// Logger returns the engine logger
func (app *App) Logger() log.Logger {
	return app.logger
}

// Config returns the engine configuration
func (app *App) Config() Config {
	return app.cfg
}

// GetKey returns the KVStoreKey for the provided store key
func (app *App) GetKey(storeKey string) *storetypes.KVStoreKey {
	return app.keys[storeKey]
}

// LastHeight returns the last committed version
func (app *App) LastHeight() int64 {
	return app.cms.LastCommitID().Version
}

// Subscribe registers l for the events of every later commit
func (app *App) Subscribe(l EventListener) {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.listeners = append(app.listeners, l)
}

func (app *App) newContext(ms storetypes.MultiStore, height int64) sdk.Context {
	header := cmtproto.Header{ChainID: Name, Height: height, Time: app.now().UTC()}
	return sdk.NewContext(ms, header, false, app.logger).WithBlockTime(header.Time)
}

// Execute runs fn as one committed step. fn sees a cached view of state;
// nothing is written unless it returns nil, and executions never interleave.
// The committed events are returned and delivered to subscribers.
func (app *App) Execute(fn func(ctx sdk.Context) error) ([]Event, error) {
	version, events, listeners, err := app.commit(fn)
	if err != nil {
		return nil, err
	}

	if app.metrics != nil {
		app.metrics.RecordCommit(version)
		for _, e := range events {
			app.metrics.RecordEvent(e.Type, e.Attributes)
		}
	}
	for _, l := range listeners {
		l(version, events)
	}
	return events, nil
}

// commit runs fn under the write lock. A panic in fn discards its writes and
// comes back as ErrPanic.
func (app *App) commit(fn func(ctx sdk.Context) error) (version int64, events []Event, listeners []EventListener, err error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	height := app.LastHeight() + 1
	ctx := app.newContext(app.cms, height)
	cacheCtx, write := ctx.CacheContext()

	defer func() {
		if r := recover(); r != nil {
			app.logger.Error("execution panicked", "height", height, "panic", r)
			version, events, listeners = 0, nil, nil
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	if err := fn(cacheCtx); err != nil {
		return 0, nil, nil, err
	}
	write()
	commitID := app.cms.Commit()

	events = flattenEvents(commitID.Version, cacheCtx.EventManager().Events())
	listeners = append([]EventListener(nil), app.listeners...)
	return commitID.Version, events, listeners, nil
}

// Query runs fn against a throwaway branch of the latest state
func (app *App) Query(fn func(ctx sdk.Context) error) error {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return fn(app.newContext(app.cms.CacheMultiStore(), app.LastHeight()))
}

// Close releases the database
func (app *App) Close() error {
	return app.db.Close()
}

func flattenEvents(height int64, events sdk.Events) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		attrs := make(map[string]string, len(e.Attributes))
		for _, a := range e.Attributes {
			attrs[a.Key] = a.Value
		}
		out = append(out, Event{Height: height, Type: e.Type, Attributes: attrs})
	}
	return out
}

var (
	// ErrUnknownMsg is returned for a message no module handles
	ErrUnknownMsg = errors.New("unknown message")
	// ErrPanic wraps a panic recovered while executing a message
	ErrPanic = errors.New("execution panicked")
)
