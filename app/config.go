package app

import (
	"fmt"
	"os"
	"path/filepath"

	dbm "github.com/cosmos/cosmos-db"

	buildertypes "github.com/openalpha/lockdeal/x/builder/types"
)

const (
	Name = "lockdeal"
)

// DefaultNodeHome default home directory for the engine
var DefaultNodeHome string

func init() {
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	DefaultNodeHome = filepath.Join(userHomeDir, ".lockdeal")
}

// Config holds engine settings
type Config struct {
	// HomeDir holds the data directory for persistent backends
	HomeDir string `json:"home_dir"`
	// DBBackend is a cosmos-db backend name ("memdb", "goleveldb")
	DBBackend string `json:"db_backend"`
	// Pruning is the store pruning strategy ("default", "nothing", "everything")
	Pruning string `json:"pruning"`
	// Authority may change allowlists, params and mint test balances
	Authority string `json:"authority"`
	// MaxBatchSize seeds the builder params on first start
	MaxBatchSize uint32 `json:"max_batch_size"`
	// TrustedSigner, when set, is the hex address whose signature every
	// custody deposit must carry
	TrustedSigner string `json:"trusted_signer"`
}

// DefaultConfig returns the default engine configuration
func DefaultConfig() Config {
	return Config{
		HomeDir:      DefaultNodeHome,
		DBBackend:    string(dbm.MemDBBackend),
		Pruning:      "default",
		Authority:    "lockdeal-authority",
		MaxBatchSize: buildertypes.DefaultMaxBatchSize,
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	switch dbm.BackendType(c.DBBackend) {
	case dbm.MemDBBackend, dbm.GoLevelDBBackend:
	default:
		return fmt.Errorf("unsupported db backend %q", c.DBBackend)
	}
	if c.Authority == "" {
		return fmt.Errorf("authority is required")
	}
	if c.DBBackend != string(dbm.MemDBBackend) && c.HomeDir == "" {
		return fmt.Errorf("home dir is required for %s", c.DBBackend)
	}
	return buildertypes.Params{MaxBatchSize: c.MaxBatchSize}.Validate()
}

// OpenDB opens the database selected by the configuration
func (c Config) OpenDB() (dbm.DB, error) {
	if dbm.BackendType(c.DBBackend) == dbm.MemDBBackend {
		return dbm.NewMemDB(), nil
	}
	return dbm.NewDB(Name, dbm.BackendType(c.DBBackend), filepath.Join(c.HomeDir, "data"))
}
