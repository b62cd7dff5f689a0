package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/spf13/cobra"

	"github.com/openalpha/lockdeal/app"
)

const flagGenesis = "genesis"

// ExportCmd prints the genesis state of the latest committed height
func ExportCmd() *cobra.Command {
	appCfg := app.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export allowlist, params and balances as genesis JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			if home, _ := cmd.Flags().GetString(flags.FlagHome); home != "" {
				appCfg.HomeDir = home
			}
			opts, err := genesisOption(cmd)
			if err != nil {
				return err
			}

			db, err := appCfg.OpenDB()
			if err != nil {
				return fmt.Errorf("failed to open %s database: %w", appCfg.DBBackend, err)
			}
			engine, err := app.NewApp(logger, db, appCfg, opts...)
			if err != nil {
				_ = db.Close()
				return err
			}
			defer engine.Close()

			gs, err := engine.ExportGenesis()
			if err != nil {
				return err
			}
			bz, err := json.MarshalIndent(gs, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(bz))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&appCfg.DBBackend, flagDBBackend, appCfg.DBBackend, "database backend (memdb, goleveldb)")
	f.StringVar(&appCfg.Authority, flagAuthority, appCfg.Authority, "account allowed to govern allowlists and params")
	f.Uint32Var(&appCfg.MaxBatchSize, flagMaxBatchSize, appCfg.MaxBatchSize, "builder batch size limit for a fresh database")
	f.StringVar(&appCfg.TrustedSigner, flagTrustedSigner, "", "trusted signer for a fresh database")
	f.String(flagGenesis, "", "genesis JSON file applied to a fresh database")
	return cmd
}

// genesisOption reads the --genesis file, if any
func genesisOption(cmd *cobra.Command) ([]app.Option, error) {
	path, _ := cmd.Flags().GetString(flagGenesis)
	if path == "" {
		return nil, nil
	}
	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read genesis: %w", err)
	}
	var gs app.GenesisState
	if err := json.Unmarshal(bz, &gs); err != nil {
		return nil, fmt.Errorf("failed to parse genesis %s: %w", path, err)
	}
	return []app.Option{app.WithGenesis(gs)}, nil
}
