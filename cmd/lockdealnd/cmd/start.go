package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/spf13/cobra"

	"github.com/openalpha/lockdeal/api"
	"github.com/openalpha/lockdeal/app"
	lockmetrics "github.com/openalpha/lockdeal/metrics"
)

const (
	flagDBBackend      = "db-backend"
	flagPruning        = "pruning"
	flagAuthority      = "authority"
	flagMaxBatchSize   = "max-batch-size"
	flagTrustedSigner  = "trusted-signer"
	flagAPIHost        = "api.host"
	flagAPIPort        = "api.port"
	flagNoRateLimit    = "api.disable-rate-limit"
	flagIPRate         = "api.ip-rps"
	flagTxRate         = "api.tx-rps"
	flagWSClientsPerIP = "ws.max-clients-per-ip"
	flagNoMetrics      = "metrics.disable"
	flagShutdownWait   = "shutdown-timeout"
)

// StartCmd runs the engine with its HTTP and websocket surface
func StartCmd() *cobra.Command {
	appCfg := app.DefaultConfig()
	apiCfg := api.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the pool engine and serve the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			if home, _ := cmd.Flags().GetString(flags.FlagHome); home != "" {
				appCfg.HomeDir = home
			}
			if err := appCfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			db, err := appCfg.OpenDB()
			if err != nil {
				return fmt.Errorf("failed to open %s database: %w", appCfg.DBBackend, err)
			}

			opts, err := genesisOption(cmd)
			if err != nil {
				return err
			}
			var collector *lockmetrics.Collector
			if noMetrics, _ := cmd.Flags().GetBool(flagNoMetrics); !noMetrics {
				collector = lockmetrics.GetCollector()
				opts = append(opts, app.WithMetrics(collector))
			}

			engine, err := app.NewApp(logger, db, appCfg, opts...)
			if err != nil {
				_ = db.Close()
				return err
			}
			defer engine.Close()

			srv, err := api.NewServer(engine, apiCfg, collector, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()
			logger.Info("engine started",
				"height", engine.LastHeight(),
				"db_backend", appCfg.DBBackend,
				"api", apiCfg.Addr(),
			)

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			wait, _ := cmd.Flags().GetDuration(flagShutdownWait)
			shutdownCtx, cancel := context.WithTimeout(context.Background(), wait)
			defer cancel()
			logger.Info("shutting down")
			if err := srv.Stop(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return <-errCh
		},
	}

	f := cmd.Flags()
	f.StringVar(&appCfg.DBBackend, flagDBBackend, appCfg.DBBackend, "database backend (memdb, goleveldb)")
	f.StringVar(&appCfg.Pruning, flagPruning, appCfg.Pruning, "store pruning strategy (default, nothing, everything)")
	f.StringVar(&appCfg.Authority, flagAuthority, appCfg.Authority, "account allowed to govern allowlists and params")
	f.Uint32Var(&appCfg.MaxBatchSize, flagMaxBatchSize, appCfg.MaxBatchSize, "builder batch size limit set on first start")
	f.StringVar(&appCfg.TrustedSigner, flagTrustedSigner, "", "hex address that must sign custody deposits")
	f.String(flagGenesis, "", "genesis JSON file applied to a fresh database (replaces the allowlist, params and signer flags)")

	f.StringVar(&apiCfg.Host, flagAPIHost, apiCfg.Host, "API listen host")
	f.IntVar(&apiCfg.Port, flagAPIPort, apiCfg.Port, "API listen port")
	f.BoolVar(&apiCfg.DisableRateLimit, flagNoRateLimit, false, "disable per IP rate limiting")
	f.IntVar(&apiCfg.RateLimit.IPRequestsPerSecond, flagIPRate, apiCfg.RateLimit.IPRequestsPerSecond, "requests per second per IP")
	f.IntVar(&apiCfg.RateLimit.TxPerSecond, flagTxRate, apiCfg.RateLimit.TxPerSecond, "submissions per second per IP")
	f.IntVar(&apiCfg.WebSocket.MaxClientsPerIP, flagWSClientsPerIP, apiCfg.WebSocket.MaxClientsPerIP, "websocket connections per IP")
	f.Bool(flagNoMetrics, false, "do not collect Prometheus metrics")
	f.Duration(flagShutdownWait, 10*time.Second, "graceful shutdown timeout")
	return cmd
}
