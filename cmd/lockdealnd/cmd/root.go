package cmd

import (
	"os"

	"cosmossdk.io/log"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/openalpha/lockdeal/app"
	buildercli "github.com/openalpha/lockdeal/x/builder/client/cli"
	collateralcli "github.com/openalpha/lockdeal/x/collateral/client/cli"
	providercli "github.com/openalpha/lockdeal/x/provider/client/cli"
	refundcli "github.com/openalpha/lockdeal/x/refund/client/cli"
	registrycli "github.com/openalpha/lockdeal/x/registry/client/cli"
	vaultcli "github.com/openalpha/lockdeal/x/vault/client/cli"
)

// Version is set at build time
var Version = "v0.1.0"

// NewRootCmd creates a new root command for lockdealnd
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lockdealnd",
		Short: "lockdeal - token lock pools with refundable collateral",
		Long: `lockdealnd runs the lockdeal pool engine: deal, lock and timed pools,
collateral backed refund pools and batch builders, served over HTTP and websocket.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())
		},
	}

	rootCmd.AddCommand(
		StartCmd(),
		ExportCmd(),
		queryCommand(),
		txCommand(),
		EncodeRebuildCmd(),
		MsgTypesCmd(),
		VersionCmd(),
	)
	return rootCmd
}

func queryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "query",
		Aliases:                    []string{"q"},
		Short:                      "Querying subcommands",
		DisableFlagParsing:         false,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}
	cmd.AddCommand(
		registrycli.GetQueryCmd(),
		collateralcli.GetQueryCmd(),
		vaultcli.GetQueryCmd(),
	)
	return cmd
}

func txCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "tx",
		Short:                      "Transactions subcommands",
		DisableFlagParsing:         false,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}
	cmd.AddCommand(
		registrycli.GetTxCmd(),
		vaultcli.GetTxCmd(),
		providercli.GetTxCmd(),
		collateralcli.GetTxCmd(),
		refundcli.GetTxCmd(),
		buildercli.GetTxCmd(),
	)
	return cmd
}

// newLogger builds the process logger from the persistent log flags
func newLogger(cmd *cobra.Command) (log.Logger, error) {
	levelStr, _ := cmd.Flags().GetString(flags.FlagLogLevel)
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	opts := []log.Option{log.LevelOption(level)}
	if format, _ := cmd.Flags().GetString(flags.FlagLogFormat); format == flags.OutputFormatJSON {
		opts = append(opts, log.OutputJSONOption())
	}
	if noColor, _ := cmd.Flags().GetBool(flags.FlagLogNoColor); noColor {
		opts = append(opts, log.ColorOption(false))
	}
	return log.NewLogger(os.Stderr, opts...).With("app", app.Name), nil
}

// MsgTypesCmd lists the message types accepted by POST /v1/tx
func MsgTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "msg-types",
		Short: "List the message types accepted by the engine",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, t := range app.MsgTypes() {
				cmd.Println(t)
			}
		},
	}
}

// VersionCmd returns a command to print the version
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("lockdeal " + Version)
		},
	}
}
