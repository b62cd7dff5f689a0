package cli

import (
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/spf13/cobra"

	"github.com/openalpha/lockdeal/pkg/apiclient"
	"github.com/openalpha/lockdeal/x/vault/types"
)

// GetQueryCmd returns the cli query commands for the vault module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for vault balances",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(CmdQueryBalance())
	return cmd
}

// CmdQueryBalance returns the command to query one balance
func CmdQueryBalance() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance [address] [token]",
		Short: "Query the vault balance of an address",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			balance, err := apiclient.FromCmd(cmd).GetBalance(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return apiclient.PrintJSON(cmd, balance)
		},
	}

	apiclient.AddQueryFlagsToCmd(cmd)
	return cmd
}
