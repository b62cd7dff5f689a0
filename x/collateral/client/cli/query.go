package cli

import (
	"fmt"
	"strconv"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/spf13/cobra"

	"github.com/openalpha/lockdeal/pkg/apiclient"
	"github.com/openalpha/lockdeal/x/collateral/types"
)

// GetQueryCmd returns the cli query commands for the collateral module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for collateral pools",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(CmdQueryCollateral())
	return cmd
}

// CmdQueryCollateral returns the command to query a collateral pool with its refund pools
func CmdQueryCollateral() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collateral [pool-id]",
		Short: "Query a collateral pool, its rate and the refund pools it backs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid pool id: %v", err)
			}
			resp, err := apiclient.FromCmd(cmd).GetCollateral(cmd.Context(), poolID)
			if err != nil {
				return err
			}
			return apiclient.PrintJSON(cmd, resp)
		},
	}

	apiclient.AddQueryFlagsToCmd(cmd)
	return cmd
}
