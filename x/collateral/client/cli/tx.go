package cli

import (
	"fmt"
	"strconv"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/spf13/cobra"

	"github.com/openalpha/lockdeal/pkg/apiclient"
	"github.com/openalpha/lockdeal/x/collateral/types"
)

const (
	flagOwner     = "owner"
	flagSignature = "signature"
)

// GetTxCmd returns the transaction commands for the collateral module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Collateral pool transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdCreateCollateralPool(),
		CmdClaimRefundedTokens(),
	)

	return cmd
}

// CmdCreateCollateralPool returns the command to open a collateral pool
func CmdCreateCollateralPool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [token] [main-coin] [main-coin-amount] [finish-time] [rate-to-wei]",
		Short: "Lock main coin as collateral for refunds of token",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			sender := apiclient.Sender(cmd)
			owner, _ := cmd.Flags().GetString(flagOwner)
			if owner == "" {
				owner = sender
			}
			sig, _ := cmd.Flags().GetString(flagSignature)
			return apiclient.BroadcastTxCLI(cmd, &types.MsgCreateCollateralPool{
				Sender:         sender,
				Owner:          owner,
				Token:          args[0],
				MainCoin:       args[1],
				MainCoinAmount: args[2],
				FinishTime:     args[3],
				RateToWei:      args[4],
				Signature:      sig,
			})
		},
	}

	cmd.Flags().String(flagOwner, "", "pool owner (defaults to --from)")
	cmd.Flags().String(flagSignature, "", "hex custody signature over the main coin deposit")
	apiclient.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdClaimRefundedTokens returns the command to claim tokens collected by refunds
func CmdClaimRefundedTokens() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim [pool-id]",
		Short: "Claim the tokens refunded into a finished collateral pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid pool id: %v", err)
			}
			return apiclient.BroadcastTxCLI(cmd, &types.MsgClaimRefundedTokens{Sender: apiclient.Sender(cmd), PoolID: poolID})
		},
	}

	apiclient.AddTxFlagsToCmd(cmd)
	return cmd
}
