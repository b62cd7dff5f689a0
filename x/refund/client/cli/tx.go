package cli

import (
	"fmt"
	"strconv"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/spf13/cobra"

	"github.com/openalpha/lockdeal/pkg/apiclient"
	"github.com/openalpha/lockdeal/x/refund/types"
)

const (
	flagOwner     = "owner"
	flagSignature = "signature"
)

// GetTxCmd returns the transaction commands for the refund module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Refund pool transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdCreateRefundPool(),
		CmdRefund(),
	)

	return cmd
}

// CmdCreateRefundPool returns the command to open a refund pool against a collateral pool
func CmdCreateRefundPool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [token] [amount] [finish-time] [collateral-pool-id]",
		Short: "Lock tokens refundable for main coin from a collateral pool",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			collateralID, err := strconv.ParseUint(args[3], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid collateral pool id: %v", err)
			}
			sender := apiclient.Sender(cmd)
			owner, _ := cmd.Flags().GetString(flagOwner)
			if owner == "" {
				owner = sender
			}
			sig, _ := cmd.Flags().GetString(flagSignature)
			return apiclient.BroadcastTxCLI(cmd, &types.MsgCreateRefundPool{
				Sender:           sender,
				Owner:            owner,
				Token:            args[0],
				Amount:           args[1],
				FinishTime:       args[2],
				CollateralPoolID: collateralID,
				Signature:        sig,
			})
		},
	}

	cmd.Flags().String(flagOwner, "", "pool owner (defaults to --from)")
	cmd.Flags().String(flagSignature, "", "hex custody signature over the token deposit")
	apiclient.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdRefund returns the command to refund a pool for main coin
func CmdRefund() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refund [pool-id]",
		Short: "Give back the remaining tokens of a refund pool for main coin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid pool id: %v", err)
			}
			return apiclient.BroadcastTxCLI(cmd, &types.MsgRefund{Sender: apiclient.Sender(cmd), PoolID: poolID})
		},
	}

	apiclient.AddTxFlagsToCmd(cmd)
	return cmd
}
