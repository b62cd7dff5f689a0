package cli

import (
	"fmt"
	"strconv"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/spf13/cobra"

	"github.com/openalpha/lockdeal/pkg/apiclient"
	"github.com/openalpha/lockdeal/x/registry/types"
)

const (
	flagPayload = "payload"
	flagOwner   = "owner"
	flagAmount  = "amount"
)

// GetTxCmd returns the transaction commands for the registry module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Pool registry transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdTransferPool(),
		CmdApprovePool(),
		CmdSetApprovalForAll(),
		CmdWithdrawPool(),
		CmdSetApprovedProvider(),
	)

	return cmd
}

// CmdTransferPool returns the command to transfer a pool
func CmdTransferPool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer [pool-id] [to]",
		Short: "Transfer a pool; the payload reaches the receiver hook",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			sender := apiclient.Sender(cmd)
			owner, _ := cmd.Flags().GetString(flagOwner)
			if owner == "" {
				owner = sender
			}
			payload, _ := cmd.Flags().GetString(flagPayload)

			msg := &types.MsgTransferPool{
				Sender:  sender,
				From:    owner,
				To:      args[1],
				PoolID:  poolID,
				Payload: payload,
			}
			return apiclient.BroadcastTxCLI(cmd, msg)
		},
	}

	cmd.Flags().String(flagOwner, "", "current owner when sending as operator (defaults to --from)")
	cmd.Flags().String(flagPayload, "", "hex payload passed to the receiver")
	apiclient.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdApprovePool returns the command to approve a spender for one pool
func CmdApprovePool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approve [pool-id] [spender]",
		Short: "Approve a spender for a pool; an empty spender clears it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			msg := &types.MsgApprovePool{Owner: apiclient.Sender(cmd), PoolID: poolID}
			if len(args) == 2 {
				msg.Spender = args[1]
			}
			return apiclient.BroadcastTxCLI(cmd, msg)
		},
	}

	apiclient.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSetApprovalForAll returns the command to grant or revoke an operator
func CmdSetApprovalForAll() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approval-for-all [operator] [true|false]",
		Short: "Grant or revoke an operator over all pools of the sender",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			approved, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("invalid approval: %v", err)
			}
			return apiclient.BroadcastTxCLI(cmd, &types.MsgSetApprovalForAll{
				Owner:    apiclient.Sender(cmd),
				Operator: args[0],
				Approved: approved,
			})
		},
	}

	apiclient.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdWithdrawPool returns the command to withdraw unlocked value of a pool
func CmdWithdrawPool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw [pool-id]",
		Short: "Withdraw the unlocked amount of a pool to its owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			amount, _ := cmd.Flags().GetString(flagAmount)
			return apiclient.BroadcastTxCLI(cmd, &types.MsgWithdrawPool{Sender: apiclient.Sender(cmd), PoolID: poolID, Amount: amount})
		},
	}

	cmd.Flags().String(flagAmount, "", "amount to withdraw (defaults to everything available)")
	apiclient.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSetApprovedProvider returns the command to change the provider allowlist
func CmdSetApprovedProvider() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-approved-provider [provider] [true|false]",
		Short: "Allow or forbid a provider to mint pools (authority only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			allowed, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("invalid allowed flag: %v", err)
			}
			return apiclient.BroadcastTxCLI(cmd, &types.MsgSetApprovedProvider{
				Authority: apiclient.Sender(cmd),
				Provider:  args[0],
				Allowed:   allowed,
			})
		},
	}

	apiclient.AddTxFlagsToCmd(cmd)
	return cmd
}
