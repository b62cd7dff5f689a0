package cli

import (
	"fmt"
	"strconv"
	"strings"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/spf13/cobra"

	"github.com/openalpha/lockdeal/pkg/apiclient"
	"github.com/openalpha/lockdeal/x/builder/types"
)

const (
	flagParams      = "params"
	flagSignature   = "signature"
	flagTokenSig    = "token-sig"
	flagMainCoinSig = "main-coin-sig"
)

// GetTxCmd returns the transaction commands for the builder module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Batch pool builder transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdBuildMassPools(),
		CmdBuildRefundMassPools(),
		CmdUpdateParams(),
	)

	return cmd
}

// CmdBuildMassPools returns the command to open one pool per allocation
func CmdBuildMassPools() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build-mass [provider] [token] [user:amount]...",
		Short: "Open one pool per allocation with a shared schedule",
		Example: `lockdealnd tx builder build-mass lock tkn --from cosmos1... \
  --params 1700003600,1700000100 cosmos1...:300 cosmos1...:200`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			allocations, _, err := ParseAllocationArgs(args[2:])
			if err != nil {
				return err
			}
			params, _ := cmd.Flags().GetStringSlice(flagParams)
			sig, _ := cmd.Flags().GetString(flagSignature)
			return apiclient.BroadcastTxCLI(cmd, &types.MsgBuildMassPools{
				Sender:         apiclient.Sender(cmd),
				Provider:       args[0],
				Token:          args[1],
				Allocations:    allocations,
				ScheduleParams: params,
				Signature:      sig,
			})
		},
	}

	cmd.Flags().StringSlice(flagParams, nil, "schedule params after the amount, comma separated")
	cmd.Flags().String(flagSignature, "", "hex custody signature over the batch total")
	apiclient.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdBuildRefundMassPools returns the command to open a collateral pool and
// one refund pool per allocation
func CmdBuildRefundMassPools() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build-refund-mass [token] [main-coin] [main-coin-amount] [finish-time] [user:amount]...",
		Short: "Open a collateral pool and refund pools backed by it",
		Args:  cobra.MinimumNArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			allocations, _, err := ParseAllocationArgs(args[4:])
			if err != nil {
				return err
			}
			tokenSig, _ := cmd.Flags().GetString(flagTokenSig)
			mainCoinSig, _ := cmd.Flags().GetString(flagMainCoinSig)
			return apiclient.BroadcastTxCLI(cmd, &types.MsgBuildRefundMassPools{
				Sender:            apiclient.Sender(cmd),
				Token:             args[0],
				MainCoin:          args[1],
				MainCoinAmount:    args[2],
				FinishTime:        args[3],
				Allocations:       allocations,
				TokenSignature:    tokenSig,
				MainCoinSignature: mainCoinSig,
			})
		},
	}

	cmd.Flags().String(flagTokenSig, "", "hex token custody signature")
	cmd.Flags().String(flagMainCoinSig, "", "hex main coin custody signature")
	apiclient.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdUpdateParams returns the command to change the batch size limit
func CmdUpdateParams() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-params [max-batch-size]",
		Short: "Replace the builder params (authority only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid max batch size: %v", err)
			}
			return apiclient.BroadcastTxCLI(cmd, &types.MsgUpdateParams{
				Authority: apiclient.Sender(cmd),
				Params:    types.Params{MaxBatchSize: uint32(size)},
			})
		},
	}

	apiclient.AddTxFlagsToCmd(cmd)
	return cmd
}

// ParseAllocationArgs reads user:amount pairs and returns them with their sum
func ParseAllocationArgs(args []string) ([]types.AllocationEntry, math.Int, error) {
	entries := make([]types.AllocationEntry, 0, len(args))
	sum := math.ZeroInt()
	for _, arg := range args {
		user, amount, ok := strings.Cut(arg, ":")
		if !ok {
			return nil, math.Int{}, fmt.Errorf("allocation %q: want user:amount", arg)
		}
		v, ok := math.NewIntFromString(amount)
		if !ok {
			return nil, math.Int{}, fmt.Errorf("allocation %q: invalid amount", arg)
		}
		var err error
		if sum, err = sum.SafeAdd(v); err != nil {
			return nil, math.Int{}, fmt.Errorf("allocations total: %w", err)
		}
		entries = append(entries, types.AllocationEntry{User: user, Amount: amount})
	}
	return entries, sum, nil
}
