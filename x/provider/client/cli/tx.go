package cli

import (
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/spf13/cobra"

	"github.com/openalpha/lockdeal/pkg/apiclient"
	"github.com/openalpha/lockdeal/x/provider/types"
)

const (
	flagOwner     = "owner"
	flagSignature = "signature"
)

// GetTxCmd returns the transaction commands for the pool providers
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Deal, lock and timed pool transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(CmdCreatePool())
	return cmd
}

// CmdCreatePool returns the command to open a pool with one of the providers
func CmdCreatePool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-pool [deal|lock|timed] [token] [param]...",
		Short: "Deposit tokens into a new pool",
		Long: `Deposit tokens into a new pool. Params are decimal and depend on the provider:
  deal:  amount finish-time
  lock:  amount finish-time unlock-time
  timed: amount finish-time start-time finish-time`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			sender := apiclient.Sender(cmd)
			owner, _ := cmd.Flags().GetString(flagOwner)
			if owner == "" {
				owner = sender
			}
			sig, _ := cmd.Flags().GetString(flagSignature)
			return apiclient.BroadcastTxCLI(cmd, &types.MsgCreatePool{
				Sender:    sender,
				Owner:     owner,
				Provider:  args[0],
				Token:     args[1],
				Params:    args[2:],
				Signature: sig,
			})
		},
	}

	cmd.Flags().String(flagOwner, "", "pool owner (defaults to --from)")
	cmd.Flags().String(flagSignature, "", "hex custody signature over the deposit")
	apiclient.AddTxFlagsToCmd(cmd)
	return cmd
}
