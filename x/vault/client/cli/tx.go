package cli

import (
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/spf13/cobra"

	"github.com/openalpha/lockdeal/pkg/apiclient"
	"github.com/openalpha/lockdeal/x/vault/types"
)

// GetTxCmd returns the transaction commands for the vault module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Vault transaction commands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdMint(),
		CmdSetTrustedSigner(),
	)

	return cmd
}

// CmdMint returns the command to credit a test balance (authority only)
func CmdMint() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint [to] [token] [amount]",
		Short: "Credit a balance (authority only)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiclient.BroadcastTxCLI(cmd, &types.MsgMint{
				Authority: apiclient.Sender(cmd),
				To:        args[0],
				Token:     args[1],
				Amount:    args[2],
			})
		},
	}

	apiclient.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSetTrustedSigner returns the command to install the custody signer
func CmdSetTrustedSigner() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-trusted-signer [hex-address]",
		Short: "Set the address whose signatures authorize deposits (authority only)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := &types.MsgSetTrustedSigner{Authority: apiclient.Sender(cmd)}
			if len(args) == 1 {
				msg.Signer = args[0]
			}
			return apiclient.BroadcastTxCLI(cmd, msg)
		},
	}

	apiclient.AddTxFlagsToCmd(cmd)
	return cmd
}
