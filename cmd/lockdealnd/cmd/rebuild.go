package cmd

import (
	"encoding/hex"

	"github.com/spf13/cobra"

	buildercli "github.com/openalpha/lockdeal/x/builder/client/cli"
	buildertypes "github.com/openalpha/lockdeal/x/builder/types"
)

const (
	flagTokenSig    = "token-sig"
	flagMainCoinSig = "main-coin-sig"
	flagTotal       = "total"
)

// EncodeRebuildCmd prints the payload that rebuilds a collateral pool when
// it is transferred to the builder
func EncodeRebuildCmd() *cobra.Command {
	var req buildertypes.RebuildRequest

	cmd := &cobra.Command{
		Use:   "encode-rebuild [user:amount]...",
		Short: "ABI encode a rebuild payload for a collateral pool transfer",
		Example: `lockdealnd encode-rebuild --token-sig 0x01 --main-coin-sig 0x02 \
  cosmos1...:300 cosmos1...:200`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			allocations, total, err := buildercli.ParseAllocationArgs(args)
			if err != nil {
				return err
			}
			req.Allocations = allocations
			if req.TotalAmount == "" {
				req.TotalAmount = total.String()
			}
			payload, err := req.Payload()
			if err != nil {
				return err
			}
			cmd.Println("0x" + hex.EncodeToString(payload))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.TokenSignature, flagTokenSig, "", "hex token custody signature")
	cmd.Flags().StringVar(&req.MainCoinSignature, flagMainCoinSig, "", "hex main coin custody signature")
	cmd.Flags().StringVar(&req.TotalAmount, flagTotal, "", "total token amount (defaults to the allocation sum)")
	return cmd
}
