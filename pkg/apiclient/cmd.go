package apiclient

import (
	"encoding/json"
	"fmt"

	"github.com/cosmos/cosmos-sdk/client/flags"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"
)

// FlagAPI names the API endpoint used by client commands
const FlagAPI = "api"

// AddQueryFlagsToCmd registers the endpoint flag used by read commands
func AddQueryFlagsToCmd(cmd *cobra.Command) {
	cmd.Flags().String(FlagAPI, DefaultConfig().BaseURL, "lockdeal API endpoint")
}

// AddTxFlagsToCmd registers the endpoint and sender flags used by submit
// commands
func AddTxFlagsToCmd(cmd *cobra.Command) {
	AddQueryFlagsToCmd(cmd)
	cmd.Flags().String(flags.FlagFrom, "", "sender address (bech32)")
	_ = cmd.MarkFlagRequired(flags.FlagFrom)
}

// FromCmd builds a client for the endpoint set on cmd
func FromCmd(cmd *cobra.Command) *Client {
	cfg := DefaultConfig()
	if url, _ := cmd.Flags().GetString(FlagAPI); url != "" {
		cfg.BaseURL = url
	}
	return NewClient(cfg, nil)
}

// Sender returns the --from address of a submit command
func Sender(cmd *cobra.Command) string {
	from, _ := cmd.Flags().GetString(flags.FlagFrom)
	return from
}

// PrintJSON writes v indented to the command output
func PrintJSON(cmd *cobra.Command, v any) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return err
}

// BroadcastTxCLI submits msg to the endpoint set on cmd and prints the result
func BroadcastTxCLI(cmd *cobra.Command, msg sdk.Msg) error {
	if v, ok := msg.(sdk.HasValidateBasic); ok {
		if err := v.ValidateBasic(); err != nil {
			return err
		}
	}
	resp, err := FromCmd(cmd).Submit(cmd.Context(), msg)
	if err != nil {
		return err
	}
	return PrintJSON(cmd, resp)
}
