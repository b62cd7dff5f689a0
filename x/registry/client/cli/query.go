package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/spf13/cobra"

	"github.com/openalpha/lockdeal/pkg/apiclient"
	"github.com/openalpha/lockdeal/x/registry/types"
)

const (
	flagStart  = "start"
	flagLimit  = "limit"
	flagBefore = "before"
)

// GetQueryCmd returns the cli query commands for the registry module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the pool registry",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdQueryPool(),
		CmdQueryPools(),
		CmdQueryReleasable(),
		CmdQueryOwnerPools(),
		CmdQueryUnlocks(),
	)

	return cmd
}

// CmdQueryPool returns the command to query one pool
func CmdQueryPool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool [pool-id]",
		Short: "Query a pool by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			pool, err := apiclient.FromCmd(cmd).GetPool(cmd.Context(), poolID)
			if err != nil {
				return err
			}
			return apiclient.PrintJSON(cmd, pool)
		},
	}

	apiclient.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryPools returns the command to page through pools
func CmdQueryPools() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pools",
		Short: "List pools in id order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, _ := cmd.Flags().GetUint64(flagStart)
			limit, _ := cmd.Flags().GetInt(flagLimit)
			resp, err := apiclient.FromCmd(cmd).ListPools(cmd.Context(), start, limit)
			if err != nil {
				return err
			}
			return apiclient.PrintJSON(cmd, resp)
		},
	}

	cmd.Flags().Uint64(flagStart, 0, "first pool id")
	cmd.Flags().Int(flagLimit, 50, "page size")
	apiclient.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryReleasable returns the command to query the withdrawable amount of a pool
func CmdQueryReleasable() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "releasable [pool-id]",
		Short: "Query how much of a pool can be withdrawn now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			resp, err := apiclient.FromCmd(cmd).Releasable(cmd.Context(), poolID)
			if err != nil {
				return err
			}
			return apiclient.PrintJSON(cmd, resp)
		},
	}

	apiclient.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryOwnerPools returns the command to list the pools of an owner
func CmdQueryOwnerPools() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "owner-pools [owner]",
		Short: "List the pools held by an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pools, err := apiclient.FromCmd(cmd).PoolsByOwner(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return apiclient.PrintJSON(cmd, pools)
		},
	}

	apiclient.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryUnlocks returns the command to list pools finishing soon
func CmdQueryUnlocks() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unlocks",
		Short: "List open pools that finish before a time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			before, _ := cmd.Flags().GetInt64(flagBefore)
			limit, _ := cmd.Flags().GetInt(flagLimit)
			if before == 0 {
				before = time.Now().Add(24 * time.Hour).Unix()
			}
			unlocks, err := apiclient.FromCmd(cmd).Unlocks(cmd.Context(), time.Unix(before, 0), limit)
			if err != nil {
				return err
			}
			return apiclient.PrintJSON(cmd, unlocks)
		},
	}

	cmd.Flags().Int64(flagBefore, 0, "unix time bound (defaults to 24h from now)")
	cmd.Flags().Int(flagLimit, 0, "maximum number of pools")
	apiclient.AddQueryFlagsToCmd(cmd)
	return cmd
}

func parsePoolID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid pool id: %v", err)
	}
	return id, nil
}
