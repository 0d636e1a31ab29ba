package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/version"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tokenize-x/lsm-staking/x/lsmstaking/types"
)

const (
	// FlagStartAfter is the staker address the listing starts after.
	FlagStartAfter = "start-after"
	// FlagLimit is the maximum number of listed stakers.
	FlagLimit = "limit"
)

// QueryProvider returns the query server the commands run against and the context of the queries.
type QueryProvider func(cmd *cobra.Command) (context.Context, types.QueryServer, error)

// GetQueryCmd returns the parent command for all CLI query commands.
func GetQueryCmd(provider QueryProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the lsmstaking module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(CmdQueryConfig(provider))
	cmd.AddCommand(CmdQueryStakerInfo(provider))
	cmd.AddCommand(CmdQueryStakers(provider))
	cmd.AddCommand(CmdQueryTotalStaked(provider))
	cmd.AddCommand(CmdQueryRewardIndex(provider))
	cmd.AddCommand(CmdQueryVotingSession(provider))
	cmd.AddCommand(CmdQueryVotingSessions(provider))
	cmd.AddCommand(CmdQueryPendingOperations(provider))

	return cmd
}

// CmdQueryConfig implements a command to fetch the pool configuration and aggregate state.
func CmdQueryConfig(provider QueryProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: fmt.Sprintf("Query the %s pool configuration", types.ModuleName),
		Args:  cobra.NoArgs,
		Long: strings.TrimSpace(
			fmt.Sprintf(`Query the pool configuration, total shares, reward index and pause flag:

Example:
$ %[1]s query %s config
`,
				version.AppName, types.ModuleName,
			),
		),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, queryServer, err := provider(cmd)
			if err != nil {
				return err
			}
			res, err := queryServer.Config(ctx, &types.QueryConfigRequest{})
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
}

// CmdQueryStakerInfo implements a command to fetch a staker with its pending rewards.
func CmdQueryStakerInfo(provider QueryProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "staker-info [address]",
		Short: "Query the shares and pending rewards of a staker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, queryServer, err := provider(cmd)
			if err != nil {
				return err
			}
			res, err := queryServer.StakerInfo(ctx, &types.QueryStakerInfoRequest{
				Address: args[0],
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
}

// CmdQueryStakers implements a command to list stakers in address order.
func CmdQueryStakers(provider QueryProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stakers",
		Short: "Query the stakers of the pool",
		Args:  cobra.NoArgs,
		Long: strings.TrimSpace(
			fmt.Sprintf(`Query the stakers of the pool, at most %d per page:

Example:
$ %[2]s query %s stakers --%s 10
`,
				types.MaxStakersLimit, version.AppName, types.ModuleName, FlagLimit,
			),
		),
		RunE: func(cmd *cobra.Command, args []string) error {
			startAfter, err := cmd.Flags().GetString(FlagStartAfter)
			if err != nil {
				return errors.WithStack(err)
			}
			limit, err := cmd.Flags().GetUint32(FlagLimit)
			if err != nil {
				return errors.WithStack(err)
			}
			ctx, queryServer, err := provider(cmd)
			if err != nil {
				return err
			}
			res, err := queryServer.Stakers(ctx, &types.QueryStakersRequest{
				StartAfter: startAfter,
				Limit:      limit,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}

	cmd.Flags().String(FlagStartAfter, "", "List stakers after this address")
	cmd.Flags().Uint32(FlagLimit, 0, "Maximum number of stakers to list")

	return cmd
}

// CmdQueryTotalStaked implements a command to fetch the total pool shares.
func CmdQueryTotalStaked(provider QueryProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "total-staked",
		Short: "Query the total shares of the pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, queryServer, err := provider(cmd)
			if err != nil {
				return err
			}
			res, err := queryServer.TotalStaked(ctx, &types.QueryTotalStakedRequest{})
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
}

// CmdQueryRewardIndex implements a command to fetch the stored global reward index.
func CmdQueryRewardIndex(provider QueryProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "reward-index",
		Short: "Query the global reward index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, queryServer, err := provider(cmd)
			if err != nil {
				return err
			}
			res, err := queryServer.RewardIndex(ctx, &types.QueryRewardIndexRequest{})
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
}

// CmdQueryVotingSession implements a command to fetch the voting session of a proposal.
func CmdQueryVotingSession(provider QueryProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "voting-session [proposal-id]",
		Short: "Query the voting session of a proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proposalID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return errors.Wrapf(err, "invalid proposal id %q", args[0])
			}
			ctx, queryServer, err := provider(cmd)
			if err != nil {
				return err
			}
			res, err := queryServer.VotingSession(ctx, &types.QueryVotingSessionRequest{
				ProposalID: proposalID,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
}

// CmdQueryVotingSessions implements a command to fetch all voting sessions.
func CmdQueryVotingSessions(provider QueryProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "voting-sessions",
		Short: "Query all voting sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, queryServer, err := provider(cmd)
			if err != nil {
				return err
			}
			res, err := queryServer.VotingSessions(ctx, &types.QueryVotingSessionsRequest{})
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
}

// CmdQueryPendingOperations implements a command to fetch the operations awaiting their continuation.
func CmdQueryPendingOperations(provider QueryProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "pending-operations",
		Short: "Query the operations awaiting their continuation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, queryServer, err := provider(cmd)
			if err != nil {
				return err
			}
			res, err := queryServer.PendingOperations(ctx, &types.QueryPendingOperationsRequest{})
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
}

func printJSON(cmd *cobra.Command, res any) error {
	bz, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return errors.WithStack(err)
}
