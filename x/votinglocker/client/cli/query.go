package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tokenize-x/lsm-staking/x/votinglocker/types"
)

// FlagProposalID filters the listed lockers by proposal.
const FlagProposalID = "proposal-id"

// QueryProvider returns the query server the commands run against and the context of the queries.
type QueryProvider func(cmd *cobra.Command) (context.Context, types.QueryServer, error)

// GetQueryCmd returns the parent command for all CLI query commands.
func GetQueryCmd(provider QueryProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the votinglocker module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(CmdQueryLocker(provider))
	cmd.AddCommand(CmdQueryVotingPower(provider))
	cmd.AddCommand(CmdQueryLockers(provider))

	return cmd
}

// CmdQueryLocker implements a command to fetch the configuration of a locker.
func CmdQueryLocker(provider QueryProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "locker [address]",
		Short: "Query the configuration of a locker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, queryServer, err := provider(cmd)
			if err != nil {
				return err
			}
			res, err := queryServer.Config(ctx, &types.QueryConfigRequest{Locker: args[0]})
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
}

// CmdQueryVotingPower implements a command to fetch the shares and live delegation of a locker.
func CmdQueryVotingPower(provider QueryProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "voting-power [address]",
		Short: "Query the voting power of a locker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, queryServer, err := provider(cmd)
			if err != nil {
				return err
			}
			res, err := queryServer.TotalVotingPower(ctx, &types.QueryTotalVotingPowerRequest{Locker: args[0]})
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
}

// CmdQueryLockers implements a command to list lockers.
func CmdQueryLockers(provider QueryProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lockers",
		Short: "Query the lockers, optionally of one proposal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			proposalID, err := cmd.Flags().GetUint64(FlagProposalID)
			if err != nil {
				return errors.WithStack(err)
			}
			ctx, queryServer, err := provider(cmd)
			if err != nil {
				return err
			}
			res, err := queryServer.Lockers(ctx, &types.QueryLockersRequest{ProposalID: proposalID})
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}

	cmd.Flags().Uint64(FlagProposalID, 0, "List the lockers of this proposal only")

	return cmd
}

func printJSON(cmd *cobra.Command, res any) error {
	bz, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return errors.WithStack(err)
}
