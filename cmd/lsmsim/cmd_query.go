package main

import (
	"context"

	"cosmossdk.io/log"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/spf13/cobra"

	"github.com/tokenize-x/lsm-staking/cmd/lsmsim/scenario"
	lsmcli "github.com/tokenize-x/lsm-staking/x/lsmstaking/client/cli"
	lsmkeeper "github.com/tokenize-x/lsm-staking/x/lsmstaking/keeper"
	lsmtypes "github.com/tokenize-x/lsm-staking/x/lsmstaking/types"
	lockercli "github.com/tokenize-x/lsm-staking/x/votinglocker/client/cli"
	lockerkeeper "github.com/tokenize-x/lsm-staking/x/votinglocker/keeper"
	lockertypes "github.com/tokenize-x/lsm-staking/x/votinglocker/types"
)

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Replay a scenario file and query the module state it leaves behind",
		RunE:  client.ValidateCmd,
	}
	cmd.PersistentFlags().String(flagScenario, "", "Path to the scenario file")

	cmd.AddCommand(
		lsmcli.GetQueryCmd(func(cmd *cobra.Command) (context.Context, lsmtypes.QueryServer, error) {
			runner, err := replay(cmd)
			if err != nil {
				return nil, nil, err
			}
			return runner.Context(), lsmkeeper.NewQueryService(runner.App().LsmStakingKeeper), nil
		}),
		lockercli.GetQueryCmd(func(cmd *cobra.Command) (context.Context, lockertypes.QueryServer, error) {
			runner, err := replay(cmd)
			if err != nil {
				return nil, nil, err
			}
			return runner.Context(), lockerkeeper.NewQueryService(runner.App().VotingLockerKeeper), nil
		}),
	)
	return cmd
}

// replay runs the scenario silently so the query output is the only thing printed.
func replay(cmd *cobra.Command) (*scenario.Runner, error) {
	cfg, err := newConfig(cmd)
	if err != nil {
		return nil, err
	}
	sc, err := loadScenario(cfg)
	if err != nil {
		return nil, err
	}
	runner, err := scenario.NewRunner(sc, log.NewNopLogger())
	if err != nil {
		return nil, err
	}
	if _, err := runner.Run(sc); err != nil {
		return nil, err
	}
	return runner, nil
}
