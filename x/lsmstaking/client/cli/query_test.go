package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/tokenize-x/lsm-staking/testutil/simapp"
	"github.com/tokenize-x/lsm-staking/x/lsmstaking/client/cli"
	"github.com/tokenize-x/lsm-staking/x/lsmstaking/keeper"
	"github.com/tokenize-x/lsm-staking/x/lsmstaking/types"
)

func setupPool(t *testing.T, stakers ...int64) (cli.QueryProvider, []sdk.AccAddress) {
	testApp := simapp.New()
	ctx := testApp.NewContext()
	config, err := testApp.ConfigurePool(ctx, testApp.GenAccount(), nil)
	require.NoError(t, err)

	addrs := make([]sdk.AccAddress, 0, len(stakers))
	for _, amount := range stakers {
		staker := testApp.GenAccount()
		receipt := testApp.IssueReceipt(t, ctx, staker, config.Validator, amount)
		_, err := testApp.LsmStakingKeeper.DepositLsmShares(ctx, staker, sdk.NewCoins(receipt))
		require.NoError(t, err)
		addrs = append(addrs, staker)
	}

	provider := func(*cobra.Command) (context.Context, types.QueryServer, error) {
		return ctx, keeper.NewQueryService(testApp.LsmStakingKeeper), nil
	}
	return provider, addrs
}

func execQueryCmd(t *testing.T, cmd *cobra.Command, args []string, resp any) {
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	require.NoError(t, json.Unmarshal(buf.Bytes(), resp))
}

func TestQueryConfig(t *testing.T) {
	requireT := require.New(t)
	provider, _ := setupPool(t, 100)

	var resp types.QueryConfigResponse
	execQueryCmd(t, cli.CmdQueryConfig(provider), []string{}, &resp)
	requireT.Equal(simapp.DefaultBondDenom, resp.Config.StakingDenom)
	requireT.Equal("100", resp.TotalShares.String())
	requireT.False(resp.IsPaused)
}

func TestQueryStakerInfo(t *testing.T) {
	requireT := require.New(t)
	provider, stakers := setupPool(t, 250)

	var resp types.QueryStakerInfoResponse
	execQueryCmd(t, cli.GetQueryCmd(provider), []string{"staker-info", stakers[0].String()}, &resp)
	requireT.Equal(stakers[0].String(), resp.Staker.Address)
	requireT.Equal("250", resp.Staker.StakedShares.String())
	requireT.True(resp.Staker.PendingRewards.IsZero())

	cmd := cli.CmdQueryStakerInfo(provider)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"invalid"})
	requireT.Error(cmd.Execute())
}

func TestQueryStakers(t *testing.T) {
	requireT := require.New(t)
	provider, stakers := setupPool(t, 10, 20, 30)

	var all types.QueryStakersResponse
	execQueryCmd(t, cli.CmdQueryStakers(provider), []string{}, &all)
	requireT.Len(all.Stakers, len(stakers))

	var page types.QueryStakersResponse
	execQueryCmd(t, cli.CmdQueryStakers(provider), []string{
		"--" + cli.FlagStartAfter, all.Stakers[0].Address,
		"--" + cli.FlagLimit, "1",
	}, &page)
	requireT.Len(page.Stakers, 1)
	requireT.Equal(all.Stakers[1].Address, page.Stakers[0].Address)
}

func TestQueryVotingSession_InvalidProposalID(t *testing.T) {
	provider, _ := setupPool(t)

	cmd := cli.CmdQueryVotingSession(provider)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"first"})
	require.ErrorContains(t, cmd.Execute(), "invalid proposal id")
}

func TestQueryPendingOperations(t *testing.T) {
	requireT := require.New(t)
	provider, _ := setupPool(t, 10)

	var resp types.QueryPendingOperationsResponse
	execQueryCmd(t, cli.CmdQueryPendingOperations(provider), []string{}, &resp)
	requireT.Empty(resp.Operations)
}
