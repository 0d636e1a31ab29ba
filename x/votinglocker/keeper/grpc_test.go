package keeper_test

import (
	"testing"

	govv1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tokenize-x/lsm-staking/x/votinglocker/keeper"
	"github.com/tokenize-x/lsm-staking/x/votinglocker/types"
)

func TestQueries(t *testing.T) {
	requireT := require.New(t)
	env := newLockerEnv(t)
	queryService := keeper.NewQueryService(env.app.VotingLockerKeeper)
	requireT.NoError(env.app.OpenProposal(env.ctx, 2))

	yes := env.fill(t, govv1.OptionYes, 70)
	_, err := env.app.VotingLockerKeeper.Instantiate(env.ctx, env.params(govv1.OptionNo))
	requireT.NoError(err)
	params := env.params(govv1.OptionYes)
	params.ProposalID = 2
	_, err = env.app.VotingLockerKeeper.Instantiate(env.ctx, params)
	requireT.NoError(err)

	config, err := queryService.Config(env.ctx, &types.QueryConfigRequest{Locker: yes.String()})
	requireT.NoError(err)
	requireT.Equal(govv1.OptionYes, config.Locker.Option)
	requireT.Equal(uint64(1), config.Locker.ProposalID)

	power, err := queryService.TotalVotingPower(env.ctx, &types.QueryTotalVotingPowerRequest{Locker: yes.String()})
	requireT.NoError(err)
	requireT.Equal("70", power.Shares.String())
	requireT.Equal("70", power.Delegated.String())

	all, err := queryService.Lockers(env.ctx, &types.QueryLockersRequest{})
	requireT.NoError(err)
	requireT.Len(all.Lockers, 3)

	filtered, err := queryService.Lockers(env.ctx, &types.QueryLockersRequest{ProposalID: 1})
	requireT.NoError(err)
	requireT.Len(filtered.Lockers, 2)

	_, err = queryService.Config(env.ctx, &types.QueryConfigRequest{Locker: "invalid"})
	requireT.Equal(codes.InvalidArgument, status.Code(err))
	_, err = queryService.TotalVotingPower(env.ctx, nil)
	requireT.Equal(codes.InvalidArgument, status.Code(err))
	_, err = queryService.Config(env.ctx, &types.QueryConfigRequest{Locker: env.app.GenAccount().String()})
	requireT.ErrorIs(err, types.ErrLockerNotFound)
}
