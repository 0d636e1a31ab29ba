package keeper_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	govv1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1"
	"github.com/stretchr/testify/require"

	"github.com/tokenize-x/lsm-staking/x/lsmstaking/keeper"
	"github.com/tokenize-x/lsm-staking/x/lsmstaking/types"
	votinglockertypes "github.com/tokenize-x/lsm-staking/x/votinglocker/types"
)

func TestCreateVotingLockers(t *testing.T) {
	requireT := require.New(t)
	env := newTestEnv(t, nil)
	lsmKeeper := env.app.LsmStakingKeeper
	requireT.NoError(env.app.OpenProposal(env.ctx, 1))

	_, err := lsmKeeper.CreateVotingLockers(env.ctx, env.app.GenAccount(), 1)
	requireT.ErrorIs(err, types.ErrUnauthorized)

	lockers, err := lsmKeeper.CreateVotingLockers(env.ctx, env.owner, 1)
	requireT.NoError(err)
	requireT.Len(lockers, len(env.config.VoteOptions))

	for i, ref := range lockers {
		requireT.Equal(env.config.VoteOptions[i], ref.Option)
		addr := votinglockertypes.LockerAddress(1, ref.Option)
		requireT.Equal(addr.String(), ref.Address)

		vote, err := env.app.Host.GetVote(env.ctx, 1, addr)
		requireT.NoError(err)
		requireT.Equal(ref.Option, vote)

		locker, err := env.app.VotingLockerKeeper.GetLocker(env.ctx, addr)
		requireT.NoError(err)
		requireT.Equal(lsmKeeper.PoolAddress().String(), locker.Manager)
		requireT.Equal(env.config.Validator, locker.Validator)
		requireT.True(locker.HasVoted)
	}

	session, err := lsmKeeper.GetVotingSession(env.ctx, 1)
	requireT.NoError(err)
	requireT.True(session.IsActive)
	paused, err := lsmKeeper.IsPaused(env.ctx)
	requireT.NoError(err)
	requireT.True(paused)

	_, err = lsmKeeper.CreateVotingLockers(env.ctx, env.owner, 1)
	requireT.ErrorIs(err, types.ErrSessionExists)

	_, err = lsmKeeper.CreateVotingLockers(env.ctx, env.owner, 2)
	requireT.ErrorIs(err, votinglockertypes.ErrProposalNotFound)

	requireT.NoError(env.app.Host.SetProposal(env.ctx, 3, govv1.StatusDepositPeriod))
	_, err = lsmKeeper.CreateVotingLockers(env.ctx, env.owner, 3)
	requireT.ErrorIs(err, votinglockertypes.ErrProposalNotInVoting)
}

func TestPausedPool(t *testing.T) {
	requireT := require.New(t)
	env := newTestEnv(t, nil)
	lsmKeeper := env.app.LsmStakingKeeper
	staker := env.app.GenAccount()
	env.deposit(t, staker, 100)
	requireT.NoError(env.app.OpenProposal(env.ctx, 1))
	_, err := lsmKeeper.CreateVotingLockers(env.ctx, env.owner, 1)
	requireT.NoError(err)

	receipt := env.app.IssueReceipt(t, env.ctx, staker, env.config.Validator, 10)
	_, err = lsmKeeper.DepositLsmShares(env.ctx, staker, sdk.NewCoins(receipt))
	requireT.ErrorIs(err, types.ErrPaused)
	_, err = lsmKeeper.Withdraw(env.ctx, staker, sdkmath.NewInt(10), "")
	requireT.ErrorIs(err, types.ErrPaused)

	// claims are allowed while paused
	requireT.NoError(env.app.Host.AccrueRewards(env.ctx, lsmKeeper.PoolAddress(), env.validator(t), sdkmath.NewInt(10)))
	_, err = lsmKeeper.ClaimRewards(env.ctx, staker)
	requireT.NoError(err)
	requireT.NoError(env.app.Host.DeliverAll(env.ctx))
	requireT.Equal("10", env.app.Host.GetBalance(env.ctx, staker, env.config.StakingDenom).Amount.String())
}

func TestDestroyVotingLockers(t *testing.T) {
	requireT := require.New(t)
	env := newTestEnv(t, nil)
	lsmKeeper := env.app.LsmStakingKeeper
	requireT.NoError(env.app.OpenProposal(env.ctx, 1))
	_, err := lsmKeeper.CreateVotingLockers(env.ctx, env.owner, 1)
	requireT.NoError(err)

	requireT.ErrorIs(lsmKeeper.DestroyVotingLockers(env.ctx, env.owner, 1), types.ErrProposalStillActive)
	requireT.ErrorIs(lsmKeeper.DestroyVotingLockers(env.ctx, env.owner, 7), types.ErrSessionNotFound)

	requireT.NoError(env.app.Host.SetProposal(env.ctx, 1, govv1.StatusRejected))
	requireT.ErrorIs(lsmKeeper.DestroyVotingLockers(env.ctx, env.app.GenAccount(), 1), types.ErrUnauthorized)
	requireT.NoError(lsmKeeper.DestroyVotingLockers(env.ctx, env.owner, 1))

	session, err := lsmKeeper.GetVotingSession(env.ctx, 1)
	requireT.NoError(err)
	requireT.False(session.IsActive)
	paused, err := lsmKeeper.IsPaused(env.ctx)
	requireT.NoError(err)
	requireT.False(paused)

	for _, ref := range session.Lockers {
		addr, err := sdk.AccAddressFromBech32(ref.Address)
		requireT.NoError(err)
		locker, err := env.app.VotingLockerKeeper.GetLocker(env.ctx, addr)
		requireT.NoError(err)
		requireT.True(locker.Destroyed)
	}

	// empty lockers issue no command
	commands, err := env.app.Host.Pending(env.ctx)
	requireT.NoError(err)
	requireT.Empty(commands)

	requireT.ErrorIs(lsmKeeper.DestroyVotingLockers(env.ctx, env.owner, 1), types.ErrSessionInactive)
}

func TestDestroyVotingLockers_StaysPausedWhileSessionsRemain(t *testing.T) {
	requireT := require.New(t)
	env := newTestEnv(t, nil)
	lsmKeeper := env.app.LsmStakingKeeper
	requireT.NoError(env.app.OpenProposal(env.ctx, 1))
	requireT.NoError(env.app.OpenProposal(env.ctx, 2))
	_, err := lsmKeeper.CreateVotingLockers(env.ctx, env.owner, 1)
	requireT.NoError(err)
	_, err = lsmKeeper.CreateVotingLockers(env.ctx, env.owner, 2)
	requireT.NoError(err)

	requireT.NoError(env.app.Host.SetProposal(env.ctx, 1, govv1.StatusPassed))
	err = lsmKeeper.DestroyVotingLockers(env.ctx, env.owner, 1)
	requireT.ErrorIs(err, types.ErrCannotUnpause)

	// the session is closed even though the pool stays paused
	session, err := lsmKeeper.GetVotingSession(env.ctx, 1)
	requireT.NoError(err)
	requireT.False(session.IsActive)
	paused, err := lsmKeeper.IsPaused(env.ctx)
	requireT.NoError(err)
	requireT.True(paused)
	active, err := lsmKeeper.CountActiveSessions(env.ctx)
	requireT.NoError(err)
	requireT.Equal(1, active)

	// a purged proposal counts as finished
	requireT.NoError(env.app.Host.RemoveProposal(env.ctx, 2))
	requireT.NoError(lsmKeeper.DestroyVotingLockers(env.ctx, env.owner, 2))
	paused, err = lsmKeeper.IsPaused(env.ctx)
	requireT.NoError(err)
	requireT.False(paused)

	msg, broken := keeper.PauseFlagInvariant(lsmKeeper)(env.ctx)
	requireT.False(broken, msg)
}

func TestDestroyVotingLockers_WaitsForPendingRental(t *testing.T) {
	requireT := require.New(t)
	env := newTestEnv(t, nil)
	lsmKeeper := env.app.LsmStakingKeeper
	staker := env.app.GenAccount()
	renter := env.app.GenAccount()
	env.deposit(t, staker, 1000)
	env.app.MintAndSendCoin(t, env.ctx, renter, sdk.NewCoins(env.stake(50)))
	requireT.NoError(env.app.OpenProposal(env.ctx, 1))
	_, err := lsmKeeper.CreateVotingLockers(env.ctx, env.owner, 1)
	requireT.NoError(err)

	_, err = lsmKeeper.RentVotingPower(env.ctx, renter, 1, govv1.OptionYes, sdk.NewCoins(env.stake(50)))
	requireT.NoError(err)
	requireT.NoError(env.app.Host.SetProposal(env.ctx, 1, govv1.StatusPassed))

	// the rented receipt is still on its way to the locker
	requireT.ErrorIs(lsmKeeper.DestroyVotingLockers(env.ctx, env.owner, 1), types.ErrOperationPending)
	session, err := lsmKeeper.GetVotingSession(env.ctx, 1)
	requireT.NoError(err)
	requireT.True(session.IsActive)
	for _, ref := range session.Lockers {
		addr, err := sdk.AccAddressFromBech32(ref.Address)
		requireT.NoError(err)
		locker, err := env.app.VotingLockerKeeper.GetLocker(env.ctx, addr)
		requireT.NoError(err)
		requireT.False(locker.Destroyed)
	}

	requireT.NoError(env.app.Host.DeliverAll(env.ctx))
	requireT.NoError(lsmKeeper.DestroyVotingLockers(env.ctx, env.owner, 1))
	requireT.NoError(env.app.Host.DeliverAll(env.ctx))
	requireT.Equal("1000", env.delegated(t).String())
	requireT.True(env.receiptBalance(lsmKeeper.PoolAddress()).IsZero())

	// the next withdrawer gets a receipt of exactly the requested amount
	_, err = lsmKeeper.Withdraw(env.ctx, staker, sdkmath.NewInt(100), "")
	requireT.NoError(err)
	requireT.NoError(env.app.Host.DeliverAll(env.ctx))
	requireT.Equal("100", env.receiptBalance(staker).String())
	requireT.True(env.receiptBalance(lsmKeeper.PoolAddress()).IsZero())
	requireT.Equal("900", env.delegated(t).String())
}

func TestReturnLsmShares_Validation(t *testing.T) {
	requireT := require.New(t)
	env := newTestEnv(t, nil)
	lsmKeeper := env.app.LsmStakingKeeper
	requireT.NoError(env.app.OpenProposal(env.ctx, 1))
	lockers, err := lsmKeeper.CreateVotingLockers(env.ctx, env.owner, 1)
	requireT.NoError(err)

	yesLocker, err := sdk.AccAddressFromBech32(lockers[0].Address)
	requireT.NoError(err)
	receipt := env.app.IssueReceipt(t, env.ctx, yesLocker, env.config.Validator, 10)

	stranger := env.app.GenAccount()
	err = lsmKeeper.ReturnLsmShares(env.ctx, stranger, 1, govv1.OptionYes, sdk.NewCoins(receipt))
	requireT.ErrorIs(err, types.ErrInvalidLocker)

	err = lsmKeeper.ReturnLsmShares(env.ctx, yesLocker, 1, govv1.OptionNo, sdk.NewCoins(receipt))
	requireT.ErrorIs(err, types.ErrInvalidLocker)

	err = lsmKeeper.ReturnLsmShares(env.ctx, yesLocker, 2, govv1.OptionYes, sdk.NewCoins(receipt))
	requireT.ErrorIs(err, types.ErrSessionNotFound)

	stake := sdk.NewCoins(env.stake(10))
	env.app.MintAndSendCoin(t, env.ctx, yesLocker, stake)
	err = lsmKeeper.ReturnLsmShares(env.ctx, yesLocker, 1, govv1.OptionYes, stake)
	requireT.ErrorIs(err, types.ErrInvalidLsmShares)

	state := env.state(t)
	requireT.NoError(lsmKeeper.ReturnLsmShares(env.ctx, yesLocker, 1, govv1.OptionYes, sdk.NewCoins(receipt)))
	requireT.Equal("10", env.delegated(t).String())
	requireT.Equal(state.TotalShares.String(), env.state(t).TotalShares.String())
}
