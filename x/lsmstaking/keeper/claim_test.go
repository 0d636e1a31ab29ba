package keeper_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/tokenize-x/lsm-staking/pkg/saga"
	"github.com/tokenize-x/lsm-staking/x/lsmstaking/types"
)

func TestClaimRewards(t *testing.T) {
	requireT := require.New(t)
	env := newTestEnv(t, nil)
	keeper := env.app.LsmStakingKeeper
	staker := env.app.GenAccount()
	env.deposit(t, staker, 1000)
	requireT.NoError(env.app.Host.AccrueRewards(env.ctx, keeper.PoolAddress(), env.validator(t), sdkmath.NewInt(50)))

	id, err := keeper.ClaimRewards(env.ctx, staker)
	requireT.NoError(err)

	rec, err := keeper.Continuations.Get(env.ctx, id)
	requireT.NoError(err)
	requireT.Equal(saga.StatusCommandIssued, rec.Status)
	requireT.Equal(types.KindClaim, rec.Kind)
	requireT.Equal(staker.String(), rec.Payload.Claim.Claimer)

	requireT.NoError(env.app.Host.DeliverAll(env.ctx))
	requireT.Zero(env.pending(t))
	requireT.Equal(sdkmath.LegacyMustNewDecFromStr("0.05").String(), env.state(t).GlobalRewardIndex.String())
	requireT.Equal("50", env.app.Host.GetBalance(env.ctx, staker, env.config.StakingDenom).Amount.String())

	record, err := keeper.GetStaker(env.ctx, staker)
	requireT.NoError(err)
	requireT.Equal(env.state(t).GlobalRewardIndex.String(), record.RewardIndex.String())
}

func TestClaimRewards_SharedWithOtherStakers(t *testing.T) {
	requireT := require.New(t)
	env := newTestEnv(t, nil)
	keeper := env.app.LsmStakingKeeper
	stakerA := env.app.GenAccount()
	stakerB := env.app.GenAccount()
	env.deposit(t, stakerA, 300)
	env.deposit(t, stakerB, 100)
	requireT.NoError(env.app.Host.AccrueRewards(env.ctx, keeper.PoolAddress(), env.validator(t), sdkmath.NewInt(40)))

	_, err := keeper.ClaimRewards(env.ctx, stakerA)
	requireT.NoError(err)
	requireT.NoError(env.app.Host.DeliverAll(env.ctx))
	requireT.Equal("30", env.app.Host.GetBalance(env.ctx, stakerA, env.config.StakingDenom).Amount.String())

	// the share of B stays in the pool and is paid without a new withdrawal
	_, err = keeper.ClaimRewards(env.ctx, stakerB)
	requireT.NoError(err)
	requireT.NoError(env.app.Host.DeliverAll(env.ctx))
	requireT.Equal("10", env.app.Host.GetBalance(env.ctx, stakerB, env.config.StakingDenom).Amount.String())
	requireT.True(env.app.Host.GetBalance(env.ctx, keeper.PoolAddress(), env.config.StakingDenom).Amount.IsZero())
}

func TestClaimRewards_BaselineFollowsPoolPayments(t *testing.T) {
	requireT := require.New(t)
	env := newTestEnv(t, nil)
	keeper := env.app.LsmStakingKeeper
	staker := env.app.GenAccount()
	funder := env.app.GenAccount()
	env.app.MintAndSendCoin(t, env.ctx, funder, sdk.NewCoins(env.stake(100)))
	env.deposit(t, staker, 1000)
	requireT.NoError(env.app.Host.AccrueRewards(env.ctx, keeper.PoolAddress(), env.validator(t), sdkmath.NewInt(50)))

	id, err := keeper.ClaimRewards(env.ctx, staker)
	requireT.NoError(err)

	// rewards deposited while the claim is pending are indexed once
	requireT.NoError(keeper.DepositRewards(env.ctx, funder, sdk.NewCoins(env.stake(100))))
	rec, err := keeper.Continuations.Get(env.ctx, id)
	requireT.NoError(err)
	requireT.Equal("100", rec.Payload.Claim.BalanceBefore.String())

	requireT.NoError(env.app.Host.DeliverAll(env.ctx))
	requireT.Equal(sdkmath.LegacyMustNewDecFromStr("0.15").String(), env.state(t).GlobalRewardIndex.String())
	requireT.Equal("150", env.app.Host.GetBalance(env.ctx, staker, env.config.StakingDenom).Amount.String())
}

func TestClaimRewards_NoRewards(t *testing.T) {
	requireT := require.New(t)
	env := newTestEnv(t, nil)
	keeper := env.app.LsmStakingKeeper
	staker := env.app.GenAccount()
	env.deposit(t, staker, 1000)

	_, err := keeper.ClaimRewards(env.ctx, staker)
	requireT.NoError(err)

	_, err = env.app.Host.Deliver(env.ctx)
	requireT.ErrorIs(err, types.ErrNoRewards)
	requireT.Zero(env.pending(t))

	// the claim slot is free again
	_, err = keeper.ClaimRewards(env.ctx, staker)
	requireT.NoError(err)
}

func TestClaimRewards_Validation(t *testing.T) {
	requireT := require.New(t)
	env := newTestEnv(t, nil)
	keeper := env.app.LsmStakingKeeper
	staker := env.app.GenAccount()
	other := env.app.GenAccount()
	env.deposit(t, staker, 1000)
	env.deposit(t, other, 1000)

	_, err := keeper.ClaimRewards(env.ctx, env.app.GenAccount())
	requireT.ErrorIs(err, types.ErrStakerNotFound)

	_, err = keeper.ClaimRewards(env.ctx, staker)
	requireT.NoError(err)
	_, err = keeper.ClaimRewards(env.ctx, other)
	requireT.ErrorIs(err, types.ErrOperationPending)

	// claims and withdrawals use different slots
	_, err = keeper.Withdraw(env.ctx, other, sdkmath.NewInt(10), "")
	requireT.NoError(err)
	requireT.Equal(2, env.pending(t))
}

func TestClaimRewards_FailedWithdrawal(t *testing.T) {
	requireT := require.New(t)
	env := newTestEnv(t, nil)
	keeper := env.app.LsmStakingKeeper
	staker := env.app.GenAccount()
	env.deposit(t, staker, 1000)
	requireT.NoError(env.app.Host.AccrueRewards(env.ctx, keeper.PoolAddress(), env.validator(t), sdkmath.NewInt(50)))

	_, err := keeper.ClaimRewards(env.ctx, staker)
	requireT.NoError(err)
	_, err = env.app.Host.DeliverFailure(env.ctx)
	requireT.NoError(err)

	requireT.Zero(env.pending(t))
	requireT.True(env.state(t).GlobalRewardIndex.IsZero())
	requireT.True(env.app.Host.GetBalance(env.ctx, staker, env.config.StakingDenom).Amount.IsZero())

	// the accrued rewards are still claimable
	_, err = keeper.ClaimRewards(env.ctx, staker)
	requireT.NoError(err)
	requireT.NoError(env.app.Host.DeliverAll(env.ctx))
	requireT.Equal("50", env.app.Host.GetBalance(env.ctx, staker, env.config.StakingDenom).Amount.String())
}
