package keeper_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/stretchr/testify/require"

	"github.com/tokenize-x/lsm-staking/x/lsmstaking/types"
)

func TestDepositLsmShares(t *testing.T) {
	requireT := require.New(t)
	env := newTestEnv(t, nil)
	keeper := env.app.LsmStakingKeeper
	staker := env.app.GenAccount()

	env.deposit(t, staker, 100)

	record, err := keeper.GetStaker(env.ctx, staker)
	requireT.NoError(err)
	requireT.Equal("100", record.StakedShares.String())
	requireT.True(record.RewardIndex.IsZero())
	requireT.Equal("100", env.state(t).TotalShares.String())

	// the receipt is redeemed into the pool delegation
	requireT.Equal("100", env.delegated(t).String())
	requireT.True(env.receiptBalance(keeper.PoolAddress()).IsZero())
	requireT.True(env.receiptBalance(staker).IsZero())

	env.deposit(t, staker, 50)
	record, err = keeper.GetStaker(env.ctx, staker)
	requireT.NoError(err)
	requireT.Equal("150", record.StakedShares.String())
	requireT.Equal("150", env.delegated(t).String())
}

func TestDepositLsmShares_Validation(t *testing.T) {
	env := newTestEnv(t, nil)
	keeper := env.app.LsmStakingKeeper
	staker := env.app.GenAccount()

	otherValidator, err := env.app.AddValidator(env.ctx)
	require.NoError(t, err)
	foreign := env.app.IssueReceipt(t, env.ctx, staker, otherValidator.String(), 10)
	receipt := env.app.IssueReceipt(t, env.ctx, staker, env.config.Validator, 10)
	env.app.MintAndSendCoin(t, env.ctx, staker, sdk.NewCoins(env.stake(10)))

	testCases := []struct {
		name  string
		funds sdk.Coins
		err   error
	}{
		{
			name:  "no_funds",
			funds: sdk.NewCoins(),
			err:   types.ErrInvalidLsmShares,
		},
		{
			name:  "two_coins",
			funds: sdk.NewCoins(receipt, env.stake(10)),
			err:   types.ErrInvalidLsmShares,
		},
		{
			name:  "not_a_receipt",
			funds: sdk.NewCoins(env.stake(10)),
			err:   types.ErrInvalidLsmShares,
		},
		{
			name:  "zero_amount",
			funds: sdk.Coins{sdk.NewInt64Coin(receipt.Denom, 0)},
			err:   types.ErrZeroAmount,
		},
		{
			name:  "other_validator",
			funds: sdk.NewCoins(foreign),
			err:   types.ErrInvalidValidator,
		},
		{
			name:  "more_than_owned",
			funds: sdk.NewCoins(sdk.NewInt64Coin(receipt.Denom, 11)),
			err:   sdkerrors.ErrInsufficientFunds,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			requireT := require.New(t)
			_, err := keeper.DepositLsmShares(env.ctx, staker, tc.funds)
			requireT.ErrorIs(err, tc.err)
			requireT.True(env.state(t).TotalShares.IsZero())
		})
	}
}

func TestDepositLsmShares_MaxCap(t *testing.T) {
	requireT := require.New(t)
	maxCap := sdkmath.NewInt(500)
	env := newTestEnv(t, &maxCap)
	keeper := env.app.LsmStakingKeeper
	staker := env.app.GenAccount()

	env.deposit(t, staker, 300)

	receipt := env.app.IssueReceipt(t, env.ctx, staker, env.config.Validator, 250)
	_, err := keeper.DepositLsmShares(env.ctx, staker, sdk.NewCoins(receipt))
	requireT.ErrorIs(err, types.ErrMaxCapReached)
	requireT.Equal("300", env.state(t).TotalShares.String())
	requireT.Equal("250", env.app.Host.GetBalance(env.ctx, staker, receipt.Denom).Amount.String())

	// reaching the cap exactly is allowed
	env.deposit(t, staker, 200)
	requireT.Equal("500", env.state(t).TotalShares.String())

	zeroCap := sdkmath.ZeroInt()
	requireT.NoError(keeper.UpdateConfig(env.ctx, env.owner, "", &zeroCap))
	receipt = env.app.IssueReceipt(t, env.ctx, staker, env.config.Validator, 1)
	_, err = keeper.DepositLsmShares(env.ctx, staker, sdk.NewCoins(receipt))
	requireT.ErrorIs(err, types.ErrMaxCapReached)
}

func TestDepositRewards(t *testing.T) {
	requireT := require.New(t)
	env := newTestEnv(t, nil)
	keeper := env.app.LsmStakingKeeper
	stakerA := env.app.GenAccount()
	stakerB := env.app.GenAccount()
	funder := env.app.GenAccount()
	env.app.MintAndSendCoin(t, env.ctx, funder, sdk.NewCoins(env.stake(1000)))

	// rewards sent to an empty pool are kept but not indexed
	requireT.NoError(keeper.DepositRewards(env.ctx, funder, sdk.NewCoins(env.stake(5))))
	requireT.True(env.state(t).GlobalRewardIndex.IsZero())

	env.deposit(t, stakerA, 1000)
	requireT.NoError(keeper.DepositRewards(env.ctx, funder, sdk.NewCoins(env.stake(100))))
	requireT.Equal(sdkmath.LegacyMustNewDecFromStr("0.1").String(), env.state(t).GlobalRewardIndex.String())

	// a later depositor starts at the current index
	env.deposit(t, stakerB, 1000)
	recordB, err := keeper.GetStaker(env.ctx, stakerB)
	requireT.NoError(err)
	requireT.Equal(env.state(t).GlobalRewardIndex.String(), recordB.RewardIndex.String())
	pendingB, err := types.PendingReward(recordB, env.state(t).GlobalRewardIndex)
	requireT.NoError(err)
	requireT.True(pendingB.IsZero())

	recordA, err := keeper.GetStaker(env.ctx, stakerA)
	requireT.NoError(err)
	pendingA, err := types.PendingReward(recordA, env.state(t).GlobalRewardIndex)
	requireT.NoError(err)
	requireT.Equal("100", pendingA.String())

	requireT.Equal("105", env.app.Host.GetBalance(env.ctx, keeper.PoolAddress(), env.config.StakingDenom).Amount.String())
}

func TestDepositRewards_PicksStakingDenom(t *testing.T) {
	requireT := require.New(t)
	env := newTestEnv(t, nil)
	keeper := env.app.LsmStakingKeeper
	staker := env.app.GenAccount()
	funder := env.app.GenAccount()
	env.deposit(t, staker, 1000)
	env.app.MintAndSendCoin(t, env.ctx, funder, sdk.NewCoins(env.stake(50), sdk.NewInt64Coin("other", 10)))

	requireT.NoError(keeper.DepositRewards(
		env.ctx, funder, sdk.NewCoins(sdk.NewInt64Coin("other", 10), env.stake(50)),
	))
	requireT.Equal(sdkmath.LegacyMustNewDecFromStr("0.05").String(), env.state(t).GlobalRewardIndex.String())

	// only the staking denom coin is taken
	requireT.Equal("10other", env.app.Host.GetAllBalances(env.ctx, funder).String())
	requireT.True(env.app.Host.GetBalance(env.ctx, keeper.PoolAddress(), "other").Amount.IsZero())
}

func TestDepositRewards_Validation(t *testing.T) {
	env := newTestEnv(t, nil)
	keeper := env.app.LsmStakingKeeper
	funder := env.app.GenAccount()
	env.app.MintAndSendCoin(t, env.ctx, funder, sdk.NewCoins(env.stake(10), sdk.NewInt64Coin("other", 10)))

	testCases := []struct {
		name  string
		funds sdk.Coins
		err   error
	}{
		{
			name:  "wrong_denom",
			funds: sdk.NewCoins(sdk.NewInt64Coin("other", 10)),
			err:   types.ErrInvalidFunds,
		},
		{
			name:  "zero_amount",
			funds: sdk.Coins{env.stake(0)},
			err:   types.ErrZeroAmount,
		},
		{
			name:  "insufficient_balance",
			funds: sdk.NewCoins(env.stake(11)),
			err:   sdkerrors.ErrInsufficientFunds,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, keeper.DepositRewards(env.ctx, funder, tc.funds), tc.err)
		})
	}
}
