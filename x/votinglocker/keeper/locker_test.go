package keeper_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	govv1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1"
	"github.com/stretchr/testify/require"

	"github.com/tokenize-x/lsm-staking/testutil/simapp"
	lsmtypes "github.com/tokenize-x/lsm-staking/x/lsmstaking/types"
	"github.com/tokenize-x/lsm-staking/x/votinglocker/types"
)

type lockerEnv struct {
	app       *simapp.App
	ctx       sdk.Context
	manager   sdk.AccAddress
	validator sdk.ValAddress
}

func newLockerEnv(t *testing.T) lockerEnv {
	testApp := simapp.New()
	ctx := testApp.NewContext()
	valAddr, err := testApp.AddValidator(ctx)
	require.NoError(t, err)
	require.NoError(t, testApp.OpenProposal(ctx, 1))

	return lockerEnv{
		app:       testApp,
		ctx:       ctx,
		manager:   testApp.GenAccount(),
		validator: valAddr,
	}
}

func (e lockerEnv) params(option govv1.VoteOption) types.InstantiateParams {
	return types.InstantiateParams{
		ProposalID:   1,
		Option:       option,
		Validator:    e.validator.String(),
		Manager:      e.manager,
		StakingDenom: e.app.BondDenom(),
		TemplateID:   simapp.DefaultLockerTemplate,
	}
}

// fill instantiates a locker and deposits a receipt of amount tokens into it.
func (e lockerEnv) fill(t *testing.T, option govv1.VoteOption, amount int64) sdk.AccAddress {
	addr, err := e.app.VotingLockerKeeper.Instantiate(e.ctx, e.params(option))
	require.NoError(t, err)
	receipt := e.app.IssueReceipt(t, e.ctx, e.manager, e.validator.String(), amount)
	require.NoError(t, e.app.VotingLockerKeeper.DepositLsmShares(e.ctx, e.manager, addr, sdk.NewCoins(receipt)))
	return addr
}

func TestInstantiate(t *testing.T) {
	requireT := require.New(t)
	env := newLockerEnv(t)
	lockerKeeper := env.app.VotingLockerKeeper

	addr, err := lockerKeeper.Instantiate(env.ctx, env.params(govv1.OptionAbstain))
	requireT.NoError(err)
	requireT.Equal(types.LockerAddress(1, govv1.OptionAbstain), addr)

	locker, err := lockerKeeper.GetLocker(env.ctx, addr)
	requireT.NoError(err)
	requireT.True(locker.HasVoted)
	requireT.False(locker.Destroyed)
	requireT.True(locker.Shares.IsZero())
	requireT.Equal(env.manager.String(), locker.Manager)
	requireT.Equal(simapp.DefaultLockerTemplate, locker.TemplateID)

	vote, err := env.app.Host.GetVote(env.ctx, 1, addr)
	requireT.NoError(err)
	requireT.Equal(govv1.OptionAbstain, vote)

	_, err = lockerKeeper.Instantiate(env.ctx, env.params(govv1.OptionAbstain))
	requireT.ErrorIs(err, types.ErrLockerExists)
}

func TestInstantiate_Validation(t *testing.T) {
	env := newLockerEnv(t)
	require.NoError(t, env.app.Host.SetProposal(env.ctx, 2, govv1.StatusPassed))
	unknownValidator := sdk.ValAddress(env.app.GenAccount())

	testCases := []struct {
		name   string
		modify func(params *types.InstantiateParams)
		err    error
	}{
		{
			name:   "invalid_validator",
			modify: func(params *types.InstantiateParams) { params.Validator = "invalid" },
			err:    types.ErrInvalidValidator,
		},
		{
			name:   "unknown_validator",
			modify: func(params *types.InstantiateParams) { params.Validator = unknownValidator.String() },
			err:    types.ErrValidatorNotFound,
		},
		{
			name:   "unknown_proposal",
			modify: func(params *types.InstantiateParams) { params.ProposalID = 3 },
			err:    types.ErrProposalNotFound,
		},
		{
			name:   "finished_proposal",
			modify: func(params *types.InstantiateParams) { params.ProposalID = 2 },
			err:    types.ErrProposalNotInVoting,
		},
		{
			name:   "invalid_option",
			modify: func(params *types.InstantiateParams) { params.Option = govv1.OptionEmpty },
			err:    types.ErrInvalidLocker,
		},
		{
			name:   "invalid_denom",
			modify: func(params *types.InstantiateParams) { params.StakingDenom = "" },
			err:    types.ErrInvalidLocker,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			params := env.params(govv1.OptionYes)
			tc.modify(&params)
			_, err := env.app.VotingLockerKeeper.Instantiate(env.ctx, params)
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestDepositLsmShares(t *testing.T) {
	requireT := require.New(t)
	env := newLockerEnv(t)
	lockerKeeper := env.app.VotingLockerKeeper

	addr := env.fill(t, govv1.OptionYes, 300)
	locker, err := lockerKeeper.GetLocker(env.ctx, addr)
	requireT.NoError(err)
	requireT.Equal("300", locker.Shares.String())
	delegated, err := lockerKeeper.DelegatedTokens(env.ctx, addr, locker)
	requireT.NoError(err)
	requireT.Equal("300", delegated.String())

	receipt := env.app.IssueReceipt(t, env.ctx, env.manager, env.validator.String(), 10)
	stranger := env.app.GenAccount()
	requireT.ErrorIs(
		lockerKeeper.DepositLsmShares(env.ctx, stranger, addr, sdk.NewCoins(receipt)),
		types.ErrUnauthorized,
	)

	otherValidator, err := env.app.AddValidator(env.ctx)
	requireT.NoError(err)
	foreign := env.app.IssueReceipt(t, env.ctx, env.manager, otherValidator.String(), 10)
	requireT.ErrorIs(
		lockerKeeper.DepositLsmShares(env.ctx, env.manager, addr, sdk.NewCoins(foreign)),
		types.ErrInvalidValidator,
	)
	requireT.ErrorIs(
		lockerKeeper.DepositLsmShares(env.ctx, env.manager, addr, sdk.NewCoins(receipt, foreign)),
		types.ErrInvalidLsmShares,
	)
	requireT.ErrorIs(
		lockerKeeper.DepositLsmShares(env.ctx, env.manager, addr, sdk.Coins{sdk.NewInt64Coin(receipt.Denom, 0)}),
		types.ErrZeroAmount,
	)
	requireT.ErrorIs(
		lockerKeeper.DepositLsmShares(env.ctx, env.manager, sdk.AccAddress("missing_____________"), sdk.NewCoins(receipt)),
		types.ErrLockerNotFound,
	)
}

func TestDestroy(t *testing.T) {
	requireT := require.New(t)
	env := newLockerEnv(t)
	lockerKeeper := env.app.VotingLockerKeeper

	addr := env.fill(t, govv1.OptionNo, 200)
	empty, err := lockerKeeper.Instantiate(env.ctx, env.params(govv1.OptionYes))
	requireT.NoError(err)

	requireT.ErrorIs(lockerKeeper.Destroy(env.ctx, env.app.GenAccount(), addr), types.ErrUnauthorized)

	requireT.NoError(lockerKeeper.Destroy(env.ctx, env.manager, empty))
	commands, err := env.app.Host.Pending(env.ctx)
	requireT.NoError(err)
	requireT.Empty(commands)

	requireT.NoError(lockerKeeper.Destroy(env.ctx, env.manager, addr))
	commands, err = env.app.Host.Pending(env.ctx)
	requireT.NoError(err)
	requireT.Len(commands, 2)
	for _, cmd := range commands {
		requireT.Equal(types.ModuleName, cmd.Reply.Module)
		requireT.Equal(addr.String(), cmd.Delegator)
	}

	requireT.ErrorIs(lockerKeeper.Destroy(env.ctx, env.manager, addr), types.ErrLockerDestroyed)
	receipt := env.app.IssueReceipt(t, env.ctx, env.manager, env.validator.String(), 10)
	requireT.ErrorIs(
		lockerKeeper.DepositLsmShares(env.ctx, env.manager, addr, sdk.NewCoins(receipt)),
		types.ErrLockerDestroyed,
	)
}

func TestDestroy_ForwardsRewardsToManager(t *testing.T) {
	requireT := require.New(t)
	env := newLockerEnv(t)
	lsmKeeper := env.app.LsmStakingKeeper
	lockerKeeper := env.app.VotingLockerKeeper

	// the pool is the manager, without a voting session for the proposal
	owner := env.app.GenAccount()
	config, err := env.app.ConfigurePool(env.ctx, owner, nil)
	requireT.NoError(err)
	env.validator, err = sdk.ValAddressFromBech32(config.Validator)
	requireT.NoError(err)
	env.manager = lsmKeeper.PoolAddress()
	staker := env.app.GenAccount()
	receipt := env.app.IssueReceipt(t, env.ctx, staker, config.Validator, 100)
	_, err = lsmKeeper.DepositLsmShares(env.ctx, staker, sdk.NewCoins(receipt))
	requireT.NoError(err)

	addr := env.fill(t, govv1.OptionYes, 50)
	requireT.NoError(env.app.Host.AccrueRewards(env.ctx, addr, env.validator, sdkmath.NewInt(4)))
	requireT.NoError(lockerKeeper.Destroy(env.ctx, env.manager, addr))

	// rewards reach the pool index
	delivered, err := env.app.Host.Deliver(env.ctx)
	requireT.NoError(err)
	requireT.True(delivered)
	state, err := lsmKeeper.GetState(env.ctx)
	requireT.NoError(err)
	requireT.Equal(sdkmath.LegacyMustNewDecFromStr("0.04").String(), state.GlobalRewardIndex.String())

	// the pool rejects shares of a locker it has no session for
	_, err = env.app.Host.Deliver(env.ctx)
	requireT.ErrorIs(err, lsmtypes.ErrSessionNotFound)
	locker, err := lockerKeeper.GetLocker(env.ctx, addr)
	requireT.NoError(err)
	requireT.Equal("50", locker.Shares.String())

	pendingOps, err := lockerKeeper.Continuations.All(env.ctx)
	requireT.NoError(err)
	requireT.Empty(pendingOps)
}

func TestOnReply(t *testing.T) {
	requireT := require.New(t)
	env := newLockerEnv(t)
	lockerKeeper := env.app.VotingLockerKeeper

	requireT.ErrorIs(lockerKeeper.OnReply(env.ctx, 42, true), types.ErrContinuationNotFound)

	addr := env.fill(t, govv1.OptionYes, 100)
	requireT.NoError(lockerKeeper.Destroy(env.ctx, env.manager, addr))

	for range 2 {
		delivered, err := env.app.Host.DeliverFailure(env.ctx)
		requireT.NoError(err)
		requireT.True(delivered)
	}

	failures := 0
	for _, event := range env.ctx.EventManager().Events() {
		if event.Type == types.EventTypeContinuationFails {
			failures++
		}
	}
	requireT.Equal(2, failures)

	locker, err := lockerKeeper.GetLocker(env.ctx, addr)
	requireT.NoError(err)
	requireT.Equal("100", locker.Shares.String())
	pendingOps, err := lockerKeeper.Continuations.All(env.ctx)
	requireT.NoError(err)
	requireT.Empty(pendingOps)
}

func TestDestroy_ReturnsFreshReceipt(t *testing.T) {
	requireT := require.New(t)
	env := newLockerEnv(t)
	lsmKeeper := env.app.LsmStakingKeeper
	lockerKeeper := env.app.VotingLockerKeeper

	owner := env.app.GenAccount()
	config, err := env.app.ConfigurePool(env.ctx, owner, nil)
	requireT.NoError(err)
	staker := env.app.GenAccount()
	receipt := env.app.IssueReceipt(t, env.ctx, staker, config.Validator, 1000)
	_, err = lsmKeeper.DepositLsmShares(env.ctx, staker, sdk.NewCoins(receipt))
	requireT.NoError(err)
	_, err = lsmKeeper.CreateVotingLockers(env.ctx, owner, 1)
	requireT.NoError(err)

	renter := env.app.GenAccount()
	env.app.MintAndSendCoin(t, env.ctx, renter, sdk.NewCoins(sdk.NewInt64Coin(config.StakingDenom, 10)))
	res, err := lsmKeeper.RentVotingPower(
		env.ctx, renter, 1, govv1.OptionYes, sdk.NewCoins(sdk.NewInt64Coin(config.StakingDenom, 10)),
	)
	requireT.NoError(err)
	requireT.NoError(env.app.Host.DeliverAll(env.ctx))
	addr, err := sdk.AccAddressFromBech32(res.Locker)
	requireT.NoError(err)

	// a receipt sent to the locker outside the rental is not handed to the pool
	stranger := env.app.GenAccount()
	stray := env.app.IssueReceipt(t, env.ctx, stranger, config.Validator, 1)
	requireT.NoError(env.app.Host.SendCoins(env.ctx, stranger, addr, sdk.NewCoins(stray)))

	requireT.NoError(env.app.Host.SetProposal(env.ctx, 1, govv1.StatusPassed))
	requireT.NoError(lsmKeeper.DestroyVotingLockers(env.ctx, owner, 1))
	requireT.NoError(env.app.Host.DeliverAll(env.ctx))

	locker, err := lockerKeeper.GetLocker(env.ctx, addr)
	requireT.NoError(err)
	requireT.True(locker.Shares.IsZero())
	requireT.Equal(sdk.NewCoins(stray).String(), env.app.Host.GetAllBalances(env.ctx, addr).String())

	delegated, err := lsmKeeper.DelegatedTokens(env.ctx, config)
	requireT.NoError(err)
	requireT.Equal("1000", delegated.String())
	requireT.True(env.app.Host.GetBalance(env.ctx, lsmKeeper.PoolAddress(), stray.Denom).Amount.IsZero())
}
