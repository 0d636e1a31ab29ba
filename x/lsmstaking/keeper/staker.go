package keeper

import (
	"context"
	"errors"
	"strconv"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/samber/lo"

	"github.com/tokenize-x/lsm-staking/pkg/lsm"
	"github.com/tokenize-x/lsm-staking/x/lsmstaking/types"
)

// DepositLsmShares moves a liquid staking receipt of the configured validator into the pool and
// credits the depositor with one share per receipt token.
func (k Keeper) DepositLsmShares(ctx context.Context, depositor sdk.AccAddress, funds sdk.Coins) (sdkmath.Int, error) {
	if err := k.requireNotPaused(ctx); err != nil {
		return sdkmath.Int{}, err
	}
	config, err := k.GetConfig(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	receipt, info, err := k.validateReceipt(config, funds)
	if err != nil {
		return sdkmath.Int{}, err
	}

	state, err := k.GetState(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	newTotal := state.TotalShares.Add(receipt.Amount)
	if config.ExceedsCap(newTotal) {
		return sdkmath.Int{}, errorsmod.Wrapf(
			types.ErrMaxCapReached,
			"cap %s, current %s, attempting to add %s",
			config.MaxCap, state.TotalShares, receipt.Amount,
		)
	}

	staker, err := k.Stakers.Get(ctx, depositor)
	if errors.Is(err, collections.ErrNotFound) {
		staker = types.NewStakerRecord()
	} else if err != nil {
		return sdkmath.Int{}, err
	}

	if err := k.bankKeeper.SendCoins(ctx, depositor, k.PoolAddress(), sdk.NewCoins(receipt)); err != nil {
		return sdkmath.Int{}, err
	}

	staker.RewardIndex = state.GlobalRewardIndex
	staker.StakedShares = staker.StakedShares.Add(receipt.Amount)
	state.TotalShares = newTotal
	if err := k.Stakers.Set(ctx, depositor, staker); err != nil {
		return sdkmath.Int{}, err
	}
	if err := k.State.Set(ctx, state); err != nil {
		return sdkmath.Int{}, err
	}

	if err := k.commander.RedeemTokensForShares(ctx, k.PoolAddress(), receipt); err != nil {
		return sdkmath.Int{}, err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeDepositLsmShares,
		sdk.NewAttribute(types.AttributeKeySender, depositor.String()),
		sdk.NewAttribute(types.AttributeKeyValidator, info.Validator),
		sdk.NewAttribute(types.AttributeKeyRecordID, strconv.FormatUint(info.RecordID, 10)),
		sdk.NewAttribute(types.AttributeKeyAmount, receipt.Amount.String()),
	))
	recordOperation("deposit")
	recordPoolState(state)

	return receipt.Amount, nil
}

// DepositRewards adds staking denom funds to the reward index.
func (k Keeper) DepositRewards(ctx context.Context, sender sdk.AccAddress, funds sdk.Coins) error {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return err
	}
	reward, err := k.stakingFunds(config, funds)
	if err != nil {
		return err
	}

	if err := k.bankKeeper.SendCoins(ctx, sender, k.PoolAddress(), sdk.NewCoins(reward)); err != nil {
		return err
	}
	if err := k.shiftClaimBaseline(ctx, reward.Amount); err != nil {
		return err
	}
	state, err := k.indexRewards(ctx, reward.Amount)
	if err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeDepositRewards,
		sdk.NewAttribute(types.AttributeKeySender, sender.String()),
		sdk.NewAttribute(types.AttributeKeyAmount, reward.Amount.String()),
		sdk.NewAttribute(types.AttributeKeyGlobalIndex, state.GlobalRewardIndex.String()),
	))
	recordOperation("deposit_rewards")

	return nil
}

// indexRewards spreads the reward over the current pool shares.
func (k Keeper) indexRewards(ctx context.Context, reward sdkmath.Int) (types.PoolState, error) {
	state, err := k.GetState(ctx)
	if err != nil {
		return types.PoolState{}, err
	}
	state = types.ApplyRewardIndex(state, reward)
	if err := k.State.Set(ctx, state); err != nil {
		return types.PoolState{}, err
	}
	recordPoolState(state)
	return state, nil
}

// shiftClaimBaseline moves the balance baseline of a pending claim by the staking denom amount the
// pool itself received (positive) or paid out (negative), so the claim measures withdrawn rewards only.
func (k Keeper) shiftClaimBaseline(ctx context.Context, delta sdkmath.Int) error {
	rec, found, err := k.Continuations.BySlot(ctx, types.SlotClaim)
	if err != nil || !found {
		return err
	}
	rec.Payload.Claim.BalanceBefore = rec.Payload.Claim.BalanceBefore.Add(delta)
	return k.Continuations.Update(ctx, rec.ID, rec.Payload)
}

func (k Keeper) validateReceipt(config types.PoolConfig, funds sdk.Coins) (sdk.Coin, lsm.ReceiptInfo, error) {
	if len(funds) != 1 {
		return sdk.Coin{}, lsm.ReceiptInfo{}, errorsmod.Wrap(types.ErrInvalidLsmShares, "must send exactly one token")
	}
	receipt := funds[0]
	if !receipt.Amount.IsPositive() {
		return sdk.Coin{}, lsm.ReceiptInfo{}, types.ErrZeroAmount
	}
	info, err := lsm.ParseReceiptDenom(receipt.Denom)
	if err != nil {
		return sdk.Coin{}, lsm.ReceiptInfo{}, errorsmod.Wrap(types.ErrInvalidLsmShares, err.Error())
	}
	if info.Validator != config.Validator {
		return sdk.Coin{}, lsm.ReceiptInfo{}, errorsmod.Wrapf(
			types.ErrInvalidValidator, "%s, expected: %s", info.Validator, config.Validator,
		)
	}
	return receipt, info, nil
}

// stakingFunds picks the staking denom coin out of the funds. Other coins are ignored.
func (k Keeper) stakingFunds(config types.PoolConfig, funds sdk.Coins) (sdk.Coin, error) {
	coin, found := lo.Find(funds, func(coin sdk.Coin) bool { return coin.Denom == config.StakingDenom })
	if !found {
		return sdk.Coin{}, errorsmod.Wrapf(types.ErrInvalidFunds, "expected %s denom", config.StakingDenom)
	}
	if !coin.Amount.IsPositive() {
		return sdk.Coin{}, types.ErrZeroAmount
	}
	return coin, nil
}

// validatePayment requires the funds to be exactly one positive staking denom coin.
func (k Keeper) validatePayment(config types.PoolConfig, funds sdk.Coins) (sdk.Coin, error) {
	if len(funds) != 1 || funds[0].Denom != config.StakingDenom {
		return sdk.Coin{}, errorsmod.Wrapf(types.ErrInvalidFunds, "expected %s denom", config.StakingDenom)
	}
	if !funds[0].Amount.IsPositive() {
		return sdk.Coin{}, types.ErrZeroAmount
	}
	return funds[0], nil
}
