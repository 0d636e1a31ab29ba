package keeper

import (
	"context"
	"strconv"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/tokenize-x/lsm-staking/x/lsmstaking/types"
)

// ClaimRewards withdraws the pool delegation rewards. The claimer is paid by the continuation,
// once the received rewards are indexed.
func (k Keeper) ClaimRewards(ctx context.Context, claimer sdk.AccAddress) (uint64, error) {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return 0, err
	}
	if _, err := k.GetStaker(ctx, claimer); err != nil {
		return 0, err
	}
	valAddr, err := k.validatorAddress(config)
	if err != nil {
		return 0, err
	}
	state, err := k.GetState(ctx)
	if err != nil {
		return 0, err
	}

	balance := k.bankKeeper.GetBalance(ctx, k.PoolAddress(), config.StakingDenom)
	rec, err := k.beginOperation(ctx, types.Continuation{
		Claim: &types.ClaimHandoff{
			Claimer:       claimer.String(),
			BalanceBefore: balance.Amount,
			IndexBefore:   state.GlobalRewardIndex,
		},
	})
	if err != nil {
		return 0, err
	}

	if err := k.commander.WithdrawDelegatorReward(ctx, k.PoolAddress(), valAddr, k.reply(rec.ID)); err != nil {
		return 0, err
	}
	if err := k.Continuations.Issued(ctx, rec.ID); err != nil {
		return 0, err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeClaimRewards,
		sdk.NewAttribute(types.AttributeKeySender, claimer.String()),
		sdk.NewAttribute(types.AttributeKeyValidator, config.Validator),
		sdk.NewAttribute(types.AttributeKeyOperationID, strconv.FormatUint(rec.ID, 10)),
	))
	recordOperation("claim")

	return rec.ID, nil
}

// completeClaim indexes the withdrawn rewards and pays the claimer. The index update is kept even
// when the payout fails, since the withdrawn rewards already sit in the pool balance.
func (k Keeper) completeClaim(ctx sdk.Context, handoff types.ClaimHandoff) error {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return err
	}

	balance := k.bankKeeper.GetBalance(ctx, k.PoolAddress(), config.StakingDenom)
	received := balance.Amount.Sub(handoff.BalanceBefore)
	if received.IsNegative() {
		received = sdkmath.ZeroInt()
	}
	state, err := k.indexRewards(ctx, received)
	if err != nil {
		return err
	}

	return runCached(ctx, func(ctx sdk.Context) error {
		claimer, err := k.addressCodec.StringToBytes(handoff.Claimer)
		if err != nil {
			return err
		}
		staker, err := k.GetStaker(ctx, claimer)
		if err != nil {
			return err
		}
		reward, err := types.PendingReward(staker, state.GlobalRewardIndex)
		if err != nil {
			return err
		}
		if reward.IsZero() {
			return types.ErrNoRewards
		}

		staker.RewardIndex = state.GlobalRewardIndex
		if err := k.Stakers.Set(ctx, claimer, staker); err != nil {
			return err
		}
		if err := k.bankKeeper.SendCoins(
			ctx, k.PoolAddress(), claimer, sdk.NewCoins(sdk.NewCoin(config.StakingDenom, reward)),
		); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeRewardsClaimed,
			sdk.NewAttribute(types.AttributeKeyUser, handoff.Claimer),
			sdk.NewAttribute(types.AttributeKeyRewardsReceived, received.String()),
			sdk.NewAttribute(types.AttributeKeyUserAmount, reward.String()),
		))
		k.Logger(ctx).Info("rewards claimed", "claimer", handoff.Claimer, "received", received, "paid", reward)
		return nil
	})
}
