package keeper

import (
	"context"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/tokenize-x/lsm-staking/x/lsmstaking/types"
)

// WithdrawResult is the outcome of the synchronous part of a withdrawal.
type WithdrawResult struct {
	SharesDeducted sdkmath.Int
	RewardsClaimed sdkmath.Int
	OperationID    uint64
}

// Withdraw burns the shares backing amount tokens, pays the pending rewards and tokenizes amount
// tokens of the pool delegation. The receipt is forwarded to the withdrawer by the continuation.
func (k Keeper) Withdraw(
	ctx context.Context,
	withdrawer sdk.AccAddress,
	amount sdkmath.Int,
	validator string,
) (WithdrawResult, error) {
	if err := k.requireNotPaused(ctx); err != nil {
		return WithdrawResult{}, err
	}
	if !amount.IsPositive() {
		return WithdrawResult{}, types.ErrZeroAmount
	}
	config, err := k.GetConfig(ctx)
	if err != nil {
		return WithdrawResult{}, err
	}
	if validator != "" && validator != config.Validator {
		return WithdrawResult{}, errorsmod.Wrapf(
			types.ErrInvalidValidator, "%s, expected: %s", validator, config.Validator,
		)
	}
	valAddr, err := k.validatorAddress(config)
	if err != nil {
		return WithdrawResult{}, err
	}
	staker, err := k.GetStaker(ctx, withdrawer)
	if err != nil {
		return WithdrawResult{}, err
	}
	state, err := k.GetState(ctx)
	if err != nil {
		return WithdrawResult{}, err
	}

	delegated, err := k.DelegatedTokens(ctx, config)
	if err != nil {
		return WithdrawResult{}, err
	}
	available, err := types.SharesToTokens(staker.StakedShares, delegated, state.TotalShares)
	if err != nil {
		return WithdrawResult{}, err
	}
	if available.LT(amount) {
		return WithdrawResult{}, errorsmod.Wrapf(
			types.ErrInsufficientStakedAmount, "available %s, requested %s", available, amount,
		)
	}

	toDeduct := staker.StakedShares
	if !delegated.IsZero() {
		if toDeduct, err = types.TokensToShares(amount, state.TotalShares, delegated); err != nil {
			return WithdrawResult{}, err
		}
	}
	toDeduct = sdkmath.MinInt(toDeduct, staker.StakedShares)

	reward, err := types.PendingReward(staker, state.GlobalRewardIndex)
	if err != nil {
		return WithdrawResult{}, err
	}

	rec, err := k.beginOperation(ctx, types.Continuation{
		Withdraw: &types.WithdrawHandoff{
			Withdrawer:     withdrawer.String(),
			Amount:         amount,
			ReceiptsBefore: k.poolReceipts(ctx, config),
		},
	})
	if err != nil {
		return WithdrawResult{}, err
	}

	staker.StakedShares = staker.StakedShares.Sub(toDeduct)
	staker.RewardIndex = state.GlobalRewardIndex
	state.TotalShares = state.TotalShares.Sub(toDeduct)
	if err := k.Stakers.Set(ctx, withdrawer, staker); err != nil {
		return WithdrawResult{}, err
	}
	if err := k.State.Set(ctx, state); err != nil {
		return WithdrawResult{}, err
	}

	if reward.IsPositive() {
		if err := k.bankKeeper.SendCoins(
			ctx, k.PoolAddress(), withdrawer, sdk.NewCoins(sdk.NewCoin(config.StakingDenom, reward)),
		); err != nil {
			return WithdrawResult{}, err
		}
		if err := k.shiftClaimBaseline(ctx, reward.Neg()); err != nil {
			return WithdrawResult{}, err
		}
	}

	if err := k.commander.TokenizeShares(
		ctx,
		k.PoolAddress(),
		valAddr,
		sdk.NewCoin(config.StakingDenom, amount),
		k.PoolAddress(),
		k.reply(rec.ID),
	); err != nil {
		return WithdrawResult{}, err
	}
	if err := k.Continuations.Issued(ctx, rec.ID); err != nil {
		return WithdrawResult{}, err
	}

	event := sdk.NewEvent(
		types.EventTypeWithdraw,
		sdk.NewAttribute(types.AttributeKeySender, withdrawer.String()),
		sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		sdk.NewAttribute(types.AttributeKeySharesDeducted, toDeduct.String()),
		sdk.NewAttribute(types.AttributeKeyValidator, config.Validator),
		sdk.NewAttribute(types.AttributeKeyOperationID, strconv.FormatUint(rec.ID, 10)),
	)
	if reward.IsPositive() {
		event = event.AppendAttributes(sdk.NewAttribute(types.AttributeKeyRewardsClaimed, reward.String()))
	}
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(event)
	recordOperation("withdraw")
	recordPoolState(state)

	return WithdrawResult{
		SharesDeducted: toDeduct,
		RewardsClaimed: reward,
		OperationID:    rec.ID,
	}, nil
}

// completeWithdraw forwards the receipt produced by the tokenization to the withdrawer.
func (k Keeper) completeWithdraw(ctx sdk.Context, handoff types.WithdrawHandoff) error {
	return runCached(ctx, func(ctx sdk.Context) error {
		config, err := k.GetConfig(ctx)
		if err != nil {
			return err
		}
		withdrawer, err := k.addressCodec.StringToBytes(handoff.Withdrawer)
		if err != nil {
			return err
		}

		receipt, err := k.tokenizedReceipt(ctx, config, handoff.ReceiptsBefore)
		if err != nil {
			return err
		}
		if err := k.bankKeeper.SendCoins(ctx, k.PoolAddress(), withdrawer, sdk.NewCoins(receipt)); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeWithdrawForwarded,
			sdk.NewAttribute(types.AttributeKeyWithdrawer, handoff.Withdrawer),
			sdk.NewAttribute(types.AttributeKeyLsmDenom, receipt.Denom),
			sdk.NewAttribute(types.AttributeKeyAmount, receipt.Amount.String()),
		))
		k.Logger(ctx).Info("withdrawal forwarded", "withdrawer", handoff.Withdrawer, "receipt", receipt)
		return nil
	})
}
