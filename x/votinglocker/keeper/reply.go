package keeper

import (
	"context"
	"errors"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/tokenize-x/lsm-staking/pkg/lsm"
	"github.com/tokenize-x/lsm-staking/pkg/saga"
	"github.com/tokenize-x/lsm-staking/x/votinglocker/types"
)

var _ lsm.ReplyHandler = &Keeper{}

// OnReply forwards the outcome of a dissolution command to the manager.
func (k *Keeper) OnReply(ctx context.Context, id uint64, success bool) error {
	rec, err := k.Continuations.Resolve(ctx, id, success)
	if errors.Is(err, saga.ErrRecordNotFound) {
		return errorsmod.Wrapf(types.ErrContinuationNotFound, "reply %d", id)
	}
	if err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if !success {
		sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeContinuationFails,
			sdk.NewAttribute(types.AttributeKeyOperationID, strconv.FormatUint(id, 10)),
			sdk.NewAttribute(types.AttributeKeyKind, rec.Kind),
			sdk.NewAttribute(types.AttributeKeyLocker, rec.Payload.Locker),
		))
		k.Logger(ctx).Error("command failed", "operation_id", id, "kind", rec.Kind, "locker", rec.Payload.Locker)
		return nil
	}

	addr, err := k.addressCodec.StringToBytes(rec.Payload.Locker)
	if err != nil {
		return err
	}
	cacheCtx, writeCache := sdkCtx.CacheContext()
	switch rec.Kind {
	case types.KindReward:
		err = k.forwardRewards(cacheCtx, addr)
	case types.KindTokenize:
		err = k.forwardShares(cacheCtx, addr, rec.Payload.ReceiptsBefore)
	default:
		err = errorsmod.Wrapf(types.ErrContinuationNotFound, "unknown operation kind %q", rec.Kind)
	}
	if err != nil {
		return err
	}
	writeCache()
	return nil
}

func (k *Keeper) forwardRewards(ctx sdk.Context, addr sdk.AccAddress) error {
	locker, err := k.GetLocker(ctx, addr)
	if err != nil {
		return err
	}
	balance := k.bankKeeper.GetBalance(ctx, addr, locker.StakingDenom)
	if balance.IsPositive() {
		if err := k.managerKeeper.DepositRewards(ctx, addr, sdk.NewCoins(balance)); err != nil {
			return err
		}
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeRewardsForwarded,
		sdk.NewAttribute(types.AttributeKeyLocker, addr.String()),
		sdk.NewAttribute(types.AttributeKeyManager, locker.Manager),
		sdk.NewAttribute(types.AttributeKeyRewards, balance.Amount.String()),
	))
	return nil
}

func (k *Keeper) forwardShares(ctx sdk.Context, addr sdk.AccAddress, before sdk.Coins) error {
	locker, err := k.GetLocker(ctx, addr)
	if err != nil {
		return err
	}

	receipt, found := lsm.FindNewReceipt(k.bankKeeper.GetAllBalances(ctx, addr), locker.Validator, before)
	if !found {
		return errorsmod.Wrapf(
			types.ErrInvalidLsmShares, "no new lsm share found for validator %s after tokenization", locker.Validator,
		)
	}
	if err := k.managerKeeper.ReturnLsmShares(
		ctx, addr, locker.ProposalID, locker.Option, sdk.NewCoins(receipt),
	); err != nil {
		return err
	}

	locker.Shares = sdkmath.ZeroInt()
	if err := k.Lockers.Set(ctx, addr, locker); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeSharesForwarded,
		sdk.NewAttribute(types.AttributeKeyLocker, addr.String()),
		sdk.NewAttribute(types.AttributeKeyLsmDenom, receipt.Denom),
		sdk.NewAttribute(types.AttributeKeyAmount, receipt.Amount.String()),
	))
	k.Logger(ctx).Info("locker shares returned", "locker", addr.String(), "receipt", receipt)
	return nil
}
