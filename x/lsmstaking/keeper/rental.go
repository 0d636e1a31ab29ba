package keeper

import (
	"context"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	govv1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1"

	"github.com/tokenize-x/lsm-staking/x/lsmstaking/types"
)

// RentalResult is the outcome of the synchronous part of a rental.
type RentalResult struct {
	VotingPower sdkmath.Int
	Locker      string
	OperationID uint64
}

// RentVotingPower indexes the payment as staker rewards and tokenizes payment times
// VotingPowerPerPaymentUnit tokens of the pool delegation. The continuation deposits the receipt
// into the locker voting the option.
func (k Keeper) RentVotingPower(
	ctx context.Context,
	renter sdk.AccAddress,
	proposalID uint64,
	option govv1.VoteOption,
	funds sdk.Coins,
) (RentalResult, error) {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return RentalResult{}, err
	}
	session, err := k.GetVotingSession(ctx, proposalID)
	if err != nil {
		return RentalResult{}, err
	}
	if !session.IsActive {
		return RentalResult{}, errorsmod.Wrapf(types.ErrSessionInactive, "proposal %d", proposalID)
	}
	ref, found := session.Locker(option)
	if !found {
		return RentalResult{}, errorsmod.Wrapf(
			types.ErrLockerNotFound, "proposal %d vote option %s", proposalID, option,
		)
	}
	payment, err := k.validatePayment(config, funds)
	if err != nil {
		return RentalResult{}, err
	}
	valAddr, err := k.validatorAddress(config)
	if err != nil {
		return RentalResult{}, err
	}

	votingPower, err := payment.Amount.SafeMul(sdkmath.NewInt(types.VotingPowerPerPaymentUnit))
	if err != nil {
		return RentalResult{}, errorsmod.Wrapf(types.ErrArithmetic, "voting power: %s", err)
	}
	delegated, err := k.DelegatedTokens(ctx, config)
	if err != nil {
		return RentalResult{}, err
	}
	if votingPower.GT(delegated) {
		return RentalResult{}, errorsmod.Wrapf(
			types.ErrInsufficientStakedTokens, "available %s, required %s", delegated, votingPower,
		)
	}

	rec, err := k.beginOperation(ctx, types.Continuation{
		Rental: &types.RentalHandoff{
			ProposalID:     proposalID,
			Option:         option,
			VotingPower:    votingPower,
			ReceiptsBefore: k.poolReceipts(ctx, config),
		},
	})
	if err != nil {
		return RentalResult{}, err
	}

	if err := k.bankKeeper.SendCoins(ctx, renter, k.PoolAddress(), sdk.NewCoins(payment)); err != nil {
		return RentalResult{}, err
	}
	if err := k.shiftClaimBaseline(ctx, payment.Amount); err != nil {
		return RentalResult{}, err
	}
	if _, err := k.indexRewards(ctx, payment.Amount); err != nil {
		return RentalResult{}, err
	}

	if err := k.commander.TokenizeShares(
		ctx,
		k.PoolAddress(),
		valAddr,
		sdk.NewCoin(config.StakingDenom, votingPower),
		k.PoolAddress(),
		k.reply(rec.ID),
	); err != nil {
		return RentalResult{}, err
	}
	if err := k.Continuations.Issued(ctx, rec.ID); err != nil {
		return RentalResult{}, err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeRentVotingPower,
		sdk.NewAttribute(types.AttributeKeyRenter, renter.String()),
		sdk.NewAttribute(types.AttributeKeyProposalID, strconv.FormatUint(proposalID, 10)),
		sdk.NewAttribute(types.AttributeKeyVoteOption, option.String()),
		sdk.NewAttribute(types.AttributeKeyPayment, payment.Amount.String()),
		sdk.NewAttribute(types.AttributeKeyVotingPower, votingPower.String()),
		sdk.NewAttribute(types.AttributeKeyLocker, ref.Address),
		sdk.NewAttribute(types.AttributeKeyOperationID, strconv.FormatUint(rec.ID, 10)),
	))
	recordOperation("rent")

	return RentalResult{
		VotingPower: votingPower,
		Locker:      ref.Address,
		OperationID: rec.ID,
	}, nil
}

// completeRental deposits the tokenized receipt into the rented locker. When the locker refuses it
// the receipt is redeemed back into the pool delegation.
func (k Keeper) completeRental(ctx sdk.Context, handoff types.RentalHandoff) error {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return err
	}
	receipt, err := k.tokenizedReceipt(ctx, config, handoff.ReceiptsBefore)
	if err != nil {
		return err
	}

	depositErr := runCached(ctx, func(ctx sdk.Context) error {
		return k.depositRental(ctx, handoff, receipt)
	})
	if depositErr == nil {
		return nil
	}

	if err := k.commander.RedeemTokensForShares(ctx, k.PoolAddress(), receipt); err != nil {
		return errorsmod.Wrapf(err, "redeem receipt of failed rental: %s", depositErr)
	}
	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeRentalReverted,
		sdk.NewAttribute(types.AttributeKeyProposalID, strconv.FormatUint(handoff.ProposalID, 10)),
		sdk.NewAttribute(types.AttributeKeyVoteOption, handoff.Option.String()),
		sdk.NewAttribute(types.AttributeKeyLsmDenom, receipt.Denom),
		sdk.NewAttribute(types.AttributeKeyAmount, receipt.Amount.String()),
		sdk.NewAttribute(types.AttributeKeyReason, depositErr.Error()),
	))
	k.Logger(ctx).Error("rental deposit failed, receipt redeemed into the pool",
		"proposal_id", handoff.ProposalID, "receipt", receipt, "error", depositErr)
	return nil
}

func (k Keeper) depositRental(ctx sdk.Context, handoff types.RentalHandoff, receipt sdk.Coin) error {
	session, err := k.GetVotingSession(ctx, handoff.ProposalID)
	if err != nil {
		return err
	}
	ref, found := session.Locker(handoff.Option)
	if !found {
		return errorsmod.Wrapf(
			types.ErrLockerNotFound, "proposal %d vote option %s", handoff.ProposalID, handoff.Option,
		)
	}
	locker, err := k.addressCodec.StringToBytes(ref.Address)
	if err != nil {
		return err
	}
	if err := k.lockerKeeper.DepositLsmShares(ctx, k.PoolAddress(), locker, sdk.NewCoins(receipt)); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeRentalForwarded,
		sdk.NewAttribute(types.AttributeKeyProposalID, strconv.FormatUint(handoff.ProposalID, 10)),
		sdk.NewAttribute(types.AttributeKeyVoteOption, handoff.Option.String()),
		sdk.NewAttribute(types.AttributeKeyLocker, ref.Address),
		sdk.NewAttribute(types.AttributeKeyLsmDenom, receipt.Denom),
		sdk.NewAttribute(types.AttributeKeyAmount, receipt.Amount.String()),
	))
	k.Logger(ctx).Info("rental forwarded", "proposal_id", handoff.ProposalID, "locker", ref.Address, "receipt", receipt)
	return nil
}
