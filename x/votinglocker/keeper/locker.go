package keeper

import (
	"context"
	"errors"
	"strconv"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	govv1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"

	"github.com/tokenize-x/lsm-staking/pkg/lsm"
	"github.com/tokenize-x/lsm-staking/pkg/saga"
	"github.com/tokenize-x/lsm-staking/x/votinglocker/types"
)

// Instantiate spawns the locker of a proposal option and casts its vote. The vote weight follows
// the locker delegation at tally time.
func (k *Keeper) Instantiate(ctx context.Context, params types.InstantiateParams) (sdk.AccAddress, error) {
	valAddr, err := k.validatorAddress(params.Validator)
	if err != nil {
		return nil, err
	}
	if _, err := k.stakingKeeper.GetValidator(ctx, valAddr); err != nil {
		if errors.Is(err, stakingtypes.ErrNoValidatorFound) {
			return nil, errorsmod.Wrapf(types.ErrValidatorNotFound, "validator %s", params.Validator)
		}
		return nil, err
	}
	if err := k.verifyProposalInVoting(ctx, params.ProposalID); err != nil {
		return nil, err
	}

	addr := types.LockerAddress(params.ProposalID, params.Option)
	exists, err := k.Lockers.Has(ctx, addr)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errorsmod.Wrapf(
			types.ErrLockerExists, "proposal %d option %s", params.ProposalID, params.Option,
		)
	}

	locker := types.Locker{
		ProposalID:   params.ProposalID,
		Option:       params.Option,
		Validator:    params.Validator,
		Manager:      params.Manager.String(),
		StakingDenom: params.StakingDenom,
		TemplateID:   params.TemplateID,
		Shares:       sdkmath.ZeroInt(),
	}
	if err := locker.ValidateBasic(); err != nil {
		return nil, err
	}

	if err := k.commander.Vote(ctx, addr, params.ProposalID, params.Option); err != nil {
		return nil, err
	}
	locker.HasVoted = true
	if err := k.Lockers.Set(ctx, addr, locker); err != nil {
		return nil, err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeInstantiate,
		sdk.NewAttribute(types.AttributeKeyLocker, addr.String()),
		sdk.NewAttribute(types.AttributeKeyProposalID, strconv.FormatUint(params.ProposalID, 10)),
		sdk.NewAttribute(types.AttributeKeyVoteOption, params.Option.String()),
		sdk.NewAttribute(types.AttributeKeyValidator, params.Validator),
		sdk.NewAttribute(types.AttributeKeyManager, locker.Manager),
	))

	return addr, nil
}

// DepositLsmShares redeems a receipt into the locker delegation.
func (k *Keeper) DepositLsmShares(ctx context.Context, sender, addr sdk.AccAddress, funds sdk.Coins) error {
	locker, err := k.GetLocker(ctx, addr)
	if err != nil {
		return err
	}
	if err := k.requireManager(locker, sender); err != nil {
		return err
	}
	if locker.Destroyed {
		return errorsmod.Wrapf(types.ErrLockerDestroyed, "locker %s", addr)
	}

	if len(funds) != 1 {
		return errorsmod.Wrap(types.ErrInvalidLsmShares, "must send exactly one token")
	}
	receipt := funds[0]
	if !receipt.Amount.IsPositive() {
		return types.ErrZeroAmount
	}
	info, err := lsm.ParseReceiptDenom(receipt.Denom)
	if err != nil {
		return errorsmod.Wrap(types.ErrInvalidLsmShares, err.Error())
	}
	if info.Validator != locker.Validator {
		return errorsmod.Wrapf(types.ErrInvalidValidator, "%s, expected: %s", info.Validator, locker.Validator)
	}

	if err := k.bankKeeper.SendCoins(ctx, sender, addr, sdk.NewCoins(receipt)); err != nil {
		return err
	}
	locker.Shares = locker.Shares.Add(receipt.Amount)
	if err := k.Lockers.Set(ctx, addr, locker); err != nil {
		return err
	}
	if err := k.commander.RedeemTokensForShares(ctx, addr, receipt); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeDepositLsmShares,
		sdk.NewAttribute(types.AttributeKeyLocker, addr.String()),
		sdk.NewAttribute(types.AttributeKeyManager, locker.Manager),
		sdk.NewAttribute(types.AttributeKeyValidator, info.Validator),
		sdk.NewAttribute(types.AttributeKeyRecordID, strconv.FormatUint(info.RecordID, 10)),
		sdk.NewAttribute(types.AttributeKeyAmount, receipt.Amount.String()),
		sdk.NewAttribute(types.AttributeKeyTotalVotingPower, locker.Shares.String()),
	))

	return nil
}

// Destroy dissolves the locker: its rewards are withdrawn and its delegation is tokenized, both
// forwarded to the manager by the continuations.
func (k *Keeper) Destroy(ctx context.Context, sender, addr sdk.AccAddress) error {
	locker, err := k.GetLocker(ctx, addr)
	if err != nil {
		return err
	}
	if err := k.requireManager(locker, sender); err != nil {
		return err
	}
	if locker.Destroyed {
		return errorsmod.Wrapf(types.ErrLockerDestroyed, "locker %s", addr)
	}

	locker.Destroyed = true
	if err := k.Lockers.Set(ctx, addr, locker); err != nil {
		return err
	}

	if !locker.Shares.IsZero() {
		if err := k.issueRewardWithdrawal(ctx, addr, locker); err != nil {
			return err
		}
		if err := k.issueTokenization(ctx, addr, locker); err != nil {
			return err
		}
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeDestroy,
		sdk.NewAttribute(types.AttributeKeyLocker, addr.String()),
		sdk.NewAttribute(types.AttributeKeyManager, locker.Manager),
		sdk.NewAttribute(types.AttributeKeyTotalStaked, locker.Shares.String()),
	))

	return nil
}

func (k *Keeper) issueRewardWithdrawal(ctx context.Context, addr sdk.AccAddress, locker types.Locker) error {
	valAddr, err := k.validatorAddress(locker.Validator)
	if err != nil {
		return err
	}
	rec, err := k.beginOperation(ctx, types.Continuation{Kind: types.KindReward, Locker: addr.String()})
	if err != nil {
		return err
	}
	if err := k.commander.WithdrawDelegatorReward(ctx, addr, valAddr, k.reply(rec.ID)); err != nil {
		return err
	}
	return k.Continuations.Issued(ctx, rec.ID)
}

func (k *Keeper) issueTokenization(ctx context.Context, addr sdk.AccAddress, locker types.Locker) error {
	valAddr, err := k.validatorAddress(locker.Validator)
	if err != nil {
		return err
	}
	delegated, err := k.DelegatedTokens(ctx, addr, locker)
	if err != nil {
		return err
	}
	if delegated.IsZero() {
		k.Logger(ctx).Debug("nothing delegated, tokenization skipped", "locker", addr.String())
		return nil
	}

	rec, err := k.beginOperation(ctx, types.Continuation{
		Kind:           types.KindTokenize,
		Locker:         addr.String(),
		ReceiptsBefore: lsm.Receipts(k.bankKeeper.GetAllBalances(ctx, addr), locker.Validator),
	})
	if err != nil {
		return err
	}
	if err := k.commander.TokenizeShares(
		ctx,
		addr,
		valAddr,
		sdk.NewCoin(locker.StakingDenom, delegated),
		addr,
		k.reply(rec.ID),
	); err != nil {
		return err
	}
	return k.Continuations.Issued(ctx, rec.ID)
}

func (k *Keeper) beginOperation(ctx context.Context, handoff types.Continuation) (saga.Record[types.Continuation], error) {
	return k.Continuations.Begin(ctx, handoff.Kind, handoff.Slot(), handoff)
}

func (k *Keeper) reply(id uint64) lsm.Reply {
	return lsm.Reply{Module: types.ModuleName, ID: id}
}

func (k *Keeper) verifyProposalInVoting(ctx context.Context, proposalID uint64) error {
	proposal, err := k.govKeeper.GetProposal(ctx, proposalID)
	if errors.Is(err, collections.ErrNotFound) {
		return errorsmod.Wrapf(types.ErrProposalNotFound, "proposal %d", proposalID)
	}
	if err != nil {
		return err
	}
	if proposal.Status != govv1.StatusVotingPeriod {
		return errorsmod.Wrapf(
			types.ErrProposalNotInVoting, "proposal %d (status: %s)", proposalID, proposal.Status,
		)
	}
	return nil
}
