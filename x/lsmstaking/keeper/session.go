package keeper

import (
	"context"
	"errors"
	"strconv"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	govv1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1"
	"github.com/samber/lo"

	"github.com/tokenize-x/lsm-staking/pkg/saga"
	"github.com/tokenize-x/lsm-staking/x/lsmstaking/types"
	votinglockertypes "github.com/tokenize-x/lsm-staking/x/votinglocker/types"
)

// CreateVotingLockers spawns a locker per configured vote option for the proposal and pauses the pool.
func (k Keeper) CreateVotingLockers(
	ctx context.Context,
	sender sdk.AccAddress,
	proposalID uint64,
) ([]types.LockerRef, error) {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if err := k.requireOwner(config, sender); err != nil {
		return nil, err
	}
	exists, err := k.VotingSessions.Has(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errorsmod.Wrapf(types.ErrSessionExists, "proposal %d", proposalID)
	}

	lockers := make([]types.LockerRef, 0, len(config.VoteOptions))
	for _, option := range config.VoteOptions {
		addr, err := k.lockerKeeper.Instantiate(ctx, votinglockertypes.InstantiateParams{
			ProposalID:   proposalID,
			Option:       option,
			Validator:    config.Validator,
			Manager:      k.PoolAddress(),
			StakingDenom: config.StakingDenom,
			TemplateID:   config.LockerTemplate,
		})
		if err != nil {
			return nil, errorsmod.Wrapf(err, "instantiate locker for option %s", option)
		}
		lockers = append(lockers, types.LockerRef{Option: option, Address: addr.String()})
	}

	if err := k.VotingSessions.Set(ctx, proposalID, types.VotingSession{
		ProposalID: proposalID,
		Lockers:    lockers,
		IsActive:   true,
	}); err != nil {
		return nil, err
	}
	if err := k.Paused.Set(ctx, true); err != nil {
		return nil, err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeCreateVotingLockers,
		sdk.NewAttribute(types.AttributeKeyProposalID, strconv.FormatUint(proposalID, 10)),
		sdk.NewAttribute(types.AttributeKeyNumLockers, strconv.Itoa(len(lockers))),
	))
	k.Logger(ctx).Info("voting lockers created", "proposal_id", proposalID, "lockers", len(lockers))

	return lockers, nil
}

// DestroyVotingLockers dissolves the lockers of a finished proposal and unpauses the pool when no
// other session is active. If other sessions remain, ErrCannotUnpause is returned after the lockers
// were told to dissolve and the session was deactivated; those effects are not undone.
func (k Keeper) DestroyVotingLockers(ctx context.Context, sender sdk.AccAddress, proposalID uint64) error {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return err
	}
	if err := k.requireOwner(config, sender); err != nil {
		return err
	}
	if err := k.verifyProposalFinished(ctx, proposalID); err != nil {
		return err
	}
	session, err := k.GetVotingSession(ctx, proposalID)
	if err != nil {
		return err
	}
	if !session.IsActive {
		return errorsmod.Wrapf(types.ErrSessionInactive, "proposal %d", proposalID)
	}
	if err := k.requireNoPendingRental(ctx, proposalID); err != nil {
		return err
	}

	for _, ref := range session.Lockers {
		locker, err := k.addressCodec.StringToBytes(ref.Address)
		if err != nil {
			return err
		}
		if err := k.lockerKeeper.Destroy(ctx, k.PoolAddress(), locker); err != nil {
			return errorsmod.Wrapf(err, "destroy locker %s", ref.Address)
		}
	}

	session.IsActive = false
	if err := k.VotingSessions.Set(ctx, proposalID, session); err != nil {
		return err
	}

	active, err := k.CountActiveSessions(ctx)
	if err != nil {
		return err
	}
	if active > 0 {
		k.Logger(ctx).Info("voting lockers destroyed, pool stays paused",
			"proposal_id", proposalID, "active_sessions", active)
		return errorsmod.Wrapf(types.ErrCannotUnpause, "%d voting sessions still active", active)
	}
	if err := k.Paused.Set(ctx, false); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeDestroyVotingLockers,
		sdk.NewAttribute(types.AttributeKeyProposalID, strconv.FormatUint(proposalID, 10)),
		sdk.NewAttribute(types.AttributeKeyNumLockers, strconv.Itoa(len(session.Lockers))),
		sdk.NewAttribute(types.AttributeKeyUnpaused, "true"),
	))
	k.Logger(ctx).Info("voting lockers destroyed", "proposal_id", proposalID)

	return nil
}

// requireNoPendingRental fails while a rental of the proposal still waits for its receipt.
func (k Keeper) requireNoPendingRental(ctx context.Context, proposalID uint64) error {
	records, err := k.Continuations.All(ctx)
	if err != nil {
		return err
	}
	rec, found := lo.Find(records, func(rec saga.Record[types.Continuation]) bool {
		return rec.Payload.Rental != nil && rec.Payload.Rental.ProposalID == proposalID
	})
	if found {
		return errorsmod.Wrapf(
			types.ErrOperationPending, "rental %d of proposal %d awaits its continuation", rec.ID, proposalID,
		)
	}
	return nil
}

// ReturnLsmShares redeems a receipt handed back by a dissolved locker. Pool shares and the reward
// index are untouched since the shares never left the pool accounting.
func (k Keeper) ReturnLsmShares(
	ctx context.Context,
	locker sdk.AccAddress,
	proposalID uint64,
	option govv1.VoteOption,
	funds sdk.Coins,
) error {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return err
	}
	session, err := k.GetVotingSession(ctx, proposalID)
	if err != nil {
		return err
	}
	ref, found := session.Locker(option)
	if !found || ref.Address != locker.String() {
		return errorsmod.Wrapf(
			types.ErrInvalidLocker,
			"sender %s is not registered for proposal %d option %s", locker, proposalID, option,
		)
	}
	receipt, _, err := k.validateReceipt(config, funds)
	if err != nil {
		return err
	}

	if err := k.bankKeeper.SendCoins(ctx, locker, k.PoolAddress(), sdk.NewCoins(receipt)); err != nil {
		return err
	}
	if err := k.commander.RedeemTokensForShares(ctx, k.PoolAddress(), receipt); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeReturnLsmShares,
		sdk.NewAttribute(types.AttributeKeyLocker, locker.String()),
		sdk.NewAttribute(types.AttributeKeyProposalID, strconv.FormatUint(proposalID, 10)),
		sdk.NewAttribute(types.AttributeKeyVoteOption, option.String()),
		sdk.NewAttribute(types.AttributeKeyAmount, receipt.Amount.String()),
	))

	return nil
}

// GetVotingSession returns the session of the proposal.
func (k Keeper) GetVotingSession(ctx context.Context, proposalID uint64) (types.VotingSession, error) {
	session, err := k.VotingSessions.Get(ctx, proposalID)
	if errors.Is(err, collections.ErrNotFound) {
		return types.VotingSession{}, errorsmod.Wrapf(types.ErrSessionNotFound, "proposal %d", proposalID)
	}
	return session, err
}

// GetVotingSessions returns all sessions in proposal order.
func (k Keeper) GetVotingSessions(ctx context.Context) ([]types.VotingSession, error) {
	iter, err := k.VotingSessions.Iterate(ctx, nil)
	if err != nil {
		return nil, err
	}
	return iter.Values()
}

// CountActiveSessions returns the number of sessions whose lockers are not dissolved.
func (k Keeper) CountActiveSessions(ctx context.Context) (int, error) {
	sessions, err := k.GetVotingSessions(ctx)
	if err != nil {
		return 0, err
	}
	return lo.CountBy(sessions, func(s types.VotingSession) bool { return s.IsActive }), nil
}

// verifyProposalFinished accepts proposals in a terminal status and proposals no longer stored.
func (k Keeper) verifyProposalFinished(ctx context.Context, proposalID uint64) error {
	proposal, err := k.govKeeper.GetProposal(ctx, proposalID)
	if errors.Is(err, collections.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	switch proposal.Status {
	case govv1.StatusPassed, govv1.StatusRejected, govv1.StatusFailed:
		return nil
	default:
		return errorsmod.Wrapf(
			types.ErrProposalStillActive, "proposal %d (status: %s)", proposalID, proposal.Status,
		)
	}
}
