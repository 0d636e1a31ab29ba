package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	cosmoserrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/tokenize-x/lsm-staking/x/lsmstaking/types"
)

var _ types.MsgServer = MsgServer{}

// MsgServer serves grpc tx requests for the module.
type MsgServer struct {
	keeper Keeper
}

// NewMsgServer returns a new instance of the MsgServer.
func NewMsgServer(keeper Keeper) MsgServer {
	return MsgServer{
		keeper: keeper,
	}
}

// DepositLsmShares deposits a liquid staking receipt.
func (ms MsgServer) DepositLsmShares(
	ctx context.Context,
	req *types.MsgDepositLsmShares,
) (*types.MsgDepositLsmSharesResponse, error) {
	depositor, err := ms.address(req.Depositor)
	if err != nil {
		return nil, err
	}
	shares, err := ms.keeper.DepositLsmShares(ctx, depositor, req.Funds)
	if err != nil {
		return nil, err
	}
	return &types.MsgDepositLsmSharesResponse{Shares: shares}, nil
}

// ClaimRewards starts a reward claim.
func (ms MsgServer) ClaimRewards(ctx context.Context, req *types.MsgClaimRewards) (*types.MsgClaimRewardsResponse, error) {
	claimer, err := ms.address(req.Claimer)
	if err != nil {
		return nil, err
	}
	id, err := ms.keeper.ClaimRewards(ctx, claimer)
	if err != nil {
		return nil, err
	}
	return &types.MsgClaimRewardsResponse{OperationID: id}, nil
}

// DepositRewards adds rewards for the stakers.
func (ms MsgServer) DepositRewards(
	ctx context.Context,
	req *types.MsgDepositRewards,
) (*types.MsgDepositRewardsResponse, error) {
	sender, err := ms.address(req.Sender)
	if err != nil {
		return nil, err
	}
	if err := ms.keeper.DepositRewards(ctx, sender, req.Funds); err != nil {
		return nil, err
	}
	state, err := ms.keeper.GetState(ctx)
	if err != nil {
		return nil, err
	}
	return &types.MsgDepositRewardsResponse{GlobalRewardIndex: state.GlobalRewardIndex}, nil
}

// Withdraw starts a withdrawal.
func (ms MsgServer) Withdraw(ctx context.Context, req *types.MsgWithdraw) (*types.MsgWithdrawResponse, error) {
	withdrawer, err := ms.address(req.Withdrawer)
	if err != nil {
		return nil, err
	}
	res, err := ms.keeper.Withdraw(ctx, withdrawer, req.Amount, req.Validator)
	if err != nil {
		return nil, err
	}
	return &types.MsgWithdrawResponse{
		SharesDeducted: res.SharesDeducted,
		RewardsClaimed: res.RewardsClaimed,
		OperationID:    res.OperationID,
	}, nil
}

// UpdateConfig updates the owner or the max cap.
func (ms MsgServer) UpdateConfig(ctx context.Context, req *types.MsgUpdateConfig) (*types.MsgUpdateConfigResponse, error) {
	sender, err := ms.address(req.Sender)
	if err != nil {
		return nil, err
	}
	if err := ms.keeper.UpdateConfig(ctx, sender, req.NewOwner, req.MaxCap); err != nil {
		return nil, err
	}
	return &types.MsgUpdateConfigResponse{}, nil
}

// CreateVotingLockers spawns the lockers of a proposal.
func (ms MsgServer) CreateVotingLockers(
	ctx context.Context,
	req *types.MsgCreateVotingLockers,
) (*types.MsgCreateVotingLockersResponse, error) {
	sender, err := ms.address(req.Sender)
	if err != nil {
		return nil, err
	}
	lockers, err := ms.keeper.CreateVotingLockers(ctx, sender, req.ProposalID)
	if err != nil {
		return nil, err
	}
	return &types.MsgCreateVotingLockersResponse{Lockers: lockers}, nil
}

// DestroyVotingLockers dissolves the lockers of a proposal.
func (ms MsgServer) DestroyVotingLockers(
	ctx context.Context,
	req *types.MsgDestroyVotingLockers,
) (*types.MsgDestroyVotingLockersResponse, error) {
	sender, err := ms.address(req.Sender)
	if err != nil {
		return nil, err
	}
	if err := ms.keeper.DestroyVotingLockers(ctx, sender, req.ProposalID); err != nil {
		return nil, err
	}
	return &types.MsgDestroyVotingLockersResponse{}, nil
}

// ReturnLsmShares takes back a receipt from a dissolved locker.
func (ms MsgServer) ReturnLsmShares(
	ctx context.Context,
	req *types.MsgReturnLsmShares,
) (*types.MsgReturnLsmSharesResponse, error) {
	locker, err := ms.address(req.Locker)
	if err != nil {
		return nil, err
	}
	if err := ms.keeper.ReturnLsmShares(ctx, locker, req.ProposalID, req.VoteOption, req.Funds); err != nil {
		return nil, err
	}
	return &types.MsgReturnLsmSharesResponse{}, nil
}

// RentVotingPower starts a rental.
func (ms MsgServer) RentVotingPower(
	ctx context.Context,
	req *types.MsgRentVotingPower,
) (*types.MsgRentVotingPowerResponse, error) {
	renter, err := ms.address(req.Renter)
	if err != nil {
		return nil, err
	}
	res, err := ms.keeper.RentVotingPower(ctx, renter, req.ProposalID, req.VoteOption, req.Funds)
	if err != nil {
		return nil, err
	}
	return &types.MsgRentVotingPowerResponse{
		VotingPower: res.VotingPower,
		Locker:      res.Locker,
		OperationID: res.OperationID,
	}, nil
}

func (ms MsgServer) address(addr string) (sdk.AccAddress, error) {
	bz, err := ms.keeper.addressCodec.StringToBytes(addr)
	if err != nil {
		return nil, cosmoserrors.ErrInvalidAddress.Wrapf("invalid address %q: %s", addr, err)
	}
	return bz, nil
}
