package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tokenize-x/lsm-staking/x/votinglocker/types"
)

var _ types.QueryServer = QueryService{}

// QueryService serves grpc requests for the module.
type QueryService struct {
	keeper *Keeper
}

// NewQueryService creates query service.
func NewQueryService(keeper *Keeper) QueryService {
	return QueryService{
		keeper: keeper,
	}
}

// Config returns the locker state.
func (qs QueryService) Config(ctx context.Context, req *types.QueryConfigRequest) (*types.QueryConfigResponse, error) {
	addr, err := qs.lockerAddress(req)
	if err != nil {
		return nil, err
	}
	locker, err := qs.keeper.GetLocker(ctx, addr)
	if err != nil {
		return nil, err
	}
	return &types.QueryConfigResponse{Locker: locker}, nil
}

// TotalVotingPower returns the shares held by the locker and its live delegation.
func (qs QueryService) TotalVotingPower(
	ctx context.Context,
	req *types.QueryTotalVotingPowerRequest,
) (*types.QueryTotalVotingPowerResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}
	addr, err := qs.lockerAddress(&types.QueryConfigRequest{Locker: req.Locker})
	if err != nil {
		return nil, err
	}
	locker, err := qs.keeper.GetLocker(ctx, addr)
	if err != nil {
		return nil, err
	}
	delegated, err := qs.keeper.DelegatedTokens(ctx, addr, locker)
	if err != nil {
		return nil, err
	}
	return &types.QueryTotalVotingPowerResponse{
		Shares:    locker.Shares,
		Delegated: delegated,
	}, nil
}

// Lockers returns all lockers, optionally of one proposal.
func (qs QueryService) Lockers(ctx context.Context, req *types.QueryLockersRequest) (*types.QueryLockersResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}
	lockers, err := qs.keeper.GetLockers(ctx)
	if err != nil {
		return nil, err
	}
	if req.ProposalID != 0 {
		lockers = filterByProposal(lockers, req.ProposalID)
	}
	return &types.QueryLockersResponse{Lockers: lockers}, nil
}

func (qs QueryService) lockerAddress(req *types.QueryConfigRequest) (sdk.AccAddress, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}
	addr, err := qs.keeper.addressCodec.StringToBytes(req.Locker)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid locker address: %s", err)
	}
	return addr, nil
}
