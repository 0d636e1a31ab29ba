package keeper

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	distrtypes "github.com/cosmos/cosmos-sdk/x/distribution/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tokenize-x/lsm-staking/x/lsmstaking/types"
)

var _ types.QueryServer = QueryService{}

// QueryService serves grpc requests for the module.
type QueryService struct {
	keeper Keeper
}

// NewQueryService creates query service.
func NewQueryService(keeper Keeper) QueryService {
	return QueryService{
		keeper: keeper,
	}
}

// Config returns the pool configuration with its aggregate state.
func (qs QueryService) Config(ctx context.Context, _ *types.QueryConfigRequest) (*types.QueryConfigResponse, error) {
	config, err := qs.keeper.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	state, err := qs.keeper.GetState(ctx)
	if err != nil {
		return nil, err
	}
	paused, err := qs.keeper.IsPaused(ctx)
	if err != nil {
		return nil, err
	}

	return &types.QueryConfigResponse{
		Config:            config,
		TotalShares:       state.TotalShares,
		GlobalRewardIndex: state.GlobalRewardIndex,
		IsPaused:          paused,
	}, nil
}

// StakerInfo returns a staker with the rewards it would receive if it claimed now.
func (qs QueryService) StakerInfo(
	ctx context.Context,
	req *types.QueryStakerInfoRequest,
) (*types.QueryStakerInfoResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}
	addr, err := qs.keeper.addressCodec.StringToBytes(req.Address)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid address: %s", err)
	}
	staker, err := qs.keeper.GetStaker(ctx, addr)
	if err != nil {
		return nil, err
	}
	index, err := qs.keeper.SimulatedRewardIndex(ctx)
	if err != nil {
		return nil, err
	}
	info, err := stakerInfo(addr, staker, index)
	if err != nil {
		return nil, err
	}

	return &types.QueryStakerInfoResponse{Staker: info}, nil
}

// TotalStaked returns the pool shares.
func (qs QueryService) TotalStaked(
	ctx context.Context,
	_ *types.QueryTotalStakedRequest,
) (*types.QueryTotalStakedResponse, error) {
	state, err := qs.keeper.GetState(ctx)
	if err != nil {
		return nil, err
	}
	return &types.QueryTotalStakedResponse{TotalShares: state.TotalShares}, nil
}

// RewardIndex returns the stored global reward index.
func (qs QueryService) RewardIndex(
	ctx context.Context,
	_ *types.QueryRewardIndexRequest,
) (*types.QueryRewardIndexResponse, error) {
	state, err := qs.keeper.GetState(ctx)
	if err != nil {
		return nil, err
	}
	return &types.QueryRewardIndexResponse{GlobalRewardIndex: state.GlobalRewardIndex}, nil
}

// Stakers pages through stakers in address order.
func (qs QueryService) Stakers(ctx context.Context, req *types.QueryStakersRequest) (*types.QueryStakersResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}
	limit := int(req.Limit)
	if limit == 0 {
		limit = types.DefaultStakersLimit
	}
	limit = min(limit, types.MaxStakersLimit)

	var ranger collections.Ranger[sdk.AccAddress]
	if req.StartAfter != "" {
		start, err := qs.keeper.addressCodec.StringToBytes(req.StartAfter)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid start_after: %s", err)
		}
		ranger = new(collections.Range[sdk.AccAddress]).StartExclusive(start)
	}

	index, err := qs.keeper.SimulatedRewardIndex(ctx)
	if err != nil {
		return nil, err
	}

	iter, err := qs.keeper.Stakers.Iterate(ctx, ranger)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	stakers := make([]types.StakerInfo, 0, limit)
	for ; iter.Valid() && len(stakers) < limit; iter.Next() {
		kv, err := iter.KeyValue()
		if err != nil {
			return nil, err
		}
		info, err := stakerInfo(kv.Key, kv.Value, index)
		if err != nil {
			return nil, err
		}
		stakers = append(stakers, info)
	}

	return &types.QueryStakersResponse{Stakers: stakers}, nil
}

// VotingSession returns the session of a proposal.
func (qs QueryService) VotingSession(
	ctx context.Context,
	req *types.QueryVotingSessionRequest,
) (*types.QueryVotingSessionResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}
	session, err := qs.keeper.GetVotingSession(ctx, req.ProposalID)
	if err != nil {
		return nil, err
	}
	return &types.QueryVotingSessionResponse{Session: session}, nil
}

// VotingSessions returns all sessions.
func (qs QueryService) VotingSessions(
	ctx context.Context,
	_ *types.QueryVotingSessionsRequest,
) (*types.QueryVotingSessionsResponse, error) {
	sessions, err := qs.keeper.GetVotingSessions(ctx)
	if err != nil {
		return nil, err
	}
	return &types.QueryVotingSessionsResponse{Sessions: sessions}, nil
}

// PendingOperations returns the operations awaiting their continuation.
func (qs QueryService) PendingOperations(
	ctx context.Context,
	_ *types.QueryPendingOperationsRequest,
) (*types.QueryPendingOperationsResponse, error) {
	operations, err := qs.keeper.Continuations.All(ctx)
	if err != nil {
		return nil, err
	}
	return &types.QueryPendingOperationsResponse{Operations: operations}, nil
}

// SimulatedRewardIndex returns the global index as if the rewards accrued on the pool delegation
// were withdrawn now.
func (k Keeper) SimulatedRewardIndex(ctx context.Context) (sdkmath.LegacyDec, error) {
	state, err := k.GetState(ctx)
	if err != nil {
		return sdkmath.LegacyDec{}, err
	}
	config, err := k.GetConfig(ctx)
	if err != nil || state.TotalShares.IsZero() {
		return state.GlobalRewardIndex, nil //nolint:nilerr // unconfigured pool reports the stored index
	}

	resp, err := k.distributionKeeper.DelegationRewards(ctx, &distrtypes.QueryDelegationRewardsRequest{
		DelegatorAddress: k.PoolAddress().String(),
		ValidatorAddress: config.Validator,
	})
	if err != nil {
		k.Logger(ctx).Debug("no delegation rewards to simulate", "error", err)
		return state.GlobalRewardIndex, nil
	}

	pending := resp.Rewards.AmountOf(config.StakingDenom).TruncateInt()
	return types.ApplyRewardIndex(state, pending).GlobalRewardIndex, nil
}

// stakerInfo reports zero pending rewards when they overflow, so the staker stays queryable.
func stakerInfo(addr sdk.AccAddress, staker types.StakerRecord, index sdkmath.LegacyDec) (types.StakerInfo, error) {
	pending, err := types.PendingReward(staker, index)
	switch {
	case errors.Is(err, types.ErrArithmetic):
		pending = sdkmath.ZeroInt()
	case err != nil:
		return types.StakerInfo{}, err
	}
	return types.StakerInfo{
		Address:        addr.String(),
		StakedShares:   staker.StakedShares,
		RewardIndex:    staker.RewardIndex,
		PendingRewards: pending,
	}, nil
}
