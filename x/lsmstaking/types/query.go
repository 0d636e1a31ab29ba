package types

import (
	"context"

	sdkmath "cosmossdk.io/math"

	"github.com/tokenize-x/lsm-staking/pkg/saga"
)

// QueryConfigRequest is the request of the Config query.
type QueryConfigRequest struct{}

// QueryConfigResponse is the pool configuration with its aggregate state.
type QueryConfigResponse struct {
	Config            PoolConfig        `json:"config"`
	TotalShares       sdkmath.Int       `json:"total_shares"`
	GlobalRewardIndex sdkmath.LegacyDec `json:"global_reward_index"`
	IsPaused          bool              `json:"is_paused"`
}

// StakerInfo reports a staker with its pending rewards.
type StakerInfo struct {
	Address        string            `json:"address"`
	StakedShares   sdkmath.Int       `json:"staked_shares"`
	RewardIndex    sdkmath.LegacyDec `json:"reward_index"`
	PendingRewards sdkmath.Int       `json:"pending_rewards"`
}

// QueryStakerInfoRequest is the request of the StakerInfo query.
type QueryStakerInfoRequest struct {
	Address string `json:"address"`
}

// QueryStakerInfoResponse is the response of the StakerInfo query.
type QueryStakerInfoResponse struct {
	Staker StakerInfo `json:"staker"`
}

// QueryTotalStakedRequest is the request of the TotalStaked query.
type QueryTotalStakedRequest struct{}

// QueryTotalStakedResponse is the response of the TotalStaked query.
type QueryTotalStakedResponse struct {
	TotalShares sdkmath.Int `json:"total_shares"`
}

// QueryRewardIndexRequest is the request of the RewardIndex query.
type QueryRewardIndexRequest struct{}

// QueryRewardIndexResponse is the response of the RewardIndex query.
type QueryRewardIndexResponse struct {
	GlobalRewardIndex sdkmath.LegacyDec `json:"global_reward_index"`
}

// QueryStakersRequest pages through stakers in address order.
type QueryStakersRequest struct {
	StartAfter string `json:"start_after,omitempty"`
	Limit      uint32 `json:"limit,omitempty"`
}

// QueryStakersResponse is the response of the Stakers query.
type QueryStakersResponse struct {
	Stakers []StakerInfo `json:"stakers"`
}

// QueryVotingSessionRequest is the request of the VotingSession query.
type QueryVotingSessionRequest struct {
	ProposalID uint64 `json:"proposal_id"`
}

// QueryVotingSessionResponse is the response of the VotingSession query.
type QueryVotingSessionResponse struct {
	Session VotingSession `json:"session"`
}

// QueryVotingSessionsRequest is the request of the VotingSessions query.
type QueryVotingSessionsRequest struct{}

// QueryVotingSessionsResponse is the response of the VotingSessions query.
type QueryVotingSessionsResponse struct {
	Sessions []VotingSession `json:"sessions"`
}

// QueryPendingOperationsRequest is the request of the PendingOperations query.
type QueryPendingOperationsRequest struct{}

// QueryPendingOperationsResponse lists operations awaiting their continuation.
type QueryPendingOperationsResponse struct {
	Operations []saga.Record[Continuation] `json:"operations"`
}

// QueryServer is the query service of the module.
type QueryServer interface {
	Config(context.Context, *QueryConfigRequest) (*QueryConfigResponse, error)
	StakerInfo(context.Context, *QueryStakerInfoRequest) (*QueryStakerInfoResponse, error)
	TotalStaked(context.Context, *QueryTotalStakedRequest) (*QueryTotalStakedResponse, error)
	RewardIndex(context.Context, *QueryRewardIndexRequest) (*QueryRewardIndexResponse, error)
	Stakers(context.Context, *QueryStakersRequest) (*QueryStakersResponse, error)
	VotingSession(context.Context, *QueryVotingSessionRequest) (*QueryVotingSessionResponse, error)
	VotingSessions(context.Context, *QueryVotingSessionsRequest) (*QueryVotingSessionsResponse, error)
	PendingOperations(context.Context, *QueryPendingOperationsRequest) (*QueryPendingOperationsResponse, error)
}
