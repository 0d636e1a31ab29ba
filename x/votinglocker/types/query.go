package types

import (
	"context"

	sdkmath "cosmossdk.io/math"
)

// QueryConfigRequest is the request of the Config query.
type QueryConfigRequest struct {
	Locker string `json:"locker"`
}

// QueryConfigResponse is the response of the Config query.
type QueryConfigResponse struct {
	Locker Locker `json:"locker"`
}

// QueryTotalVotingPowerRequest is the request of the TotalVotingPower query.
type QueryTotalVotingPowerRequest struct {
	Locker string `json:"locker"`
}

// QueryTotalVotingPowerResponse reports the shares and live delegation of a locker.
type QueryTotalVotingPowerResponse struct {
	Shares    sdkmath.Int `json:"shares"`
	Delegated sdkmath.Int `json:"delegated"`
}

// QueryLockersRequest is the request of the Lockers query.
type QueryLockersRequest struct {
	ProposalID uint64 `json:"proposal_id,omitempty"`
}

// QueryLockersResponse is the response of the Lockers query.
type QueryLockersResponse struct {
	Lockers []GenesisLocker `json:"lockers"`
}

// QueryServer is the query service of the module.
type QueryServer interface {
	Config(context.Context, *QueryConfigRequest) (*QueryConfigResponse, error)
	TotalVotingPower(context.Context, *QueryTotalVotingPowerRequest) (*QueryTotalVotingPowerResponse, error)
	Lockers(context.Context, *QueryLockersRequest) (*QueryLockersResponse, error)
}
