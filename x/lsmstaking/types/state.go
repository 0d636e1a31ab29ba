package types

import (
	sdkmath "cosmossdk.io/math"
	govv1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1"
	"github.com/samber/lo"
)

// PoolState is the pool aggregate.
type PoolState struct {
	TotalShares       sdkmath.Int       `json:"total_shares"`
	GlobalRewardIndex sdkmath.LegacyDec `json:"global_reward_index"`
}

// NewPoolState returns an empty pool.
func NewPoolState() PoolState {
	return PoolState{
		TotalShares:       sdkmath.ZeroInt(),
		GlobalRewardIndex: sdkmath.LegacyZeroDec(),
	}
}

// StakerRecord is the per-depositor record.
type StakerRecord struct {
	StakedShares sdkmath.Int       `json:"staked_shares"`
	RewardIndex  sdkmath.LegacyDec `json:"reward_index"`
}

// NewStakerRecord returns a record without shares.
func NewStakerRecord() StakerRecord {
	return StakerRecord{
		StakedShares: sdkmath.ZeroInt(),
		RewardIndex:  sdkmath.LegacyZeroDec(),
	}
}

// LockerRef binds a vote option to the locker voting it.
type LockerRef struct {
	Option  govv1.VoteOption `json:"option"`
	Address string           `json:"address"`
}

// VotingSession is the set of lockers spawned for one proposal.
type VotingSession struct {
	ProposalID uint64      `json:"proposal_id"`
	Lockers    []LockerRef `json:"lockers"`
	IsActive   bool        `json:"is_active"`
}

// Locker returns the locker registered for the option.
func (s VotingSession) Locker(option govv1.VoteOption) (LockerRef, bool) {
	return lo.Find(s.Lockers, func(ref LockerRef) bool {
		return ref.Option == option
	})
}
