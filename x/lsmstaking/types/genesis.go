package types

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/samber/lo"
)

// GenesisStaker is the exported record of one staker.
type GenesisStaker struct {
	Address      string            `json:"address"`
	StakedShares sdkmath.Int       `json:"staked_shares"`
	RewardIndex  sdkmath.LegacyDec `json:"reward_index"`
}

// GenesisState is the module genesis. The pool is not configured while Config is nil.
type GenesisState struct {
	Config   *PoolConfig     `json:"config,omitempty"`
	State    PoolState       `json:"state"`
	Stakers  []GenesisStaker `json:"stakers"`
	Sessions []VotingSession `json:"sessions"`
	Paused   bool            `json:"paused"`
}

// DefaultGenesisState returns genesis state with default values.
func DefaultGenesisState() *GenesisState {
	return &GenesisState{
		State:    NewPoolState(),
		Stakers:  []GenesisStaker{},
		Sessions: []VotingSession{},
	}
}

// Validate validates genesis parameters.
func (m *GenesisState) Validate() error {
	if m.Config == nil {
		if len(m.Stakers) > 0 || len(m.Sessions) > 0 || !m.State.TotalShares.IsZero() {
			return errorsmod.Wrap(ErrInvalidConfig, "pool state requires a config")
		}
	} else if err := m.Config.ValidateBasic(); err != nil {
		return err
	}

	if m.State.TotalShares.IsNil() || m.State.TotalShares.IsNegative() {
		return errorsmod.Wrap(ErrInvalidConfig, "total shares must be non-negative")
	}
	if m.State.GlobalRewardIndex.IsNil() || m.State.GlobalRewardIndex.IsNegative() {
		return errorsmod.Wrap(ErrInvalidConfig, "global reward index must be non-negative")
	}

	sum := sdkmath.ZeroInt()
	seen := make(map[string]struct{}, len(m.Stakers))
	for i, staker := range m.Stakers {
		if _, err := sdk.AccAddressFromBech32(staker.Address); err != nil {
			return errorsmod.Wrapf(err, "staker %d: invalid address %s", i, staker.Address)
		}
		if _, ok := seen[staker.Address]; ok {
			return errorsmod.Wrapf(ErrInvalidConfig, "staker %d: duplicate address %s", i, staker.Address)
		}
		seen[staker.Address] = struct{}{}
		if staker.StakedShares.IsNil() || staker.StakedShares.IsNegative() {
			return errorsmod.Wrapf(ErrInvalidConfig, "staker %d: shares must be non-negative", i)
		}
		if staker.RewardIndex.IsNil() || staker.RewardIndex.GT(m.State.GlobalRewardIndex) {
			return errorsmod.Wrapf(ErrInvalidConfig, "staker %d: reward index above global index", i)
		}
		sum = sum.Add(staker.StakedShares)
	}
	if !sum.Equal(m.State.TotalShares) {
		return errorsmod.Wrapf(ErrInvalidConfig, "total shares %s do not match staker sum %s", m.State.TotalShares, sum)
	}

	proposals := lo.Map(m.Sessions, func(s VotingSession, _ int) uint64 { return s.ProposalID })
	if dup := lo.FindDuplicates(proposals); len(dup) > 0 {
		return errorsmod.Wrapf(ErrInvalidConfig, "duplicate voting session for proposal %d", dup[0])
	}
	for _, session := range m.Sessions {
		if err := session.Validate(); err != nil {
			return err
		}
	}

	active := lo.SomeBy(m.Sessions, func(s VotingSession) bool { return s.IsActive })
	if active != m.Paused {
		return errorsmod.Wrapf(ErrInvalidConfig, "paused flag %t does not match active sessions", m.Paused)
	}

	return nil
}

// Validate checks the session lockers.
func (s VotingSession) Validate() error {
	if len(s.Lockers) == 0 {
		return errorsmod.Wrapf(ErrInvalidConfig, "session %d: no lockers", s.ProposalID)
	}
	options := lo.Map(s.Lockers, func(ref LockerRef, _ int) int32 { return int32(ref.Option) })
	if dup := lo.FindDuplicates(options); len(dup) > 0 {
		return errorsmod.Wrapf(ErrInvalidConfig, "session %d: duplicate option %d", s.ProposalID, dup[0])
	}
	for _, ref := range s.Lockers {
		if _, err := sdk.AccAddressFromBech32(ref.Address); err != nil {
			return errorsmod.Wrapf(err, "session %d: invalid locker address %s", s.ProposalID, ref.Address)
		}
	}
	return nil
}
