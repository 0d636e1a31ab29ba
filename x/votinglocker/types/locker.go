package types

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	govv1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1"
)

// InstantiateParams describes a locker to spawn.
type InstantiateParams struct {
	ProposalID   uint64
	Option       govv1.VoteOption
	Validator    string
	Manager      sdk.AccAddress
	StakingDenom string
	TemplateID   uint64
}

// Locker is the state of one voting locker.
type Locker struct {
	ProposalID   uint64           `json:"proposal_id"`
	Option       govv1.VoteOption `json:"option"`
	Validator    string           `json:"validator"`
	Manager      string           `json:"manager"`
	StakingDenom string           `json:"staking_denom"`
	TemplateID   uint64           `json:"template_id"`
	Shares       sdkmath.Int      `json:"shares"`
	HasVoted     bool             `json:"has_voted"`
	Destroyed    bool             `json:"destroyed"`
}

// ValidateBasic checks the locker fields.
func (l Locker) ValidateBasic() error {
	if !govv1.ValidVoteOption(l.Option) {
		return errorsmod.Wrapf(ErrInvalidLocker, "invalid vote option %s", l.Option)
	}
	if _, err := sdk.ValAddressFromBech32(l.Validator); err != nil {
		return errorsmod.Wrapf(ErrInvalidLocker, "invalid validator %q: %s", l.Validator, err)
	}
	if _, err := sdk.AccAddressFromBech32(l.Manager); err != nil {
		return errorsmod.Wrapf(ErrInvalidLocker, "invalid manager %q: %s", l.Manager, err)
	}
	if err := sdk.ValidateDenom(l.StakingDenom); err != nil {
		return errorsmod.Wrapf(ErrInvalidLocker, "invalid staking denom: %s", err)
	}
	if l.Shares.IsNil() || l.Shares.IsNegative() {
		return errorsmod.Wrap(ErrInvalidLocker, "shares must be non-negative")
	}
	return nil
}
