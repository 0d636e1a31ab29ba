package types

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	govv1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1"
	"github.com/samber/lo"
)

// PoolConfig is the pool configuration.
type PoolConfig struct {
	Owner          string             `json:"owner"`
	StakingDenom   string             `json:"staking_denom"`
	Validator      string             `json:"validator"`
	MaxCap         *sdkmath.Int       `json:"max_cap,omitempty"`
	LockerTemplate uint64             `json:"locker_template"`
	VoteOptions    []govv1.VoteOption `json:"vote_options"`
}

// DefaultVoteOptions returns the standard governance options a session spawns lockers for.
func DefaultVoteOptions() []govv1.VoteOption {
	return []govv1.VoteOption{
		govv1.OptionYes,
		govv1.OptionAbstain,
		govv1.OptionNo,
		govv1.OptionNoWithVeto,
	}
}

// ValidateBasic checks the config fields.
func (c PoolConfig) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(c.Owner); err != nil {
		return errorsmod.Wrapf(ErrInvalidConfig, "invalid owner %q: %s", c.Owner, err)
	}
	if err := sdk.ValidateDenom(c.StakingDenom); err != nil {
		return errorsmod.Wrapf(ErrInvalidConfig, "invalid staking denom: %s", err)
	}
	if _, err := sdk.ValAddressFromBech32(c.Validator); err != nil {
		return errorsmod.Wrapf(ErrInvalidConfig, "invalid validator %q: %s", c.Validator, err)
	}
	if c.MaxCap != nil && (c.MaxCap.IsNil() || c.MaxCap.IsNegative()) {
		return errorsmod.Wrapf(ErrInvalidConfig, "max cap cannot be negative")
	}
	return ValidateVoteOptions(c.VoteOptions)
}

// ValidateVoteOptions checks the option set is non-empty, valid and distinct.
func ValidateVoteOptions(options []govv1.VoteOption) error {
	if len(options) == 0 {
		return errorsmod.Wrap(ErrInvalidConfig, "vote options cannot be empty")
	}
	for i, option := range options {
		if !govv1.ValidVoteOption(option) {
			return errorsmod.Wrapf(ErrInvalidConfig, "vote option %d: invalid option %s", i, option)
		}
	}
	if dup := lo.FindDuplicates(options); len(dup) > 0 {
		return errorsmod.Wrapf(ErrInvalidConfig, "duplicate vote option %s", dup[0])
	}
	return nil
}

// ExceedsCap reports whether a pool of the given size breaks the cap.
func (c PoolConfig) ExceedsCap(total sdkmath.Int) bool {
	return c.MaxCap != nil && total.GT(*c.MaxCap)
}
