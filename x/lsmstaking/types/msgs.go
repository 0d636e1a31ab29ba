package types

import (
	"context"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	cosmoserrors "github.com/cosmos/cosmos-sdk/types/errors"
	govv1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1"
)

// MsgDepositLsmShares deposits one liquid staking receipt into the pool.
type MsgDepositLsmShares struct {
	Depositor string    `json:"depositor"`
	Funds     sdk.Coins `json:"funds"`
}

// MsgDepositLsmSharesResponse is the response of MsgDepositLsmShares.
type MsgDepositLsmSharesResponse struct {
	Shares sdkmath.Int `json:"shares"`
}

// MsgClaimRewards claims the accrued rewards of the sender.
type MsgClaimRewards struct {
	Claimer string `json:"claimer"`
}

// MsgClaimRewardsResponse is the response of MsgClaimRewards.
type MsgClaimRewardsResponse struct {
	OperationID uint64 `json:"operation_id"`
}

// MsgDepositRewards adds rewards to be distributed among the stakers.
type MsgDepositRewards struct {
	Sender string    `json:"sender"`
	Funds  sdk.Coins `json:"funds"`
}

// MsgDepositRewardsResponse is the response of MsgDepositRewards.
type MsgDepositRewardsResponse struct {
	GlobalRewardIndex sdkmath.LegacyDec `json:"global_reward_index"`
}

// MsgWithdraw withdraws staked tokens as a liquid staking receipt.
type MsgWithdraw struct {
	Withdrawer string      `json:"withdrawer"`
	Amount     sdkmath.Int `json:"amount"`
	Validator  string      `json:"validator,omitempty"`
}

// MsgWithdrawResponse is the response of MsgWithdraw.
type MsgWithdrawResponse struct {
	SharesDeducted sdkmath.Int `json:"shares_deducted"`
	RewardsClaimed sdkmath.Int `json:"rewards_claimed"`
	OperationID    uint64      `json:"operation_id"`
}

// MsgUpdateConfig updates the owner or the max cap.
type MsgUpdateConfig struct {
	Sender   string       `json:"sender"`
	NewOwner string       `json:"new_owner,omitempty"`
	MaxCap   *sdkmath.Int `json:"max_cap,omitempty"`
}

// MsgUpdateConfigResponse is the response of MsgUpdateConfig.
type MsgUpdateConfigResponse struct{}

// MsgCreateVotingLockers spawns one voting locker per vote option of a proposal.
type MsgCreateVotingLockers struct {
	Sender     string `json:"sender"`
	ProposalID uint64 `json:"proposal_id"`
}

// MsgCreateVotingLockersResponse is the response of MsgCreateVotingLockers.
type MsgCreateVotingLockersResponse struct {
	Lockers []LockerRef `json:"lockers"`
}

// MsgDestroyVotingLockers dissolves the voting lockers of a finished proposal.
type MsgDestroyVotingLockers struct {
	Sender     string `json:"sender"`
	ProposalID uint64 `json:"proposal_id"`
}

// MsgDestroyVotingLockersResponse is the response of MsgDestroyVotingLockers.
type MsgDestroyVotingLockersResponse struct{}

// MsgReturnLsmShares returns a receipt from a dissolved locker to the pool.
type MsgReturnLsmShares struct {
	Locker     string           `json:"locker"`
	ProposalID uint64           `json:"proposal_id"`
	VoteOption govv1.VoteOption `json:"vote_option"`
	Funds      sdk.Coins        `json:"funds"`
}

// MsgReturnLsmSharesResponse is the response of MsgReturnLsmShares.
type MsgReturnLsmSharesResponse struct{}

// MsgRentVotingPower pays the stakers to move voting power into a locker.
type MsgRentVotingPower struct {
	Renter     string           `json:"renter"`
	ProposalID uint64           `json:"proposal_id"`
	VoteOption govv1.VoteOption `json:"vote_option"`
	Funds      sdk.Coins        `json:"funds"`
}

// MsgRentVotingPowerResponse is the response of MsgRentVotingPower.
type MsgRentVotingPowerResponse struct {
	VotingPower sdkmath.Int `json:"voting_power"`
	Locker      string      `json:"locker"`
	OperationID uint64      `json:"operation_id"`
}

// MsgServer is the message service of the module.
type MsgServer interface {
	DepositLsmShares(context.Context, *MsgDepositLsmShares) (*MsgDepositLsmSharesResponse, error)
	ClaimRewards(context.Context, *MsgClaimRewards) (*MsgClaimRewardsResponse, error)
	DepositRewards(context.Context, *MsgDepositRewards) (*MsgDepositRewardsResponse, error)
	Withdraw(context.Context, *MsgWithdraw) (*MsgWithdrawResponse, error)
	UpdateConfig(context.Context, *MsgUpdateConfig) (*MsgUpdateConfigResponse, error)
	CreateVotingLockers(context.Context, *MsgCreateVotingLockers) (*MsgCreateVotingLockersResponse, error)
	DestroyVotingLockers(context.Context, *MsgDestroyVotingLockers) (*MsgDestroyVotingLockersResponse, error)
	ReturnLsmShares(context.Context, *MsgReturnLsmShares) (*MsgReturnLsmSharesResponse, error)
	RentVotingPower(context.Context, *MsgRentVotingPower) (*MsgRentVotingPowerResponse, error)
}

// ValidateBasic checks that message fields are valid.
func (m *MsgDepositLsmShares) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(m.Depositor); err != nil {
		return cosmoserrors.ErrInvalidAddress.Wrapf("invalid depositor address: %s", err)
	}
	return validateFunds(m.Funds)
}

// ValidateBasic checks that message fields are valid.
func (m *MsgClaimRewards) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(m.Claimer); err != nil {
		return cosmoserrors.ErrInvalidAddress.Wrapf("invalid claimer address: %s", err)
	}
	return nil
}

// ValidateBasic checks that message fields are valid.
func (m *MsgDepositRewards) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(m.Sender); err != nil {
		return cosmoserrors.ErrInvalidAddress.Wrapf("invalid sender address: %s", err)
	}
	return validateFunds(m.Funds)
}

// ValidateBasic checks that message fields are valid.
func (m *MsgWithdraw) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(m.Withdrawer); err != nil {
		return cosmoserrors.ErrInvalidAddress.Wrapf("invalid withdrawer address: %s", err)
	}
	if m.Amount.IsNil() || m.Amount.IsNegative() {
		return cosmoserrors.ErrInvalidRequest.Wrap("amount must be a non-negative integer")
	}
	if m.Validator != "" {
		if _, err := sdk.ValAddressFromBech32(m.Validator); err != nil {
			return cosmoserrors.ErrInvalidAddress.Wrapf("invalid validator address: %s", err)
		}
	}
	return nil
}

// ValidateBasic checks that message fields are valid.
func (m *MsgUpdateConfig) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(m.Sender); err != nil {
		return cosmoserrors.ErrInvalidAddress.Wrapf("invalid sender address: %s", err)
	}
	if m.NewOwner != "" {
		if _, err := sdk.AccAddressFromBech32(m.NewOwner); err != nil {
			return cosmoserrors.ErrInvalidAddress.Wrapf("invalid new owner address: %s", err)
		}
	}
	if m.MaxCap != nil && (m.MaxCap.IsNil() || m.MaxCap.IsNegative()) {
		return cosmoserrors.ErrInvalidRequest.Wrap("max cap cannot be negative")
	}
	return nil
}

// ValidateBasic checks that message fields are valid.
func (m *MsgCreateVotingLockers) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(m.Sender); err != nil {
		return cosmoserrors.ErrInvalidAddress.Wrapf("invalid sender address: %s", err)
	}
	return nil
}

// ValidateBasic checks that message fields are valid.
func (m *MsgDestroyVotingLockers) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(m.Sender); err != nil {
		return cosmoserrors.ErrInvalidAddress.Wrapf("invalid sender address: %s", err)
	}
	return nil
}

// ValidateBasic checks that message fields are valid.
func (m *MsgReturnLsmShares) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(m.Locker); err != nil {
		return cosmoserrors.ErrInvalidAddress.Wrapf("invalid locker address: %s", err)
	}
	return validateFunds(m.Funds)
}

// ValidateBasic checks that message fields are valid.
func (m *MsgRentVotingPower) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(m.Renter); err != nil {
		return cosmoserrors.ErrInvalidAddress.Wrapf("invalid renter address: %s", err)
	}
	if !govv1.ValidVoteOption(m.VoteOption) {
		return cosmoserrors.ErrInvalidRequest.Wrapf("invalid vote option %s", m.VoteOption)
	}
	return validateFunds(m.Funds)
}

func validateFunds(funds sdk.Coins) error {
	if err := funds.Validate(); err != nil {
		return cosmoserrors.ErrInvalidCoins.Wrap(err.Error())
	}
	return nil
}
