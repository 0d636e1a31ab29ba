package types

import (
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	govv1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1"
)

// Operation kinds.
const (
	KindClaim    = "claim"
	KindWithdraw = "withdraw"
	KindRental   = "rental"
)

// Slots of operations that must not overlap. Withdrawals and rentals both pick the fresh
// receipt out of the pool balances, so they share one.
const (
	SlotClaim    = "claim"
	SlotTokenize = "tokenize"
)

// ClaimHandoff is stored while a reward withdrawal for a claim is in flight.
type ClaimHandoff struct {
	Claimer       string            `json:"claimer"`
	BalanceBefore sdkmath.Int       `json:"balance_before"`
	IndexBefore   sdkmath.LegacyDec `json:"index_before"`
}

// WithdrawHandoff is stored while the delegation of a withdrawal is tokenized. ReceiptsBefore holds
// the validator receipts the pool had when the command was issued.
type WithdrawHandoff struct {
	Withdrawer     string      `json:"withdrawer"`
	Amount         sdkmath.Int `json:"amount"`
	ReceiptsBefore sdk.Coins   `json:"receipts_before,omitempty"`
}

// RentalHandoff is stored while the delegation of a rental is tokenized.
type RentalHandoff struct {
	ProposalID     uint64           `json:"proposal_id"`
	Option         govv1.VoteOption `json:"option"`
	VotingPower    sdkmath.Int      `json:"voting_power"`
	ReceiptsBefore sdk.Coins        `json:"receipts_before,omitempty"`
}

// Continuation is the hand-off of a pending operation. Exactly one field is set.
type Continuation struct {
	Claim    *ClaimHandoff    `json:"claim,omitempty"`
	Withdraw *WithdrawHandoff `json:"withdraw,omitempty"`
	Rental   *RentalHandoff   `json:"rental,omitempty"`
}

// Kind returns the operation kind of the hand-off.
func (c Continuation) Kind() string {
	switch {
	case c.Claim != nil:
		return KindClaim
	case c.Withdraw != nil:
		return KindWithdraw
	case c.Rental != nil:
		return KindRental
	default:
		return ""
	}
}

// Slot returns the slot the operation holds.
func (c Continuation) Slot() string {
	if c.Claim != nil {
		return SlotClaim
	}
	return SlotTokenize
}
