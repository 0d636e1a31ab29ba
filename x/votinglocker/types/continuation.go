package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Operation kinds.
const (
	KindReward   = "reward"
	KindTokenize = "tokenize"
)

// Continuation is the hand-off of a command issued while dissolving a locker. A tokenization also
// records the validator receipts the locker held when it was issued.
type Continuation struct {
	Kind           string    `json:"kind"`
	Locker         string    `json:"locker"`
	ReceiptsBefore sdk.Coins `json:"receipts_before,omitempty"`
}

// Slot returns the slot the operation holds; every locker runs at most one command per kind.
func (c Continuation) Slot() string {
	return fmt.Sprintf("%s/%s", c.Kind, c.Locker)
}
