package types

import (
	"fmt"

	"cosmossdk.io/collections"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
	govv1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1"
)

const (
	// ModuleName defines the module name.
	ModuleName = "votinglocker"

	// StoreKey defines the primary module store key.
	StoreKey = ModuleName
)

// KVStore keys.
var (
	LockersKey              = collections.NewPrefix(0)
	ContinuationSequenceKey = collections.NewPrefix(1)
	ContinuationsKey        = collections.NewPrefix(2)
)

// LockerAddress derives the address of the locker voting the option of the proposal.
func LockerAddress(proposalID uint64, option govv1.VoteOption) sdk.AccAddress {
	return address.Module(ModuleName, []byte(fmt.Sprintf("%d/%d", proposalID, option)))
}
