package types

import (
	"cosmossdk.io/collections"
)

const (
	// ModuleName defines the module name.
	ModuleName = "lsmstaking"

	// StoreKey defines the primary module store key.
	StoreKey = ModuleName
)

// KVStore keys.
var (
	ConfigKey               = collections.NewPrefix(0)
	StateKey                = collections.NewPrefix(1)
	StakersKey              = collections.NewPrefix(2)
	VotingSessionsKey       = collections.NewPrefix(3)
	PausedKey               = collections.NewPrefix(4)
	ContinuationSequenceKey = collections.NewPrefix(5)
	ContinuationsKey        = collections.NewPrefix(6)
)

const (
	// VotingPowerPerPaymentUnit is the voting power a renter receives per paid staking token.
	VotingPowerPerPaymentUnit = 10

	// DefaultStakersLimit is the page size of the stakers query when none is requested.
	DefaultStakersLimit = 10
	// MaxStakersLimit caps the page size of the stakers query.
	MaxStakersLimit = 30
)
