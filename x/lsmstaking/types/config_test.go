package types_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"
	govv1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/tokenize-x/lsm-staking/x/lsmstaking/types"
)

func validConfig() types.PoolConfig {
	return types.PoolConfig{
		Owner:          sdk.AccAddress(secp256k1.GenPrivKey().PubKey().Address()).String(),
		StakingDenom:   "uatom",
		Validator:      sdk.ValAddress(secp256k1.GenPrivKey().PubKey().Address()).String(),
		LockerTemplate: 1,
		VoteOptions:    types.DefaultVoteOptions(),
	}
}

func TestPoolConfigValidation(t *testing.T) {
	testCases := []struct {
		name      string
		modify    func(c *types.PoolConfig)
		expectErr bool
		errMsg    string
	}{
		{
			name:   "valid",
			modify: func(c *types.PoolConfig) {},
		},
		{
			name:   "valid with cap",
			modify: func(c *types.PoolConfig) { c.MaxCap = lo.ToPtr(sdkmath.NewInt(500)) },
		},
		{
			name:      "invalid owner",
			modify:    func(c *types.PoolConfig) { c.Owner = "owner" },
			expectErr: true,
			errMsg:    "invalid owner",
		},
		{
			name:      "invalid denom",
			modify:    func(c *types.PoolConfig) { c.StakingDenom = "1" },
			expectErr: true,
			errMsg:    "invalid staking denom",
		},
		{
			name:      "account address as validator",
			modify:    func(c *types.PoolConfig) { c.Validator = c.Owner },
			expectErr: true,
			errMsg:    "invalid validator",
		},
		{
			name:      "negative cap",
			modify:    func(c *types.PoolConfig) { c.MaxCap = lo.ToPtr(sdkmath.NewInt(-1)) },
			expectErr: true,
			errMsg:    "max cap cannot be negative",
		},
		{
			name:      "no options",
			modify:    func(c *types.PoolConfig) { c.VoteOptions = nil },
			expectErr: true,
			errMsg:    "vote options cannot be empty",
		},
		{
			name:      "unspecified option",
			modify:    func(c *types.PoolConfig) { c.VoteOptions = []govv1.VoteOption{govv1.OptionEmpty} },
			expectErr: true,
			errMsg:    "invalid option",
		},
		{
			name: "duplicate option",
			modify: func(c *types.PoolConfig) {
				c.VoteOptions = []govv1.VoteOption{govv1.OptionYes, govv1.OptionYes}
			},
			expectErr: true,
			errMsg:    "duplicate vote option",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			requireT := require.New(t)
			config := validConfig()
			tc.modify(&config)
			err := config.ValidateBasic()
			if tc.expectErr {
				requireT.ErrorIs(err, types.ErrInvalidConfig)
				requireT.ErrorContains(err, tc.errMsg)
			} else {
				requireT.NoError(err)
			}
		})
	}
}

func TestPoolConfigExceedsCap(t *testing.T) {
	requireT := require.New(t)

	config := validConfig()
	requireT.False(config.ExceedsCap(sdkmath.NewInt(1_000_000)))

	config.MaxCap = lo.ToPtr(sdkmath.NewInt(500))
	requireT.False(config.ExceedsCap(sdkmath.NewInt(500)))
	requireT.True(config.ExceedsCap(sdkmath.NewInt(501)))
}

func TestVotingSessionLocker(t *testing.T) {
	requireT := require.New(t)

	session := types.VotingSession{
		ProposalID: 1,
		Lockers: []types.LockerRef{
			{Option: govv1.OptionYes, Address: "yes"},
			{Option: govv1.OptionNo, Address: "no"},
		},
		IsActive: true,
	}

	ref, found := session.Locker(govv1.OptionNo)
	requireT.True(found)
	requireT.Equal("no", ref.Address)

	_, found = session.Locker(govv1.OptionAbstain)
	requireT.False(found)
}
