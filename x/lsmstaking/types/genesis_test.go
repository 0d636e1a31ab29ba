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

func TestGenesisValidation(t *testing.T) {
	staker1 := sdk.AccAddress(secp256k1.GenPrivKey().PubKey().Address()).String()
	staker2 := sdk.AccAddress(secp256k1.GenPrivKey().PubKey().Address()).String()
	locker := sdk.AccAddress(secp256k1.GenPrivKey().PubKey().Address()).String()

	validGenesis := func() types.GenesisState {
		return types.GenesisState{
			Config: lo.ToPtr(validConfig()),
			State: types.PoolState{
				TotalShares:       sdkmath.NewInt(300),
				GlobalRewardIndex: sdkmath.LegacyMustNewDecFromStr("0.5"),
			},
			Stakers: []types.GenesisStaker{
				{Address: staker1, StakedShares: sdkmath.NewInt(100), RewardIndex: sdkmath.LegacyZeroDec()},
				{Address: staker2, StakedShares: sdkmath.NewInt(200), RewardIndex: sdkmath.LegacyMustNewDecFromStr("0.5")},
			},
			Sessions: []types.VotingSession{
				{
					ProposalID: 1,
					Lockers:    []types.LockerRef{{Option: govv1.OptionYes, Address: locker}},
					IsActive:   true,
				},
			},
			Paused: true,
		}
	}

	testCases := []struct {
		name      string
		modify    func(g *types.GenesisState)
		expectErr bool
		errMsg    string
	}{
		{
			name:   "valid",
			modify: func(g *types.GenesisState) {},
		},
		{
			name: "default",
			modify: func(g *types.GenesisState) {
				*g = *types.DefaultGenesisState()
			},
		},
		{
			name: "state without config",
			modify: func(g *types.GenesisState) {
				g.Config = nil
			},
			expectErr: true,
			errMsg:    "pool state requires a config",
		},
		{
			name: "total mismatch",
			modify: func(g *types.GenesisState) {
				g.State.TotalShares = sdkmath.NewInt(301)
			},
			expectErr: true,
			errMsg:    "do not match staker sum",
		},
		{
			name: "duplicate staker",
			modify: func(g *types.GenesisState) {
				g.Stakers[1].Address = staker1
			},
			expectErr: true,
			errMsg:    "duplicate address",
		},
		{
			name: "staker index ahead of global index",
			modify: func(g *types.GenesisState) {
				g.Stakers[0].RewardIndex = sdkmath.LegacyOneDec()
			},
			expectErr: true,
			errMsg:    "reward index above global index",
		},
		{
			name: "duplicate session",
			modify: func(g *types.GenesisState) {
				g.Sessions = append(g.Sessions, g.Sessions[0])
			},
			expectErr: true,
			errMsg:    "duplicate voting session",
		},
		{
			name: "pause flag out of sync",
			modify: func(g *types.GenesisState) {
				g.Paused = false
			},
			expectErr: true,
			errMsg:    "paused flag",
		},
		{
			name: "invalid locker",
			modify: func(g *types.GenesisState) {
				g.Sessions[0].Lockers[0].Address = "locker"
			},
			expectErr: true,
			errMsg:    "invalid locker address",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			requireT := require.New(t)
			genesis := validGenesis()
			tc.modify(&genesis)
			err := genesis.Validate()
			if tc.expectErr {
				requireT.ErrorContains(err, tc.errMsg)
			} else {
				requireT.NoError(err)
			}
		})
	}
}
