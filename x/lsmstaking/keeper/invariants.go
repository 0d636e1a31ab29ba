package keeper

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/samber/lo"

	"github.com/tokenize-x/lsm-staking/x/lsmstaking/types"
)

// RegisterInvariants registers the module invariants.
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "total-shares", TotalSharesInvariant(k))
	ir.RegisterRoute(types.ModuleName, "pause-flag", PauseFlagInvariant(k))
}

// AllInvariants runs all invariants of the module.
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, broken := TotalSharesInvariant(k)(ctx)
		if broken {
			return res, broken
		}
		return PauseFlagInvariant(k)(ctx)
	}
}

// TotalSharesInvariant checks that the pool shares equal the sum of staker shares and that no
// staker snapshot is ahead of the global index.
func TotalSharesInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		state, err := k.GetState(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "total-shares", err.Error()), true
		}

		sum := sdkmath.ZeroInt()
		var ahead []string
		err = k.Stakers.Walk(ctx, nil, func(addr sdk.AccAddress, staker types.StakerRecord) (bool, error) {
			sum = sum.Add(staker.StakedShares)
			if staker.RewardIndex.GT(state.GlobalRewardIndex) {
				ahead = append(ahead, addr.String())
			}
			return false, nil
		})
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "total-shares", err.Error()), true
		}

		broken := !sum.Equal(state.TotalShares) || len(ahead) > 0
		return sdk.FormatInvariant(types.ModuleName, "total-shares", fmt.Sprintf(
			"\tpool total shares: %s\n\tsum of staker shares: %s\n\tstakers ahead of global index: %v\n",
			state.TotalShares, sum, ahead,
		)), broken
	}
}

// PauseFlagInvariant checks that the pool is paused exactly while a voting session is active.
func PauseFlagInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		paused, err := k.IsPaused(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "pause-flag", err.Error()), true
		}
		sessions, err := k.GetVotingSessions(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "pause-flag", err.Error()), true
		}

		active := lo.CountBy(sessions, func(s types.VotingSession) bool { return s.IsActive })
		return sdk.FormatInvariant(types.ModuleName, "pause-flag", fmt.Sprintf(
			"\tpaused: %t\n\tactive sessions: %d\n", paused, active,
		)), paused != (active > 0)
	}
}
