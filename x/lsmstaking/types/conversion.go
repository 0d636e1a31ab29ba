package types

import (
	"math/big"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
)

// maxIndexBitLen bounds the scaled reward index. Updates that would exceed it saturate.
const maxIndexBitLen = 256

var indexPrecision = sdkmath.LegacyOneDec().BigInt()

// SharesToTokens converts pool shares into delegated tokens, rounding down.
func SharesToTokens(shares, delegated, totalShares sdkmath.Int) (sdkmath.Int, error) {
	if totalShares.IsZero() {
		return sdkmath.ZeroInt(), nil
	}
	product, err := shares.SafeMul(delegated)
	if err != nil {
		return sdkmath.Int{}, errorsmod.Wrapf(ErrArithmetic, "shares to tokens: %s", err)
	}
	return product.Quo(totalShares), nil
}

// TokensToShares converts delegated tokens into pool shares, rounding up.
// All shares are returned when nothing is delegated.
func TokensToShares(tokens, totalShares, delegated sdkmath.Int) (sdkmath.Int, error) {
	if delegated.IsZero() {
		return totalShares, nil
	}
	product, err := tokens.SafeMul(totalShares)
	if err != nil {
		return sdkmath.Int{}, errorsmod.Wrapf(ErrArithmetic, "tokens to shares: %s", err)
	}
	shares := product.Quo(delegated)
	if !product.Mod(delegated).IsZero() {
		shares = shares.AddRaw(1)
	}
	return shares, nil
}

// ApplyRewardIndex distributes the reward over the pool shares.
// Rewards received while the pool holds no shares are not indexed.
func ApplyRewardIndex(state PoolState, reward sdkmath.Int) PoolState {
	if state.TotalShares.IsZero() || !reward.IsPositive() {
		return state
	}

	perShare := new(big.Int).Mul(reward.BigInt(), indexPrecision)
	perShare.Quo(perShare, state.TotalShares.BigInt())
	index := perShare.Add(perShare, state.GlobalRewardIndex.BigInt())
	if index.BitLen() > maxIndexBitLen {
		return state
	}

	state.GlobalRewardIndex = sdkmath.LegacyNewDecFromBigIntWithPrec(index, sdkmath.LegacyPrecision)
	return state
}

// PendingReward is the reward accrued by the staker since its last settlement, rounded down.
func PendingReward(staker StakerRecord, index sdkmath.LegacyDec) (sdkmath.Int, error) {
	if staker.StakedShares.IsZero() {
		return sdkmath.ZeroInt(), nil
	}
	diff := index.Sub(staker.RewardIndex)
	if !diff.IsPositive() {
		return sdkmath.ZeroInt(), nil
	}

	reward := new(big.Int).Mul(staker.StakedShares.BigInt(), diff.BigInt())
	reward.Quo(reward, indexPrecision)
	if reward.BitLen() > sdkmath.MaxBitLen {
		return sdkmath.Int{}, errorsmod.Wrapf(ErrArithmetic, "pending reward overflows %d bits", sdkmath.MaxBitLen)
	}
	return sdkmath.NewIntFromBigInt(reward), nil
}
