package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	govv1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"

	"github.com/tokenize-x/lsm-staking/pkg/lsm"
)

// BankKeeper interface.
type BankKeeper interface {
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
	GetAllBalances(ctx context.Context, addr sdk.AccAddress) sdk.Coins
	SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error
}

// StakingKeeper interface.
type StakingKeeper interface {
	GetValidator(ctx context.Context, addr sdk.ValAddress) (stakingtypes.Validator, error)
	GetDelegation(ctx context.Context, delAddr sdk.AccAddress, valAddr sdk.ValAddress) (stakingtypes.Delegation, error)
}

// GovKeeper interface.
type GovKeeper interface {
	GetProposal(ctx context.Context, proposalID uint64) (govv1.Proposal, error)
}

// Commander issues commands to the liquid staking, distribution and governance subsystems.
type Commander interface {
	RedeemTokensForShares(ctx context.Context, delegator sdk.AccAddress, amount sdk.Coin) error
	TokenizeShares(
		ctx context.Context,
		delegator sdk.AccAddress,
		validator sdk.ValAddress,
		amount sdk.Coin,
		owner sdk.AccAddress,
		reply lsm.Reply,
	) error
	WithdrawDelegatorReward(
		ctx context.Context,
		delegator sdk.AccAddress,
		validator sdk.ValAddress,
		reply lsm.Reply,
	) error
	Vote(ctx context.Context, voter sdk.AccAddress, proposalID uint64, option govv1.VoteOption) error
}

// ManagerKeeper is the pool the lockers hand their shares and rewards back to.
type ManagerKeeper interface {
	DepositRewards(ctx context.Context, sender sdk.AccAddress, funds sdk.Coins) error
	ReturnLsmShares(
		ctx context.Context,
		locker sdk.AccAddress,
		proposalID uint64,
		option govv1.VoteOption,
		funds sdk.Coins,
	) error
}
