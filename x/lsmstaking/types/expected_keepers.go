package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	distrtypes "github.com/cosmos/cosmos-sdk/x/distribution/types"
	govv1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"

	"github.com/tokenize-x/lsm-staking/pkg/lsm"
	votinglockertypes "github.com/tokenize-x/lsm-staking/x/votinglocker/types"
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

// DistributionKeeper interface.
type DistributionKeeper interface {
	DelegationRewards(
		ctx context.Context,
		req *distrtypes.QueryDelegationRewardsRequest,
	) (*distrtypes.QueryDelegationRewardsResponse, error)
}

// GovKeeper interface.
type GovKeeper interface {
	GetProposal(ctx context.Context, proposalID uint64) (govv1.Proposal, error)
}

// Commander issues commands to the liquid staking, distribution and governance subsystems.
// Commands carrying a reply are executed later and answered through the named module's
// reply handler.
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

// VotingLockerKeeper interface.
type VotingLockerKeeper interface {
	Instantiate(ctx context.Context, params votinglockertypes.InstantiateParams) (sdk.AccAddress, error)
	DepositLsmShares(ctx context.Context, sender, locker sdk.AccAddress, funds sdk.Coins) error
	Destroy(ctx context.Context, sender, locker sdk.AccAddress) error
}
