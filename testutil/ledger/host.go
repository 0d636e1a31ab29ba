// Package ledger provides an in-memory host ledger backing the staking, bank, distribution and
// governance interfaces the modules depend on. Its state lives in a regular store so it follows
// cached contexts the same way module state does.
package ledger

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	addresscodec "cosmossdk.io/core/address"
	sdkstore "cosmossdk.io/core/store"
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	distrtypes "github.com/cosmos/cosmos-sdk/x/distribution/types"
	govv1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
	"github.com/samber/lo"

	"github.com/tokenize-x/lsm-staking/pkg/collcodec"
	"github.com/tokenize-x/lsm-staking/pkg/lsm"
)

// StoreKey is the store key of the host ledger.
const StoreKey = "ledger"

// Command kinds executed asynchronously.
const (
	CommandTokenizeShares          = "tokenize_shares"
	CommandWithdrawDelegatorReward = "withdraw_delegator_reward"
)

var (
	balancesKey        = collections.NewPrefix(0)
	validatorsKey      = collections.NewPrefix(1)
	delegationsKey     = collections.NewPrefix(2)
	rewardsKey         = collections.NewPrefix(3)
	proposalsKey       = collections.NewPrefix(4)
	votesKey           = collections.NewPrefix(5)
	recordSequenceKey  = collections.NewPrefix(6)
	commandSequenceKey = collections.NewPrefix(7)
	commandsKey        = collections.NewPrefix(8)
)

// Command is a queued command awaiting delivery.
type Command struct {
	Kind      string    `json:"kind"`
	Delegator string    `json:"delegator"`
	Validator string    `json:"validator"`
	Amount    *sdk.Coin `json:"amount,omitempty"`
	Owner     string    `json:"owner,omitempty"`
	Reply     lsm.Reply `json:"reply"`
}

// Host is the in-memory ledger.
type Host struct {
	bondDenom       string
	addressCodec    addresscodec.Codec
	valAddressCodec addresscodec.Codec
	handlers        map[string]lsm.ReplyHandler

	Schema          collections.Schema
	Balances        collections.Map[collections.Pair[sdk.AccAddress, string], sdkmath.Int]
	Validators      collections.Map[sdk.ValAddress, stakingtypes.Validator]
	Delegations     collections.Map[collections.Pair[sdk.AccAddress, sdk.ValAddress], stakingtypes.Delegation]
	Rewards         collections.Map[collections.Pair[sdk.AccAddress, sdk.ValAddress], sdkmath.Int]
	Proposals       collections.Map[uint64, govv1.Proposal]
	Votes           collections.Map[collections.Pair[uint64, sdk.AccAddress], govv1.VoteOption]
	RecordSequence  collections.Sequence
	CommandSequence collections.Sequence
	Commands        collections.Map[uint64, Command]
}

// NewHost returns a host ledger stored under the store service.
func NewHost(
	storeService sdkstore.KVStoreService,
	bondDenom string,
	addressCodec addresscodec.Codec,
	valAddressCodec addresscodec.Codec,
) *Host {
	cdc := codec.NewProtoCodec(codectypes.NewInterfaceRegistry())
	sb := collections.NewSchemaBuilder(storeService)
	h := &Host{
		bondDenom:       bondDenom,
		addressCodec:    addressCodec,
		valAddressCodec: valAddressCodec,
		handlers:        map[string]lsm.ReplyHandler{},

		Balances: collections.NewMap(
			sb,
			balancesKey,
			"balances",
			collections.PairKeyCodec(sdk.AccAddressKey, collections.StringKey),
			sdk.IntValue,
		),
		Validators: collections.NewMap(
			sb,
			validatorsKey,
			"validators",
			sdk.ValAddressKey,
			codec.CollValue[stakingtypes.Validator](cdc),
		),
		Delegations: collections.NewMap(
			sb,
			delegationsKey,
			"delegations",
			collections.PairKeyCodec(sdk.AccAddressKey, sdk.ValAddressKey),
			codec.CollValue[stakingtypes.Delegation](cdc),
		),
		Rewards: collections.NewMap(
			sb,
			rewardsKey,
			"rewards",
			collections.PairKeyCodec(sdk.AccAddressKey, sdk.ValAddressKey),
			sdk.IntValue,
		),
		Proposals: collections.NewMap(
			sb,
			proposalsKey,
			"proposals",
			collections.Uint64Key,
			codec.CollValue[govv1.Proposal](cdc),
		),
		Votes: collections.NewMap(
			sb,
			votesKey,
			"votes",
			collections.PairKeyCodec(collections.Uint64Key, sdk.AccAddressKey),
			collcodec.JSONValue[govv1.VoteOption](),
		),
		RecordSequence:  collections.NewSequence(sb, recordSequenceKey, "record_sequence"),
		CommandSequence: collections.NewSequence(sb, commandSequenceKey, "command_sequence"),
		Commands: collections.NewMap(
			sb,
			commandsKey,
			"commands",
			collections.Uint64Key,
			collcodec.JSONValue[Command](),
		),
	}

	schema, err := sb.Build()
	if err != nil {
		panic(err)
	}
	h.Schema = schema

	return h
}

// Route registers the handler receiving the replies addressed to the module.
func (h *Host) Route(module string, handler lsm.ReplyHandler) {
	h.handlers[module] = handler
}

// BondDenom returns the staking denom of the ledger.
func (h *Host) BondDenom() string {
	return h.bondDenom
}

// Bank

// GetBalance returns the balance of the denom.
func (h *Host) GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	amount, err := h.Balances.Get(ctx, collections.Join(addr, denom))
	if err != nil {
		amount = sdkmath.ZeroInt()
	}
	return sdk.NewCoin(denom, amount)
}

// GetAllBalances returns all the balances of the account.
func (h *Host) GetAllBalances(ctx context.Context, addr sdk.AccAddress) sdk.Coins {
	coins := sdk.NewCoins()
	err := h.Balances.Walk(
		ctx,
		collections.NewPrefixedPairRange[sdk.AccAddress, string](addr),
		func(key collections.Pair[sdk.AccAddress, string], amount sdkmath.Int) (bool, error) {
			coins = coins.Add(sdk.NewCoin(key.K2(), amount))
			return false, nil
		},
	)
	if err != nil {
		panic(err)
	}
	return coins
}

// SendCoins moves coins between accounts.
func (h *Host) SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error {
	if !amt.IsValid() {
		return errorsmod.Wrap(sdkerrors.ErrInvalidCoins, amt.String())
	}
	for _, coin := range amt {
		if err := h.burn(ctx, fromAddr, coin); err != nil {
			return err
		}
		if err := h.mint(ctx, toAddr, coin); err != nil {
			return err
		}
	}
	return nil
}

// Fund mints coins to the account.
func (h *Host) Fund(ctx context.Context, addr sdk.AccAddress, amt sdk.Coins) error {
	for _, coin := range amt {
		if err := h.mint(ctx, addr, coin); err != nil {
			return err
		}
	}
	return nil
}

func (h *Host) mint(ctx context.Context, addr sdk.AccAddress, coin sdk.Coin) error {
	balance := h.GetBalance(ctx, addr, coin.Denom)
	return h.Balances.Set(ctx, collections.Join(addr, coin.Denom), balance.Amount.Add(coin.Amount))
}

func (h *Host) burn(ctx context.Context, addr sdk.AccAddress, coin sdk.Coin) error {
	balance := h.GetBalance(ctx, addr, coin.Denom)
	if balance.Amount.LT(coin.Amount) {
		return errorsmod.Wrapf(sdkerrors.ErrInsufficientFunds, "%s is smaller than %s", balance, coin)
	}
	remaining := balance.Amount.Sub(coin.Amount)
	if remaining.IsZero() {
		return h.Balances.Remove(ctx, collections.Join(addr, coin.Denom))
	}
	return h.Balances.Set(ctx, collections.Join(addr, coin.Denom), remaining)
}

// Staking

// AddValidator registers a bonded validator without delegations.
func (h *Host) AddValidator(ctx context.Context, valAddr sdk.ValAddress) (stakingtypes.Validator, error) {
	operator, err := h.valAddressCodec.BytesToString(valAddr)
	if err != nil {
		return stakingtypes.Validator{}, err
	}
	validator := stakingtypes.Validator{
		OperatorAddress: operator,
		Status:          stakingtypes.Bonded,
		Tokens:          sdkmath.ZeroInt(),
		DelegatorShares: sdkmath.LegacyZeroDec(),
		Commission: stakingtypes.NewCommission(
			sdkmath.LegacyZeroDec(), sdkmath.LegacyZeroDec(), sdkmath.LegacyZeroDec(),
		),
		MinSelfDelegation: sdkmath.OneInt(),
	}
	return validator, h.Validators.Set(ctx, valAddr, validator)
}

// GetValidator returns the validator.
func (h *Host) GetValidator(ctx context.Context, addr sdk.ValAddress) (stakingtypes.Validator, error) {
	validator, err := h.Validators.Get(ctx, addr)
	if errors.Is(err, collections.ErrNotFound) {
		return stakingtypes.Validator{}, stakingtypes.ErrNoValidatorFound
	}
	return validator, err
}

// GetDelegation returns the delegation.
func (h *Host) GetDelegation(
	ctx context.Context,
	delAddr sdk.AccAddress,
	valAddr sdk.ValAddress,
) (stakingtypes.Delegation, error) {
	delegation, err := h.Delegations.Get(ctx, collections.Join(delAddr, valAddr))
	if errors.Is(err, collections.ErrNotFound) {
		return stakingtypes.Delegation{}, stakingtypes.ErrNoDelegation
	}
	return delegation, err
}

// Slash burns the fraction of the validator tokens.
func (h *Host) Slash(ctx context.Context, valAddr sdk.ValAddress, fraction sdkmath.LegacyDec) error {
	validator, err := h.GetValidator(ctx, valAddr)
	if err != nil {
		return err
	}
	burned := sdkmath.LegacyNewDecFromInt(validator.Tokens).Mul(fraction).TruncateInt()
	validator = validator.RemoveTokens(sdkmath.MinInt(burned, validator.Tokens))
	return h.Validators.Set(ctx, valAddr, validator)
}

// IssueReceipt mints a receipt of the validator to the owner, as if the owner tokenized a delegation.
func (h *Host) IssueReceipt(
	ctx context.Context,
	owner sdk.AccAddress,
	valAddr sdk.ValAddress,
	amount sdkmath.Int,
) (sdk.Coin, error) {
	operator, err := h.valAddressCodec.BytesToString(valAddr)
	if err != nil {
		return sdk.Coin{}, err
	}
	recordID, err := h.RecordSequence.Next(ctx)
	if err != nil {
		return sdk.Coin{}, err
	}
	receipt := sdk.NewCoin(lsm.ReceiptDenom(operator, recordID+1), amount)
	return receipt, h.mint(ctx, owner, receipt)
}

func (h *Host) delegate(
	ctx context.Context,
	delAddr sdk.AccAddress,
	valAddr sdk.ValAddress,
	tokens sdkmath.Int,
) error {
	validator, err := h.GetValidator(ctx, valAddr)
	if err != nil {
		return err
	}
	validator, shares := validator.AddTokensFromDel(tokens)
	if err := h.Validators.Set(ctx, valAddr, validator); err != nil {
		return err
	}

	delegation, err := h.GetDelegation(ctx, delAddr, valAddr)
	if errors.Is(err, stakingtypes.ErrNoDelegation) {
		delegation = stakingtypes.NewDelegation(
			delAddr.String(), validator.OperatorAddress, sdkmath.LegacyZeroDec(),
		)
	} else if err != nil {
		return err
	}
	delegation.Shares = delegation.Shares.Add(shares)
	return h.Delegations.Set(ctx, collections.Join(delAddr, valAddr), delegation)
}

func (h *Host) undelegate(
	ctx context.Context,
	delAddr sdk.AccAddress,
	valAddr sdk.ValAddress,
	tokens sdkmath.Int,
) error {
	validator, err := h.GetValidator(ctx, valAddr)
	if err != nil {
		return err
	}
	delegation, err := h.GetDelegation(ctx, delAddr, valAddr)
	if err != nil {
		return err
	}
	live := validator.TokensFromShares(delegation.Shares).TruncateInt()
	if tokens.GT(live) {
		return errorsmod.Wrapf(stakingtypes.ErrNotEnoughDelegationShares, "delegated %s, requested %s", live, tokens)
	}
	shares, err := validator.SharesFromTokens(tokens)
	if err != nil {
		return err
	}
	shares = sdkmath.LegacyMinDec(shares, delegation.Shares)

	validator, _ = validator.RemoveDelShares(shares)
	if err := h.Validators.Set(ctx, valAddr, validator); err != nil {
		return err
	}
	delegation.Shares = delegation.Shares.Sub(shares)
	if delegation.Shares.IsZero() {
		return h.Delegations.Remove(ctx, collections.Join(delAddr, valAddr))
	}
	return h.Delegations.Set(ctx, collections.Join(delAddr, valAddr), delegation)
}

// Distribution

// AccrueRewards adds delegation rewards waiting to be withdrawn.
func (h *Host) AccrueRewards(
	ctx context.Context,
	delAddr sdk.AccAddress,
	valAddr sdk.ValAddress,
	amount sdkmath.Int,
) error {
	current, err := h.rewards(ctx, delAddr, valAddr)
	if err != nil {
		return err
	}
	return h.Rewards.Set(ctx, collections.Join(delAddr, valAddr), current.Add(amount))
}

// DelegationRewards returns the rewards not withdrawn yet.
func (h *Host) DelegationRewards(
	ctx context.Context,
	req *distrtypes.QueryDelegationRewardsRequest,
) (*distrtypes.QueryDelegationRewardsResponse, error) {
	delAddr, err := h.addressCodec.StringToBytes(req.DelegatorAddress)
	if err != nil {
		return nil, err
	}
	valAddr, err := h.valAddressCodec.StringToBytes(req.ValidatorAddress)
	if err != nil {
		return nil, err
	}
	reward, err := h.rewards(ctx, delAddr, valAddr)
	if err != nil {
		return nil, err
	}
	return &distrtypes.QueryDelegationRewardsResponse{
		Rewards: sdk.NewDecCoins(sdk.NewDecCoinFromDec(h.bondDenom, sdkmath.LegacyNewDecFromInt(reward))),
	}, nil
}

func (h *Host) rewards(ctx context.Context, delAddr sdk.AccAddress, valAddr sdk.ValAddress) (sdkmath.Int, error) {
	reward, err := h.Rewards.Get(ctx, collections.Join(delAddr, valAddr))
	if errors.Is(err, collections.ErrNotFound) {
		return sdkmath.ZeroInt(), nil
	}
	return reward, err
}

// Governance

// SetProposal stores a proposal with the status.
func (h *Host) SetProposal(ctx context.Context, proposalID uint64, status govv1.ProposalStatus) error {
	return h.Proposals.Set(ctx, proposalID, govv1.Proposal{
		Id:     proposalID,
		Status: status,
		Title:  "proposal",
	})
}

// RemoveProposal purges a proposal.
func (h *Host) RemoveProposal(ctx context.Context, proposalID uint64) error {
	return h.Proposals.Remove(ctx, proposalID)
}

// GetProposal returns the proposal. Missing proposals are reported with collections.ErrNotFound.
func (h *Host) GetProposal(ctx context.Context, proposalID uint64) (govv1.Proposal, error) {
	return h.Proposals.Get(ctx, proposalID)
}

// GetVote returns the vote option cast by the voter.
func (h *Host) GetVote(ctx context.Context, proposalID uint64, voter sdk.AccAddress) (govv1.VoteOption, error) {
	return h.Votes.Get(ctx, collections.Join(proposalID, voter))
}

// Commands

// RedeemTokensForShares burns the receipt and delegates the tokens it represents to its validator.
func (h *Host) RedeemTokensForShares(ctx context.Context, delegator sdk.AccAddress, amount sdk.Coin) error {
	info, err := lsm.ParseReceiptDenom(amount.Denom)
	if err != nil {
		return err
	}
	valAddr, err := h.valAddressCodec.StringToBytes(info.Validator)
	if err != nil {
		return err
	}
	if err := h.burn(ctx, delegator, amount); err != nil {
		return err
	}
	return h.delegate(ctx, delegator, valAddr, amount.Amount)
}

// Vote records the vote of the voter.
func (h *Host) Vote(ctx context.Context, voter sdk.AccAddress, proposalID uint64, option govv1.VoteOption) error {
	proposal, err := h.GetProposal(ctx, proposalID)
	if err != nil {
		return err
	}
	if proposal.Status != govv1.StatusVotingPeriod {
		return errorsmod.Wrapf(sdkerrors.ErrInvalidRequest, "proposal %d is not in voting period", proposalID)
	}
	return h.Votes.Set(ctx, collections.Join(proposalID, voter), option)
}

// TokenizeShares queues the tokenization of the delegation.
func (h *Host) TokenizeShares(
	ctx context.Context,
	delegator sdk.AccAddress,
	validator sdk.ValAddress,
	amount sdk.Coin,
	owner sdk.AccAddress,
	reply lsm.Reply,
) error {
	operator, err := h.valAddressCodec.BytesToString(validator)
	if err != nil {
		return err
	}
	return h.enqueue(ctx, Command{
		Kind:      CommandTokenizeShares,
		Delegator: delegator.String(),
		Validator: operator,
		Amount:    &amount,
		Owner:     owner.String(),
		Reply:     reply,
	})
}

// WithdrawDelegatorReward queues the reward withdrawal of the delegation.
func (h *Host) WithdrawDelegatorReward(
	ctx context.Context,
	delegator sdk.AccAddress,
	validator sdk.ValAddress,
	reply lsm.Reply,
) error {
	operator, err := h.valAddressCodec.BytesToString(validator)
	if err != nil {
		return err
	}
	return h.enqueue(ctx, Command{
		Kind:      CommandWithdrawDelegatorReward,
		Delegator: delegator.String(),
		Validator: operator,
		Reply:     reply,
	})
}

func (h *Host) enqueue(ctx context.Context, cmd Command) error {
	id, err := h.CommandSequence.Next(ctx)
	if err != nil {
		return err
	}
	return h.Commands.Set(ctx, id, cmd)
}

// Pending returns the queued commands in issue order.
func (h *Host) Pending(ctx context.Context) ([]Command, error) {
	iter, err := h.Commands.Iterate(ctx, nil)
	if err != nil {
		return nil, err
	}
	return iter.Values()
}

// Deliver executes the oldest queued command and replies to the module that issued it. The command
// effect is discarded when it fails and the failure is replied instead. It reports false when the
// queue is empty.
func (h *Host) Deliver(ctx sdk.Context) (bool, error) {
	cmd, found, err := h.pop(ctx)
	if err != nil || !found {
		return false, err
	}

	cacheCtx, writeCache := ctx.CacheContext()
	success := true
	if err := h.execute(cacheCtx, cmd); err != nil {
		ctx.Logger().Info("command failed", "kind", cmd.Kind, "reply", cmd.Reply.String(), "error", err)
		success = false
	} else {
		writeCache()
	}
	return true, h.reply(ctx, cmd, success)
}

// DeliverFailure replies failure to the oldest queued command without executing it.
func (h *Host) DeliverFailure(ctx sdk.Context) (bool, error) {
	cmd, found, err := h.pop(ctx)
	if err != nil || !found {
		return false, err
	}
	return true, h.reply(ctx, cmd, false)
}

// DeliverAll delivers queued commands until the queue is empty or a reply fails.
func (h *Host) DeliverAll(ctx sdk.Context) error {
	for {
		delivered, err := h.Deliver(ctx)
		if err != nil || !delivered {
			return err
		}
	}
}

func (h *Host) pop(ctx context.Context) (Command, bool, error) {
	iter, err := h.Commands.Iterate(ctx, nil)
	if err != nil {
		return Command{}, false, err
	}
	keys, err := iter.Keys()
	if err != nil || len(keys) == 0 {
		return Command{}, false, err
	}
	cmd, err := h.Commands.Get(ctx, keys[0])
	if err != nil {
		return Command{}, false, err
	}
	return cmd, true, h.Commands.Remove(ctx, keys[0])
}

func (h *Host) reply(ctx sdk.Context, cmd Command, success bool) error {
	handler, ok := h.handlers[cmd.Reply.Module]
	if !ok {
		return errorsmod.Wrapf(sdkerrors.ErrUnknownRequest, "no reply handler for module %s", cmd.Reply.Module)
	}
	return handler.OnReply(ctx, cmd.Reply.ID, success)
}

func (h *Host) execute(ctx sdk.Context, cmd Command) error {
	delAddr, err := h.addressCodec.StringToBytes(cmd.Delegator)
	if err != nil {
		return err
	}
	valAddr, err := h.valAddressCodec.StringToBytes(cmd.Validator)
	if err != nil {
		return err
	}

	switch cmd.Kind {
	case CommandTokenizeShares:
		owner, err := h.addressCodec.StringToBytes(cmd.Owner)
		if err != nil {
			return err
		}
		if cmd.Amount == nil || !cmd.Amount.Amount.IsPositive() {
			return errorsmod.Wrap(sdkerrors.ErrInvalidCoins, "tokenized amount must be positive")
		}
		if err := h.undelegate(ctx, delAddr, valAddr, cmd.Amount.Amount); err != nil {
			return err
		}
		_, err = h.IssueReceipt(ctx, owner, valAddr, cmd.Amount.Amount)
		return err
	case CommandWithdrawDelegatorReward:
		reward, err := h.rewards(ctx, delAddr, valAddr)
		if err != nil {
			return err
		}
		if err := h.Rewards.Remove(ctx, collections.Join(sdk.AccAddress(delAddr), sdk.ValAddress(valAddr))); err != nil {
			return err
		}
		if reward.IsZero() {
			return nil
		}
		return h.mint(ctx, delAddr, sdk.NewCoin(h.bondDenom, reward))
	default:
		return errorsmod.Wrapf(sdkerrors.ErrUnknownRequest, "unknown command %s", cmd.Kind)
	}
}

// Voters returns the voters of the proposal in address order.
func (h *Host) Voters(ctx context.Context, proposalID uint64) ([]sdk.AccAddress, error) {
	iter, err := h.Votes.Iterate(ctx, collections.NewPrefixedPairRange[uint64, sdk.AccAddress](proposalID))
	if err != nil {
		return nil, err
	}
	keys, err := iter.Keys()
	if err != nil {
		return nil, err
	}
	return lo.Map(keys, func(key collections.Pair[uint64, sdk.AccAddress], _ int) sdk.AccAddress {
		return key.K2()
	}), nil
}
