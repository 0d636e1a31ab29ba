package keeper

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	addresscodec "cosmossdk.io/core/address"
	sdkstore "cosmossdk.io/core/store"
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"

	"github.com/tokenize-x/lsm-staking/pkg/collcodec"
	"github.com/tokenize-x/lsm-staking/pkg/saga"
	"github.com/tokenize-x/lsm-staking/x/lsmstaking/types"
)

// Keeper of the module.
type Keeper struct {
	storeService sdkstore.KVStoreService

	// codec
	addressCodec    addresscodec.Codec
	valAddressCodec addresscodec.Codec

	// keepers
	bankKeeper         types.BankKeeper
	stakingKeeper      types.StakingKeeper
	distributionKeeper types.DistributionKeeper
	govKeeper          types.GovKeeper
	commander          types.Commander
	lockerKeeper       types.VotingLockerKeeper

	// collections
	Schema         collections.Schema
	Config         collections.Item[types.PoolConfig]
	State          collections.Item[types.PoolState]
	Stakers        collections.Map[sdk.AccAddress, types.StakerRecord]
	VotingSessions collections.Map[uint64, types.VotingSession]
	Paused         collections.Item[bool]
	Continuations  saga.Registry[types.Continuation]
}

// NewKeeper returns a new keeper object providing storage options required by the module.
func NewKeeper(
	storeService sdkstore.KVStoreService,
	bankKeeper types.BankKeeper,
	stakingKeeper types.StakingKeeper,
	distributionKeeper types.DistributionKeeper,
	govKeeper types.GovKeeper,
	commander types.Commander,
	lockerKeeper types.VotingLockerKeeper,
	addressCodec addresscodec.Codec,
	valAddressCodec addresscodec.Codec,
) Keeper {
	sb := collections.NewSchemaBuilder(storeService)
	k := Keeper{
		storeService:       storeService,
		addressCodec:       addressCodec,
		valAddressCodec:    valAddressCodec,
		bankKeeper:         bankKeeper,
		stakingKeeper:      stakingKeeper,
		distributionKeeper: distributionKeeper,
		govKeeper:          govKeeper,
		commander:          commander,
		lockerKeeper:       lockerKeeper,

		Config: collections.NewItem(
			sb,
			types.ConfigKey,
			"config",
			collcodec.JSONValue[types.PoolConfig](),
		),
		State: collections.NewItem(
			sb,
			types.StateKey,
			"state",
			collcodec.JSONValue[types.PoolState](),
		),
		Stakers: collections.NewMap(
			sb,
			types.StakersKey,
			"stakers",
			sdk.AccAddressKey,
			collcodec.JSONValue[types.StakerRecord](),
		),
		VotingSessions: collections.NewMap(
			sb,
			types.VotingSessionsKey,
			"voting_sessions",
			collections.Uint64Key,
			collcodec.JSONValue[types.VotingSession](),
		),
		Paused: collections.NewItem(
			sb,
			types.PausedKey,
			"paused",
			collections.BoolValue,
		),
		Continuations: saga.NewRegistry[types.Continuation](
			sb,
			types.ContinuationSequenceKey,
			types.ContinuationsKey,
			"continuations",
		),
	}

	schema, err := sb.Build()
	if err != nil {
		panic(err)
	}
	k.Schema = schema

	return k
}

// Logger returns the module logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", "x/"+types.ModuleName)
}

// PoolAddress returns the account holding the pool delegation and balances.
func (k Keeper) PoolAddress() sdk.AccAddress {
	return authtypes.NewModuleAddress(types.ModuleName)
}

// GetConfig returns the pool configuration.
func (k Keeper) GetConfig(ctx context.Context) (types.PoolConfig, error) {
	config, err := k.Config.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return types.PoolConfig{}, errorsmod.Wrap(types.ErrInvalidConfig, "pool is not configured")
	}
	return config, err
}

// GetState returns the pool aggregate.
func (k Keeper) GetState(ctx context.Context) (types.PoolState, error) {
	state, err := k.State.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return types.NewPoolState(), nil
	}
	return state, err
}

// IsPaused reports whether deposits and withdrawals are blocked.
func (k Keeper) IsPaused(ctx context.Context) (bool, error) {
	paused, err := k.Paused.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return false, nil
	}
	return paused, err
}

// GetStaker returns the record of the staker.
func (k Keeper) GetStaker(ctx context.Context, addr sdk.AccAddress) (types.StakerRecord, error) {
	staker, err := k.Stakers.Get(ctx, addr)
	if errors.Is(err, collections.ErrNotFound) {
		return types.StakerRecord{}, errorsmod.Wrapf(types.ErrStakerNotFound, "address %s", addr)
	}
	return staker, err
}

func (k Keeper) requireNotPaused(ctx context.Context) error {
	paused, err := k.IsPaused(ctx)
	if err != nil {
		return err
	}
	if paused {
		return types.ErrPaused
	}
	return nil
}

func (k Keeper) requireOwner(config types.PoolConfig, sender sdk.AccAddress) error {
	if config.Owner != sender.String() {
		return errorsmod.Wrapf(types.ErrUnauthorized, "expected %s, got %s", config.Owner, sender)
	}
	return nil
}

func (k Keeper) validatorAddress(config types.PoolConfig) (sdk.ValAddress, error) {
	bz, err := k.valAddressCodec.StringToBytes(config.Validator)
	if err != nil {
		return nil, errorsmod.Wrapf(types.ErrInvalidValidator, "invalid validator %s: %s", config.Validator, err)
	}
	return bz, nil
}

// DelegatedTokens returns the live token amount the pool delegates to the configured validator.
func (k Keeper) DelegatedTokens(ctx context.Context, config types.PoolConfig) (sdkmath.Int, error) {
	valAddr, err := k.validatorAddress(config)
	if err != nil {
		return sdkmath.Int{}, err
	}

	validator, err := k.stakingKeeper.GetValidator(ctx, valAddr)
	if errors.Is(err, stakingtypes.ErrNoValidatorFound) {
		return sdkmath.Int{}, errorsmod.Wrapf(types.ErrValidatorNotFound, "validator %s", config.Validator)
	}
	if err != nil {
		return sdkmath.Int{}, err
	}

	delegation, err := k.stakingKeeper.GetDelegation(ctx, k.PoolAddress(), valAddr)
	if errors.Is(err, stakingtypes.ErrNoDelegation) {
		return sdkmath.ZeroInt(), nil
	}
	if err != nil {
		return sdkmath.Int{}, err
	}

	return validator.TokensFromShares(delegation.Shares).TruncateInt(), nil
}
