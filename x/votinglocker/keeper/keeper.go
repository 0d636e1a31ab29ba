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
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"

	"github.com/tokenize-x/lsm-staking/pkg/collcodec"
	"github.com/tokenize-x/lsm-staking/pkg/saga"
	"github.com/tokenize-x/lsm-staking/x/votinglocker/types"
)

// Keeper of the module.
type Keeper struct {
	storeService sdkstore.KVStoreService

	// codec
	addressCodec    addresscodec.Codec
	valAddressCodec addresscodec.Codec

	// keepers
	bankKeeper    types.BankKeeper
	stakingKeeper types.StakingKeeper
	govKeeper     types.GovKeeper
	commander     types.Commander
	managerKeeper types.ManagerKeeper

	// collections
	Schema        collections.Schema
	Lockers       collections.Map[sdk.AccAddress, types.Locker]
	Continuations saga.Registry[types.Continuation]
}

// NewKeeper returns a new keeper object providing storage options required by the module.
// The manager keeper is set afterwards with SetManagerKeeper.
func NewKeeper(
	storeService sdkstore.KVStoreService,
	bankKeeper types.BankKeeper,
	stakingKeeper types.StakingKeeper,
	govKeeper types.GovKeeper,
	commander types.Commander,
	addressCodec addresscodec.Codec,
	valAddressCodec addresscodec.Codec,
) *Keeper {
	sb := collections.NewSchemaBuilder(storeService)
	k := &Keeper{
		storeService:    storeService,
		addressCodec:    addressCodec,
		valAddressCodec: valAddressCodec,
		bankKeeper:      bankKeeper,
		stakingKeeper:   stakingKeeper,
		govKeeper:       govKeeper,
		commander:       commander,

		Lockers: collections.NewMap(
			sb,
			types.LockersKey,
			"lockers",
			sdk.AccAddressKey,
			collcodec.JSONValue[types.Locker](),
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

// SetManagerKeeper sets the pool keeper the lockers return their funds to.
func (k *Keeper) SetManagerKeeper(managerKeeper types.ManagerKeeper) *Keeper {
	if k.managerKeeper != nil {
		panic("cannot set manager keeper twice")
	}
	k.managerKeeper = managerKeeper
	return k
}

// Logger returns the module logger.
func (k *Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", "x/"+types.ModuleName)
}

// GetLocker returns the state of the locker.
func (k *Keeper) GetLocker(ctx context.Context, addr sdk.AccAddress) (types.Locker, error) {
	locker, err := k.Lockers.Get(ctx, addr)
	if errors.Is(err, collections.ErrNotFound) {
		return types.Locker{}, errorsmod.Wrapf(types.ErrLockerNotFound, "address %s", addr)
	}
	return locker, err
}

// DelegatedTokens returns the live token amount the locker delegates.
func (k *Keeper) DelegatedTokens(ctx context.Context, addr sdk.AccAddress, locker types.Locker) (sdkmath.Int, error) {
	valAddr, err := k.validatorAddress(locker.Validator)
	if err != nil {
		return sdkmath.Int{}, err
	}
	validator, err := k.stakingKeeper.GetValidator(ctx, valAddr)
	if errors.Is(err, stakingtypes.ErrNoValidatorFound) {
		return sdkmath.Int{}, errorsmod.Wrapf(types.ErrValidatorNotFound, "validator %s", locker.Validator)
	}
	if err != nil {
		return sdkmath.Int{}, err
	}
	delegation, err := k.stakingKeeper.GetDelegation(ctx, addr, valAddr)
	if errors.Is(err, stakingtypes.ErrNoDelegation) {
		return sdkmath.ZeroInt(), nil
	}
	if err != nil {
		return sdkmath.Int{}, err
	}
	return validator.TokensFromShares(delegation.Shares).TruncateInt(), nil
}

func (k *Keeper) validatorAddress(validator string) (sdk.ValAddress, error) {
	bz, err := k.valAddressCodec.StringToBytes(validator)
	if err != nil {
		return nil, errorsmod.Wrapf(types.ErrInvalidValidator, "invalid validator %s: %s", validator, err)
	}
	return bz, nil
}

func (k *Keeper) requireManager(locker types.Locker, sender sdk.AccAddress) error {
	if locker.Manager != sender.String() {
		return errorsmod.Wrapf(types.ErrUnauthorized, "expected %s, got %s", locker.Manager, sender)
	}
	return nil
}
