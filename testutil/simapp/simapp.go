// Package simapp contains utils to bootstrap the modules on top of the in-memory ledger.
package simapp

import (
	"testing"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	addresscodec "github.com/cosmos/cosmos-sdk/codec/address"
	"github.com/cosmos/cosmos-sdk/crypto/keys/ed25519"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	govv1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/tokenize-x/lsm-staking/testutil/ledger"
	lsmkeeper "github.com/tokenize-x/lsm-staking/x/lsmstaking/keeper"
	lsmtypes "github.com/tokenize-x/lsm-staking/x/lsmstaking/types"
	lockerkeeper "github.com/tokenize-x/lsm-staking/x/votinglocker/keeper"
	lockertypes "github.com/tokenize-x/lsm-staking/x/votinglocker/types"
)

const (
	// DefaultBondDenom is the staking denom of the ledger.
	DefaultBondDenom = "stake"
	// DefaultLockerTemplate is the locker template id stored in the default pool config.
	DefaultLockerTemplate = uint64(1)
)

// Settings for the simapp initialization.
type Settings struct {
	logger    log.Logger
	bondDenom string
}

// Option represents simapp customisations.
type Option func(settings Settings) Settings

// WithCustomLogger returns the simapp Option to run with different logger.
func WithCustomLogger(logger log.Logger) Option {
	return func(s Settings) Settings {
		s.logger = logger
		return s
	}
}

// WithBondDenom returns the simapp Option to run with different staking denom.
func WithBondDenom(denom string) Option {
	return func(s Settings) Settings {
		s.bondDenom = denom
		return s
	}
}

// App wires both modules to the host ledger.
type App struct {
	ctx sdk.Context

	Host               *ledger.Host
	LsmStakingKeeper   lsmkeeper.Keeper
	VotingLockerKeeper *lockerkeeper.Keeper
}

// New creates application instance with in-memory store and disabled logging.
func New(options ...Option) *App {
	settings := Settings{
		logger:    log.NewNopLogger(),
		bondDenom: DefaultBondDenom,
	}
	for _, option := range options {
		settings = option(settings)
	}

	lsmKey := storetypes.NewKVStoreKey(lsmtypes.StoreKey)
	lockerKey := storetypes.NewKVStoreKey(lockertypes.StoreKey)
	ledgerKey := storetypes.NewKVStoreKey(ledger.StoreKey)
	ctx := ledger.NewContext(settings.logger, lsmKey, lockerKey, ledgerKey)

	addressCodec := addresscodec.NewBech32Codec(sdk.GetConfig().GetBech32AccountAddrPrefix())
	valAddressCodec := addresscodec.NewBech32Codec(sdk.GetConfig().GetBech32ValidatorAddrPrefix())

	host := ledger.NewHost(runtime.NewKVStoreService(ledgerKey), settings.bondDenom, addressCodec, valAddressCodec)
	lockerKeeper := lockerkeeper.NewKeeper(
		runtime.NewKVStoreService(lockerKey),
		host,
		host,
		host,
		host,
		addressCodec,
		valAddressCodec,
	)
	lsmKeeper := lsmkeeper.NewKeeper(
		runtime.NewKVStoreService(lsmKey),
		host,
		host,
		host,
		host,
		host,
		lockerKeeper,
		addressCodec,
		valAddressCodec,
	)
	lockerKeeper.SetManagerKeeper(lsmKeeper)

	host.Route(lsmtypes.ModuleName, lsmKeeper)
	host.Route(lockertypes.ModuleName, lockerKeeper)

	return &App{
		ctx:                ctx,
		Host:               host,
		LsmStakingKeeper:   lsmKeeper,
		VotingLockerKeeper: lockerKeeper,
	}
}

// NewContext returns the context of the app store.
func (s *App) NewContext() sdk.Context {
	return s.ctx
}

// BondDenom returns the staking denom.
func (s *App) BondDenom() string {
	return s.Host.BondDenom()
}

// GenAccount creates a new account address.
func (s *App) GenAccount() sdk.AccAddress {
	return sdk.AccAddress(ed25519.GenPrivKey().PubKey().Address())
}

// FundAccount mints the coins to the provided account.
func (s *App) FundAccount(ctx sdk.Context, address sdk.AccAddress, balances sdk.Coins) error {
	if err := s.Host.Fund(ctx, address, balances); err != nil {
		return errors.Wrap(err, "can't fund account in simapp")
	}
	return nil
}

// AddValidator registers a new bonded validator.
func (s *App) AddValidator(ctx sdk.Context) (sdk.ValAddress, error) {
	valAddr := sdk.ValAddress(ed25519.GenPrivKey().PubKey().Address())
	if _, err := s.Host.AddValidator(ctx, valAddr); err != nil {
		return nil, errors.Wrap(err, "can't add validator in simapp")
	}
	return valAddr, nil
}

// ConfigurePool registers a validator and stores the pool config delegating to it.
func (s *App) ConfigurePool(ctx sdk.Context, owner sdk.AccAddress, maxCap *sdkmath.Int) (lsmtypes.PoolConfig, error) {
	valAddr, err := s.AddValidator(ctx)
	if err != nil {
		return lsmtypes.PoolConfig{}, err
	}
	config := lsmtypes.PoolConfig{
		Owner:          owner.String(),
		StakingDenom:   s.BondDenom(),
		Validator:      valAddr.String(),
		MaxCap:         maxCap,
		LockerTemplate: DefaultLockerTemplate,
		VoteOptions:    lsmtypes.DefaultVoteOptions(),
	}
	return config, s.LsmStakingKeeper.SetConfig(ctx, config)
}

// IssueReceipt mints a receipt of the validator to the owner.
func (s *App) IssueReceipt(
	t *testing.T,
	ctx sdk.Context,
	owner sdk.AccAddress,
	validator string,
	amount int64,
) sdk.Coin {
	valAddr, err := sdk.ValAddressFromBech32(validator)
	require.NoError(t, err)
	receipt, err := s.Host.IssueReceipt(ctx, owner, valAddr, sdkmath.NewInt(amount))
	require.NoError(t, err)
	return receipt
}

// MintAndSendCoin mints coins to the recipient.
func (s *App) MintAndSendCoin(
	t *testing.T,
	ctx sdk.Context,
	recipient sdk.AccAddress,
	coins sdk.Coins,
) {
	require.NoError(t, s.FundAccount(ctx, recipient, coins))
}

// OpenProposal stores a proposal in voting period.
func (s *App) OpenProposal(ctx sdk.Context, proposalID uint64) error {
	return s.Host.SetProposal(ctx, proposalID, govv1.StatusVotingPeriod)
}
