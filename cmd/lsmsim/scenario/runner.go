package scenario

import (
	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/tokenize-x/lsm-staking/testutil/simapp"
	lsmkeeper "github.com/tokenize-x/lsm-staking/x/lsmstaking/keeper"
	lsmtypes "github.com/tokenize-x/lsm-staking/x/lsmstaking/types"
	lockertypes "github.com/tokenize-x/lsm-staking/x/votinglocker/types"
)

// Report summarizes a replayed scenario.
type Report struct {
	RunID            string
	Steps            int
	ExpectedFailures int
	Delivered        int
	Stakers          int
	State            lsmtypes.PoolState
	Paused           bool
	PendingCommands  int
}

// Runner replays scenario steps against a pool configured on a fresh in-memory ledger.
type Runner struct {
	app       *simapp.App
	ctx       sdk.Context
	logger    log.Logger
	owner     sdk.AccAddress
	validator sdk.ValAddress
	accounts  map[string]sdk.AccAddress
	report    Report
}

// NewRunner creates the app and configures the pool for the scenario.
func NewRunner(scenario Scenario, logger log.Logger) (*Runner, error) {
	options := []simapp.Option{simapp.WithCustomLogger(logger)}
	if scenario.BondDenom != "" {
		options = append(options, simapp.WithBondDenom(scenario.BondDenom))
	}
	app := simapp.New(options...)
	ctx := app.NewContext()

	owner := app.GenAccount()
	config, err := app.ConfigurePool(ctx, owner, scenario.MaxCap)
	if err != nil {
		return nil, errors.Wrap(err, "can't configure pool")
	}
	validator, err := sdk.ValAddressFromBech32(config.Validator)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	runner := &Runner{
		app:       app,
		ctx:       ctx,
		logger:    logger.With("run_id", runID),
		owner:     owner,
		validator: validator,
		accounts:  map[string]sdk.AccAddress{},
		report:    Report{RunID: runID},
	}
	return runner, runner.snapshot()
}

// App returns the app the scenario is replayed on.
func (r *Runner) App() *simapp.App {
	return r.app
}

// Context returns the context of the app store.
func (r *Runner) Context() sdk.Context {
	return r.ctx
}

// Run replays the steps in order. It stops on the first unexpected step result or broken invariant.
func (r *Runner) Run(scenario Scenario) (Report, error) {
	for i, step := range scenario.Steps {
		err := r.apply(step)
		switch {
		case err != nil && step.ExpectError:
			r.report.ExpectedFailures++
			r.logger.Info("step failed as expected", "step", i, "action", step.Action, "error", err)
		case err != nil:
			return r.report, errors.Wrapf(err, "step %d (%s)", i, step.Action)
		case step.ExpectError:
			return r.report, errors.Errorf("step %d (%s) succeeded but an error was expected", i, step.Action)
		}
		r.report.Steps++

		if msg, broken := lsmkeeper.AllInvariants(r.app.LsmStakingKeeper)(r.ctx); broken {
			return r.report, errors.Errorf("invariant broken after step %d: %s", i, msg)
		}
		if err := r.snapshot(); err != nil {
			return r.report, err
		}
		r.logger.Info(
			"step applied",
			"step", i,
			"action", step.Action,
			"total_shares", r.report.State.TotalShares.String(),
			"reward_index", r.report.State.GlobalRewardIndex.String(),
			"paused", r.report.Paused,
			"pending_commands", r.report.PendingCommands,
		)
	}
	return r.report, nil
}

func (r *Runner) apply(step Step) error {
	switch step.Action {
	case ActionDeliver:
		return r.deliver(step.Count)
	case ActionFail:
		delivered, err := r.app.Host.DeliverFailure(r.ctx)
		if err == nil && !delivered {
			return errors.New("no pending command")
		}
		return err
	}

	// Messages are atomic, as transactions are. ErrCannotUnpause is reported after the lockers were
	// destroyed, so that destroy is kept.
	cacheCtx, writeCache := r.ctx.CacheContext()
	err := r.applyMsg(cacheCtx, step)
	if err == nil || errors.Is(err, lsmtypes.ErrCannotUnpause) {
		writeCache()
	}
	return err
}

func (r *Runner) applyMsg(ctx sdk.Context, step Step) error {
	lsmKeeper := r.app.LsmStakingKeeper
	coins := sdk.NewCoins(sdk.NewCoin(r.app.BondDenom(), step.Amount))

	switch step.Action {
	case ActionFund:
		return r.app.FundAccount(ctx, r.account(step.Account), coins)
	case ActionDeposit:
		account := r.account(step.Account)
		receipt, err := r.app.Host.IssueReceipt(ctx, account, r.validator, step.Amount)
		if err != nil {
			return err
		}
		_, err = lsmKeeper.DepositLsmShares(ctx, account, sdk.NewCoins(receipt))
		return err
	case ActionWithdraw:
		_, err := lsmKeeper.Withdraw(ctx, r.account(step.Account), step.Amount, "")
		return err
	case ActionClaim:
		_, err := lsmKeeper.ClaimRewards(ctx, r.account(step.Account))
		return err
	case ActionDepositRewards:
		return lsmKeeper.DepositRewards(ctx, r.account(step.Account), coins)
	case ActionAccrue:
		delegator := lsmKeeper.PoolAddress()
		if step.Proposal != 0 {
			delegator = lockertypes.LockerAddress(step.Proposal, step.Option)
		}
		return r.app.Host.AccrueRewards(ctx, delegator, r.validator, step.Amount)
	case ActionSlash:
		return r.app.Host.Slash(ctx, r.validator, step.Fraction)
	case ActionProposalStatus:
		if step.Status == StatusRemoved {
			return r.app.Host.RemoveProposal(ctx, step.Proposal)
		}
		return r.app.Host.SetProposal(ctx, step.Proposal, proposalStatuses[step.Status])
	case ActionCreateLockers:
		_, err := lsmKeeper.CreateVotingLockers(ctx, r.owner, step.Proposal)
		return err
	case ActionDestroyLockers:
		return lsmKeeper.DestroyVotingLockers(ctx, r.owner, step.Proposal)
	case ActionRent:
		_, err := lsmKeeper.RentVotingPower(ctx, r.account(step.Account), step.Proposal, step.Option, coins)
		return err
	default:
		return errors.Errorf("unknown action %q", step.Action)
	}
}

// deliver delivers count commands, or the whole queue when count is zero.
func (r *Runner) deliver(count int) error {
	for i := 0; count == 0 || i < count; i++ {
		delivered, err := r.app.Host.Deliver(r.ctx)
		if err != nil {
			return err
		}
		if !delivered {
			if count == 0 {
				return nil
			}
			return errors.Errorf("only %d of %d commands pending", i, count)
		}
		r.report.Delivered++
	}
	return nil
}

func (r *Runner) account(name string) sdk.AccAddress {
	if addr, ok := r.accounts[name]; ok {
		return addr
	}
	addr := r.app.GenAccount()
	r.accounts[name] = addr
	r.logger.Debug("account created", "name", name, "address", addr.String())
	return addr
}

// Balance returns the staking denom balance of the named account.
func (r *Runner) Balance(name string) sdkmath.Int {
	return r.app.Host.GetBalance(r.ctx, r.account(name), r.app.BondDenom()).Amount
}

// Staker returns the staker record of the named account.
func (r *Runner) Staker(name string) (lsmtypes.StakerRecord, error) {
	return r.app.LsmStakingKeeper.GetStaker(r.ctx, r.account(name))
}

func (r *Runner) snapshot() error {
	lsmKeeper := r.app.LsmStakingKeeper
	state, err := lsmKeeper.GetState(r.ctx)
	if err != nil {
		return err
	}
	paused, err := lsmKeeper.IsPaused(r.ctx)
	if err != nil {
		return err
	}
	pending, err := r.app.Host.Pending(r.ctx)
	if err != nil {
		return err
	}
	stakers, err := lsmKeeper.Stakers.Iterate(r.ctx, nil)
	if err != nil {
		return err
	}
	keys, err := stakers.Keys()
	if err != nil {
		return err
	}

	r.report.State = state
	r.report.Paused = paused
	r.report.PendingCommands = len(pending)
	r.report.Stakers = len(keys)
	return nil
}
