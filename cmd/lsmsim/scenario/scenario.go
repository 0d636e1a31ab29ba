// Package scenario loads and replays pool scenarios against the in-memory ledger.
package scenario

import (
	"strings"

	sdkmath "cosmossdk.io/math"
	govv1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Step actions.
const (
	ActionFund           = "fund"
	ActionDeposit        = "deposit"
	ActionWithdraw       = "withdraw"
	ActionClaim          = "claim"
	ActionDepositRewards = "deposit-rewards"
	ActionAccrue         = "accrue"
	ActionSlash          = "slash"
	ActionDeliver        = "deliver"
	ActionFail           = "fail"
	ActionProposalStatus = "proposal-status"
	ActionCreateLockers  = "create-lockers"
	ActionDestroyLockers = "destroy-lockers"
	ActionRent           = "rent"
)

var actions = []string{
	ActionFund,
	ActionDeposit,
	ActionWithdraw,
	ActionClaim,
	ActionDepositRewards,
	ActionAccrue,
	ActionSlash,
	ActionDeliver,
	ActionFail,
	ActionProposalStatus,
	ActionCreateLockers,
	ActionDestroyLockers,
	ActionRent,
}

var voteOptions = map[string]govv1.VoteOption{
	"yes":          govv1.OptionYes,
	"abstain":      govv1.OptionAbstain,
	"no":           govv1.OptionNo,
	"no_with_veto": govv1.OptionNoWithVeto,
}

// StatusRemoved removes the proposal from the ledger instead of setting a status.
const StatusRemoved = "removed"

var proposalStatuses = map[string]govv1.ProposalStatus{
	"voting":   govv1.StatusVotingPeriod,
	"passed":   govv1.StatusPassed,
	"rejected": govv1.StatusRejected,
	"failed":   govv1.StatusFailed,
}

// Scenario is a list of steps replayed against a freshly configured pool.
type Scenario struct {
	BondDenom string
	MaxCap    *sdkmath.Int
	Steps     []Step
}

// Step is one action of a scenario.
type Step struct {
	Action      string
	Account     string
	Amount      sdkmath.Int
	Fraction    sdkmath.LegacyDec
	Proposal    uint64
	Option      govv1.VoteOption
	Status      string
	Count       int
	ExpectError bool
}

// Load reads the scenario from the viper instance holding the scenario file.
func Load(v *viper.Viper) (Scenario, error) {
	scenario := Scenario{
		BondDenom: cast.ToString(v.Get("bond_denom")),
	}
	if v.IsSet("max_cap") {
		maxCap, err := cast.ToInt64E(v.Get("max_cap"))
		if err != nil {
			return Scenario{}, errors.Wrap(err, "invalid max_cap")
		}
		scenario.MaxCap = lo.ToPtr(sdkmath.NewInt(maxCap))
	}

	rawSteps, err := cast.ToSliceE(v.Get("steps"))
	if err != nil {
		return Scenario{}, errors.Wrap(err, "invalid steps")
	}
	if len(rawSteps) == 0 {
		return Scenario{}, errors.New("scenario has no steps")
	}

	for i, rawStep := range rawSteps {
		fields, err := cast.ToStringMapE(rawStep)
		if err != nil {
			return Scenario{}, errors.Wrapf(err, "step %d", i)
		}
		step, err := parseStep(fields)
		if err != nil {
			return Scenario{}, errors.Wrapf(err, "step %d", i)
		}
		scenario.Steps = append(scenario.Steps, step)
	}

	return scenario, nil
}

func parseStep(fields map[string]any) (Step, error) {
	step := Step{
		Action:  strings.ToLower(cast.ToString(fields["action"])),
		Account: cast.ToString(fields["account"]),
		Amount:  sdkmath.ZeroInt(),
	}
	if !lo.Contains(actions, step.Action) {
		return Step{}, errors.Errorf("unknown action %q", step.Action)
	}

	var err error
	if raw, ok := fields["amount"]; ok {
		var amount int64
		if amount, err = cast.ToInt64E(raw); err != nil {
			return Step{}, errors.Wrap(err, "invalid amount")
		}
		step.Amount = sdkmath.NewInt(amount)
	}
	if raw, ok := fields["fraction"]; ok {
		step.Fraction, err = sdkmath.LegacyNewDecFromStr(cast.ToString(raw))
		if err != nil {
			return Step{}, errors.Wrap(err, "invalid fraction")
		}
	}
	if step.Proposal, err = cast.ToUint64E(lo.ValueOr(fields, "proposal", 0)); err != nil {
		return Step{}, errors.Wrap(err, "invalid proposal")
	}
	if step.Count, err = cast.ToIntE(lo.ValueOr(fields, "count", 0)); err != nil {
		return Step{}, errors.Wrap(err, "invalid count")
	}
	if step.ExpectError, err = cast.ToBoolE(lo.ValueOr(fields, "expect_error", false)); err != nil {
		return Step{}, errors.Wrap(err, "invalid expect_error")
	}
	if raw, ok := fields["option"]; ok {
		option, found := voteOptions[strings.ToLower(cast.ToString(raw))]
		if !found {
			return Step{}, errors.Errorf("unknown vote option %v", raw)
		}
		step.Option = option
	}
	if raw, ok := fields["status"]; ok {
		step.Status = strings.ToLower(cast.ToString(raw))
		if _, found := proposalStatuses[step.Status]; !found && step.Status != StatusRemoved {
			return Step{}, errors.Errorf("unknown proposal status %q", step.Status)
		}
	}

	return step, step.validate()
}

func (s Step) validate() error {
	switch s.Action {
	case ActionFund, ActionDeposit, ActionWithdraw, ActionDepositRewards:
		if s.Account == "" || !s.Amount.IsPositive() {
			return errors.Errorf("%s requires account and positive amount", s.Action)
		}
	case ActionClaim:
		if s.Account == "" {
			return errors.New("claim requires account")
		}
	case ActionAccrue:
		if !s.Amount.IsPositive() {
			return errors.New("accrue requires positive amount")
		}
	case ActionSlash:
		if s.Fraction.IsNil() || !s.Fraction.IsPositive() || s.Fraction.GT(sdkmath.LegacyOneDec()) {
			return errors.New("slash requires fraction in (0, 1]")
		}
	case ActionProposalStatus:
		if s.Proposal == 0 || s.Status == "" {
			return errors.New("proposal-status requires proposal and status")
		}
	case ActionCreateLockers, ActionDestroyLockers:
		if s.Proposal == 0 {
			return errors.Errorf("%s requires proposal", s.Action)
		}
	case ActionRent:
		if s.Account == "" || s.Proposal == 0 || s.Option == govv1.OptionEmpty || !s.Amount.IsPositive() {
			return errors.New("rent requires account, proposal, option and positive amount")
		}
	}
	return nil
}

// Example is a scenario covering a full voting session.
const Example = `bond_denom: stake
max_cap: 100000
steps:
  - action: deposit
    account: alice
    amount: 1000
  - action: deposit
    account: bob
    amount: 500
  - action: accrue
    amount: 30
  - action: claim
    account: alice
  - action: deliver
  - action: proposal-status
    proposal: 1
    status: voting
  - action: create-lockers
    proposal: 1
  - action: fund
    account: carol
    amount: 10
  - action: rent
    account: carol
    proposal: 1
    option: "yes"
    amount: 10
  - action: deliver
  - action: withdraw
    account: bob
    amount: 100
    expect_error: true
  - action: proposal-status
    proposal: 1
    status: passed
  - action: destroy-lockers
    proposal: 1
  - action: deliver
  - action: slash
    fraction: 0.1
  - action: withdraw
    account: bob
    amount: 100
  - action: deliver
`
