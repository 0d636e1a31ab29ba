package keeper_test

import (
	"testing"

	govv1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1"
	"github.com/stretchr/testify/require"

	"github.com/tokenize-x/lsm-staking/testutil/simapp"
	"github.com/tokenize-x/lsm-staking/x/votinglocker/types"
)

func TestGenesis_ExportImport(t *testing.T) {
	requireT := require.New(t)
	env := newLockerEnv(t)

	env.fill(t, govv1.OptionYes, 10)
	env.fill(t, govv1.OptionNoWithVeto, 20)

	exported, err := env.app.VotingLockerKeeper.ExportGenesis(env.ctx)
	requireT.NoError(err)
	requireT.Len(exported.Lockers, 2)
	requireT.NoError(exported.Validate())

	imported := simapp.New()
	importCtx := imported.NewContext()
	requireT.NoError(imported.VotingLockerKeeper.InitGenesis(importCtx, *exported))

	reexported, err := imported.VotingLockerKeeper.ExportGenesis(importCtx)
	requireT.NoError(err)
	requireT.Len(reexported.Lockers, len(exported.Lockers))
	for i := range exported.Lockers {
		requireT.Equal(exported.Lockers[i].Address, reexported.Lockers[i].Address)
		requireT.Equal(exported.Lockers[i].Locker.Shares.String(), reexported.Lockers[i].Locker.Shares.String())
		requireT.Equal(exported.Lockers[i].Locker.Option, reexported.Lockers[i].Locker.Option)
		requireT.Equal(exported.Lockers[i].Locker.Manager, reexported.Lockers[i].Locker.Manager)
	}

	emptyApp := simapp.New()
	empty, err := emptyApp.VotingLockerKeeper.ExportGenesis(emptyApp.NewContext())
	requireT.NoError(err)
	requireT.Equal(types.DefaultGenesisState(), empty)
}
