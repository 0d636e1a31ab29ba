package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/samber/lo"

	"github.com/tokenize-x/lsm-staking/x/votinglocker/types"
)

// InitGenesis initializes the module's state from a provided genesis state.
func (k *Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	for _, entry := range genState.Lockers {
		addr, err := k.addressCodec.StringToBytes(entry.Address)
		if err != nil {
			return err
		}
		if err := k.Lockers.Set(ctx, addr, entry.Locker); err != nil {
			return err
		}
	}
	return nil
}

// ExportGenesis returns the module's exported genesis.
func (k *Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	lockers, err := k.GetLockers(ctx)
	if err != nil {
		return nil, err
	}
	genesis := types.DefaultGenesisState()
	genesis.Lockers = append(genesis.Lockers, lockers...)
	return genesis, nil
}

// GetLockers returns all lockers in address order.
func (k *Keeper) GetLockers(ctx context.Context) ([]types.GenesisLocker, error) {
	var lockers []types.GenesisLocker
	err := k.Lockers.Walk(ctx, nil, func(addr sdk.AccAddress, locker types.Locker) (bool, error) {
		lockers = append(lockers, types.GenesisLocker{Address: addr.String(), Locker: locker})
		return false, nil
	})
	return lockers, err
}

func filterByProposal(lockers []types.GenesisLocker, proposalID uint64) []types.GenesisLocker {
	return lo.Filter(lockers, func(entry types.GenesisLocker, _ int) bool {
		return entry.Locker.ProposalID == proposalID
	})
}
