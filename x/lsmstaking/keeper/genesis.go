package keeper

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/tokenize-x/lsm-staking/x/lsmstaking/types"
)

// InitGenesis initializes the module's state from a provided genesis state.
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if genState.Config != nil {
		if err := k.SetConfig(ctx, *genState.Config); err != nil {
			return err
		}
	}
	if err := k.State.Set(ctx, genState.State); err != nil {
		return err
	}
	for _, staker := range genState.Stakers {
		addr, err := k.addressCodec.StringToBytes(staker.Address)
		if err != nil {
			return err
		}
		if err := k.Stakers.Set(ctx, addr, types.StakerRecord{
			StakedShares: staker.StakedShares,
			RewardIndex:  staker.RewardIndex,
		}); err != nil {
			return err
		}
	}
	for _, session := range genState.Sessions {
		if err := k.VotingSessions.Set(ctx, session.ProposalID, session); err != nil {
			return err
		}
	}
	return k.Paused.Set(ctx, genState.Paused)
}

// ExportGenesis returns the module's exported genesis.
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	genesis := types.DefaultGenesisState()

	config, err := k.Config.Get(ctx)
	switch {
	case err == nil:
		genesis.Config = &config
	case !errors.Is(err, collections.ErrNotFound):
		return nil, err
	}

	if genesis.State, err = k.GetState(ctx); err != nil {
		return nil, err
	}
	if genesis.Paused, err = k.IsPaused(ctx); err != nil {
		return nil, err
	}

	if err := k.Stakers.Walk(ctx, nil, func(addr sdk.AccAddress, staker types.StakerRecord) (bool, error) {
		genesis.Stakers = append(genesis.Stakers, types.GenesisStaker{
			Address:      addr.String(),
			StakedShares: staker.StakedShares,
			RewardIndex:  staker.RewardIndex,
		})
		return false, nil
	}); err != nil {
		return nil, err
	}

	if genesis.Sessions, err = k.GetVotingSessions(ctx); err != nil {
		return nil, err
	}

	return genesis, nil
}
