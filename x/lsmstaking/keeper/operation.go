package keeper

import (
	"context"
	"errors"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/tokenize-x/lsm-staking/pkg/lsm"
	"github.com/tokenize-x/lsm-staking/pkg/saga"
	"github.com/tokenize-x/lsm-staking/x/lsmstaking/types"
)

// beginOperation stores the hand-off of an operation. It fails if an operation of the same slot
// still awaits its continuation.
func (k Keeper) beginOperation(ctx context.Context, handoff types.Continuation) (saga.Record[types.Continuation], error) {
	rec, err := k.Continuations.Begin(ctx, handoff.Kind(), handoff.Slot(), handoff)
	if errors.Is(err, saga.ErrSlotBusy) {
		return rec, errorsmod.Wrap(types.ErrOperationPending, err.Error())
	}
	return rec, err
}

// poolReceipts returns the receipts of the pool validator held by the pool.
func (k Keeper) poolReceipts(ctx context.Context, config types.PoolConfig) sdk.Coins {
	return lsm.Receipts(k.bankKeeper.GetAllBalances(ctx, k.PoolAddress()), config.Validator)
}

// tokenizedReceipt returns the receipt credited to the pool since the before snapshot.
func (k Keeper) tokenizedReceipt(ctx context.Context, config types.PoolConfig, before sdk.Coins) (sdk.Coin, error) {
	receipt, found := lsm.FindNewReceipt(k.bankKeeper.GetAllBalances(ctx, k.PoolAddress()), config.Validator, before)
	if !found {
		return sdk.Coin{}, errorsmod.Wrapf(
			types.ErrInvalidLsmShares, "no new lsm share found for validator %s after tokenization", config.Validator,
		)
	}
	return receipt, nil
}

func (k Keeper) reply(id uint64) lsm.Reply {
	return lsm.Reply{Module: types.ModuleName, ID: id}
}

// runCached runs the continuation body in a cached context written back only on success.
func runCached(ctx sdk.Context, fn func(ctx sdk.Context) error) error {
	cacheCtx, writeCache := ctx.CacheContext()
	if err := fn(cacheCtx); err != nil {
		return err
	}
	writeCache()
	return nil
}
