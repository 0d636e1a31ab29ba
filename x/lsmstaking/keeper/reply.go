package keeper

import (
	"context"
	"errors"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/tokenize-x/lsm-staking/pkg/lsm"
	"github.com/tokenize-x/lsm-staking/pkg/saga"
	"github.com/tokenize-x/lsm-staking/x/lsmstaking/types"
)

var _ lsm.ReplyHandler = Keeper{}

// OnReply resumes the operation that issued the answered command. The hand-off record is consumed
// whatever the outcome. A failed command only discards the record; state changed before the command
// was issued is kept.
func (k Keeper) OnReply(ctx context.Context, id uint64, success bool) error {
	rec, err := k.Continuations.Resolve(ctx, id, success)
	if errors.Is(err, saga.ErrRecordNotFound) {
		return errorsmod.Wrapf(types.ErrContinuationNotFound, "reply %d", id)
	}
	if err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	recordContinuation(rec.Kind, rec.Status)

	if !success {
		sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeContinuationFailed,
			sdk.NewAttribute(types.AttributeKeyOperationID, strconv.FormatUint(id, 10)),
			sdk.NewAttribute(types.AttributeKeyKind, rec.Kind),
		))
		k.Logger(ctx).Error("command failed, operation abandoned", "operation_id", id, "kind", rec.Kind)
		return nil
	}

	switch {
	case rec.Payload.Claim != nil:
		return k.completeClaim(sdkCtx, *rec.Payload.Claim)
	case rec.Payload.Withdraw != nil:
		return k.completeWithdraw(sdkCtx, *rec.Payload.Withdraw)
	case rec.Payload.Rental != nil:
		return k.completeRental(sdkCtx, *rec.Payload.Rental)
	default:
		return errorsmod.Wrapf(types.ErrContinuationNotFound, "operation %d has no hand-off", id)
	}
}
