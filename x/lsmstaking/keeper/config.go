package keeper

import (
	"context"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"

	"github.com/tokenize-x/lsm-staking/x/lsmstaking/types"
)

// SetConfig stores a validated pool configuration.
func (k Keeper) SetConfig(ctx context.Context, config types.PoolConfig) error {
	if err := config.ValidateBasic(); err != nil {
		return err
	}
	return k.Config.Set(ctx, config)
}

// UpdateConfig changes the owner and the max cap. Only the owner may call it.
func (k Keeper) UpdateConfig(ctx context.Context, sender sdk.AccAddress, newOwner string, maxCap *sdkmath.Int) error {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return err
	}
	if err := k.requireOwner(config, sender); err != nil {
		return err
	}

	event := sdk.NewEvent(types.EventTypeUpdateConfig)
	if newOwner != "" {
		config.Owner = newOwner
		event = event.AppendAttributes(sdk.NewAttribute(types.AttributeKeyNewOwner, newOwner))
	}
	if maxCap != nil {
		config.MaxCap = maxCap
		event = event.AppendAttributes(sdk.NewAttribute(types.AttributeKeyNewMaxCap, maxCap.String()))
	}
	if err := k.SetConfig(ctx, config); err != nil {
		return errors.Wrap(err, "invalid config update")
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(event)
	return nil
}
