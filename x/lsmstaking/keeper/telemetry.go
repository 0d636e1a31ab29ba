package keeper

import (
	"math/big"

	"github.com/hashicorp/go-metrics"

	"github.com/tokenize-x/lsm-staking/pkg/saga"
	"github.com/tokenize-x/lsm-staking/x/lsmstaking/types"
)

func recordOperation(operation string) {
	metrics.IncrCounterWithLabels(
		[]string{types.ModuleName, "operation"},
		1,
		[]metrics.Label{{Name: "type", Value: operation}},
	)
}

func recordContinuation(kind string, status saga.Status) {
	metrics.IncrCounterWithLabels(
		[]string{types.ModuleName, "continuation"},
		1,
		[]metrics.Label{{Name: "kind", Value: kind}, {Name: "status", Value: status.String()}},
	)
}

func recordPoolState(state types.PoolState) {
	totalShares, _ := new(big.Float).SetInt(state.TotalShares.BigInt()).Float32()
	metrics.SetGauge([]string{types.ModuleName, "total_shares"}, totalShares)

	index, err := state.GlobalRewardIndex.Float64()
	if err == nil {
		metrics.SetGauge([]string{types.ModuleName, "global_reward_index"}, float32(index))
	}
}
