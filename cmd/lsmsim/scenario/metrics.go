package scenario

import (
	"math/big"
	"strings"
	"time"

	"github.com/hashicorp/go-metrics"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
)

const metricsNamespace = "lsmsim"

// NewMetricsSink installs an in-memory go-metrics sink collecting the keeper telemetry of the run.
func NewMetricsSink() (*metrics.InmemSink, error) {
	sink := metrics.NewInmemSink(time.Hour, time.Hour)
	cfg := metrics.DefaultConfig(metricsNamespace)
	cfg.EnableHostname = false
	cfg.EnableRuntimeMetrics = false
	cfg.EnableServiceLabel = false
	if _, err := metrics.NewGlobal(cfg, sink); err != nil {
		return nil, errors.Wrap(err, "can't install metrics sink")
	}
	return sink, nil
}

// WriteMetrics writes the report gauges and the keeper counters collected by the sink to a file in
// the prometheus text exposition format.
func WriteMetrics(path string, report Report, sink *metrics.InmemSink) error {
	registry := prometheus.NewRegistry()

	totalShares, _ := new(big.Float).SetInt(report.State.TotalShares.BigInt()).Float64()
	rewardIndex, err := report.State.GlobalRewardIndex.Float64()
	if err != nil {
		return errors.Wrap(err, "invalid reward index")
	}
	gauges := map[string]float64{
		"pool_total_shares":        totalShares,
		"pool_global_reward_index": rewardIndex,
		"pool_stakers":             float64(report.Stakers),
		"pool_paused":              lo.Ternary(report.Paused, 1.0, 0.0),
		"pending_commands":         float64(report.PendingCommands),
		"steps":                    float64(report.Steps),
		"expected_failures":        float64(report.ExpectedFailures),
		"delivered_commands":       float64(report.Delivered),
	}
	for name, value := range gauges {
		gauge := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Name:        name,
			Help:        "Scenario report value " + name + ".",
			ConstLabels: prometheus.Labels{"run_id": report.RunID},
		})
		gauge.Set(value)
		if err := registry.Register(gauge); err != nil {
			return errors.Wrapf(err, "can't register gauge %s", name)
		}
	}

	counters := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "keeper_counter",
		Help:      "Keeper telemetry counters summed over the run.",
	}, []string{"name", "labels"})
	if err := registry.Register(counters); err != nil {
		return errors.Wrap(err, "can't register keeper counters")
	}
	if sink != nil {
		for _, interval := range sink.Data() {
			for _, counter := range interval.Counters {
				labels := lo.Map(counter.Labels, func(label metrics.Label, _ int) string {
					return label.Name + "=" + label.Value
				})
				counters.WithLabelValues(counter.Name, strings.Join(labels, ",")).Add(counter.Sum)
			}
		}
	}

	return prometheus.WriteToTextfile(path, registry)
}
