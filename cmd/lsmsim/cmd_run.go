package main

import (
	"net/http"
	"strings"
	"time"

	"cosmossdk.io/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tokenize-x/lsm-staking/cmd/lsmsim/scenario"
)

const (
	flagScenario   = "scenario"
	flagLogLevel   = "log-level"
	flagMetricsOut = "metrics-out"
	flagServe      = "serve"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay a scenario file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := newConfig(cmd)
			if err != nil {
				return err
			}
			return run(cmd, cfg)
		},
	}
	addRunFlags(cmd.Flags())
	return cmd
}

func addRunFlags(flags *pflag.FlagSet) {
	flags.String(flagScenario, "", "Path to the scenario file")
	flags.String(flagLogLevel, "info", "Log level, e.g. info or x/lsmstaking:debug,*:info")
	flags.String(flagMetricsOut, "", "Write the run metrics to this file in prometheus text format")
	flags.String(flagServe, "", "Serve the module queries on this address after the run")
}

// newConfig binds the command flags and their LSMSIM_ environment variables.
func newConfig(cmd *cobra.Command) (*viper.Viper, error) {
	cfg := viper.New()
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cfg.AutomaticEnv()
	if err := cfg.BindPFlags(cmd.Flags()); err != nil {
		return nil, errors.WithStack(err)
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *viper.Viper) (log.Logger, error) {
	filter, err := log.ParseLogLevel(cfg.GetString(flagLogLevel))
	if err != nil {
		return nil, errors.Wrap(err, "invalid log level")
	}
	return log.NewLogger(cmd.OutOrStdout(), log.FilterOption(filter), log.ColorOption(false)), nil
}

func loadScenario(cfg *viper.Viper) (scenario.Scenario, error) {
	scenarioFile := cfg.GetString(flagScenario)
	if scenarioFile == "" {
		return scenario.Scenario{}, errors.Errorf("--%s is required", flagScenario)
	}
	scenarioCfg := viper.New()
	scenarioCfg.SetConfigFile(scenarioFile)
	if err := scenarioCfg.ReadInConfig(); err != nil {
		return scenario.Scenario{}, errors.Wrapf(err, "can't read scenario %s", scenarioFile)
	}
	return scenario.Load(scenarioCfg)
}

func run(cmd *cobra.Command, cfg *viper.Viper) error {
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	sc, err := loadScenario(cfg)
	if err != nil {
		return err
	}

	sink, err := scenario.NewMetricsSink()
	if err != nil {
		return err
	}
	runner, err := scenario.NewRunner(sc, logger)
	if err != nil {
		return err
	}
	report, runErr := runner.Run(sc)
	logger.Info(
		"scenario finished",
		"run_id", report.RunID,
		"steps", report.Steps,
		"expected_failures", report.ExpectedFailures,
		"delivered", report.Delivered,
		"stakers", report.Stakers,
		"total_shares", report.State.TotalShares.String(),
		"reward_index", report.State.GlobalRewardIndex.String(),
	)

	if metricsOut := cfg.GetString(flagMetricsOut); metricsOut != "" {
		if err := scenario.WriteMetrics(metricsOut, report, sink); err != nil {
			return errors.Wrap(err, "can't write metrics")
		}
	}
	if runErr != nil {
		return runErr
	}

	if addr := cfg.GetString(flagServe); addr != "" {
		logger.Info("serving queries", "address", addr)
		server := &http.Server{
			Addr:              addr,
			Handler:           scenario.NewRouter(runner),
			ReadHeaderTimeout: 5 * time.Second,
		}
		return server.ListenAndServe()
	}
	return nil
}
