package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const envPrefix = "LSMSIM"

func main() {
	rootCmd := &cobra.Command{
		Use:          "lsmsim",
		Short:        "Replays LSM staking pool scenarios on an in-memory ledger",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(
		newRunCmd(),
		newQueryCmd(),
		newExampleCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		//nolint:errcheck // we are already exiting the app so we don't check error.
		fmt.Fprintln(rootCmd.OutOrStderr(), err)
		os.Exit(1)
	}
}
