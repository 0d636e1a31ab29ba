package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tokenize-x/lsm-staking/cmd/lsmsim/scenario"
)

func newExampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Print a sample scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), scenario.Example)
			return err
		},
	}
}
