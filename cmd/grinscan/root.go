package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for grinscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grinscan",
		Short: "Kernel deanonymization analysis of Grin node logs",
		Long: `grinscan analyzes the transactions Grin nodes log when they receive them.

It extracts inputs, outputs and kernels from "Received tx" log lines, builds
an index from kernels to transactions, and counts how many kernels can be
linked to a single transaction by iterative elimination.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
