package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	logPath  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "mmusim",
	Short: "Simulate a segmented, paged memory management unit",
	Long: `mmusim runs workloads of simulated processes on a set of CPUs sharing
one memory manager. Virtual addresses are translated through a per process
segment table and page tables onto a flat physical memory.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "Append log records to this file instead of stdout")
	rootCmd.PersistentFlags().StringVar(&logLevel, "level", "info", "Log level: debug, info, warn or error")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func main() {
	execute()
}
