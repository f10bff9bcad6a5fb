// vitalyctl is the operator CLI for the telemetry backend: it seeds the edge
// store with synthetic results, runs a sync pass, and prints the latest snapshot.
package main

import (
	"fmt"
	"os"

	"github.com/2beens/vitaly/internal/logging"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "vitalyctl",
		Short:         "Vitaly telemetry operator tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logging.Setup(logging.LoggerSetupParams{
				LogToStdout: true,
				LogLevel:    logLevel,
			})
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: trace|debug|info|warn|error")

	root.AddCommand(newSeedCmd())
	root.AddCommand(newSyncCmd())
	root.AddCommand(newLatestCmd())
	return root
}
