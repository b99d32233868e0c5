package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"containerbase/internal/platform/logger"
)

// cli carries state shared by the subcommands of one invocation.
type cli struct {
	log *slog.Logger
}

// newRootCmd builds the command tree. Each call returns fresh flag state and
// its own logger.
func newRootCmd() *cobra.Command {
	var verbose bool
	c := &cli{log: logger.New(logger.Options{Service: "pdpactl", Output: io.Discard})}

	root := &cobra.Command{
		Use:   "pdpactl",
		Short: "Operator tooling for the PDPA gates",
		Long: `pdpactl runs the same policy functions the services use, so operators can
check a deployment manifest for credential violations before it ships and
preview how PII is redacted.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			c.log = logger.New(logger.Options{
				Service: "pdpactl",
				Level:   level,
				Output:  cmd.ErrOrStderr(),
			})
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(c.newCheckCredentialsCmd(), newMaskEmailCmd(), newRoundGPSCmd())
	return root
}

// Execute runs the command tree and exits non-zero on any error.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fatal("pdpactl", err)
	}
}
