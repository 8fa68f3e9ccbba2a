package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	dotserrors "github.com/matzehuels/censusdots/pkg/errors"
)

// Execute runs root and reports a failure as a single log line.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// Cancellation is returned unlogged so main can exit with 130.
func (c *CLI) Execute(ctx context.Context, root *cobra.Command) error {
	root.SilenceErrors = true
	err := root.ExecuteContext(ctx)
	if err == nil || errors.Is(err, context.Canceled) {
		return err
	}
	c.Logger.Error("an error occurred",
		"err", err,
		"code", dotserrors.GetCode(err),
		"config", dotserrors.IsConfig(err))
	return err
}

// verboseFlag registers --verbose on root and raises the log level before
// any command runs.
func (c *CLI) verboseFlag(root *cobra.Command) {
	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	originalPreRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := LogInfo
		if verbose {
			level = LogDebug
		}
		c.SetLogLevel(level)
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cmd.SetContext(withLogger(ctx, c.Logger))

		if originalPreRun != nil {
			return originalPreRun(cmd, args)
		}
		return nil
	}
}
