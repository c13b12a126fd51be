package cli

import (
	"context"
	"fmt"

	"tokenpulse/internal/app"

	"github.com/spf13/cobra"
)

var Version = "dev"

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tokenpulse",
		Short: "Multi-source token telemetry collector",
		Long:  "Tokenpulse polls market, risk, metadata and social sources for up to ten tokens and appends one normalized row per token per cycle to a CSV dataset.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}

	root.AddCommand(
		newCollectCmd(),
		newHeaderCmd(),
	)

	root.Version = Version
	root.SetVersionTemplate(fmt.Sprintf("tokenpulse %s\n", Version))

	return root
}

// Execute runs the root command under ctx and returns its error to the caller.
func Execute(ctx context.Context) error {
	app.Version = Version
	return NewRootCmd().ExecuteContext(ctx)
}
