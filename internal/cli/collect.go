package cli

import (
	"context"
	"time"

	"tokenpulse/internal/app"
	"tokenpulse/internal/config"

	"github.com/spf13/cobra"
)

var (
	loadConfigFunc = config.Load
	runCollectFunc = func(ctx context.Context, cfg *config.Config, targets []string) error {
		return app.Run(ctx, cfg, targets)
	}
)

func newCollectCmd() *cobra.Command {
	var (
		targets  []string
		interval time.Duration
		cycles   int
		dataDir  string
	)

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect telemetry for up to ten tokens",
		Long:  "Run one worker per token until interrupted or until every worker has completed --cycles cycles. Without --target the token addresses are read interactively.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfigFunc()
			flags := cmd.Flags()
			if flags.Changed("interval") {
				cfg.PollInterval = interval
			}
			if flags.Changed("cycles") {
				cfg.MaxCycles = cycles
			}
			if flags.Changed("data-dir") {
				cfg.DatasetDir = dataDir
			}

			if len(targets) == 0 {
				p := NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				read, err := p.Targets()
				if err != nil {
					return err
				}
				targets = read
			}
			return runCollectFunc(cmd.Context(), cfg, targets)
		},
	}

	cmd.Flags().StringArrayVarP(&targets, "target", "t", nil, "Token address to track (repeatable, 1 to 10)")
	cmd.Flags().DurationVar(&interval, "interval", 13*time.Second, "Sleep between cycles (overrides POLL_INTERVAL_SECS)")
	cmd.Flags().IntVar(&cycles, "cycles", 6000, "Cycles per token, 0 for unbounded (overrides MAX_CYCLES)")
	cmd.Flags().StringVar(&dataDir, "data-dir", "data", "Dataset directory (overrides DATASET_DIR)")

	return cmd
}
