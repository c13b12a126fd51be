package cli

import (
	"encoding/csv"

	"tokenpulse/internal/domain"

	"github.com/spf13/cobra"
)

func newHeaderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "header",
		Short: "Print the dataset header",
		Long:  "Print the CSV header row every dataset file starts with.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := csv.NewWriter(cmd.OutOrStdout())
			if err := w.Write(domain.Header()); err != nil {
				return err
			}
			w.Flush()
			return w.Error()
		},
	}
}
