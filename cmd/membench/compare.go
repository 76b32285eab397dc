package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"membench/internal/benchmark"
	"membench/internal/ui"
)

func newCompareCmd() *cobra.Command {
	var sendNotify bool

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the two most recent stored runs",
		Long: `Loads the two most recent runs from the history store and compares
their per-level means. A variant that slowed down by more than the threshold
percentage counts as a regression and makes the command fail.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newStoreFunc()
			if err != nil {
				return fmt.Errorf("failed to open history store: %w", err)
			}
			defer store.Close()

			runs, err := store.LoadAll()
			if err != nil {
				return fmt.Errorf("failed to load history: %w", err)
			}
			if len(runs) < 2 {
				fmt.Fprintln(cmd.OutOrStdout(), "Need at least two stored runs to compare.")
				return nil
			}

			prev, curr := runs[len(runs)-2], runs[len(runs)-1]
			threshold := viper.GetFloat64("compare.threshold")
			comps := benchmark.Compare(prev, curr)
			ui.RenderComparisons(cmd.OutOrStdout(), comps, threshold)

			var regressed []benchmark.Comparison
			for _, c := range comps {
				if c.Regressed(threshold) {
					regressed = append(regressed, c)
				}
			}
			if len(regressed) == 0 {
				return nil
			}

			if sendNotify {
				msg := fmt.Sprintf("membench regression on %s: %s", curr.Hostname, regressed[0].String())
				_ = newNotifierFunc().Notify(cmd.Context(), msg)
			}
			return fmt.Errorf("performance regression detected on %d size level(s)", len(regressed))
		},
	}

	cmd.Flags().Float64("threshold", 10.0, "Percentage threshold for regression failure")
	cmd.Flags().BoolVar(&sendNotify, "notify", false, "Send a notification when a regression is detected")
	viper.BindPFlag("compare.threshold", cmd.Flags().Lookup("threshold"))

	return cmd
}
