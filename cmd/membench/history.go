package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"membench/internal/ui"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show stored benchmark runs",
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

			if limit > 0 && len(runs) > limit {
				runs = runs[len(runs)-limit:]
			}

			ui.RenderHistory(cmd.OutOrStdout(), runs)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Show only the most recent N runs (0 = all)")
	return cmd
}
