package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"membench/internal/benchmark"
	"membench/internal/db"
	"membench/internal/harness"
	"membench/internal/metrics"
	"membench/internal/notify"
	"membench/internal/telemetry"
	"membench/internal/ui"
)

// Function vars allow mocking in tests.
var (
	newStoreFunc = func() (benchmark.Store, error) {
		return db.NewStore(db.StoreConfig{
			Type:             viper.GetString("store.type"),
			ConnectionString: viper.GetString("store.path"),
		})
	}
	runHarnessFunc = func(ctx context.Context, cfg harness.Config) ([]benchmark.Level, error) {
		return harness.New(cfg).Run(ctx)
	}
	newNotifierFunc = func() notify.Notifier {
		return notify.NewManager(nil)
	}
	execCommand = exec.Command
)

func newRunCmd() *cobra.Command {
	var (
		save       bool
		quiet      bool
		sendNotify bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the fill/copy timing comparison",
		Long: `Runs the timing comparison harness: for each size level it times a
sequential fill, a parallel fill, a sequential copy and a parallel copy over
freshly dirtied buffers, then checks that the sequential variants were not
slower on average than the parallel ones for the first (smallest) size.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := harness.Config{
				BaseBytes: viper.GetInt64("base_bytes"),
				MaxBytes:  viper.GetInt64("max_bytes"),
				Trials:    viper.GetInt("trials"),
				Growth:    viper.GetInt64("growth"),
				MultiPass: viper.GetBool("multi_pass"),
				Workers:   viper.GetInt("workers"),
			}
			if !quiet {
				cfg.Output = cmd.OutOrStdout()
			}

			m := metrics.NewMetrics()
			cfg.Observer = m
			if port := viper.GetInt("metrics_port"); port > 0 {
				telemetry.StartMetricsServer(port, m.Handler())
			}

			levels, err := runHarnessFunc(cmd.Context(), cfg)

			run := benchmark.Run{
				Timestamp: time.Now(),
				CPUs:      runtime.NumCPU(),
				Levels:    levels,
			}
			if host, herr := os.Hostname(); herr == nil {
				run.Hostname = host
			}
			if commit, cerr := getGitCommit(); cerr == nil {
				run.Commit = commit
			}

			if len(levels) > 0 {
				ui.RenderRun(cmd.OutOrStdout(), run)
			}

			if err != nil {
				m.RunCompleted("failed")
				var ordErr *harness.OrderingError
				if errors.As(err, &ordErr) {
					m.OrderingViolation()
					if sendNotify {
						msg := fmt.Sprintf("membench on %s: %v", run.Hostname, ordErr)
						_ = newNotifierFunc().Notify(cmd.Context(), msg)
					}
				}
				return err
			}
			m.RunCompleted("ok")

			if save {
				store, serr := newStoreFunc()
				if serr != nil {
					return fmt.Errorf("failed to open history store: %w", serr)
				}
				defer store.Close()
				if serr := store.Save(run); serr != nil {
					return fmt.Errorf("failed to save run: %w", serr)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "\nRun saved to history")
			}

			return nil
		},
	}

	cmd.Flags().Int("trials", harness.DefaultTrials, "Timed repetitions per size level")
	cmd.Flags().Int64("base", harness.DefaultBaseBytes, "Starting magnitude; the first level is twice this")
	cmd.Flags().Int64("max", harness.DefaultMaxBytes, "Upper bound on the level size in bytes")
	cmd.Flags().Int("workers", 0, "Fixed worker count (0 = half of GOMAXPROCS, negative = force sequential)")
	cmd.Flags().Bool("multi-pass", false, "Escalate through size levels instead of stopping after the first")
	cmd.Flags().Int("metrics-port", 0, "Serve Prometheus metrics on this port during the run (0 = off)")
	cmd.Flags().BoolVar(&save, "save", false, "Save results to history")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Suppress per-trial progress output")
	cmd.Flags().BoolVar(&sendNotify, "notify", false, "Send a notification when the ordering check fails")

	viper.BindPFlag("trials", cmd.Flags().Lookup("trials"))
	viper.BindPFlag("base_bytes", cmd.Flags().Lookup("base"))
	viper.BindPFlag("max_bytes", cmd.Flags().Lookup("max"))
	viper.BindPFlag("workers", cmd.Flags().Lookup("workers"))
	viper.BindPFlag("multi_pass", cmd.Flags().Lookup("multi-pass"))
	viper.BindPFlag("metrics_port", cmd.Flags().Lookup("metrics-port"))

	return cmd
}

func getGitCommit() (string, error) {
	cmd := execCommand("git", "rev-parse", "--short", "HEAD")
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
