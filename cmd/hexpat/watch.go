package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/HicaroD/hexpat/internal/checker"
	"github.com/HicaroD/hexpat/internal/diagnostics"
	"github.com/HicaroD/hexpat/internal/metrics"
	"github.com/HicaroD/hexpat/internal/sema"
	"github.com/HicaroD/hexpat/internal/watch"
)

var watchFlags struct {
	metricsAddr string
}

var watchCmd = &cobra.Command{
	Use:   "watch <file or directory>",
	Short: "Re-check documents whenever they change",
	Long: `Check every document under a path, then keep watching it and re-check
the documents that change. Each run is logged with its own run ID.

Examples:
  # Watch a directory
  hexpat watch patterns/

  # Also serve prometheus metrics on :2112/metrics
  hexpat watch patterns/ --metrics-addr :2112`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchFlags.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address (overrides config)")
}

// watchSession re-checks documents with one validator and metrics collector
// shared by every run.
type watchSession struct {
	validator *sema.Validator
	metrics   *metrics.Collector
	cmd       *cobra.Command
}

// run checks paths under a fresh run ID and returns the number of rejected
// documents.
func (s *watchSession) run(paths []string) int {
	runLogger := logger.With(slog.String("run_id", uuid.NewString()))

	collector := diagnostics.New(s.cmd.OutOrStdout(), runLogger)
	opts := []checker.Option{
		checker.WithValidator(s.validator),
		checker.WithLogger(runLogger),
	}
	if s.metrics != nil {
		opts = append(opts, checker.WithMetrics(s.metrics))
	}
	c := checker.New(collector, opts...)

	checked := 0
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			runLogger.Debug("document removed", "file", path)
			continue
		}
		if _, err := c.CheckFile(path); err != nil {
			fmt.Fprintln(s.cmd.ErrOrStderr(), "error:", err)
			continue
		}
		checked++
	}

	runLogger.Info("check run finished",
		slog.Int("documents", checked),
		slog.Int("rejected", len(collector.Diags)),
	)
	return len(collector.Diags)
}

func runWatch(cmd *cobra.Command, args []string) error {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := cfg.Metrics.Addr
	if watchFlags.metricsAddr != "" {
		addr = watchFlags.metricsAddr
	}

	session := &watchSession{validator: newValidator(), cmd: cmd}

	serveErr := make(chan error, 1)
	if addr != "" {
		session.metrics = metrics.NewCollector(nil)
		go func() {
			serveErr <- session.metrics.Serve(ctx, addr, logger)
		}()
	}

	paths, err := collectDocuments(args)
	if err != nil {
		return err
	}
	session.run(paths)

	w, err := watch.New(watch.Config{
		Path:       args[0],
		Debounce:   cfg.Watch.Debounce.Duration,
		Extensions: cfg.Watch.Extensions,
	}, logger)
	if err != nil {
		return err
	}

	watchErr := make(chan error, 1)
	go func() {
		watchErr <- w.Watch(ctx, func(changed []string) {
			session.run(changed)
		})
	}()

	select {
	case err := <-serveErr:
		stop()
		<-watchErr
		if err != nil {
			return fmt.Errorf("metrics server failed: %w", err)
		}
		return nil
	case err := <-watchErr:
		stop()
		return err
	}
}
