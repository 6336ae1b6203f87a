package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"linkarr/internal/cleanup"
	"linkarr/internal/config"
	"linkarr/internal/index"
	"linkarr/internal/logging"
	"linkarr/internal/reconcile"
	"linkarr/internal/resolve"
)

func newRunCommand(configFlag *string) *cobra.Command {
	var dryRun bool
	var noCleanup bool

	cmd := &cobra.Command{
		Use:   "run [path]",
		Short: "Reconcile the source tree (or one folder/file) into the library",
		Long: `Run the symlink reconciliation engine.

With no argument every entry under the configured source root is processed.
A directory argument is processed as a single show folder; a file argument
is processed with its parent as the folder and the file as the explicit
target.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(*configFlag)
			if err != nil {
				return err
			}
			return runReconcile(cfg, args, dryRun, noCleanup)
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "walk the pipeline without creating or deleting anything")
	cmd.Flags().BoolVar(&noCleanup, "no-cleanup", false, "skip the post-run archive/empty-directory cleanup")

	return cmd
}

func runReconcile(cfg *config.Config, args []string, dryRun, noCleanup bool) error {
	if err := cfg.VerifyRunPaths(); err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	// One run at a time: two reconcilers would race the library tree and
	// the cleanup pass would delete directories the other is populating.
	lock := flock.New(filepath.Join(cfg.Paths.LogDir, "linkarr.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return errors.New("another linkarr run is already in progress")
	}
	defer func() {
		_ = lock.Unlock()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	runID := uuid.NewString()
	ctx = logging.ContextWithRunID(ctx, runID)

	runLogger := logging.WithContext(ctx, logger)
	runLogger.Info("starting reconciliation run",
		logging.String("source", cfg.Paths.SourceDir),
		logging.String("library", cfg.Paths.LibraryDir),
		logging.Bool("dry_run", dryRun))

	store, err := index.Open(cfg.Paths.LogDir, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.RebuildFolderIndex(cfg.Paths.LibraryDir); err != nil {
		return err
	}
	if err := store.RebuildLinkIndex(cfg.Paths.LibraryDir); err != nil {
		return err
	}

	var entries []reconcile.SourceEntry
	if len(args) == 1 {
		entry, err := reconcile.EntryForPath(args[0])
		if err != nil {
			return err
		}
		entries = []reconcile.SourceEntry{entry}
	} else {
		entries, err = reconcile.DiscoverEntries(cfg.Paths.SourceDir)
		if err != nil {
			return err
		}
	}

	resolver := resolve.New(store, cfg.Paths.LibraryDir, logger,
		resolve.WithPartSpacingVariants(cfg.Matching.PartSpacingVariants),
		resolve.WithDryRun(dryRun))
	reconciler := reconcile.New(store, resolver, logger,
		reconcile.WithWorkers(cfg.Workers.Count),
		reconcile.WithDryRun(dryRun))

	summary := reconciler.Run(ctx, entries)

	var cleaned cleanup.Result
	if cfg.Cleanup.Enabled && !noCleanup {
		job := cleanup.New(cfg.Paths.LibraryDir, logger, cleanup.WithDryRun(dryRun))
		cleaned, err = job.Run(ctx)
		if err != nil {
			return err
		}
	}

	fmt.Println(renderSummary(summary, cleaned, dryRun))
	runLogger.Info("reconciliation run finished",
		logging.Int("entries", summary.Entries),
		logging.Int("linked", summary.Linked),
		logging.Int("errored", summary.Errored))

	// Per-entry failures never change the exit code; only configuration,
	// lock, and index failures do.
	return ctx.Err()
}

func renderSummary(summary reconcile.Summary, cleaned cleanup.Result, dryRun bool) string {
	headers := []string{"Metric", "Count"}
	rows := [][]string{
		{"Entries processed", strconv.Itoa(summary.Entries)},
		{"Symlinks created", strconv.Itoa(summary.Linked)},
		{"Already linked", strconv.Itoa(summary.AlreadyLinked)},
		{"Files without marker", strconv.Itoa(summary.SkippedFiles)},
		{"Archives skipped", strconv.Itoa(summary.Archives)},
		{"Entries errored", strconv.Itoa(summary.Errored)},
		{"Archive remnants removed", strconv.Itoa(cleaned.ArchivesRemoved)},
		{"Empty directories removed", strconv.Itoa(cleaned.DirsRemoved)},
	}
	title := "Run summary"
	if dryRun {
		title = "Run summary (dry run)"
	}
	return title + "\n" + renderTable(headers, rows, []columnAlignment{alignLeft, alignRight})
}
