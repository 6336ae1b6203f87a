package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"linkarr/internal/classify"
	"linkarr/internal/fileutil"
	"linkarr/internal/index"
	"linkarr/internal/logging"
	"linkarr/internal/resolve"
)

// Reconciler orchestrates the per-entry pipeline across a worker pool.
type Reconciler struct {
	store    *index.Store
	resolver *resolve.Resolver
	logger   *slog.Logger
	workers  int
	dryRun   bool
}

// Option customizes reconciler behavior.
type Option func(*Reconciler)

// WithWorkers sets the number of parallel entry processors.
func WithWorkers(count int) Option {
	return func(r *Reconciler) {
		if count > 0 {
			r.workers = count
		}
	}
}

// WithDryRun walks the pipeline without creating directories or symlinks.
func WithDryRun(enabled bool) Option {
	return func(r *Reconciler) { r.dryRun = enabled }
}

// New constructs a reconciler over the shared store and resolver.
func New(store *index.Store, resolver *resolve.Resolver, logger *slog.Logger, opts ...Option) *Reconciler {
	r := &Reconciler{
		store:    store,
		resolver: resolver,
		logger:   logging.NewComponentLogger(logger, "reconciler"),
		workers:  1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes the entries and returns aggregate counts. Per-entry failures
// are reflected in the summary, never in the returned error; cancellation is
// cooperative and takes effect between entries.
func (r *Reconciler) Run(ctx context.Context, entries []SourceEntry) Summary {
	jobs := make(chan SourceEntry)
	outcomes := make(chan Outcome)

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range jobs {
				outcomes <- r.processEntry(ctx, entry)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, entry := range entries {
			if ctx.Err() != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			case jobs <- entry:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	var summary Summary
	for outcome := range outcomes {
		summary.add(outcome)
		r.logOutcome(ctx, outcome)
	}
	return summary
}

func (r *Reconciler) logOutcome(ctx context.Context, o Outcome) {
	logger := logging.WithContext(ctx, r.logger).With(
		logging.String(logging.FieldEntry, o.Entry.Display()))
	switch o.State {
	case StateErrored:
		logger.Error("entry failed", logging.Error(o.Err))
	case StateSkipped:
		logger.Info("entry skipped",
			logging.Int("archives", o.Archives),
			logging.Int("already_linked", o.AlreadyLinked))
	default:
		logger.Info("entry reconciled",
			logging.Int("linked", o.Linked),
			logging.Int("already_linked", o.AlreadyLinked),
			logging.Int("files_without_marker", o.SkippedFiles))
	}
}

func (r *Reconciler) processEntry(ctx context.Context, entry SourceEntry) Outcome {
	ctx = logging.ContextWithEntry(ctx, entry.Display())
	outcome := Outcome{Entry: entry, State: StateClassifying}

	if entry.Kind == KindFile {
		return r.processFile(ctx, entry, outcome)
	}
	return r.processFolder(ctx, entry, outcome)
}

func (r *Reconciler) processFile(ctx context.Context, entry SourceEntry, outcome Outcome) Outcome {
	base := filepath.Base(entry.TargetFile)

	if fileutil.IsMultiPartArchive(base) {
		r.recordArchive(ctx, entry.TargetFile, &outcome)
		outcome.State = StateSkipped
		return outcome
	}

	series, err := r.classifyEntry(entry)
	if err != nil {
		return errored(outcome, err)
	}

	ref, err := classify.ExtractEpisode(base)
	if err != nil {
		return errored(outcome, err)
	}

	outcome.State = StateResolving
	folder, _, err := r.resolver.Resolve(ctx, series)
	if err != nil {
		return errored(outcome, err)
	}

	outcome.State = StateLinkChecking
	dest := filepath.Join(folder, classify.SeasonFolder(ref.Season), base)
	if err := r.linkFile(ctx, entry.TargetFile, dest, &outcome); err != nil {
		return errored(outcome, err)
	}

	if outcome.Linked > 0 {
		outcome.State = StateLinked
	} else {
		outcome.State = StateSkipped
	}
	return outcome
}

func (r *Reconciler) processFolder(ctx context.Context, entry SourceEntry, outcome Outcome) Outcome {
	logger := logging.WithContext(ctx, r.logger)

	series, err := classify.Classify(filepath.Base(entry.Path))
	if err != nil {
		return errored(outcome, err)
	}

	outcome.State = StateResolving
	folder, _, err := r.resolver.Resolve(ctx, series)
	if err != nil {
		return errored(outcome, err)
	}

	children, err := os.ReadDir(entry.Path)
	if err != nil {
		return errored(outcome, fmt.Errorf("list show folder: %w", err))
	}

	outcome.State = StateLinkChecking
	for _, child := range children {
		if child.IsDir() {
			continue
		}
		name := child.Name()
		source := filepath.Join(entry.Path, name)

		if fileutil.IsMultiPartArchive(name) {
			r.recordArchive(ctx, source, &outcome)
			continue
		}
		if !fileutil.IsVideoFile(name) {
			continue
		}

		season, ok := classify.ExtractSeason(name)
		if !ok {
			// Individual files without a season marker are skipped; the
			// batch continues.
			logger.Warn("file lacks season marker, skipping",
				logging.String("file", source))
			outcome.SkippedFiles++
			continue
		}

		dest := filepath.Join(folder, classify.SeasonFolder(season), name)
		if err := r.linkFile(ctx, source, dest, &outcome); err != nil {
			logger.Error("link failed", logging.String("file", source), logging.Error(err))
			outcome.Err = errors.Join(outcome.Err, err)
		}
	}

	switch {
	case outcome.Err != nil:
		outcome.State = StateErrored
	case outcome.Linked > 0:
		outcome.State = StateLinked
	default:
		outcome.State = StateSkipped
	}
	return outcome
}

// classifyEntry classifies a file-mode entry. The containing folder name is
// authoritative; when the target sits directly under the source root the
// folder name is meaningless, so the file name itself is classified instead.
func (r *Reconciler) classifyEntry(entry SourceEntry) (classify.Series, error) {
	series, err := classify.Classify(filepath.Base(entry.Path))
	if err == nil {
		return series, nil
	}
	fallback, fbErr := classify.Classify(filepath.Base(entry.TargetFile))
	if fbErr == nil {
		return fallback, nil
	}
	return classify.Series{}, err
}

func (r *Reconciler) recordArchive(ctx context.Context, path string, outcome *Outcome) {
	logger := logging.WithContext(ctx, r.logger)
	recorded, err := r.store.RecordSkippedArchive(path)
	if err != nil {
		logger.Warn("skip log append failed", logging.Error(err))
		return
	}
	if recorded {
		logger.Warn("incomplete multi-part archive, not linking",
			logging.String("path", path))
	}
	outcome.Archives++
}

// linkFile performs the LinkChecking transition for one file: a
// compare-and-insert against the link index decides between skip and create.
func (r *Reconciler) linkFile(ctx context.Context, source, dest string, outcome *Outcome) error {
	logger := logging.WithContext(ctx, r.logger)

	absSource, err := filepath.Abs(source)
	if err != nil {
		return err
	}

	inserted, err := r.store.RecordLinkTarget(absSource)
	if err != nil {
		return err
	}
	if !inserted {
		logger.Info("already linked", logging.String("source", absSource))
		outcome.AlreadyLinked++
		return nil
	}

	if r.dryRun {
		logger.Info("would link",
			logging.String("source", absSource), logging.String("dest", dest))
		outcome.Linked++
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create season folder: %w", err)
	}
	if err := os.Symlink(absSource, dest); err != nil {
		if errors.Is(err, fs.ErrExist) {
			// Destination occupied but its target was not in the index,
			// e.g. a link left by an older run pointing elsewhere.
			logger.Warn("destination already exists, leaving it",
				logging.String("dest", dest))
			outcome.AlreadyLinked++
			return nil
		}
		return fmt.Errorf("symlink: %w", err)
	}

	logger.Info("linked",
		logging.String("source", absSource), logging.String("dest", dest))
	outcome.Linked++
	return nil
}

func errored(outcome Outcome, err error) Outcome {
	outcome.State = StateErrored
	outcome.Err = err
	return outcome
}
