package cleanup

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"linkarr/internal/fileutil"
	"linkarr/internal/logging"
)

// Job removes archive remnants and empty directories under the library root.
// It must not run concurrently with the reconciler, which may still be
// populating directories the job would otherwise delete.
type Job struct {
	libraryRoot string
	dryRun      bool
	logger      *slog.Logger
}

// Result summarizes what a cleanup pass removed.
type Result struct {
	ArchivesRemoved int
	DirsRemoved     int
}

// Option customizes job behavior.
type Option func(*Job)

// WithDryRun makes the job report what it would remove without deleting.
func WithDryRun(enabled bool) Option {
	return func(j *Job) { j.dryRun = enabled }
}

// New constructs a cleanup job for the library root.
func New(libraryRoot string, logger *slog.Logger, opts ...Option) *Job {
	j := &Job{
		libraryRoot: libraryRoot,
		logger:      logging.NewComponentLogger(logger, "cleanup"),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Run executes both cleanup passes. Archive members linked by older runs are
// removed even though current runs never link them; directories emptied by
// that pass become eligible for removal in the second.
func (j *Job) Run(ctx context.Context) (Result, error) {
	logger := logging.WithContext(ctx, j.logger)
	var result Result

	if err := j.removeArchiveRemnants(logger, &result); err != nil {
		return result, err
	}
	if err := j.removeEmptyDirs(logger, &result); err != nil {
		return result, err
	}

	logger.Info("cleanup finished",
		logging.Int("archives_removed", result.ArchivesRemoved),
		logging.Int("dirs_removed", result.DirsRemoved),
		logging.Bool("dry_run", j.dryRun))
	return result, nil
}

func (j *Job) removeArchiveRemnants(logger *slog.Logger, result *Result) error {
	err := filepath.WalkDir(j.libraryRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !fileutil.IsMultiPartArchive(d.Name()) {
			return nil
		}
		logger.Info("removing archive remnant", logging.String("path", path))
		if !j.dryRun {
			if removeErr := os.Remove(path); removeErr != nil {
				logger.Warn("archive removal failed", logging.Error(removeErr))
				return nil
			}
		}
		result.ArchivesRemoved++
		return nil
	})
	if err != nil {
		return fmt.Errorf("cleanup: archive pass: %w", err)
	}
	return nil
}

// removeEmptyDirs deletes empty directories deepest-first, repeating until a
// pass removes nothing, since removing a leaf can empty its parent.
func (j *Job) removeEmptyDirs(logger *slog.Logger, result *Result) error {
	for {
		dirs, err := j.collectDirs()
		if err != nil {
			return fmt.Errorf("cleanup: directory pass: %w", err)
		}
		sort.Slice(dirs, func(a, b int) bool { return len(dirs[a]) > len(dirs[b]) })

		removed := 0
		for _, dir := range dirs {
			entries, err := os.ReadDir(dir)
			if err != nil || len(entries) > 0 {
				continue
			}
			logger.Info("removing empty directory", logging.String("path", dir))
			if !j.dryRun {
				if removeErr := os.Remove(dir); removeErr != nil {
					logger.Warn("directory removal failed", logging.Error(removeErr))
					continue
				}
			}
			removed++
			result.DirsRemoved++
		}
		if removed == 0 || j.dryRun {
			return nil
		}
	}
}

func (j *Job) collectDirs() ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(j.libraryRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != j.libraryRoot {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}
