package index

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"linkarr/internal/logging"
)

const (
	foldersLogName = "folders.log"
	linksLogName   = "links.log"
	skippedLogName = "skipped.log"
)

// Store is the process-wide index state. It is safe for concurrent use; all
// reads and mutations are serialized by an internal mutex.
type Store struct {
	mu sync.Mutex

	folders     map[string]struct{}
	linkTargets map[string]struct{}
	skipped     map[string]struct{}

	foldersLog *appendLog
	linksLog   *appendLog
	skippedLog *appendLog

	logger *slog.Logger
}

// Open creates the three index logs under logDir. The folder and link logs
// are truncated because their contents are regenerated every run; the
// skipped-archive log is preloaded so earlier skips stay deduplicated.
func Open(logDir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}

	foldersLog, err := openAppendLog(filepath.Join(logDir, foldersLogName), true)
	if err != nil {
		return nil, err
	}
	linksLog, err := openAppendLog(filepath.Join(logDir, linksLogName), true)
	if err != nil {
		foldersLog.Close()
		return nil, err
	}
	skippedLog, err := openAppendLog(filepath.Join(logDir, skippedLogName), false)
	if err != nil {
		foldersLog.Close()
		linksLog.Close()
		return nil, err
	}

	store := &Store{
		folders:     make(map[string]struct{}),
		linkTargets: make(map[string]struct{}),
		skipped:     make(map[string]struct{}),
		foldersLog:  foldersLog,
		linksLog:    linksLog,
		skippedLog:  skippedLog,
		logger:      logging.NewComponentLogger(logger, "index"),
	}

	seeded, err := readLogLines(skippedLog.path)
	if err != nil {
		store.Close()
		return nil, err
	}
	for _, line := range seeded {
		store.skipped[line] = struct{}{}
	}

	return store, nil
}

// Close releases the underlying log files.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	for _, log := range []*appendLog{s.foldersLog, s.linksLog, s.skippedLog} {
		if log == nil {
			continue
		}
		if err := log.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// HasFolder reports whether path is a known destination series folder.
func (s *Store) HasFolder(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.folders[path]
	return ok
}

// Folders returns a sorted snapshot of the known destination series folders.
func (s *Store) Folders() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.folders))
	for folder := range s.folders {
		out = append(out, folder)
	}
	sort.Strings(out)
	return out
}

// RecordNewFolder registers a destination folder at creation time. The log is
// appended only when the path was not already present.
func (s *Store) RecordNewFolder(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordFolderLocked(path)
}

func (s *Store) recordFolderLocked(path string) error {
	if _, ok := s.folders[path]; ok {
		return nil
	}
	s.folders[path] = struct{}{}
	return s.foldersLog.Append(path)
}

// RecordLinkTarget is the compare-and-insert idempotency gate: it returns
// true when the source path was newly registered, false when the path is
// already linked into the library.
func (s *Store) RecordLinkTarget(path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.linkTargets[path]; ok {
		return false, nil
	}
	s.linkTargets[path] = struct{}{}
	return true, s.linksLog.Append(path)
}

// HasLinkTarget reports whether the source path is already linked.
func (s *Store) HasLinkTarget(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.linkTargets[path]
	return ok
}

// RecordSkippedArchive registers an incomplete multi-part archive path.
// Returns true when the path is new; repeated skips are appended exactly
// once across runs.
func (s *Store) RecordSkippedArchive(path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.skipped[path]; ok {
		return false, nil
	}
	s.skipped[path] = struct{}{}
	return true, s.skippedLog.Append(path)
}

// IsArchiveSkipped reports whether the archive path was already recorded.
func (s *Store) IsArchiveSkipped(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.skipped[path]
	return ok
}

type appendLog struct {
	path string
	file *os.File
}

func openAppendLog(path string, truncate bool) (*appendLog, error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if truncate {
		flags |= os.O_TRUNC
	}
	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open index log %s: %w", path, err)
	}
	return &appendLog{path: path, file: file}, nil
}

func (l *appendLog) Append(line string) error {
	if _, err := l.file.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("append %s: %w", filepath.Base(l.path), err)
	}
	return nil
}

func (l *appendLog) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func readLogLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read index log %s: %w", path, err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
