package index

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"linkarr/internal/fileutil"
	"linkarr/internal/logging"
)

// RebuildFolderIndex lists the immediate child directories of the library
// root and seeds the folder set. A missing library root is fatal: without it
// every resolution would allocate into the void.
func (s *Store) RebuildFolderIndex(libraryRoot string) error {
	entries, err := os.ReadDir(libraryRoot)
	if err != nil {
		return fmt.Errorf("rebuild folder index: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := s.recordFolderLocked(filepath.Join(libraryRoot, entry.Name())); err != nil {
			return err
		}
		count++
	}
	s.logger.Debug("folder index rebuilt", logging.Int("folders", count))
	return nil
}

// RebuildLinkIndex walks the library tree and resolves every symlink to its
// final target. The resulting set is the idempotency oracle: a source file
// is already linked iff its path is a member.
func (s *Store) RebuildLinkIndex(libraryRoot string) error {
	count := 0
	err := filepath.WalkDir(libraryRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		target, resolveErr := fileutil.ResolveSymlink(path)
		if resolveErr != nil {
			s.logger.Warn("unresolvable symlink in library",
				logging.String("path", path), logging.Error(resolveErr))
			return nil
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.linkTargets[target]; !ok {
			s.linkTargets[target] = struct{}{}
			if appendErr := s.linksLog.Append(target); appendErr != nil {
				return appendErr
			}
			count++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("rebuild link index: %w", err)
	}
	s.logger.Debug("link index rebuilt", logging.Int("targets", count))
	return nil
}
