package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/sys/unix"
)

// Validate ensures the configuration is internally consistent. Filesystem
// existence is checked separately by VerifyRunPaths so that commands which
// never touch the trees (config show, version) still work.
func (c *Config) Validate() error {
	if c.Paths.SourceDir == "" {
		return errors.New("paths.source_dir must be set")
	}
	if c.Paths.LibraryDir == "" {
		return errors.New("paths.library_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	if c.Workers.Count < 1 {
		return errors.New("workers.count must be at least 1")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

// VerifyRunPaths checks the directories a reconciliation run depends on.
// A missing source or library root is fatal per the run contract; the log
// directory is created on demand.
func (c *Config) VerifyRunPaths() error {
	if err := requireDir(c.Paths.SourceDir, "paths.source_dir"); err != nil {
		return err
	}
	if err := requireDir(c.Paths.LibraryDir, "paths.library_dir"); err != nil {
		return err
	}
	if err := unix.Access(c.Paths.LibraryDir, unix.W_OK); err != nil {
		return fmt.Errorf("paths.library_dir: %s not writable: %w", c.Paths.LibraryDir, err)
	}
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func requireDir(path, key string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %s does not exist", key, path)
		}
		return fmt.Errorf("%s: %w", key, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %s is not a directory", key, path)
	}
	return nil
}
