package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"linkarr/internal/config"
)

// NewConfig produces a config seeded with unique temp directories per test.
// Source, library, and log directories exist on return.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.SourceDir = filepath.Join(base, "source")
	cfg.Paths.LibraryDir = filepath.Join(base, "library")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Workers.Count = 2

	for _, dir := range []string{cfg.Paths.SourceDir, cfg.Paths.LibraryDir, cfg.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	return &cfg
}
