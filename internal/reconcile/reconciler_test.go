package reconcile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"linkarr/internal/config"
	"linkarr/internal/index"
	"linkarr/internal/logging"
	"linkarr/internal/reconcile"
	"linkarr/internal/resolve"
	"linkarr/internal/testsupport"
)

// runOnce opens a fresh store, rebuilds both indexes, and reconciles whatever
// sits under the source root, mirroring one full command invocation.
func runOnce(t *testing.T, cfg *config.Config, opts ...reconcile.Option) reconcile.Summary {
	t.Helper()

	store, err := index.Open(cfg.Paths.LogDir, logging.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()
	if err := store.RebuildFolderIndex(cfg.Paths.LibraryDir); err != nil {
		t.Fatalf("RebuildFolderIndex: %v", err)
	}
	if err := store.RebuildLinkIndex(cfg.Paths.LibraryDir); err != nil {
		t.Fatalf("RebuildLinkIndex: %v", err)
	}

	entries, err := reconcile.DiscoverEntries(cfg.Paths.SourceDir)
	if err != nil {
		t.Fatalf("DiscoverEntries: %v", err)
	}

	resolver := resolve.New(store, cfg.Paths.LibraryDir, logging.NewNop())
	reconciler := reconcile.New(store, resolver, logging.NewNop(),
		append([]reconcile.Option{reconcile.WithWorkers(cfg.Workers.Count)}, opts...)...)
	return reconciler.Run(context.Background(), entries)
}

func assertSymlinkTo(t *testing.T, link, target string) {
	t.Helper()
	got, err := os.Readlink(link)
	if err != nil {
		t.Fatalf("readlink %s: %v", link, err)
	}
	if got != target {
		t.Fatalf("link %s points at %s, want %s", link, got, target)
	}
}

func TestRunLinksShowFolder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	show := filepath.Join(cfg.Paths.SourceDir, "Some.Show.S01.1080p.WEB-DL")
	ep1 := filepath.Join(show, "Some.Show.S01E01.1080p.mkv")
	ep2 := filepath.Join(show, "Some.Show.S01E02.1080p.mkv")
	testsupport.WriteFile(t, ep1, "video")
	testsupport.WriteFile(t, ep2, "video")

	summary := runOnce(t, cfg)
	if summary.Linked != 2 || summary.Errored != 0 {
		t.Fatalf("summary = %+v, want 2 linked, 0 errored", summary)
	}

	season := filepath.Join(cfg.Paths.LibraryDir, "Some Show", "Season 01")
	assertSymlinkTo(t, filepath.Join(season, "Some.Show.S01E01.1080p.mkv"), ep1)
	assertSymlinkTo(t, filepath.Join(season, "Some.Show.S01E02.1080p.mkv"), ep2)

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "folders.log"))
	if err != nil {
		t.Fatalf("read folders.log: %v", err)
	}
	if want := filepath.Join(cfg.Paths.LibraryDir, "Some Show") + "\n"; string(data) != want {
		t.Fatalf("folders.log = %q, want %q", data, want)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	show := filepath.Join(cfg.Paths.SourceDir, "Some.Show.S01.1080p")
	testsupport.WriteFile(t, filepath.Join(show, "Some.Show.S01E01.mkv"), "video")

	first := runOnce(t, cfg)
	if first.Linked != 1 {
		t.Fatalf("first run = %+v, want 1 linked", first)
	}

	second := runOnce(t, cfg)
	if second.Linked != 0 || second.AlreadyLinked != 1 {
		t.Fatalf("second run = %+v, want 0 linked, 1 already linked", second)
	}

	season := filepath.Join(cfg.Paths.LibraryDir, "Some Show", "Season 01")
	children, err := os.ReadDir(season)
	if err != nil {
		t.Fatalf("read season folder: %v", err)
	}
	if len(children) != 1 {
		t.Fatalf("season folder has %d entries, want 1", len(children))
	}
}

func TestRunSeparatesSeasons(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	show := filepath.Join(cfg.Paths.SourceDir, "Some.Show.S01.1080p")
	testsupport.WriteFile(t, filepath.Join(show, "Some.Show.S01E01.mkv"), "video")
	testsupport.WriteFile(t, filepath.Join(show, "Some.Show.S02E01.mkv"), "video")

	summary := runOnce(t, cfg)
	if summary.Linked != 2 {
		t.Fatalf("summary = %+v, want 2 linked", summary)
	}
	for _, season := range []string{"Season 01", "Season 02"} {
		if _, err := os.Stat(filepath.Join(cfg.Paths.LibraryDir, "Some Show", season)); err != nil {
			t.Errorf("missing %s: %v", season, err)
		}
	}
}

func TestRunSkipsArchivesAndNonVideo(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	show := filepath.Join(cfg.Paths.SourceDir, "Some.Show.S01.1080p")
	testsupport.WriteFile(t, filepath.Join(show, "Some.Show.S01E01.mkv"), "video")
	testsupport.WriteFile(t, filepath.Join(show, "Some.Show.S01.rar"), "archive")
	testsupport.WriteFile(t, filepath.Join(show, "Some.Show.S01.r00"), "archive")
	testsupport.WriteFile(t, filepath.Join(show, "info.nfo"), "meta")

	summary := runOnce(t, cfg)
	if summary.Linked != 1 || summary.Archives != 2 || summary.Errored != 0 {
		t.Fatalf("summary = %+v, want 1 linked, 2 archives", summary)
	}
	if _, err := os.Lstat(filepath.Join(cfg.Paths.LibraryDir, "Some Show", "Season 01", "info.nfo")); err == nil {
		t.Fatal("nfo file should not be linked")
	}
}

func TestRunSkipsFilesWithoutSeasonMarker(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	show := filepath.Join(cfg.Paths.SourceDir, "Some.Show.S01.1080p")
	testsupport.WriteFile(t, filepath.Join(show, "Some.Show.S01E01.mkv"), "video")
	testsupport.WriteFile(t, filepath.Join(show, "Some.Show.Extras.mkv"), "video")

	summary := runOnce(t, cfg)
	if summary.Linked != 1 || summary.SkippedFiles != 1 || summary.Errored != 0 {
		t.Fatalf("summary = %+v, want 1 linked, 1 skipped file", summary)
	}
}

func TestRunIsolatesEntryFailures(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	good := filepath.Join(cfg.Paths.SourceDir, "Some.Show.S01.1080p")
	bad := filepath.Join(cfg.Paths.SourceDir, "random downloads")
	testsupport.WriteFile(t, filepath.Join(good, "Some.Show.S01E01.mkv"), "video")
	testsupport.WriteFile(t, filepath.Join(bad, "clip.mkv"), "video")

	summary := runOnce(t, cfg)
	if summary.Errored != 1 {
		t.Fatalf("summary = %+v, want 1 errored entry", summary)
	}
	if summary.Linked != 1 {
		t.Fatalf("summary = %+v, want the healthy entry still linked", summary)
	}
}

func TestRunFileModeClassifiesFileName(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	loose := filepath.Join(cfg.Paths.SourceDir, "Some.Show.S01E01.1080p.mkv")
	testsupport.WriteFile(t, loose, "video")

	summary := runOnce(t, cfg)
	if summary.Linked != 1 || summary.Errored != 0 {
		t.Fatalf("summary = %+v, want 1 linked", summary)
	}
	assertSymlinkTo(t,
		filepath.Join(cfg.Paths.LibraryDir, "Some Show", "Season 01", "Some.Show.S01E01.1080p.mkv"),
		loose)
}

func TestRunLooseArchiveIsSkipped(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.SourceDir, "Some.Show.S01.r00"), "archive")

	summary := runOnce(t, cfg)
	if summary.Archives != 1 || summary.Linked != 0 || summary.Errored != 0 {
		t.Fatalf("summary = %+v, want 1 archive skip", summary)
	}
}

func TestRunDryRunTouchesNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	show := filepath.Join(cfg.Paths.SourceDir, "Some.Show.S01.1080p")
	testsupport.WriteFile(t, filepath.Join(show, "Some.Show.S01E01.mkv"), "video")

	store, err := index.Open(cfg.Paths.LogDir, logging.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()
	if err := store.RebuildFolderIndex(cfg.Paths.LibraryDir); err != nil {
		t.Fatalf("RebuildFolderIndex: %v", err)
	}
	entries, err := reconcile.DiscoverEntries(cfg.Paths.SourceDir)
	if err != nil {
		t.Fatalf("DiscoverEntries: %v", err)
	}

	resolver := resolve.New(store, cfg.Paths.LibraryDir, logging.NewNop(),
		resolve.WithDryRun(true))
	reconciler := reconcile.New(store, resolver, logging.NewNop(),
		reconcile.WithDryRun(true))
	summary := reconciler.Run(context.Background(), entries)
	if summary.Linked != 1 {
		t.Fatalf("summary = %+v, want 1 would-be link", summary)
	}

	children, err := os.ReadDir(cfg.Paths.LibraryDir)
	if err != nil {
		t.Fatalf("read library: %v", err)
	}
	if len(children) != 0 {
		t.Fatalf("library has %d entries after dry run, want 0", len(children))
	}
}

func TestRunCancelledContextStopsFeeding(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	for _, name := range []string{"Show.A.S01.1080p", "Show.B.S01.1080p"} {
		testsupport.WriteFile(t,
			filepath.Join(cfg.Paths.SourceDir, name, name+".S01E01.mkv"), "video")
	}

	store, err := index.Open(cfg.Paths.LogDir, logging.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()
	if err := store.RebuildFolderIndex(cfg.Paths.LibraryDir); err != nil {
		t.Fatalf("RebuildFolderIndex: %v", err)
	}
	entries, err := reconcile.DiscoverEntries(cfg.Paths.SourceDir)
	if err != nil {
		t.Fatalf("DiscoverEntries: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resolver := resolve.New(store, cfg.Paths.LibraryDir, logging.NewNop())
	reconciler := reconcile.New(store, resolver, logging.NewNop())
	summary := reconciler.Run(ctx, entries)
	if summary.Entries != 0 {
		t.Fatalf("summary = %+v, want no entries processed after cancellation", summary)
	}
}
