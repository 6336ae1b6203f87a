package fileutil_test

import (
	"path/filepath"
	"testing"

	"linkarr/internal/fileutil"
	"linkarr/internal/testsupport"
)

func TestIsVideoFile(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"Show.S01E01.mkv", true},
		{"Show.S01E01.MKV", true},
		{"Show.S01E01.mp4", true},
		{"Show.S01E01.m2ts", true},
		{"Show.S01E01.nfo", false},
		{"Show.S01E01.srt", false},
		{"Show.S01E01", false},
	}
	for _, tc := range cases {
		if got := fileutil.IsVideoFile(tc.name); got != tc.want {
			t.Errorf("IsVideoFile(%q) = %t, want %t", tc.name, got, tc.want)
		}
	}
}

func TestIsMultiPartArchive(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"Show.S01.rar", true},
		{"Show.S01.RAR", true},
		{"Show.S01.r00", true},
		{"Show.S01.r99", true},
		{"Show.S01.r1", false}, // single digit is not a volume suffix
		{"Show.S01.rat", false},
		{"Show.S01.mkv", false},
		{"rarities.mkv", false},
	}
	for _, tc := range cases {
		if got := fileutil.IsMultiPartArchive(tc.name); got != tc.want {
			t.Errorf("IsMultiPartArchive(%q) = %t, want %t", tc.name, got, tc.want)
		}
	}
}

func TestResolveSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.mkv")
	testsupport.WriteFile(t, target, "video")
	link := filepath.Join(dir, "link.mkv")
	testsupport.Symlink(t, target, link)

	got, err := fileutil.ResolveSymlink(link)
	if err != nil {
		t.Fatalf("ResolveSymlink: %v", err)
	}
	if got != target {
		t.Fatalf("ResolveSymlink = %q, want %q", got, target)
	}
}

func TestResolveSymlinkDangling(t *testing.T) {
	dir := t.TempDir()
	gone := filepath.Join(dir, "deleted.mkv")
	link := filepath.Join(dir, "link.mkv")
	testsupport.Symlink(t, gone, link)

	got, err := fileutil.ResolveSymlink(link)
	if err != nil {
		t.Fatalf("ResolveSymlink: %v", err)
	}
	if got != gone {
		t.Fatalf("ResolveSymlink = %q, want raw destination %q", got, gone)
	}
}

func TestResolveSymlinkRelativeTarget(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.mkv")
	testsupport.WriteFile(t, target, "video")
	link := filepath.Join(dir, "sub", "link.mkv")
	testsupport.Symlink(t, "../target.mkv", link)

	got, err := fileutil.ResolveSymlink(link)
	if err != nil {
		t.Fatalf("ResolveSymlink: %v", err)
	}
	if got != target {
		t.Fatalf("ResolveSymlink = %q, want %q", got, target)
	}
}
