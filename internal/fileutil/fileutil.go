package fileutil

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var videoExtensions = map[string]struct{}{
	".mkv":  {},
	".mp4":  {},
	".avi":  {},
	".mov":  {},
	".wmv":  {},
	".flv":  {},
	".webm": {},
	".m4v":  {},
	".mpg":  {},
	".mpeg": {},
	".m2ts": {},
	".ts":   {},
}

// multiPartArchivePattern matches trailing multi-part RAR style extensions:
// .rar plus the .r00 .. .r99 continuation volumes.
var multiPartArchivePattern = regexp.MustCompile(`(?i)\.r(?:ar|\d{2})$`)

// IsVideoFile reports whether the name carries a known video container
// extension.
func IsVideoFile(name string) bool {
	_, ok := videoExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// IsMultiPartArchive reports whether the name looks like a member of a
// multi-part archive set. Such files are incomplete-download remnants and are
// never linked into the library.
func IsMultiPartArchive(name string) bool {
	return multiPartArchivePattern.MatchString(name)
}

// ResolveSymlink returns the absolute final target of the symlink at path.
// Dangling links fall back to the raw link destination, resolved relative to
// the link's directory, so the index still learns what the link pointed at.
func ResolveSymlink(path string) (string, error) {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return filepath.Abs(resolved)
	}
	raw, err := os.Readlink(path)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(raw) {
		raw = filepath.Join(filepath.Dir(path), raw)
	}
	return filepath.Abs(raw)
}
