// Package fileutil contains filesystem predicates and helpers used by the
// reconciler and the cleanup job: video and multi-part archive detection and
// symlink target resolution.
package fileutil
