// Package index maintains the run-scoped sets the engine consults for
// idempotency: known destination series folders, already linked source
// targets, and skipped multi-part archives.
//
// Each set is backed by an append-only log under the log directory. Folder
// and link logs are regenerated at the start of every run from the library
// tree itself; the skipped-archive log persists across runs so an incomplete
// download is only reported once. All mutations are compare-and-insert under
// a single lock, which is what guarantees at-most-one destination folder per
// series and at-most-one symlink per source file when entries are processed
// concurrently.
package index
