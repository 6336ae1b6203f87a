// Package reconcile drives the per-entry pipeline that turns source releases
// into library symlinks.
//
// Every source entry moves through a small state machine: classification of
// the release name, destination folder resolution, and a link check against
// the idempotency index before a symlink is created. Archives are routed to
// the skip log, unclassifiable names become per-entry errors, and no error
// ever crosses an entry boundary — one malformed release cannot stop the
// batch. Entries may be processed by several workers; every index mutation
// that matters for correctness is a compare-and-insert inside the store.
package reconcile
