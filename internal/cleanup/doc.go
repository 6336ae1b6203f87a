// Package cleanup implements the post-run destructive pass over the library
// tree: multi-part archive remnants are deleted first, then empty
// directories are removed depth-first until none remain. Running the job
// twice in a row is a no-op the second time.
package cleanup
