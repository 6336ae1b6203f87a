// Package resolve maps a classified series name to a destination series
// folder under the library root.
//
// Resolution is an ordered rule list and the first match wins: exact path
// membership in the folder index, then a tolerant alias pattern against every
// known folder, then allocation of a fresh directory. The ordering
// deliberately favors folding new releases into existing structure over
// creating near-duplicate folders. Once created, a folder's name is fixed for
// the life of the library; the resolver never merges or renames.
package resolve
