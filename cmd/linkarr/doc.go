// Command linkarr reconciles a loosely organized download tree into a
// canonical Series/Season NN symlink library and cleans up incomplete
// download remnants afterwards.
package main
