// Package classify turns loosely structured release names into typed results.
//
// Classify extracts a normalized series name, an optional release year, and a
// season hint from a show folder name. ExtractEpisode and ExtractSeason pull
// SxxEyy / Sxx markers out of individual file names. Both report failures as
// sentinel errors so callers can surface them per entry instead of aborting a
// batch.
package classify
