// Package config loads, normalizes, and validates linkarr configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and centralizes every knob the CLI and the
// reconciliation engine need: source/library/log directories, worker counts,
// matching tolerances, and cleanup policy.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
