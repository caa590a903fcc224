// Package config loads, normalizes, and validates the TOML configuration
// for the talktrack pipeline. All tunables that shape track building, crop
// stabilization, and score ensembling live here so stages stay free of
// magic numbers.
package config
