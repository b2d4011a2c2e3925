// Package config loads, normalizes, and validates paperfilter configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the PAPERFILTER_REFERENCE_FILE
// environment fallback. The Config type centralizes every knob the filtering
// run needs: where exports live, which ranking table to trust, the citation
// threshold, and how results are written.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical formats, and clear validation errors.
package config
