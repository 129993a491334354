// Package config loads, normalizes, and validates taiga configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TAIGA_ACTIVE_SERVICE. The Config type centralizes the season data location,
// library database path, active sync service, and transfer settings so the
// CLI and the reconciliation engine discover them in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
