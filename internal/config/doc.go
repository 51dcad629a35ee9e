// Package config loads, normalizes, and validates colophon configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and applies COLOPHON_* environment overrides.
// The Config type centralizes every knob the daemon and CLI need, from the
// journal code that prefixes database collections to the mail relay endpoint.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
