// Package config loads, normalizes, and validates taglog configuration.
//
// Configuration lives in a TOML file (default ~/.config/taglog/config.toml,
// falling back to ./taglog.toml) and is merged over the repository defaults.
// Path fields are expanded (~ and relative paths become absolute) during
// normalization so downstream packages never have to resolve them again.
//
// The serial section describes the reader connection; the registry and lock
// files default to locations under the data directory.
package config
