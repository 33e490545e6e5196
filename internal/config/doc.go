// Package config loads, normalizes, and validates fancam configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files from ~/.config/fancam/config.toml or a
// project-local fancam.toml. The Config type centralizes every knob the CLI
// and pipeline need: frame sampling policy, detector model location,
// clustering parameters, discovery extensions, and log routing.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical extension lists, and clear validation errors.
package config
