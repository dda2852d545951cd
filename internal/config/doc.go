// Package config loads, normalizes, and validates ScreenGuard configuration
// data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MEGA_PASSWORD and the standard AWS credential variables. The Config type
// centralizes every knob the daemon and CLI need, from capture cadence to
// rotation ceiling to upload backend credentials.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
