// Package config loads, validates, and persists Brancoder configuration.
//
// Configuration lives in a TOML file (default ~/.config/brancoder/config.toml,
// with a project-local brancoder.toml fallback). An absent file yields
// repository defaults rather than an error; render settings are written back
// through Save so they survive between sessions.
package config
