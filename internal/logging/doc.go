// Package logging wires log/slog for the rest of the application.
//
// Loggers are constructed from Options (level, format, output paths) and
// write console text or JSON records. Attr helpers keep call sites terse.
package logging
