// Package notifications pushes conversion outcomes to an ntfy topic when one
// is configured, and does nothing otherwise.
package notifications
