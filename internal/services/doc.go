// Package services defines the shared error taxonomy for components that
// call external tools. Sentinel errors classify failures (probe, dry run,
// encode, capability query) so the CLI can decide how to surface them.
package services
