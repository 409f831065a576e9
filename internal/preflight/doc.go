// Package preflight verifies the environment before a conversion starts:
// binary availability, output directory access, and free disk space.
package preflight
