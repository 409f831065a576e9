// Package history records conversion attempts in a local SQLite database so
// past runs, their settings, and their outcomes can be listed later.
package history
