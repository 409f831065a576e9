// Package deps checks that the external binaries the converter shells out to
// are installed and resolvable.
package deps
