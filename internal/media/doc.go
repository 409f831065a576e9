// Package media models probed input assets: duration, size, and the primary
// video/audio streams an operator cares about when picking render settings.
package media
