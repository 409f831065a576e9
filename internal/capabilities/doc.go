// Package capabilities discovers what the installed ffmpeg can mux and
// encode. Discovery fails soft to a static fallback set so the rest of the
// application never has to handle a missing encoder at this layer.
package capabilities
