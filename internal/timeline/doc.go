// Package timeline holds the trim/playback timeline state machine: playhead
// position, in/out points, pixel<->time mapping, and drag resolution. It is
// pure state; rendering and input capture belong to the caller.
package timeline
