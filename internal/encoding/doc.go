// Package encoding builds, estimates, and runs ffmpeg conversions. A
// Request captures one render attempt; the Estimator sizes it with a short
// sample encode, and the Runner executes it while streaming typed progress
// events parsed from the encoder's status output.
package encoding
