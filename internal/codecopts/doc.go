// Package codecopts is the static table mapping codec identifiers to their
// adjustable quality-parameter shape: quality-factor range, preset list,
// bitrate flag, and supported pass counts.
package codecopts
