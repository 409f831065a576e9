// Command brancoder is a front end for ffmpeg conversions: it inspects media
// files, reports encoder capabilities, estimates output sizes with sample
// encodes, and runs conversions with progress reporting and history.
package main
