package encoding

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var timePattern = regexp.MustCompile(`time=(\d+):(\d+):(\d+(?:\.\d+)?)`)

// ProgressRecord is the structured form of one encoder status line.
type ProgressRecord struct {
	RawLine     string
	IsStatus    bool
	TimeSeconds float64
	HasTime     bool
}

// ParseProgressLine interprets a single line of encoder status output.
// Lines carrying a frame marker are status lines worth logging verbatim; a
// line additionally carrying a time=HH:MM:SS.fraction stamp yields the
// current output timestamp in seconds. Malformed lines parse to a record
// with no time rather than an error.
func ParseProgressLine(line string) ProgressRecord {
	record := ProgressRecord{RawLine: strings.TrimSpace(line)}
	if !strings.Contains(line, "frame=") {
		return record
	}
	record.IsStatus = true

	match := timePattern.FindStringSubmatch(line)
	if match == nil {
		return record
	}
	hours, err1 := strconv.ParseFloat(match[1], 64)
	minutes, err2 := strconv.ParseFloat(match[2], 64)
	seconds, err3 := strconv.ParseFloat(match[3], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return record
	}
	record.TimeSeconds = hours*3600 + minutes*60 + seconds
	record.HasTime = true
	return record
}

// ProgressPercent converts an output timestamp to a whole percentage of the
// encode duration, clipped to [0, 100]. A non-positive duration yields 0.
func ProgressPercent(currentSeconds, totalSeconds float64) int {
	if totalSeconds <= 0 {
		return 0
	}
	percent := int(math.Round(currentSeconds / totalSeconds * 100))
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}
