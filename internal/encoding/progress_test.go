package encoding

import "testing"

func TestParseProgressLine(t *testing.T) {
	line := "frame=  312 fps= 57 q=28.0 size=    1536KiB time=00:00:13.02 bitrate= 966.0kbits/s speed=2.37x"
	record := ParseProgressLine(line)
	if !record.IsStatus {
		t.Fatal("expected status line")
	}
	if !record.HasTime {
		t.Fatal("expected parsed time")
	}
	if record.TimeSeconds != 13.02 {
		t.Fatalf("time = %v, want 13.02", record.TimeSeconds)
	}
}

func TestParseProgressLineHoursAndMinutes(t *testing.T) {
	record := ParseProgressLine("frame=999 time=01:02:03.5 speed=1x")
	if !record.HasTime {
		t.Fatal("expected parsed time")
	}
	want := 1*3600 + 2*60 + 3.5
	if record.TimeSeconds != want {
		t.Fatalf("time = %v, want %v", record.TimeSeconds, want)
	}
}

func TestParseProgressLineMalformed(t *testing.T) {
	cases := []struct {
		name   string
		line   string
		status bool
	}{
		{"no frame marker", "Input #0, matroska,webm, from 'in.mkv':", false},
		{"frame without time", "frame=  100 fps=0.0 q=0.0", true},
		{"mangled time", "frame=1 time=xx:yy:zz", true},
		{"partial line", "frame=  42 time=00:0", true},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			record := ParseProgressLine(tc.line)
			if record.IsStatus != tc.status {
				t.Fatalf("IsStatus = %v, want %v", record.IsStatus, tc.status)
			}
			if record.HasTime {
				t.Fatal("malformed lines must not yield a time")
			}
		})
	}
}

func TestProgressPercent(t *testing.T) {
	cases := []struct {
		current, total float64
		want           int
	}{
		{0, 110, 0},
		{55, 110, 50},
		{110, 110, 100},
		{150, 110, 100}, // timestamp past duration stays clipped
		{-5, 110, 0},
		{10, 0, 0}, // unknown duration
	}
	for _, tc := range cases {
		if got := ProgressPercent(tc.current, tc.total); got != tc.want {
			t.Fatalf("ProgressPercent(%v, %v) = %d, want %d", tc.current, tc.total, got, tc.want)
		}
	}
}

func TestProgressPercentMonotonic(t *testing.T) {
	last := 0
	for ts := 0.0; ts <= 200; ts += 0.7 {
		percent := ProgressPercent(ts, 120)
		if percent < last {
			t.Fatalf("percent decreased: %d after %d at t=%v", percent, last, ts)
		}
		if percent < 0 || percent > 100 {
			t.Fatalf("percent out of range: %d", percent)
		}
		last = percent
	}
}
