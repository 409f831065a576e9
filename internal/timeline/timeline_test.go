package timeline

import (
	"math/rand"
	"testing"
)

func checkInvariant(t *testing.T, m *Model) {
	t.Helper()
	if !(0 <= m.InPointMS() && m.InPointMS() <= m.PositionMS() &&
		m.PositionMS() <= m.OutPointMS() && m.OutPointMS() <= m.DurationMS()) {
		t.Fatalf("invariant violated: in=%d pos=%d out=%d dur=%d",
			m.InPointMS(), m.PositionMS(), m.OutPointMS(), m.DurationMS())
	}
}

func TestSetDurationInitializesOutPoint(t *testing.T) {
	m := New(Events{})
	m.SetDuration(120000)
	if m.OutPointMS() != 120000 {
		t.Fatalf("out point = %d, want 120000", m.OutPointMS())
	}
	checkInvariant(t, m)

	// Re-initialization with a shorter asset re-clamps everything.
	m.SetInPoint(5000)
	m.SetPosition(60000)
	m.SetDuration(30000)
	if m.OutPointMS() != 30000 {
		t.Fatalf("out point = %d, want 30000", m.OutPointMS())
	}
	checkInvariant(t, m)
}

func TestPixelTimeRoundTrip(t *testing.T) {
	m := New(Events{})
	m.SetDuration(60000)

	got := m.TimeForPixel(500, 1000)
	if got != 30000 {
		t.Fatalf("TimeForPixel(500) = %d, want 30000", got)
	}
	back := m.PixelForTime(got, 1000)
	if back < 499 || back > 501 {
		t.Fatalf("PixelForTime(%d) = %d, want 500±1", got, back)
	}
}

func TestTimelineClickSeeksWithinTrimRange(t *testing.T) {
	var lastPos int64 = -1
	m := New(Events{PositionChanged: func(ms int64) { lastPos = ms }})
	m.SetDuration(60000)
	m.SetInPoint(10000)
	m.SetOutPoint(50000)

	// Click far from any marker seeks directly; no drag begins.
	m.BeginDrag(500, 1000)
	if m.DragTarget() != DragNone {
		t.Fatalf("drag target = %v, want none", m.DragTarget())
	}
	if lastPos != 30000 {
		t.Fatalf("position event = %d, want 30000", lastPos)
	}

	// Click before the in point clamps to it.
	m.BeginDrag(60, 1000)
	if lastPos != 10000 {
		t.Fatalf("position event = %d, want clamp to in point 10000", lastPos)
	}
	checkInvariant(t, m)
}

func TestDragInMarker(t *testing.T) {
	var lastIn int64 = -1
	m := New(Events{InPointChanged: func(ms int64) { lastIn = ms }})
	m.SetDuration(60000)
	m.SetInPoint(10000)
	m.SetOutPoint(50000)

	// In marker sits at pixel 10000*1000/60000 = 166.
	m.BeginDrag(166, 1000)
	if m.DragTarget() != DragIn {
		t.Fatalf("drag target = %v, want in", m.DragTarget())
	}
	m.ContinueDrag(266, 1000) // +100px = +6000ms
	if lastIn != 16000 {
		t.Fatalf("in point = %d, want 16000", lastIn)
	}
	// Dragging past the out point clamps to it.
	m.ContinueDrag(990, 1000)
	if lastIn != 50000 {
		t.Fatalf("in point = %d, want clamp to out 50000", lastIn)
	}
	checkInvariant(t, m)
	m.EndDrag()
	if m.DragTarget() != DragNone {
		t.Fatal("EndDrag must reset the target")
	}
}

func TestDragOutMarkerClampsToDuration(t *testing.T) {
	var lastOut int64 = -1
	m := New(Events{OutPointChanged: func(ms int64) { lastOut = ms }})
	m.SetDuration(60000)
	m.SetOutPoint(50000)

	// Out marker at pixel 833.
	m.BeginDrag(833, 1000)
	if m.DragTarget() != DragOut {
		t.Fatalf("drag target = %v, want out", m.DragTarget())
	}
	m.ContinueDrag(2000, 1000)
	if lastOut != 60000 {
		t.Fatalf("out point = %d, want clamp to duration 60000", lastOut)
	}
	checkInvariant(t, m)
}

func TestHitOrderPrefersInOverPosition(t *testing.T) {
	m := New(Events{})
	m.SetDuration(60000)
	// position == in == 0: both markers overlap at pixel 0.
	m.BeginDrag(0, 1000)
	if m.DragTarget() != DragIn {
		t.Fatalf("drag target = %v, want in (tested first)", m.DragTarget())
	}
	m.EndDrag()
}

func TestContinueDragWithoutBeginIsNoop(t *testing.T) {
	m := New(Events{PositionChanged: func(int64) { t.Fatal("no event expected") }})
	m.SetDuration(60000)
	m.ContinueDrag(500, 1000)
	checkInvariant(t, m)
}

func TestStepFrame(t *testing.T) {
	m := New(Events{})
	m.SetDuration(60000)
	m.SetInPoint(1000)
	m.SetPosition(1000)

	m.StepFrame(1, 30)
	if m.PositionMS() != 1033 {
		t.Fatalf("position = %d, want 1033", m.PositionMS())
	}
	m.StepFrame(-1, 30)
	m.StepFrame(-1, 30)
	if m.PositionMS() != 1000 {
		t.Fatalf("position = %d, want clamp to in point 1000", m.PositionMS())
	}
	checkInvariant(t, m)
}

func TestTrimSeconds(t *testing.T) {
	m := New(Events{})
	m.SetDuration(120000)
	m.SetInPoint(5000)
	m.SetOutPoint(115000)
	start, duration := m.TrimSeconds()
	if start != 5 || duration != 110 {
		t.Fatalf("trim = (%v, %v), want (5, 110)", start, duration)
	}
}

func TestInvariantHoldsUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	m := New(Events{})
	m.SetDuration(90000)

	for i := 0; i < 5000; i++ {
		switch rng.Intn(8) {
		case 0:
			m.SetDuration(rng.Int63n(200000))
		case 1:
			m.SetPosition(rng.Int63n(220000) - 10000)
		case 2:
			m.SetInPoint(rng.Int63n(220000) - 10000)
		case 3:
			m.SetOutPoint(rng.Int63n(220000) - 10000)
		case 4:
			m.BeginDrag(rng.Intn(1200)-100, 1000)
		case 5:
			m.ContinueDrag(rng.Intn(1200)-100, 1000)
		case 6:
			m.EndDrag()
		case 7:
			m.StepFrame(rng.Intn(3)-1, 30)
		}
		checkInvariant(t, m)
	}
}

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		ms   int64
		fps  float64
		want string
	}{
		{0, 30, "00:00:00"},
		{61500, 30, "01:01:15"},
		{500, 0, "00:00:00"},
		{-100, 30, "00:00:00"},
	}
	for _, tc := range cases {
		if got := FormatTimestamp(tc.ms, tc.fps); got != tc.want {
			t.Fatalf("FormatTimestamp(%d, %v) = %q, want %q", tc.ms, tc.fps, got, tc.want)
		}
	}
}
