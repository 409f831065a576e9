package timeline

import (
	"fmt"
	"math"
)

// MarkerWidth is the half-width in pixels of a marker's hit region. The
// region is wider than the drawn marker to ease grabbing it.
const MarkerWidth = 12

// DragTarget identifies which marker a drag is moving.
type DragTarget int

const (
	DragNone DragTarget = iota
	DragPosition
	DragIn
	DragOut
)

func (d DragTarget) String() string {
	switch d {
	case DragPosition:
		return "position"
	case DragIn:
		return "in"
	case DragOut:
		return "out"
	default:
		return "none"
	}
}

// Events carries the change callbacks a control surface subscribes to.
// Nil callbacks are skipped.
type Events struct {
	PositionChanged func(ms int64)
	InPointChanged  func(ms int64)
	OutPointChanged func(ms int64)
}

// Model is the playback/trim timeline state machine. All values are
// milliseconds and the invariant 0 <= in <= position <= out <= duration
// holds after every operation. The model is mutated only by its owning
// control surface; it is not safe for concurrent use.
type Model struct {
	durationMS int64
	positionMS int64
	inPointMS  int64
	outPointMS int64

	dragTarget     DragTarget
	dragStartX     int
	dragStartValue int64

	events Events
}

// New returns a Model with zero duration and the given event sinks.
func New(events Events) *Model {
	return &Model{events: events}
}

func (m *Model) DurationMS() int64     { return m.durationMS }
func (m *Model) PositionMS() int64     { return m.positionMS }
func (m *Model) InPointMS() int64      { return m.inPointMS }
func (m *Model) OutPointMS() int64     { return m.outPointMS }
func (m *Model) DragTarget() DragTarget { return m.dragTarget }

// SetDuration re-initializes the timeline for a newly probed asset: the out
// point snaps to the new duration and in/position are re-clamped.
func (m *Model) SetDuration(durationMS int64) {
	if durationMS < 0 {
		durationMS = 0
	}
	m.durationMS = durationMS
	m.outPointMS = durationMS
	m.inPointMS = clamp(m.inPointMS, 0, m.outPointMS)
	m.positionMS = clamp(m.positionMS, m.inPointMS, m.outPointMS)
}

// SetPosition moves the playhead, clamped to the trim range.
func (m *Model) SetPosition(ms int64) {
	m.positionMS = clamp(ms, m.inPointMS, m.outPointMS)
}

// SetInPoint moves the in marker, clamped to [0, out]. The playhead is
// pushed forward if the new in point passes it.
func (m *Model) SetInPoint(ms int64) {
	m.inPointMS = clamp(ms, 0, m.outPointMS)
	if m.positionMS < m.inPointMS {
		m.positionMS = m.inPointMS
	}
}

// SetOutPoint moves the out marker, clamped to [in, duration]. The playhead
// is pulled back if the new out point passes it.
func (m *Model) SetOutPoint(ms int64) {
	m.outPointMS = clamp(ms, m.inPointMS, m.durationMS)
	if m.positionMS > m.outPointMS {
		m.positionMS = m.outPointMS
	}
}

// ResetPoints restores the full asset range.
func (m *Model) ResetPoints() {
	m.inPointMS = 0
	m.outPointMS = m.durationMS
	m.positionMS = clamp(m.positionMS, m.inPointMS, m.outPointMS)
}

// BeginDrag hit-tests a press at xPixel on a timeline widthPixel wide.
// Markers are tested in the order in, out, position; a miss seeks the
// playhead directly and leaves the drag target at none.
func (m *Model) BeginDrag(xPixel, widthPixel int) {
	if m.durationMS <= 0 || widthPixel <= 0 {
		return
	}

	inX := m.PixelForTime(m.inPointMS, widthPixel)
	outX := m.PixelForTime(m.outPointMS, widthPixel)
	posX := m.PixelForTime(m.positionMS, widthPixel)

	switch {
	case hit(xPixel, inX):
		m.dragTarget = DragIn
		m.dragStartValue = m.inPointMS
	case hit(xPixel, outX):
		m.dragTarget = DragOut
		m.dragStartValue = m.outPointMS
	case hit(xPixel, posX):
		m.dragTarget = DragPosition
		m.dragStartValue = m.positionMS
	default:
		// Plain timeline click: seek without entering a drag.
		m.positionMS = clamp(m.TimeForPixel(xPixel, widthPixel), m.inPointMS, m.outPointMS)
		m.emitPosition()
		m.dragStartX = xPixel
		return
	}
	m.dragStartX = xPixel
}

// ContinueDrag applies pointer movement to the active drag target. A call
// with no drag in progress is a no-op.
func (m *Model) ContinueDrag(xPixel, widthPixel int) {
	if m.dragTarget == DragNone || m.durationMS <= 0 || widthPixel <= 0 {
		return
	}

	delta := int64(xPixel-m.dragStartX) * m.durationMS / int64(widthPixel)
	value := m.dragStartValue + delta

	switch m.dragTarget {
	case DragIn:
		m.inPointMS = clamp(value, 0, m.outPointMS)
		if m.positionMS < m.inPointMS {
			m.positionMS = m.inPointMS
		}
		m.emitIn()
	case DragOut:
		m.outPointMS = clamp(value, m.inPointMS, m.durationMS)
		if m.positionMS > m.outPointMS {
			m.positionMS = m.outPointMS
		}
		m.emitOut()
	case DragPosition:
		m.positionMS = clamp(value, m.inPointMS, m.outPointMS)
		m.emitPosition()
	}
}

// EndDrag unconditionally leaves any drag state.
func (m *Model) EndDrag() {
	m.dragTarget = DragNone
	m.dragStartX = 0
	m.dragStartValue = 0
}

// StepFrame nudges the playhead by one frame (direction -1 or +1) at the
// given frame rate, clamped to the trim range.
func (m *Model) StepFrame(direction int, frameRate float64) {
	if frameRate <= 0 {
		return
	}
	step := int64(math.Round(1000 / frameRate))
	m.positionMS = clamp(m.positionMS+int64(direction)*step, m.inPointMS, m.outPointMS)
	m.emitPosition()
}

// PixelForTime maps a timeline value to its pixel coordinate.
func (m *Model) PixelForTime(ms int64, widthPixel int) int {
	if m.durationMS <= 0 {
		return 0
	}
	return int(ms * int64(widthPixel) / m.durationMS)
}

// TimeForPixel maps a pixel coordinate back to a timeline value.
func (m *Model) TimeForPixel(xPixel, widthPixel int) int64 {
	if widthPixel <= 0 {
		return 0
	}
	return int64(xPixel) * m.durationMS / int64(widthPixel)
}

// TrimSeconds returns the trim window as start/duration seconds, the shape
// the encoder invocation wants.
func (m *Model) TrimSeconds() (start, duration float64) {
	start = float64(m.inPointMS) / 1000
	duration = float64(m.outPointMS-m.inPointMS) / 1000
	return start, duration
}

func (m *Model) emitPosition() {
	if m.events.PositionChanged != nil {
		m.events.PositionChanged(m.positionMS)
	}
}

func (m *Model) emitIn() {
	if m.events.InPointChanged != nil {
		m.events.InPointChanged(m.inPointMS)
	}
}

func (m *Model) emitOut() {
	if m.events.OutPointChanged != nil {
		m.events.OutPointChanged(m.outPointMS)
	}
}

func hit(x, markerX int) bool {
	return x >= markerX-MarkerWidth && x <= markerX+MarkerWidth
}

func clamp(value, lo, hi int64) int64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// FormatTimestamp renders a millisecond value as MM:SS:FF using the asset
// frame rate for the frame counter.
func FormatTimestamp(ms int64, frameRate float64) string {
	if ms < 0 {
		ms = 0
	}
	totalSeconds := ms / 1000
	minutes := totalSeconds / 60
	seconds := totalSeconds % 60
	frames := int64(0)
	if frameRate > 0 {
		frames = (ms % 1000) * int64(frameRate) / 1000
	}
	return fmt.Sprintf("%02d:%02d:%02d", minutes, seconds, frames)
}
