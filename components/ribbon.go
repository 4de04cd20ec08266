// Package components defines ECS components for ribbon entities.
package components

// State is a ribbon's lifecycle state.
type State uint8

const (
	StateAlive State = iota // advected, trail growing up to Len
	StateDying              // head stopped, trail draining one segment per frame
	StateDead               // terminal, trail empty
)

func (s State) String() string {
	switch s {
	case StateAlive:
		return "alive"
	case StateDying:
		return "dying"
	case StateDead:
		return "dead"
	}
	return "unknown"
}

// ColorClass is the categorical color of a ribbon.
type ColorClass uint8

const (
	ClassFull ColorClass = iota
	ClassPartial
	ClassManual

	NumClasses = 3
)

func (c ColorClass) String() string {
	switch c {
	case ClassFull:
		return "Full"
	case ClassPartial:
		return "Partial"
	case ClassManual:
		return "Manual"
	}
	return "Unknown"
}

// Vec2 is a point in canvas pixels.
type Vec2 struct {
	X, Y float64
}

// Head is the leading point of a ribbon.
type Head struct {
	Vec2
}

// Segment is the pair of points laid down on one frame, offset either side of the head.
type Segment struct {
	Top, Bot Vec2
}

// Trail holds a ribbon's segments, oldest first.
type Trail struct {
	Segments []Segment
	Len      int // maximum number of segments kept
}

// Push appends a segment and drops the oldest one if the trail exceeds Len.
func (t *Trail) Push(s Segment) {
	t.Segments = append(t.Segments, s)
	if len(t.Segments) > t.Len {
		t.DropOldest()
	}
}

// DropOldest removes the oldest segment, if any.
// The backing array is reused so a steady-state trail does not allocate.
func (t *Trail) DropOldest() {
	n := len(t.Segments)
	if n == 0 {
		return
	}
	copy(t.Segments, t.Segments[1:])
	t.Segments = t.Segments[:n-1]
}

// Lifecycle holds the state machine position of a ribbon.
type Lifecycle struct {
	State State
}

// Appearance holds spawn-time draw attributes. None of these change after spawn.
type Appearance struct {
	Class ColorClass
	Depth float64 // [0,1), draw order key
	Seq   uint64  // spawn sequence, breaks depth ties
	Born  int32   // frame the ribbon was spawned on
}
