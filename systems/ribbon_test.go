package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/ribbons/components"
)

// uniformField returns a field whose every cell points at angle.
func uniformField(cols, rows, spacing int, angle float64) *FlowField {
	f := &FlowField{Cols: cols, Rows: rows, Spacing: spacing, Angles: make([]float64, cols*rows)}
	for i := range f.Angles {
		f.Angles[i] = angle
	}
	return f
}

var testKin = Kinematics{Thickness: 60, StepSize: 3}

func newTestRibbon(x, y float64, length int) (components.Head, components.Trail, components.Lifecycle) {
	return components.Head{Vec2: components.Vec2{X: x, Y: y}},
		components.Trail{Len: length},
		components.Lifecycle{State: components.StateAlive}
}

func TestAdvanceAliveLaysSegmentAndMoves(t *testing.T) {
	field := uniformField(40, 30, 20, 0) // pointing +X
	bounds := Bounds{Width: 800, Height: 600}
	head, trail, life := newTestRibbon(100, 100, 10)

	if !AdvanceRibbon(&head, &trail, &life, field, bounds, testKin) {
		t.Fatal("expected ribbon to stay in pool")
	}
	if len(trail.Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(trail.Segments))
	}

	seg := trail.Segments[0]
	// Cross vector for angle 0 is (0, 1)
	if math.Abs(seg.Top.X-100) > 1e-9 || math.Abs(seg.Top.Y-130) > 1e-9 {
		t.Errorf("expected top (100,130), got (%v,%v)", seg.Top.X, seg.Top.Y)
	}
	if math.Abs(seg.Bot.X-100) > 1e-9 || math.Abs(seg.Bot.Y-70) > 1e-9 {
		t.Errorf("expected bot (100,70), got (%v,%v)", seg.Bot.X, seg.Bot.Y)
	}
	if math.Abs(head.X-103) > 1e-9 || math.Abs(head.Y-100) > 1e-9 {
		t.Errorf("expected head at (103,100), got (%v,%v)", head.X, head.Y)
	}
}

func TestAdvanceAliveFollowsFieldAngle(t *testing.T) {
	field := uniformField(40, 30, 20, math.Pi/2) // pointing +Y (down the canvas)
	bounds := Bounds{Width: 800, Height: 600}
	head, trail, life := newTestRibbon(200, 200, 10)

	AdvanceRibbon(&head, &trail, &life, field, bounds, testKin)
	if math.Abs(head.X-200) > 1e-9 || math.Abs(head.Y-203) > 1e-9 {
		t.Errorf("expected head at (200,203), got (%v,%v)", head.X, head.Y)
	}
	seg := trail.Segments[0]
	// Half-thickness offsets along the cross vector (-1, 0)
	if math.Abs(seg.Top.X-170) > 1e-9 || math.Abs(seg.Bot.X-230) > 1e-9 {
		t.Errorf("unexpected segment %+v", seg)
	}
}

func TestAdvanceAliveCapsTrail(t *testing.T) {
	field := uniformField(40, 30, 20, 0)
	bounds := Bounds{Width: 800, Height: 600}
	head, trail, life := newTestRibbon(10, 100, 5)

	for i := 0; i < 20; i++ {
		AdvanceRibbon(&head, &trail, &life, field, bounds, testKin)
		if len(trail.Segments) > trail.Len {
			t.Fatalf("frame %d: trail %d exceeds len %d", i, len(trail.Segments), trail.Len)
		}
	}
	if len(trail.Segments) != 5 {
		t.Errorf("expected full trail of 5, got %d", len(trail.Segments))
	}
	if life.State != components.StateAlive {
		t.Errorf("expected alive, got %s", life.State)
	}
}

func TestAdvanceOutOfBoundsLeavesAliveSameCall(t *testing.T) {
	field := uniformField(40, 30, 20, 0)
	bounds := Bounds{Width: 800, Height: 600}

	positions := []components.Vec2{
		{X: -1, Y: 100},
		{X: 800, Y: 100},
		{X: 100, Y: -0.001},
		{X: 100, Y: 600},
	}
	for _, pos := range positions {
		head, trail, life := newTestRibbon(pos.X, pos.Y, 10)
		trail.Push(components.Segment{})
		trail.Push(components.Segment{})

		keep := AdvanceRibbon(&head, &trail, &life, field, bounds, testKin)
		if life.State == components.StateAlive {
			t.Errorf("head at %+v: still alive after update", pos)
		}
		if life.State != components.StateDying || !keep {
			t.Errorf("head at %+v: expected dying and kept, got %s keep=%v", pos, life.State, keep)
		}
		if len(trail.Segments) != 2 {
			t.Errorf("head at %+v: expected no segment added, got %d", pos, len(trail.Segments))
		}
		if head.Vec2 != pos {
			t.Errorf("head moved while leaving alive: %+v", head.Vec2)
		}
	}
}

func TestAdvanceWalksOffCanvasAndDies(t *testing.T) {
	field := uniformField(40, 30, 20, 0)
	bounds := Bounds{Width: 800, Height: 600}
	head, trail, life := newTestRibbon(790, 100, 100)

	frames := 0
	for AdvanceRibbon(&head, &trail, &life, field, bounds, testKin) {
		frames++
		if frames > 1000 {
			t.Fatal("ribbon never died")
		}
	}
	// 4 steps on canvas, 1 frame leaving alive, 3 drains that leave segments behind
	if frames != 8 {
		t.Errorf("expected 8 kept frames before death, got %d", frames)
	}
	if len(trail.Segments) != 0 {
		t.Errorf("expected empty trail when dead, got %d", len(trail.Segments))
	}
}

func TestAdvanceOffGridInsideCanvas(t *testing.T) {
	field := uniformField(40, 30, 20, 0) // covers 800x600
	bounds := Bounds{Width: 810, Height: 600}
	head, trail, life := newTestRibbon(805, 100, 10)
	trail.Push(components.Segment{})

	AdvanceRibbon(&head, &trail, &life, field, bounds, testKin)
	if life.State != components.StateDying {
		t.Errorf("expected dying past the grid edge, got %s", life.State)
	}
}

func TestAdvanceDyingDrains(t *testing.T) {
	field := uniformField(40, 30, 20, 0)
	bounds := Bounds{Width: 800, Height: 600}
	head, trail, life := newTestRibbon(100, 100, 10)
	for i := 0; i < 3; i++ {
		trail.Push(components.Segment{Top: components.Vec2{X: float64(i)}})
	}
	life.State = components.StateDying

	for want := 2; want >= 1; want-- {
		if !AdvanceRibbon(&head, &trail, &life, field, bounds, testKin) {
			t.Fatalf("expected keep with %d segments left", want)
		}
		if len(trail.Segments) != want {
			t.Fatalf("expected %d segments, got %d", want, len(trail.Segments))
		}
	}
	if head.X != 100 {
		t.Errorf("dying head must not move, got x=%v", head.X)
	}

	// Path length 1 -> Dead on the next update
	if AdvanceRibbon(&head, &trail, &life, field, bounds, testKin) {
		t.Error("expected removal once the last segment drains")
	}
	if life.State != components.StateDead {
		t.Errorf("expected dead, got %s", life.State)
	}
}

func TestAdvanceDyingWithEmptyTrailIsDead(t *testing.T) {
	field := uniformField(40, 30, 20, 0)
	bounds := Bounds{Width: 800, Height: 600}

	head, trail, life := newTestRibbon(100, 100, 10)
	life.State = components.StateDying
	if AdvanceRibbon(&head, &trail, &life, field, bounds, testKin) {
		t.Error("dying ribbon with no segments must be removed")
	}

	// Alive with no segments that leaves the canvas goes straight to Dead
	head, trail, life = newTestRibbon(-5, 100, 10)
	if AdvanceRibbon(&head, &trail, &life, field, bounds, testKin) {
		t.Error("ribbon with nothing to drain must be removed")
	}
	if life.State != components.StateDead {
		t.Errorf("expected dead, got %s", life.State)
	}
}

func TestAdvanceEmptyField(t *testing.T) {
	field := &FlowField{Spacing: 20}
	bounds := Bounds{Width: 15, Height: 15}
	head, trail, life := newTestRibbon(5, 5, 10)

	if AdvanceRibbon(&head, &trail, &life, field, bounds, testKin) {
		t.Error("expected removal when no cell is valid")
	}
}

func TestAdvanceDeadIsNoop(t *testing.T) {
	field := uniformField(40, 30, 20, 0)
	head, trail, life := newTestRibbon(100, 100, 10)
	life.State = components.StateDead
	if AdvanceRibbon(&head, &trail, &life, field, Bounds{Width: 800, Height: 600}, testKin) {
		t.Error("dead ribbon must report removal")
	}
	if head.X != 100 || len(trail.Segments) != 0 {
		t.Error("dead ribbon must not change")
	}
}
