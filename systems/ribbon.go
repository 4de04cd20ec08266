package systems

import (
	"math"

	"github.com/pthm-cable/ribbons/components"
)

// Bounds is the canvas extent. Valid head positions are [0,Width) x [0,Height).
type Bounds struct {
	Width, Height float64
}

// Contains reports whether (x, y) lies on the canvas.
func (b Bounds) Contains(x, y float64) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// Kinematics holds the per-ribbon motion parameters shared by every ribbon.
type Kinematics struct {
	Thickness float64 // band width in pixels
	StepSize  float64 // head advance per frame in pixels
}

// AdvanceRibbon applies one frame of the lifecycle state machine to a ribbon.
// It returns false once the ribbon is Dead and should leave the pool.
func AdvanceRibbon(head *components.Head, trail *components.Trail, life *components.Lifecycle,
	field *FlowField, bounds Bounds, k Kinematics) bool {
	switch life.State {
	case components.StateAlive:
		advanceAlive(head, trail, life, field, bounds, k)
	case components.StateDying:
		advanceDying(trail, life)
	}
	return life.State != components.StateDead
}

// advanceAlive moves the head one step along the field, laying down a segment.
// A head off the canvas or off the grid starts dying instead.
func advanceAlive(head *components.Head, trail *components.Trail, life *components.Lifecycle,
	field *FlowField, bounds Bounds, k Kinematics) {
	if !bounds.Contains(head.X, head.Y) {
		startDying(trail, life)
		return
	}
	cx, cy, ok := field.Cell(head.X, head.Y)
	if !ok {
		startDying(trail, life)
		return
	}

	sin, cos := math.Sincos(field.At(cx, cy))
	dir := components.Vec2{X: cos, Y: sin}
	cross := components.Vec2{X: -dir.Y, Y: dir.X}
	half := k.Thickness / 2

	trail.Push(components.Segment{
		Top: components.Vec2{X: head.X + cross.X*half, Y: head.Y + cross.Y*half},
		Bot: components.Vec2{X: head.X - cross.X*half, Y: head.Y - cross.Y*half},
	})

	head.X += dir.X * k.StepSize
	head.Y += dir.Y * k.StepSize
}

// advanceDying drains one segment per frame.
func advanceDying(trail *components.Trail, life *components.Lifecycle) {
	trail.DropOldest()
	if len(trail.Segments) == 0 {
		life.State = components.StateDead
	}
}

// startDying leaves Alive. A ribbon with nothing left to drain is Dead at once.
func startDying(trail *components.Trail, life *components.Lifecycle) {
	if len(trail.Segments) == 0 {
		life.State = components.StateDead
		return
	}
	life.State = components.StateDying
}
