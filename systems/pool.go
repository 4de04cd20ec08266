package systems

import (
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ribbons/components"
	"github.com/pthm-cable/ribbons/feed"
)

// PoolObserver receives lifecycle events from the pool. Used by telemetry.
type PoolObserver interface {
	RibbonSpawned(class components.ColorClass)
	RibbonRemoved(class components.ColorClass, lifetimeFrames int32)
}

// DrawItem is one ribbon in draw order.
// Segments aliases the ribbon's trail and is valid until the next Step.
type DrawItem struct {
	Class    components.ColorClass
	Depth    float64
	Seq      uint64
	Segments []components.Segment
}

// StepResult summarizes one pool frame.
type StepResult struct {
	Alive   int
	Dying   int
	Removed int
	Spawned int
}

// RibbonPool owns a fixed-size population of ribbons.
type RibbonPool struct {
	world   *ecs.World
	mapper  *ecs.Map4[components.Head, components.Trail, components.Lifecycle, components.Appearance]
	filter  *ecs.Filter4[components.Head, components.Trail, components.Lifecycle, components.Appearance]
	spawner *Spawner
	kin     Kinematics

	target   int
	count    int
	observer PoolObserver

	drawList []DrawItem
	dead     []deadRibbon
}

type deadRibbon struct {
	entity ecs.Entity
	look   components.Appearance
}

// NewRibbonPool creates an empty pool that refills to target on every Step.
func NewRibbonPool(target int, spawner *Spawner, kin Kinematics) *RibbonPool {
	world := ecs.NewWorld()
	return &RibbonPool{
		world:   world,
		mapper:  ecs.NewMap4[components.Head, components.Trail, components.Lifecycle, components.Appearance](world),
		filter:  ecs.NewFilter4[components.Head, components.Trail, components.Lifecycle, components.Appearance](world),
		spawner: spawner,
		kin:     kin,
		target:  target,
	}
}

// SetObserver installs an observer for spawn and removal events.
func (p *RibbonPool) SetObserver(o PoolObserver) {
	p.observer = o
}

// Len returns the number of ribbons in the pool.
func (p *RibbonPool) Len() int {
	return p.count
}

// Target returns the pool size maintained at the end of every Step.
func (p *RibbonPool) Target() int {
	return p.target
}

// Step runs one frame: advance every ribbon, remove the dead, refill to
// target, then rebuild the depth-sorted draw list.
func (p *RibbonPool) Step(field *FlowField, bounds Bounds, mix feed.Percentages, frame int32) StepResult {
	var res StepResult

	// 1. Advance, collecting the dead (no structural changes during a query)
	p.dead = p.dead[:0]
	query := p.filter.Query()
	for query.Next() {
		head, trail, life, look := query.Get()
		if !AdvanceRibbon(head, trail, life, field, bounds, p.kin) {
			p.dead = append(p.dead, deadRibbon{entity: query.Entity(), look: *look})
			continue
		}
		if life.State == components.StateAlive {
			res.Alive++
		} else {
			res.Dying++
		}
	}

	// 2. Remove
	for _, d := range p.dead {
		p.remove(d.entity, d.look, frame)
	}
	res.Removed = len(p.dead)

	// 3. Replenish
	res.Spawned = p.fill(bounds, mix, frame)
	res.Alive += res.Spawned

	// 4. Depth order
	p.buildDrawList()
	return res
}

// Respawn discards every ribbon and spawns a full fresh population.
func (p *RibbonPool) Respawn(bounds Bounds, mix feed.Percentages, frame int32) {
	p.dead = p.dead[:0]
	query := p.filter.Query()
	for query.Next() {
		_, _, _, look := query.Get()
		p.dead = append(p.dead, deadRibbon{entity: query.Entity(), look: *look})
	}
	for _, d := range p.dead {
		p.remove(d.entity, d.look, frame)
	}
	p.fill(bounds, mix, frame)
	p.buildDrawList()
}

// DrawList returns the ribbons ordered by ascending depth as of the last Step or Respawn.
func (p *RibbonPool) DrawList() []DrawItem {
	return p.drawList
}

// Ribbons returns a copy of every ribbon record, in storage order.
func (p *RibbonPool) Ribbons() []Ribbon {
	out := make([]Ribbon, 0, p.count)
	query := p.filter.Query()
	for query.Next() {
		head, trail, life, look := query.Get()
		r := Ribbon{Head: *head, Life: *life, Look: *look}
		r.Trail = components.Trail{
			Segments: append([]components.Segment(nil), trail.Segments...),
			Len:      trail.Len,
		}
		out = append(out, r)
	}
	return out
}

func (p *RibbonPool) fill(bounds Bounds, mix feed.Percentages, frame int32) int {
	spawned := 0
	for p.count < p.target {
		p.add(p.spawner.Spawn(bounds, mix, frame))
		spawned++
	}
	return spawned
}

func (p *RibbonPool) add(r Ribbon) {
	p.mapper.NewEntity(&r.Head, &r.Trail, &r.Life, &r.Look)
	p.count++
	if p.observer != nil {
		p.observer.RibbonSpawned(r.Look.Class)
	}
}

func (p *RibbonPool) remove(e ecs.Entity, look components.Appearance, frame int32) {
	p.world.RemoveEntity(e)
	p.count--
	if p.observer != nil {
		p.observer.RibbonRemoved(look.Class, frame-look.Born)
	}
}

func (p *RibbonPool) buildDrawList() {
	p.drawList = p.drawList[:0]
	query := p.filter.Query()
	for query.Next() {
		_, trail, _, look := query.Get()
		p.drawList = append(p.drawList, DrawItem{
			Class:    look.Class,
			Depth:    look.Depth,
			Seq:      look.Seq,
			Segments: trail.Segments,
		})
	}
	sort.SliceStable(p.drawList, func(i, j int) bool {
		a, b := p.drawList[i], p.drawList[j]
		if a.Depth != b.Depth {
			return a.Depth < b.Depth
		}
		return a.Seq < b.Seq
	})
}
