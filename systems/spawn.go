package systems

import (
	"math/rand"

	"github.com/pthm-cable/ribbons/components"
	"github.com/pthm-cable/ribbons/feed"
)

// Ribbon is the full record of one ribbon. The pool stores its parts as ECS components.
type Ribbon struct {
	Head  components.Head
	Trail components.Trail
	Life  components.Lifecycle
	Look  components.Appearance
}

// Spawner creates ribbons with random placement, length, depth and color.
type Spawner struct {
	rng    *rand.Rand
	minLen int
	maxLen int
	seq    uint64
}

// NewSpawner creates a spawner drawing trail lengths from [minLen, maxLen].
func NewSpawner(rng *rand.Rand, minLen, maxLen int) *Spawner {
	if minLen < 1 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	return &Spawner{rng: rng, minLen: minLen, maxLen: maxLen}
}

// Spawn returns a new Alive ribbon with an empty trail, placed uniformly over bounds.
func (s *Spawner) Spawn(bounds Bounds, mix feed.Percentages, frame int32) Ribbon {
	s.seq++
	x := s.rng.Float64() * bounds.Width
	y := s.rng.Float64() * bounds.Height
	length := s.minLen + s.rng.Intn(s.maxLen-s.minLen+1)

	return Ribbon{
		Head:  components.Head{Vec2: components.Vec2{X: x, Y: y}},
		Trail: components.Trail{Segments: make([]components.Segment, 0, length+1), Len: length},
		Life:  components.Lifecycle{State: components.StateAlive},
		Look: components.Appearance{
			Class: mix.Pick(s.rng.Float64()),
			Depth: s.rng.Float64(),
			Seq:   s.seq,
			Born:  frame,
		},
	}
}
