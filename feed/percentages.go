// Package feed supplies the full/partial/manual split that colors new ribbons.
package feed

import (
	"fmt"
	"math"

	"github.com/pthm-cable/ribbons/components"
)

// sumTolerance absorbs rounding in documents whose values were computed upstream.
const sumTolerance = 1e-9

// Percentages is the proportion triple. Manual is always the remainder.
type Percentages struct {
	Full    float64
	Partial float64
	Manual  float64
}

// NewPercentages validates full and partial and derives Manual as 1 - full - partial.
func NewPercentages(full, partial float64) (Percentages, error) {
	if math.IsNaN(full) || math.IsInf(full, 0) || math.IsNaN(partial) || math.IsInf(partial, 0) {
		return Percentages{}, fmt.Errorf("non-finite split full=%v partial=%v", full, partial)
	}
	if full < 0 || partial < 0 {
		return Percentages{}, fmt.Errorf("negative split full=%v partial=%v", full, partial)
	}
	if full+partial > 1+sumTolerance {
		return Percentages{}, fmt.Errorf("split exceeds 1: full=%v partial=%v", full, partial)
	}
	manual := 1 - full - partial
	if manual < 0 {
		manual = 0
	}
	return Percentages{Full: full, Partial: partial, Manual: manual}, nil
}

// Pick maps r in [0,1) to a class: Full below Full, Partial below Full+Partial, Manual otherwise.
func (p Percentages) Pick(r float64) components.ColorClass {
	switch {
	case r < p.Full:
		return components.ClassFull
	case r < p.Full+p.Partial:
		return components.ClassPartial
	}
	return components.ClassManual
}

// Of returns the share of class c.
func (p Percentages) Of(c components.ColorClass) float64 {
	switch c {
	case components.ClassFull:
		return p.Full
	case components.ClassPartial:
		return p.Partial
	}
	return p.Manual
}

// Slice returns the shares indexed by ColorClass.
func (p Percentages) Slice() []float64 {
	return []float64{p.Full, p.Partial, p.Manual}
}
