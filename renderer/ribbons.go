package renderer

import (
	"image/color"

	"github.com/pthm-cable/ribbons/components"
	"github.com/pthm-cable/ribbons/systems"
)

// Palette holds the display colours.
type Palette struct {
	Background   color.RGBA
	Outline      color.RGBA
	OutlineWidth float64
	Classes      [components.NumClasses]color.RGBA
}

// Class returns the fill colour of class c.
func (p Palette) Class(c components.ColorClass) color.RGBA {
	if c < components.NumClasses {
		return p.Classes[c]
	}
	return p.Classes[components.ClassManual]
}

// RibbonRenderer draws ribbon bands in draw-list order.
type RibbonRenderer struct {
	palette Palette
	band    []components.Vec2
}

// NewRibbonRenderer creates a ribbon renderer.
func NewRibbonRenderer(p Palette) *RibbonRenderer {
	return &RibbonRenderer{palette: p}
}

// Draw renders every item with at least two segments, back to front.
// Returns the number of ribbons drawn.
func (r *RibbonRenderer) Draw(s Surface, items []systems.DrawItem) int {
	drawn := 0
	for i := range items {
		item := &items[i]

		// A band needs two segments to have area
		if len(item.Segments) < 2 {
			continue
		}

		r.band = BandPolygon(r.band, item.Segments)
		s.Band(r.band, r.palette.Class(item.Class), r.palette.Outline, r.palette.OutlineWidth)
		drawn++
	}
	return drawn
}
