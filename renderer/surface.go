// Package renderer draws ribbons and overlays onto a window or an offscreen image.
package renderer

import (
	"image/color"

	"github.com/pthm-cable/ribbons/components"
)

// Rect is an axis-aligned rectangle in pixels.
type Rect struct {
	X, Y, W, H float64
}

// TextStyle selects a font face.
type TextStyle struct {
	Size float64
	Bold bool
}

// Surface is a 2D drawing target. Coordinates are pixels, y down.
type Surface interface {
	Size() (w, h int)
	Clear(c color.RGBA)

	// Band fills a ribbon polygon built by BandPolygon and strokes its outline.
	// A zero outline width skips the stroke.
	Band(pts []components.Vec2, fill, outline color.RGBA, outlineWidth float64)

	// RoundedBox fills r and strokes its border. A zero width skips the border.
	RoundedBox(r Rect, radius float64, fill, border color.RGBA, borderWidth float64)

	// Text draws s with its top-left corner at (x, y).
	Text(s string, x, y float64, style TextStyle, c color.RGBA)
	MeasureText(s string, style TextStyle) (w, h float64)
}

// BandPolygon appends the closed outline of a trail to dst: every segment's
// top point oldest to newest, then every bottom point newest to oldest.
func BandPolygon(dst []components.Vec2, segments []components.Segment) []components.Vec2 {
	dst = dst[:0]
	for i := range segments {
		dst = append(dst, segments[i].Top)
	}
	for i := len(segments) - 1; i >= 0; i-- {
		dst = append(dst, segments[i].Bot)
	}
	return dst
}

// BandQuad returns the four corners of the strip between segment i and i+1
// of a polygon built by BandPolygon.
func BandQuad(pts []components.Vec2, i int) (topA, topB, botB, botA components.Vec2) {
	n := len(pts) / 2
	return pts[i], pts[i+1], pts[2*n-2-i], pts[2*n-1-i]
}
