package systems

import "math"

const twoPi = 2 * math.Pi

// FieldParams controls flow field synthesis.
type FieldParams struct {
	Spacing int     // cell size in pixels
	Scale   float64 // noise frequency per cell index
	Seed    int64
	Noise   string // perlin | simplex
}

// FlowField is a grid of direction angles in radians, row-major.
// A field returned by BuildField is never modified; per-frame drift is
// written into a separate field by DriftFieldInto.
type FlowField struct {
	Cols, Rows int
	Spacing    int
	Angles     []float64
}

// BuildField synthesizes the static direction grid for a canvas.
// Identical arguments always produce an identical grid.
func BuildField(width, height int, p FieldParams) (*FlowField, error) {
	noise, err := NewNoise(p.Noise, p.Seed)
	if err != nil {
		return nil, err
	}

	cols, rows := gridSize(width, height, p.Spacing)
	f := &FlowField{
		Cols:    cols,
		Rows:    rows,
		Spacing: p.Spacing,
		Angles:  make([]float64, cols*rows),
	}

	z := seedOffset(p.Seed)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			n := noise.Noise3D(float64(x)*p.Scale, float64(y)*p.Scale, z)
			f.Angles[y*cols+x] = n * 2 * twoPi
		}
	}
	return f, nil
}

// gridSize returns floor(width/spacing) x floor(height/spacing), clamped at zero.
func gridSize(width, height, spacing int) (cols, rows int) {
	if spacing <= 0 || width <= 0 || height <= 0 {
		return 0, 0
	}
	return width / spacing, height / spacing
}

// seedOffset maps a seed to a z slice of the noise volume in [0,1000).
// Integer z values are avoided since gradient noise is flat on lattice planes.
func seedOffset(seed int64) float64 {
	m := seed % 1000
	if m < 0 {
		m += 1000
	}
	return float64(m) + 0.5
}

// Empty reports whether the field has no cells.
func (f *FlowField) Empty() bool {
	return f == nil || f.Cols == 0 || f.Rows == 0
}

// At returns the angle of cell (cx, cy). The caller must pass a valid cell.
func (f *FlowField) At(cx, cy int) float64 {
	return f.Angles[cy*f.Cols+cx]
}

// Cell maps a canvas position to its grid cell.
// ok is false when the position lies outside the tracked cell range.
func (f *FlowField) Cell(x, y float64) (cx, cy int, ok bool) {
	if f.Empty() || x < 0 || y < 0 {
		return 0, 0, false
	}
	s := float64(f.Spacing)
	cx = int(math.Floor(x / s))
	cy = int(math.Floor(y / s))
	if cx >= f.Cols || cy >= f.Rows {
		return 0, 0, false
	}
	return cx, cy, true
}

// DriftField returns a new field with phase added to every angle, wrapped to [0, 2π).
func DriftField(f *FlowField, phase float64) *FlowField {
	dst := &FlowField{}
	DriftFieldInto(dst, f, phase)
	return dst
}

// DriftFieldInto writes the drifted view of f into dst, reusing dst's buffer.
// dst must not alias f.
func DriftFieldInto(dst, f *FlowField, phase float64) {
	dst.Cols, dst.Rows, dst.Spacing = f.Cols, f.Rows, f.Spacing
	if cap(dst.Angles) < len(f.Angles) {
		dst.Angles = make([]float64, len(f.Angles))
	}
	dst.Angles = dst.Angles[:len(f.Angles)]
	for i, a := range f.Angles {
		dst.Angles[i] = wrapAngle(a + phase)
	}
}

// wrapAngle returns a mod 2π in [0, 2π).
func wrapAngle(a float64) float64 {
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	if a >= twoPi {
		return 0
	}
	return a
}
