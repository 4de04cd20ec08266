package systems

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/ojrac/opensimplex-go"
)

// Noise is a coherent pseudo-random function, continuous in its inputs,
// returning values in [0,1].
type Noise interface {
	Noise3D(x, y, z float64) float64
}

// NewNoise returns the named noise implementation seeded with seed.
func NewNoise(kind string, seed int64) (Noise, error) {
	switch kind {
	case "perlin", "":
		return NewPerlinNoise(seed), nil
	case "simplex":
		return NewSimplexNoise(seed), nil
	}
	return nil, fmt.Errorf("unknown noise %q", kind)
}

// PerlinNoise generates improved Perlin noise from a seeded permutation table.
type PerlinNoise struct {
	perm [512]int
}

// NewPerlinNoise creates a new Perlin noise generator.
func NewPerlinNoise(seed int64) *PerlinNoise {
	p := &PerlinNoise{}
	rng := rand.New(rand.NewSource(seed))

	var perm [256]int
	for i := range perm {
		perm[i] = i
	}

	// Shuffle
	for i := len(perm) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}

	// Duplicate so corner hashes never need wrapping
	for i := 0; i < 256; i++ {
		p.perm[i] = perm[i]
		p.perm[i+256] = perm[i]
	}

	return p
}

// perlinGradients are the cube edge midpoints, padded to 16 so a hash picks one with &15.
var perlinGradients = [16][3]float64{
	{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
	{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
	{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
	{1, 1, 0}, {0, -1, 1}, {-1, 1, 0}, {0, -1, -1},
}

// Noise3D returns a noise value in [0,1] for 3D coordinates.
// Lattice points map to exactly 0.5.
func (p *PerlinNoise) Noise3D(x, y, z float64) float64 {
	fx, fy, fz := math.Floor(x), math.Floor(y), math.Floor(z)
	cx, cy, cz := int(fx)&255, int(fy)&255, int(fz)&255
	dx, dy, dz := x-fx, y-fy, z-fz

	// Corner i sits at offset (i&1, i>>1&1, i>>2&1) from the cell origin.
	var c [8]float64
	for i := range c {
		ox, oy, oz := i&1, i>>1&1, i>>2&1
		g := perlinGradients[p.corner(cx+ox, cy+oy, cz+oz)&15]
		c[i] = g[0]*(dx-float64(ox)) + g[1]*(dy-float64(oy)) + g[2]*(dz-float64(oz))
	}

	// Collapse along x, then y, then z.
	u, v, w := smootherstep(dx), smootherstep(dy), smootherstep(dz)
	for i := 0; i < 4; i++ {
		c[i] = mix(c[2*i], c[2*i+1], u)
	}
	for i := 0; i < 2; i++ {
		c[i] = mix(c[2*i], c[2*i+1], v)
	}
	return to01(mix(c[0], c[1], w))
}

// corner hashes lattice coordinates already reduced to [0,256].
func (p *PerlinNoise) corner(x, y, z int) int {
	return p.perm[p.perm[p.perm[x]+y]+z]
}

// SimplexNoise wraps OpenSimplex noise.
type SimplexNoise struct {
	noise opensimplex.Noise
}

// NewSimplexNoise creates a new OpenSimplex noise generator.
func NewSimplexNoise(seed int64) *SimplexNoise {
	return &SimplexNoise{noise: opensimplex.New(seed)}
}

// Noise3D returns a noise value in [0,1] for 3D coordinates.
func (s *SimplexNoise) Noise3D(x, y, z float64) float64 {
	return to01(s.noise.Eval3(x, y, z))
}

func to01(n float64) float64 {
	v := (n + 1) * 0.5
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func smootherstep(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func mix(a, b, t float64) float64 {
	return a + t*(b-a)
}
