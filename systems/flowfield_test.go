package systems

import (
	"math"
	"testing"
)

func testFieldParams() FieldParams {
	return FieldParams{Spacing: 20, Scale: 0.01, Seed: 7, Noise: "perlin"}
}

func TestBuildFieldDimensions(t *testing.T) {
	tests := []struct {
		w, h, spacing int
		cols, rows    int
	}{
		{800, 600, 20, 40, 30},
		{810, 615, 20, 40, 30},
		{19, 600, 20, 0, 30},
		{0, 600, 20, 0, 0},
		{1280, 720, 64, 20, 11},
	}
	for _, tc := range tests {
		p := testFieldParams()
		p.Spacing = tc.spacing
		f, err := BuildField(tc.w, tc.h, p)
		if err != nil {
			t.Fatalf("BuildField: %v", err)
		}
		if f.Cols != tc.cols || f.Rows != tc.rows {
			t.Errorf("%dx%d/%d: expected %dx%d grid, got %dx%d",
				tc.w, tc.h, tc.spacing, tc.cols, tc.rows, f.Cols, f.Rows)
		}
		if len(f.Angles) != f.Cols*f.Rows {
			t.Errorf("expected %d angles, got %d", f.Cols*f.Rows, len(f.Angles))
		}
	}
}

func TestBuildFieldDeterministic(t *testing.T) {
	for _, kind := range []string{"perlin", "simplex"} {
		p := testFieldParams()
		p.Noise = kind
		a, err := BuildField(800, 600, p)
		if err != nil {
			t.Fatal(err)
		}
		b, _ := BuildField(800, 600, p)
		for i := range a.Angles {
			if a.Angles[i] != b.Angles[i] {
				t.Fatalf("%s: angle %d differs: %v vs %v", kind, i, a.Angles[i], b.Angles[i])
			}
		}
	}
}

func TestBuildFieldSeedMatters(t *testing.T) {
	p := testFieldParams()
	a, _ := BuildField(400, 400, p)
	p.Seed = 8
	b, _ := BuildField(400, 400, p)

	same := 0
	for i := range a.Angles {
		if a.Angles[i] == b.Angles[i] {
			same++
		}
	}
	if same == len(a.Angles) {
		t.Error("expected different seeds to produce different fields")
	}
}

func TestBuildFieldAngleRange(t *testing.T) {
	f, _ := BuildField(800, 600, testFieldParams())
	for i, a := range f.Angles {
		if a < 0 || a > 4*math.Pi {
			t.Fatalf("angle %d out of [0, 4pi]: %v", i, a)
		}
	}
}

func TestBuildFieldIsSmooth(t *testing.T) {
	f, _ := BuildField(800, 600, testFieldParams())
	// Adjacent cells differ by one noise step of 0.01; the angle change stays small.
	for y := 0; y < f.Rows; y++ {
		for x := 1; x < f.Cols; x++ {
			if d := math.Abs(f.At(x, y) - f.At(x-1, y)); d > 0.5 {
				t.Fatalf("neighbouring cells (%d,%d) jump by %v rad", x, y, d)
			}
		}
	}
}

func TestBuildFieldUnknownNoise(t *testing.T) {
	p := testFieldParams()
	p.Noise = "worley"
	if _, err := BuildField(100, 100, p); err == nil {
		t.Error("expected error for unknown noise")
	}
}

func TestCell(t *testing.T) {
	f, _ := BuildField(810, 600, testFieldParams()) // 40x30, 10px strip past the grid

	tests := []struct {
		x, y   float64
		cx, cy int
		ok     bool
	}{
		{0, 0, 0, 0, true},
		{19.9, 20, 0, 1, true},
		{799.9, 599.9, 39, 29, true},
		{805, 100, 0, 0, false},
		{-0.1, 100, 0, 0, false},
		{100, 600, 0, 0, false},
	}
	for _, tc := range tests {
		cx, cy, ok := f.Cell(tc.x, tc.y)
		if ok != tc.ok || (ok && (cx != tc.cx || cy != tc.cy)) {
			t.Errorf("Cell(%v,%v) = (%d,%d,%v), want (%d,%d,%v)", tc.x, tc.y, cx, cy, ok, tc.cx, tc.cy, tc.ok)
		}
	}

	empty, _ := BuildField(0, 0, testFieldParams())
	if _, _, ok := empty.Cell(0, 0); ok {
		t.Error("expected no cell in an empty field")
	}
}

func TestDriftField(t *testing.T) {
	f, _ := BuildField(200, 200, testFieldParams())
	orig := append([]float64(nil), f.Angles...)

	phase := 1.25
	d := DriftField(f, phase)
	for i, a := range f.Angles {
		want := math.Mod(a+phase, 2*math.Pi)
		if math.Abs(d.Angles[i]-want) > 1e-12 {
			t.Fatalf("cell %d: expected %v, got %v", i, want, d.Angles[i])
		}
		if d.Angles[i] < 0 || d.Angles[i] >= 2*math.Pi {
			t.Fatalf("cell %d out of [0, 2pi): %v", i, d.Angles[i])
		}
	}

	// Static grid untouched
	for i := range orig {
		if f.Angles[i] != orig[i] {
			t.Fatal("DriftField mutated the static field")
		}
	}
}

func TestDriftFieldIntoReusesBuffer(t *testing.T) {
	f, _ := BuildField(200, 200, testFieldParams())
	var dst FlowField
	DriftFieldInto(&dst, f, 0.1)
	buf := &dst.Angles[0]
	DriftFieldInto(&dst, f, 0.2)
	if &dst.Angles[0] != buf {
		t.Error("expected buffer reuse across frames")
	}
	if dst.Cols != f.Cols || dst.Rows != f.Rows || dst.Spacing != f.Spacing {
		t.Errorf("shape mismatch: %dx%d/%d", dst.Cols, dst.Rows, dst.Spacing)
	}
}

func TestWrapAngle(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{2 * math.Pi, 0},
		{-0.5, 2*math.Pi - 0.5},
		{5 * math.Pi, math.Pi},
	}
	for _, tc := range tests {
		if got := wrapAngle(tc.in); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("wrapAngle(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
