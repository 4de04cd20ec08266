package main

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/pthm-cable/ribbons/components"
	"github.com/pthm-cable/ribbons/renderer"
)

// fontBaseSize is the rasterization size of the loaded fonts; smaller sizes are scaled down.
const fontBaseSize = 48

// roundedSegments is the arc tessellation for rounded rectangles.
const roundedSegments = 8

// RaylibSurface draws into the current raylib window.
// Create it after rl.InitWindow and call Unload before rl.CloseWindow.
type RaylibSurface struct {
	regular rl.Font
	bold    rl.Font
}

// NewRaylibSurface loads the Go fonts into GPU textures.
func NewRaylibSurface() *RaylibSurface {
	return &RaylibSurface{
		regular: rl.LoadFontFromMemory(".ttf", goregular.TTF, fontBaseSize, nil),
		bold:    rl.LoadFontFromMemory(".ttf", gobold.TTF, fontBaseSize, nil),
	}
}

// Unload releases font textures.
func (s *RaylibSurface) Unload() {
	rl.UnloadFont(s.regular)
	rl.UnloadFont(s.bold)
}

func (s *RaylibSurface) Size() (int, int) {
	return rl.GetScreenWidth(), rl.GetScreenHeight()
}

func (s *RaylibSurface) Clear(c color.RGBA) {
	rl.ClearBackground(c)
}

// Band fills the polygon as one quad per consecutive segment pair.
func (s *RaylibSurface) Band(pts []components.Vec2, fill, outline color.RGBA, outlineWidth float64) {
	n := len(pts) / 2
	for i := 0; i+1 < n; i++ {
		topA, topB, botB, botA := renderer.BandQuad(pts, i)
		drawTriangle(topA, topB, botB, fill)
		drawTriangle(topA, botB, botA, fill)
	}

	if outlineWidth <= 0 || outline.A == 0 {
		return
	}
	thick := float32(outlineWidth)
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		rl.DrawLineEx(vec(a), vec(b), thick, outline)
	}
}

// drawTriangle submits a triangle in the counter-clockwise order raylib culls against.
func drawTriangle(a, b, c components.Vec2, col color.RGBA) {
	cross := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	if cross > 0 {
		b, c = c, b
	}
	rl.DrawTriangle(vec(a), vec(b), vec(c), col)
}

// RoundedBox draws the border as a slightly larger box under the fill.
func (s *RaylibSurface) RoundedBox(r renderer.Rect, radius float64, fill, border color.RGBA, borderWidth float64) {
	if borderWidth > 0 && border.A > 0 {
		outer := renderer.Rect{X: r.X - borderWidth, Y: r.Y - borderWidth, W: r.W + 2*borderWidth, H: r.H + 2*borderWidth}
		rl.DrawRectangleRounded(rect(outer), roundness(outer, radius+borderWidth), roundedSegments, border)
	}
	rl.DrawRectangleRounded(rect(r), roundness(r, radius), roundedSegments, fill)
}

func (s *RaylibSurface) Text(str string, x, y float64, style renderer.TextStyle, c color.RGBA) {
	rl.DrawTextEx(s.font(style), str, rl.Vector2{X: float32(x), Y: float32(y)}, float32(style.Size), 0, c)
}

func (s *RaylibSurface) MeasureText(str string, style renderer.TextStyle) (float64, float64) {
	size := rl.MeasureTextEx(s.font(style), str, float32(style.Size), 0)
	return float64(size.X), float64(size.Y)
}

func (s *RaylibSurface) font(style renderer.TextStyle) rl.Font {
	if style.Bold {
		return s.bold
	}
	return s.regular
}

// roundness converts a corner radius to raylib's fraction of the shorter side.
func roundness(r renderer.Rect, radius float64) float32 {
	short := math.Min(r.W, r.H)
	if short <= 0 {
		return 0
	}
	return float32(math.Min(1, 2*radius/short))
}

func vec(p components.Vec2) rl.Vector2 {
	return rl.Vector2{X: float32(p.X), Y: float32(p.Y)}
}

func rect(r renderer.Rect) rl.Rectangle {
	return rl.Rectangle{X: float32(r.X), Y: float32(r.Y), Width: float32(r.W), Height: float32(r.H)}
}
