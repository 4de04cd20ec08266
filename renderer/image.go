package renderer

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/pthm-cable/ribbons/components"
)

// ImageSurface draws into an offscreen RGBA image. Used in headless mode.
type ImageSurface struct {
	dc      *gg.Context
	regular *truetype.Font
	bold    *truetype.Font
	faces   map[TextStyle]font.Face
}

// NewImageSurface creates a w x h surface.
func NewImageSurface(w, h int) (*ImageSurface, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing bold font: %w", err)
	}
	s := &ImageSurface{
		regular: regular,
		bold:    bold,
		faces:   make(map[TextStyle]font.Face),
	}
	s.Resize(w, h)
	return s, nil
}

// Resize replaces the backing image. Contents are discarded.
func (s *ImageSurface) Resize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	s.dc = gg.NewContext(w, h)
}

// Image returns the backing image.
func (s *ImageSurface) Image() image.Image {
	return s.dc.Image()
}

// SavePNG writes the current image to path.
func (s *ImageSurface) SavePNG(path string) error {
	if err := s.dc.SavePNG(path); err != nil {
		return fmt.Errorf("saving frame %s: %w", path, err)
	}
	return nil
}

// EncodePNG writes the current image to w.
func (s *ImageSurface) EncodePNG(w io.Writer) error {
	return s.dc.EncodePNG(w)
}

func (s *ImageSurface) Size() (int, int) {
	return s.dc.Width(), s.dc.Height()
}

func (s *ImageSurface) Clear(c color.RGBA) {
	s.dc.SetColor(c)
	s.dc.Clear()
}

func (s *ImageSurface) Band(pts []components.Vec2, fill, outline color.RGBA, outlineWidth float64) {
	if len(pts) < 3 {
		return
	}
	s.dc.NewSubPath()
	s.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		s.dc.LineTo(p.X, p.Y)
	}
	s.dc.ClosePath()

	s.dc.SetColor(fill)
	if outlineWidth <= 0 || outline.A == 0 {
		s.dc.Fill()
		return
	}
	s.dc.FillPreserve()
	s.dc.SetColor(outline)
	s.dc.SetLineWidth(outlineWidth)
	s.dc.Stroke()
}

func (s *ImageSurface) RoundedBox(r Rect, radius float64, fill, border color.RGBA, borderWidth float64) {
	s.dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, radius)
	s.dc.SetColor(fill)
	if borderWidth <= 0 || border.A == 0 {
		s.dc.Fill()
		return
	}
	s.dc.FillPreserve()
	s.dc.SetColor(border)
	s.dc.SetLineWidth(borderWidth)
	s.dc.Stroke()
}

func (s *ImageSurface) Text(str string, x, y float64, style TextStyle, c color.RGBA) {
	s.dc.SetFontFace(s.face(style))
	s.dc.SetColor(c)
	s.dc.DrawStringAnchored(str, x, y, 0, 1)
}

func (s *ImageSurface) MeasureText(str string, style TextStyle) (float64, float64) {
	s.dc.SetFontFace(s.face(style))
	return s.dc.MeasureString(str)
}

// face returns a cached face for style.
func (s *ImageSurface) face(style TextStyle) font.Face {
	if f, ok := s.faces[style]; ok {
		return f
	}
	ttf := s.regular
	if style.Bold {
		ttf = s.bold
	}
	f := truetype.NewFace(ttf, &truetype.Options{Size: style.Size})
	s.faces[style] = f
	return f
}
