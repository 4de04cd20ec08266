package ui

import (
	"fmt"
	"image/color"
	"math"

	"github.com/pthm-cable/ribbons/components"
	"github.com/pthm-cable/ribbons/feed"
	"github.com/pthm-cable/ribbons/renderer"
)

// TextMeasurer reports the pixel size of a string.
type TextMeasurer interface {
	MeasureText(s string, style renderer.TextStyle) (w, h float64)
}

// LegendRow is the laid-out position of one class entry.
type LegendRow struct {
	Class  components.ColorClass
	Label  string
	Color  color.RGBA
	Swatch renderer.Rect
	LabelX float64
	LabelY float64 // top of the label text, centred on the swatch line
	LabelH float64
}

// LegendLayout is the computed geometry of the legend panel.
type LegendLayout struct {
	Box    renderer.Rect
	TitleX float64
	TitleY float64
	Rows   []LegendRow
}

// LegendPanel draws the title and one swatch plus percentage line per class.
type LegendPanel struct {
	Title   string
	Anchor  PanelAnchor
	Theme   Theme
	Palette [components.NumClasses]color.RGBA
}

// NewLegendPanel creates a legend panel.
func NewLegendPanel(title string, anchor PanelAnchor, theme Theme, palette [components.NumClasses]color.RGBA) *LegendPanel {
	return &LegendPanel{Title: title, Anchor: anchor, Theme: theme, Palette: palette}
}

// FormatShare renders a share as a percentage with one decimal, rounding half away from zero.
func FormatShare(v float64) string {
	return fmt.Sprintf("%.1f%%", math.Round(v*1000)/10)
}

// Label returns the legend text for class c, e.g. "Full: 18.5%".
func Label(c components.ColorClass, pct feed.Percentages) string {
	return c.String() + ": " + FormatShare(pct.Of(c))
}

// Layout computes the panel geometry for a screen of the given size.
func (p *LegendPanel) Layout(m TextMeasurer, screenW, screenH int, pct feed.Percentages) LegendLayout {
	t := p.Theme
	titleStyle := renderer.TextStyle{Size: t.TitleFontSize, Bold: true}
	labelStyle := renderer.TextStyle{Size: t.FontSize}

	textBlock, _ := m.MeasureText(p.Title, titleStyle)
	rows := make([]LegendRow, components.NumClasses)
	for c := components.ColorClass(0); c < components.NumClasses; c++ {
		label := Label(c, pct)
		w, h := m.MeasureText(label, labelStyle)
		textBlock = math.Max(textBlock, w)
		rows[c] = LegendRow{Class: c, Label: label, Color: p.Palette[c], LabelH: h}
	}

	pillar := t.Swatch + t.SwatchGap
	w := pillar + textBlock + t.Padding
	h := t.HeaderHeight + float64(len(rows))*t.RowHeight

	var x, y float64
	switch p.Anchor {
	case AnchorTopLeft:
		x, y = t.Margin, t.Margin
	case AnchorBottomLeft:
		x, y = t.Margin, float64(screenH)-h-t.Margin
	case AnchorBottomRight:
		x, y = float64(screenW)-w-t.Margin, float64(screenH)-h-t.Margin
	default:
		x, y = float64(screenW)-w-t.Margin, t.Margin
	}

	for i := range rows {
		top := y + t.HeaderHeight + float64(i)*t.RowHeight
		rows[i].Swatch = renderer.Rect{X: x + t.Padding, Y: top + t.SwatchOffset, W: t.Swatch, H: t.Swatch}
		rows[i].LabelX = x + t.Padding + pillar
		rows[i].LabelY = top + t.LabelCenter - rows[i].LabelH/2
	}

	return LegendLayout{
		Box:    renderer.Rect{X: x, Y: y, W: w, H: h},
		TitleX: x + t.Padding,
		TitleY: y + t.TitleTop,
		Rows:   rows,
	}
}

// Draw renders the panel onto s.
func (p *LegendPanel) Draw(s renderer.Surface, pct feed.Percentages) LegendLayout {
	t := p.Theme
	w, h := s.Size()
	l := p.Layout(s, w, h, pct)

	s.RoundedBox(l.Box, t.CornerRadius, t.PanelBg, t.PanelBorder, t.BorderWidth)
	s.Text(p.Title, l.TitleX, l.TitleY, renderer.TextStyle{Size: t.TitleFontSize, Bold: true}, t.TextColor)

	labelStyle := renderer.TextStyle{Size: t.FontSize}
	for _, row := range l.Rows {
		s.RoundedBox(row.Swatch, t.SwatchRadius, row.Color, color.RGBA{}, 0)
		s.Text(row.Label, row.LabelX, row.LabelY, labelStyle, t.TextColor)
	}
	return l
}
