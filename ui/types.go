// Package ui provides on-canvas overlays for the ribbon display.
// Overlays draw through renderer.Surface so they work in a window and headless.
package ui

import (
	"fmt"
	"image/color"

	"github.com/pthm-cable/ribbons/config"
)

// PanelAnchor specifies where a panel is anchored on screen.
type PanelAnchor int

const (
	AnchorTopLeft PanelAnchor = iota
	AnchorTopRight
	AnchorBottomLeft
	AnchorBottomRight
)

// ParseAnchor maps a config name such as "top_right" to an anchor.
func ParseAnchor(s string) (PanelAnchor, error) {
	switch s {
	case "top_left":
		return AnchorTopLeft, nil
	case "top_right", "":
		return AnchorTopRight, nil
	case "bottom_left":
		return AnchorBottomLeft, nil
	case "bottom_right":
		return AnchorBottomRight, nil
	}
	return AnchorTopRight, fmt.Errorf("unknown panel anchor %q", s)
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg     color.RGBA
	PanelBorder color.RGBA
	TextColor   color.RGBA

	Margin        float64 // Distance from the anchored screen corner
	Padding       float64 // Inner left padding and right slack
	Swatch        float64 // Colour square side
	SwatchGap     float64 // Space between swatch and label
	SwatchRadius  float64
	CornerRadius  float64
	BorderWidth   float64
	TitleTop      float64 // Title offset from the panel top
	HeaderHeight  float64 // Panel top to the first row
	RowHeight     float64
	SwatchOffset  float64 // Row top to swatch top
	LabelCenter   float64 // Row top to label centre line
	TitleFontSize float64
	FontSize      float64
}

// DefaultTheme returns the legend panel theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:       color.RGBA{R: 255, G: 255, B: 255, A: 238},
		PanelBorder:   color.RGBA{A: 40},
		TextColor:     color.RGBA{A: 255},
		Margin:        24,
		Padding:       16,
		Swatch:        16,
		SwatchGap:     10,
		SwatchRadius:  3,
		CornerRadius:  12,
		BorderWidth:   1,
		TitleTop:      12,
		HeaderHeight:  56,
		RowHeight:     42,
		SwatchOffset:  7,
		LabelCenter:   15,
		TitleFontSize: 22,
		FontSize:      18,
	}
}

// ThemeFromConfig applies panel settings over the default theme.
func ThemeFromConfig(cfg config.PanelConfig) Theme {
	t := DefaultTheme()
	if cfg.Margin > 0 {
		t.Margin = cfg.Margin
	}
	if cfg.Padding > 0 {
		t.Padding = cfg.Padding
	}
	if cfg.Swatch > 0 {
		t.Swatch = cfg.Swatch
	}
	if cfg.TitleSize > 0 {
		t.TitleFontSize = cfg.TitleSize
	}
	if cfg.LabelSize > 0 {
		t.FontSize = cfg.LabelSize
	}
	return t
}
