// Flow field preview tool - interactive visualization with sliders.
//
// Usage: go run ./cmd/fieldpreview
package main

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/ribbons/config"
	"github.com/pthm-cable/ribbons/systems"
)

const (
	windowWidth  = 1140
	windowHeight = 720
	previewW     = 760
	previewH     = 570
	panelWidth   = windowWidth - previewW - 30
)

// FieldParams holds the tunable field parameters.
type FieldParams struct {
	Spacing   float32
	Scale     float32
	Seed      float32
	PhaseStep float32
	Simplex   bool
}

func defaultParams(cfg *config.Config) FieldParams {
	return FieldParams{
		Spacing:   float32(cfg.Field.Spacing),
		Scale:     float32(cfg.Field.Scale),
		Seed:      float32(cfg.Field.Seed),
		PhaseStep: float32(cfg.Field.PhaseStep),
		Simplex:   cfg.Field.Noise == "simplex",
	}
}

func (p FieldParams) system() systems.FieldParams {
	noise := "perlin"
	if p.Simplex {
		noise = "simplex"
	}
	return systems.FieldParams{
		Spacing: int(p.Spacing),
		Scale:   float64(p.Scale),
		Seed:    int64(p.Seed),
		Noise:   noise,
	}
}

func main() {
	cfg := config.Default()

	rl.InitWindow(windowWidth, windowHeight, "Flow Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams(cfg)
	field, err := systems.BuildField(previewW, previewH, params.system())
	if err != nil {
		slog.Error("failed to build field", "error", err)
		os.Exit(1)
	}

	var drifted systems.FlowField
	var phase float64
	animating := false
	needsRegen := false

	for !rl.WindowShouldClose() {
		if animating {
			phase += float64(params.PhaseStep)
		}

		if needsRegen {
			field, err = systems.BuildField(previewW, previewH, params.system())
			if err != nil {
				slog.Error("failed to build field", "error", err)
				os.Exit(1)
			}
			needsRegen = false
		}
		systems.DriftFieldInto(&drifted, field, phase)

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Draw preview
		rl.DrawRectangle(10, 10, previewW, previewH, rl.Color{R: 249, G: 249, B: 249, A: 255})
		drawField(&drifted, 10, 10)
		rl.DrawRectangleLines(10, 10, previewW, previewH, rl.DarkGray)

		statsY := int32(previewH + 25)
		rl.DrawText(fmt.Sprintf("Grid: %d x %d cells", drifted.Cols, drifted.Rows), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Phase: %.4f rad", math.Mod(phase, 2*math.Pi)), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewW + 20)
		panelY := float32(10)

		rl.DrawText("Flow Field Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		if v, changed := slider(&panelX, &panelY, "Spacing (cell size px)", "5", "60", params.Spacing, 5, 60, "%.0f"); changed {
			params.Spacing = float32(math.Round(float64(v)))
			needsRegen = true
		}
		if v, changed := slider(&panelX, &panelY, "Scale (noise frequency per cell)", "0.001", "0.05", params.Scale, 0.001, 0.05, "%.4f"); changed {
			params.Scale = v
			needsRegen = true
		}
		if v, changed := slider(&panelX, &panelY, "Seed", "0", "999", params.Seed, 0, 999, "%.0f"); changed {
			params.Seed = float32(math.Round(float64(v)))
			needsRegen = true
		}
		if v, changed := slider(&panelX, &panelY, "Phase step (rad per frame)", "0", "0.02", params.PhaseStep, 0, 0.02, "%.4f"); changed {
			params.PhaseStep = v
		}
		panelY += 10

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset Phase") {
			phase = 0
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(params.Simplex, "Simplex", "Perlin")) {
			params.Simplex = !params.Simplex
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = float32(rl.GetRandomValue(0, 999))
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams(cfg)
			phase = 0
			needsRegen = true
		}
		panelY += 55

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yaml := fieldYAML(params)
		for _, line := range strings.Split(yaml, "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider row and advances the panel cursor.
func slider(panelX, panelY *float32, label, lo, hi string, value, minV, maxV float32, format string) (float32, bool) {
	rl.DrawText(label, int32(*panelX), int32(*panelY), 14, rl.Gray)
	*panelY += 18
	v := gui.SliderBar(
		rl.Rectangle{X: *panelX, Y: *panelY, Width: float32(panelWidth - 90), Height: 20},
		lo, hi,
		value, minV, maxV,
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(*panelX+float32(panelWidth-80)), int32(*panelY+2), 16, rl.DarkGray)
	*panelY += 35
	return v, v != value
}

// drawField draws one direction tick per cell, hued by angle.
func drawField(f *systems.FlowField, offsetX, offsetY float32) {
	half := float64(f.Spacing) * 0.4
	for cy := 0; cy < f.Rows; cy++ {
		for cx := 0; cx < f.Cols; cx++ {
			angle := f.At(cx, cy)
			sin, cos := math.Sincos(angle)
			x := float64(offsetX) + (float64(cx)+0.5)*float64(f.Spacing)
			y := float64(offsetY) + (float64(cy)+0.5)*float64(f.Spacing)

			r, g, b := colorful.Hsv(angle*180/math.Pi, 0.7, 0.75).RGB255()
			col := rl.Color{R: r, G: g, B: b, A: 255}
			start := rl.Vector2{X: float32(x - cos*half), Y: float32(y - sin*half)}
			end := rl.Vector2{X: float32(x + cos*half), Y: float32(y + sin*half)}
			rl.DrawLineEx(start, end, 1.5, col)
			rl.DrawCircleV(end, 1.5, col)
		}
	}
}

func fieldYAML(p FieldParams) string {
	noise := "perlin"
	if p.Simplex {
		noise = "simplex"
	}
	return fmt.Sprintf(`field:
  spacing: %d
  scale: %.4f
  noise: %s
  seed: %d
  phase_step: %.4f`, int(p.Spacing), p.Scale, noise, int(p.Seed), p.PhaseStep)
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
