// Noise preview tool - interactive view of one z-slice of the noise field.
//
// Usage: go run ./cmd/noisepreview [-config path]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/perlin/camera"
	"github.com/pthm-cable/perlin/config"
	"github.com/pthm-cable/perlin/field"
	"github.com/pthm-cable/perlin/noise"
	"github.com/pthm-cable/perlin/telemetry"
)

const (
	margin = 10
	maxZ   = 16
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	pc := config.Cfg().Preview

	previewSize := pc.Height - 2*margin - 60
	panelWidth := pc.Width - previewSize - 3*margin

	rl.InitWindow(int32(pc.Width), int32(pc.Height), "Perlin Noise Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(pc.TargetFPS))

	p := noise.New()
	sampler := field.NewSampler(p, config.Cfg().Field.Workers)
	cam := camera.New(float64(previewSize), float64(previewSize), pc.Zoom)
	perf := telemetry.NewPerfCollector(config.Cfg().Telemetry.PerfCollectorWindow)

	// Create texture for rendering
	texSize := pc.TextureSize
	img := rl.GenImageColor(texSize, texSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	var (
		z          float32 = float32(config.Cfg().Field.Z)
		animating  bool
		values     []float64
		stats      telemetry.FieldStats
		needsRegen = true
	)

	for !rl.WindowShouldClose() {
		perf.RecordFrame()

		// Animation
		if animating {
			z += rl.GetFrameTime() * 0.25
			if z > maxZ {
				z -= maxZ
			}
			needsRegen = true
		}

		// Pan by dragging inside the preview, zoom with the wheel
		mouse := rl.GetMousePosition()
		inPreview := mouse.X >= margin && mouse.X < float32(margin+previewSize) &&
			mouse.Y >= margin && mouse.Y < float32(margin+previewSize)
		if inPreview && rl.IsMouseButtonDown(rl.MouseButtonLeft) {
			d := rl.GetMouseDelta()
			if d.X != 0 || d.Y != 0 {
				cam.Pan(-float64(d.X), -float64(d.Y))
				needsRegen = true
			}
		}
		if wheel := rl.GetMouseWheelMove(); inPreview && wheel != 0 {
			cam.ZoomBy(1 + 0.1*float64(wheel))
			needsRegen = true
		}

		// Regenerate if needed
		if needsRegen {
			perf.StartPass()
			perf.StartPhase(telemetry.PhaseField)
			spec := cam.Slice(texSize, texSize, float64(z))
			values = sampler.Sample(spec, values)
			perf.AddEvaluations(len(values))
			perf.StartPhase(telemetry.PhaseStats)
			stats = telemetry.ComputeFieldStats(spec, values)
			perf.EndPass()

			updateTexture(texture, values)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Draw preview
		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(texSize), Height: float32(texSize)},
			rl.Rectangle{X: margin, Y: margin, Width: float32(previewSize), Height: float32(previewSize)},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(margin, margin, int32(previewSize), int32(previewSize), rl.DarkGray)

		// Draw stats
		statsY := int32(margin + previewSize + 10)
		rl.DrawText(fmt.Sprintf("Min: %.3f  Max: %.3f  Mean: %.3f  Std: %.3f", stats.Min, stats.Max, stats.Mean, stats.StdDev), margin+5, statsY, 16, rl.DarkGray)
		ps := perf.Stats()
		rl.DrawText(fmt.Sprintf("Regen: %s  (%.1f M evals/s)  FPS: %.0f", ps.AvgPassDuration, ps.EvalsPerSecond/1e6, ps.FPS), margin+5, statsY+20, 16, rl.DarkGray)
		if inPreview {
			lx, ly := cam.ScreenToLattice(float64(mouse.X-margin), float64(mouse.Y-margin))
			v := p.Noise(lx, ly, float64(z))
			rl.DrawText(fmt.Sprintf("noise(%.3f, %.3f, %.3f) => %.5f", lx, ly, z, v), margin+5, statsY+40, 16, rl.DarkGray)
		}

		// Control panel
		panelX := float32(margin*2 + previewSize)
		panelY := float32(margin)

		rl.DrawText("Slice Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		// Z slider
		rl.DrawText("Z (slice depth)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newZ := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", fmt.Sprint(maxZ),
			z, 0, maxZ,
		)
		rl.DrawText(fmt.Sprintf("%.3f", z), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newZ != z {
			z = newZ
			needsRegen = true
		}
		panelY += 35

		// Zoom slider
		rl.DrawText("Zoom (pixels per lattice unit)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		zoom := float32(cam.Zoom)
		newZoom := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			fmt.Sprintf("%.0f", cam.MinZoom), "256",
			zoom, float32(cam.MinZoom), 256,
		)
		rl.DrawText(fmt.Sprintf("%.1f", cam.Zoom), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newZoom != zoom {
			cam.SetZoom(float64(newZoom))
			needsRegen = true
		}
		panelY += 35

		// Camera position
		minX, minY, maxX, maxY := cam.VisibleBounds()
		rl.DrawText(fmt.Sprintf("Center: (%.2f, %.2f)", cam.X, cam.Y), int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 20
		rl.DrawText(fmt.Sprintf("View: [%.1f, %.1f] x [%.1f, %.1f]", minX, maxX, minY, maxY), int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 30

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate Z")) {
			animating = !animating
		}

		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset View") {
			cam.Reset()
			z = float32(config.Cfg().Field.Z)
			needsRegen = true
		}
		panelY += 45

		// Legend
		rl.DrawText("Value scale", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 22
		for i := 0; i < panelWidth-20; i++ {
			v := float64(i)/float64(panelWidth-21)*2 - 1
			rl.DrawLine(int32(panelX)+int32(i), int32(panelY), int32(panelX)+int32(i), int32(panelY)+16, valueColor(v))
		}
		panelY += 20
		rl.DrawText("-1", int32(panelX), int32(panelY), 12, rl.Gray)
		rl.DrawText("+1", int32(panelX)+int32(panelWidth)-40, int32(panelY), 12, rl.Gray)

		// Instructions
		rl.DrawText("Drag to pan, wheel to zoom, C to copy view as YAML", int32(panelX), int32(pc.Height-30), 12, rl.LightGray)

		// Copy current slice to clipboard on C key
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(fmt.Sprintf(`field:
  origin_x: %.4f
  origin_y: %.4f
  z: %.4f
  scale: %.6f`,
				minX, minY, z, (maxX-minX)/float64(config.Cfg().Field.Width)))
		}

		rl.EndDrawing()
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// updateTexture updates the GPU texture from the sampled values.
func updateTexture(texture rl.Texture2D, values []float64) {
	pixels := make([]color.RGBA, len(values))
	for i, v := range values {
		pixels[i] = valueColor(v)
	}
	rl.UpdateTexture(texture, pixels)
}

// valueColor maps a noise value in [-1, 1] onto a
// dark blue -> cyan -> yellow -> white gradient.
func valueColor(n float64) color.RGBA {
	v := float32((n + 1) / 2)
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}

	var r, g, b uint8
	if v < 0.25 {
		// Dark blue to blue
		t := v / 0.25
		r = uint8(10 + t*30)
		g = uint8(20 + t*60)
		b = uint8(60 + t*100)
	} else if v < 0.5 {
		// Blue to cyan
		t := (v - 0.25) / 0.25
		r = uint8(40 + t*20)
		g = uint8(80 + t*120)
		b = uint8(160 + t*40)
	} else if v < 0.75 {
		// Cyan to yellow-green
		t := (v - 0.5) / 0.25
		r = uint8(60 + t*140)
		g = uint8(200 - t*40)
		b = uint8(200 - t*150)
	} else {
		// Yellow-green to white
		t := (v - 0.75) / 0.25
		r = uint8(200 + t*55)
		g = uint8(160 + t*95)
		b = uint8(50 + t*205)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
