// Package ui renders the raygui tuning panel and status readout.
package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lagoon-sim/lagoon/fluid"
)

// Actions are the one-shot commands the panel can emit on a frame.
type Actions struct {
	TogglePause bool
	StepOnce    bool
	Reset       bool
}

// TuningPanel exposes the solver parameters as sliders so they can be
// adjusted while the simulation runs.
type TuningPanel struct {
	x, y    float32
	width   float32
	visible bool
}

// NewTuningPanel creates a panel anchored at the given screen position.
func NewTuningPanel(x, y, width float32) *TuningPanel {
	return &TuningPanel{x: x, y: y, width: width, visible: true}
}

// Toggle switches panel visibility.
func (t *TuningPanel) Toggle() {
	t.visible = !t.visible
}

// Draw renders the panel, mutating params through the sliders, and
// returns any button actions. Parameter edits take effect on the next
// step; validation bounds are enforced by the slider ranges.
func (t *TuningPanel) Draw(p *fluid.Params, paused bool, tick int) Actions {
	var actions Actions
	if !t.visible {
		return actions
	}

	const lineHeight = 26
	x, y := t.x, t.y
	w := t.width

	gui.Panel(rl.NewRectangle(x-8, y-30, w+16, 11*lineHeight+56), "Fluid")

	slider := func(label string, value, min, max float64) float64 {
		out := gui.Slider(rl.NewRectangle(x+110, y, w-110, 18),
			label, fmt.Sprintf("%.3g", value), float32(value), float32(min), float32(max))
		y += lineHeight
		return float64(out)
	}

	p.Gravity = slider("gravity", p.Gravity, 0, 25)
	p.SmoothingRadius = slider("radius", p.SmoothingRadius, 0.05, 0.6)
	p.TargetDensity = slider("target density", p.TargetDensity, 0, 1500)
	p.PressureMultiplier = slider("pressure", p.PressureMultiplier, 0, 800)
	p.NearPressureMultiplier = slider("near pressure", p.NearPressureMultiplier, 0, 20)
	p.ViscosityStrength = slider("viscosity", p.ViscosityStrength, 0, 0.1)
	p.CollisionDamping = slider("damping", p.CollisionDamping, 0, 1)

	label := "Pause"
	if paused {
		label = "Resume"
	}
	bw := (w - 16) / 3
	if gui.Button(rl.NewRectangle(x, y, bw, 22), label) {
		actions.TogglePause = true
	}
	if gui.Button(rl.NewRectangle(x+bw+8, y, bw, 22), "Step") {
		actions.StepOnce = true
	}
	if gui.Button(rl.NewRectangle(x+2*(bw+8), y, bw, 22), "Reset") {
		actions.Reset = true
	}
	y += lineHeight

	status := fmt.Sprintf("tick %d", tick)
	if paused {
		status += " (paused)"
	}
	gui.Label(rl.NewRectangle(x, y, w, 18), status)

	return actions
}
