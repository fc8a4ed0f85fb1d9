package sim

import rl "github.com/gen2brain/raylib-go/raylib"

// HandleInput processes simulation keyboard input. Camera input is
// handled by the caller, which owns the camera.
func (s *Sim) HandleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		s.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyN) {
		s.RequestStep()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		s.Reset()
	}

	// Steps-per-frame control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		s.AdjustSpeed(-1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		s.AdjustSpeed(1)
	}
}
