//go:build headless

// alpide_visualizer_headless.go - No-op visualizer for headless/CI builds

package main

// AlpideVisualizer is a no-op stand-in for the ebiten-backed visualizer,
// selected by the headless build tag so the simulator binary links without
// a display or GPU present.
type AlpideVisualizer struct {
	chip    *Chip
	fifoCap int
}

// NewAlpideVisualizer returns a headless visualizer that tracks nothing.
func NewAlpideVisualizer(chip *Chip, fifoCap int) *AlpideVisualizer {
	return &AlpideVisualizer{chip: chip, fifoCap: fifoCap}
}

// Start is a no-op in headless builds.
func (v *AlpideVisualizer) Start() {}

// Stop is a no-op in headless builds.
func (v *AlpideVisualizer) Stop() {}
