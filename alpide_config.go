// alpide_config.go - Chip configuration options

package main

// AlpideConfig holds every configurable aspect of the chip, set once at
// construction time. There is no register-level reconfiguration modeled
// here beyond trigger acceptance, matching the core's scope.
type AlpideConfig struct {
	ChipID int

	RegionFIFOSize int
	DMUFIFOSize    int
	DTUDelayCycles int

	StrobeLengthNS   uint64
	StrobeExtension  bool
	EnableClustering bool
	ContinuousMode   bool

	// MatrixReadoutSpeedFast selects 1 cycle per region's start-readout
	// delay when true, 2 cycles when false.
	MatrixReadoutSpeedFast bool
}

// DefaultAlpideConfig returns the chip's power-on configuration: triggered
// mode, clustering enabled, fast matrix readout, and FIFO sizes matched to
// the frame FIFOs' 64-entry depth so the DMU/region FIFOs don't become the
// bottleneck before the frame FIFOs do.
func DefaultAlpideConfig(chipID int) *AlpideConfig {
	return &AlpideConfig{
		ChipID:                 chipID,
		RegionFIFOSize:         64,
		DMUFIFOSize:            64,
		DTUDelayCycles:         0,
		StrobeLengthNS:         100,
		StrobeExtension:        false,
		EnableClustering:       true,
		ContinuousMode:         false,
		MatrixReadoutSpeedFast: true,
	}
}
