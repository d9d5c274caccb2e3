//go:build !headless

// alpide_visualizer.go - Live ebiten view of matrix occupancy, MEB usage, and region FIFO levels

package main

import (
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	visOccupancyHeight = 64
	visMEBHeight       = 24
	visFIFOHeight      = 160
	visWidth           = doubleColsTotal * 2 // 2px per double column
	visHeight          = visOccupancyHeight + visMEBHeight + visFIFOHeight
)

// AlpideVisualizer renders a chip's live internal state: an occupancy
// raster of the oldest MEB slice's double columns, a 3-slot MEB usage
// strip, and a bar per region FIFO's fill level. Polled once per Update
// call, independent of the chip's own 40MHz clock rate.
type AlpideVisualizer struct {
	chip    *Chip
	fifoCap int

	mu          sync.RWMutex
	frameBuffer []byte
	window      *ebiten.Image
	running     bool
}

// NewAlpideVisualizer creates a visualizer for chip. fifoCap is the
// configured region FIFO capacity, used to scale the FIFO bars.
func NewAlpideVisualizer(chip *Chip, fifoCap int) *AlpideVisualizer {
	return &AlpideVisualizer{
		chip:        chip,
		fifoCap:     fifoCap,
		frameBuffer: make([]byte, visWidth*visHeight*4),
		running:     true,
	}
}

// Start opens the visualizer window and runs the ebiten game loop in a
// goroutine, returning immediately.
func (v *AlpideVisualizer) Start() {
	ebiten.SetWindowSize(visWidth, visHeight)
	ebiten.SetWindowTitle("alpide chip monitor")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetRunnableOnUnfocused(true)
	go func() {
		_ = ebiten.RunGame(v)
	}()
}

// Stop signals the game loop to terminate on its next Update.
func (v *AlpideVisualizer) Stop() {
	v.mu.Lock()
	v.running = false
	v.mu.Unlock()
}

// Update samples the chip's current state and redraws the frame buffer.
// Ebiten calls this once per tick (default 60Hz), far slower than the
// chip's own clock, so it always sees a coherent snapshot rather than a
// mid-cycle state.
func (v *AlpideVisualizer) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	v.mu.RLock()
	running := v.running
	v.mu.RUnlock()
	if !running {
		return ebiten.Termination
	}

	occupancy := v.chip.MatrixOccupancy()
	fifoLevels := v.chip.RegionFIFOOccupancy()
	mebSlices := v.chip.MEBSliceCount()

	v.mu.Lock()
	v.renderOccupancy(occupancy)
	v.renderMEB(mebSlices)
	v.renderFIFOBars(fifoLevels)
	v.mu.Unlock()
	return nil
}

func (v *AlpideVisualizer) setPixel(x, y int, r, g, b, a byte) {
	if x < 0 || x >= visWidth || y < 0 || y >= visHeight {
		return
	}
	off := (y*visWidth + x) * 4
	v.frameBuffer[off] = r
	v.frameBuffer[off+1] = g
	v.frameBuffer[off+2] = b
	v.frameBuffer[off+3] = a
}

func (v *AlpideVisualizer) fillRect(x0, y0, w, h int, r, g, b, a byte) {
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			v.setPixel(x, y, r, g, b, a)
		}
	}
}

func (v *AlpideVisualizer) renderOccupancy(occupancy [doubleColsTotal]int) {
	for dc, count := range occupancy {
		intensity := byte(0)
		switch {
		case count <= 0:
			intensity = 16
		case count >= 8:
			intensity = 255
		default:
			intensity = byte(16 + count*30)
		}
		v.fillRect(dc*2, 0, 2, visOccupancyHeight, intensity, 32, 255-intensity, 255)
	}
}

func (v *AlpideVisualizer) renderMEB(sliceCount int) {
	y0 := visOccupancyHeight
	slotW := visWidth / maxMEBSlices
	for i := 0; i < maxMEBSlices; i++ {
		if i < sliceCount {
			v.fillRect(i*slotW, y0, slotW-2, visMEBHeight, 255, 200, 0, 255)
		} else {
			v.fillRect(i*slotW, y0, slotW-2, visMEBHeight, 48, 48, 48, 255)
		}
	}
}

func (v *AlpideVisualizer) renderFIFOBars(levels [numRegions]int) {
	y0 := visOccupancyHeight + visMEBHeight
	v.fillRect(0, y0, visWidth, visFIFOHeight, 0, 0, 0, 255)
	barW := visWidth / numRegions
	cap := v.fifoCap
	if cap <= 0 {
		cap = 1
	}
	for region, level := range levels {
		barH := (level * visFIFOHeight) / cap
		if barH > visFIFOHeight {
			barH = visFIFOHeight
		}
		r, g, b := byte(0), byte(200), byte(0)
		if cap > 0 && level*4 >= cap*3 {
			r, g, b = 220, 40, 40
		}
		v.fillRect(region*barW, y0+visFIFOHeight-barH, barW-1, barH, r, g, b, 255)
	}
}

// Draw blits the last frame buffer built by Update.
func (v *AlpideVisualizer) Draw(screen *ebiten.Image) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.window == nil {
		v.window = ebiten.NewImage(visWidth, visHeight)
	}
	v.window.WritePixels(v.frameBuffer)
	screen.DrawImage(v.window, nil)
}

// Layout fixes the logical screen size regardless of window resizing.
func (v *AlpideVisualizer) Layout(_, _ int) (int, int) {
	return visWidth, visHeight
}

func (v *AlpideVisualizer) String() string {
	return fmt.Sprintf("alpide visualizer %dx%d", visWidth, visHeight)
}
