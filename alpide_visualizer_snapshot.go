// alpide_visualizer_snapshot.go - One-shot PNG export of matrix occupancy

package main

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// occupancyColor maps a double column's hit count to a display color,
// matching the live visualizer's intensity ramp so a snapshot and a live
// session look alike.
func occupancyColor(count int) color.RGBA {
	intensity := uint8(16)
	switch {
	case count <= 0:
		intensity = 16
	case count >= 8:
		intensity = 255
	default:
		intensity = uint8(16 + count*30)
	}
	return color.RGBA{R: intensity, G: 32, B: 255 - intensity, A: 255}
}

// WriteMatrixOccupancyPNG renders the chip's current oldest-MEB-slice
// occupancy as a scale-upscaled PNG, for headless runs and CI artifacts
// where the live ebiten visualizer isn't available.
func WriteMatrixOccupancyPNG(c *Chip, scale int, w io.Writer) error {
	if scale < 1 {
		scale = 1
	}
	occupancy := c.MatrixOccupancy()

	src := image.NewRGBA(image.Rect(0, 0, doubleColsTotal, 1))
	for dc, count := range occupancy {
		src.SetRGBA(dc, 0, occupancyColor(count))
	}

	dst := image.NewRGBA(image.Rect(0, 0, doubleColsTotal*scale, scale*8))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	return png.Encode(w, dst)
}
