// pixel_matrix.go - Multi-event-buffered pixel matrix

package main

// pixelMEBSlice is one full matrix snapshot: one PixelDoubleColumn per
// double column across the whole 1024x512 matrix.
type pixelMEBSlice struct {
	columns  [doubleColsTotal]PixelDoubleColumn
	hitCount int
}

// PixelMatrix holds up to three MEB slices (one per in-flight strobe) as a
// FIFO, oldest first, and tracks how long the matrix spent at each
// occupancy level.
type PixelMatrix struct {
	slices []*pixelMEBSlice

	histogram   map[int]uint64 // slice count -> cumulative ns spent there
	lastUpdateT uint64
	haveLast    bool

	latchedCount   uint64
	duplicateCount uint64

	stats *ReadoutStats
}

// NewPixelMatrix creates an empty matrix whose disposed hits report into
// stats. stats may be nil.
func NewPixelMatrix(stats *ReadoutStats) *PixelMatrix {
	return &PixelMatrix{
		histogram: make(map[int]uint64),
		stats:     stats,
	}
}

func (m *PixelMatrix) bumpHistogram(t uint64) {
	if m.haveLast {
		elapsed := t - m.lastUpdateT
		m.histogram[len(m.slices)] += elapsed
	}
	m.lastUpdateT = t
	m.haveLast = true
}

// NewEvent pushes a new, empty MEB slice onto the back of the FIFO. Callers
// must check SliceCount() < maxMEBSlices before calling, mirroring the
// FROMU's own admission check; NewEvent itself does not enforce the limit.
func (m *PixelMatrix) NewEvent(t uint64) {
	m.bumpHistogram(t)
	m.slices = append(m.slices, &pixelMEBSlice{})
}

// SetPixel latches a hit into the newest (back) MEB slice. A duplicate hit
// at the same coordinates within that slice is discarded and its count
// reflected in DuplicateCount instead of LatchedCount.
func (m *PixelMatrix) SetPixel(hit PixelHit) {
	if len(m.slices) == 0 {
		return
	}
	slice := m.slices[len(m.slices)-1]
	col := slice.columnFor(hit)
	if col.Insert(hit) {
		slice.hitCount++
		m.latchedCount++
	} else {
		m.duplicateCount++
		hit.release()
	}
}

func (s *pixelMEBSlice) columnFor(hit PixelHit) *PixelDoubleColumn {
	return &s.columns[hit.DoubleColumnIndex()]
}

// DeleteEvent pops the oldest MEB slice after its readout has completed
// normally. Any hits still present (there should be none on the normal
// path) are released without being marked as read out.
func (m *PixelMatrix) DeleteEvent(t uint64) {
	m.bumpHistogram(t)
	m.popFront()
}

// FlushOldest pops the oldest MEB slice without reading it out, as happens
// in continuous mode when a third strobe is accepted while two slices are
// already pending. Every remaining hit is released and counted as not read
// out.
func (m *PixelMatrix) FlushOldest(t uint64) {
	m.bumpHistogram(t)
	m.popFront()
}

func (m *PixelMatrix) popFront() {
	if len(m.slices) == 0 {
		return
	}
	front := m.slices[0]
	for i := range front.columns {
		front.columns[i].Clear()
	}
	m.slices = m.slices[1:]
}

// SliceCount returns the number of MEB slices currently held (0..3).
func (m *PixelMatrix) SliceCount() int {
	return len(m.slices)
}

// Histogram returns a copy of the slice-count->ns-spent-there map.
func (m *PixelMatrix) Histogram() map[int]uint64 {
	out := make(map[int]uint64, len(m.histogram))
	for k, v := range m.histogram {
		out[k] = v
	}
	return out
}

// LatchedCount and DuplicateCount report cumulative matrix-wide counters.
func (m *PixelMatrix) LatchedCount() uint64   { return m.latchedCount }
func (m *PixelMatrix) DuplicateCount() uint64 { return m.duplicateCount }

func regionDoubleColumnRange(region int) (start, end int) {
	start = region * doubleColsPerRegion
	end = start + doubleColsPerRegion
	return
}

// ReadPixel scans double columns [dcStart, dcEnd) of the oldest MEB slice in
// priority order and pops the first available hit; stored hits already
// carry their absolute matrix column. The boolean result is false if no
// hit was found in range.
func (m *PixelMatrix) ReadPixel(dcStart, dcEnd int) (PixelHit, bool) {
	if len(m.slices) == 0 {
		return PixelHit{}, false
	}
	front := m.slices[0]
	for dc := dcStart; dc < dcEnd && dc < doubleColsTotal; dc++ {
		if hit, ok := front.columns[dc].ReadAndErase(); ok {
			front.hitCount--
			return hit, true
		}
	}
	return PixelHit{}, false
}

// ReadPixelRegion is ReadPixel restricted to one of the 32 readout regions.
func (m *PixelMatrix) ReadPixelRegion(region int) (PixelHit, bool) {
	start, end := regionDoubleColumnRange(region)
	return m.ReadPixel(start, end)
}

// RegionEmpty reports whether the oldest MEB slice has no remaining hits in
// the given region.
func (m *PixelMatrix) RegionEmpty(region int) bool {
	if len(m.slices) == 0 {
		return true
	}
	start, end := regionDoubleColumnRange(region)
	front := m.slices[0]
	for dc := start; dc < end; dc++ {
		if front.columns[dc].Count() > 0 {
			return false
		}
	}
	return true
}

// DoubleColumnOccupancy returns, for the oldest MEB slice, the hit count of
// every double column in matrix order. Used only by the visualizer and the
// PNG snapshot exporter to render an occupancy raster; never on the hot
// clocked path.
func (m *PixelMatrix) DoubleColumnOccupancy() [doubleColsTotal]int {
	var out [doubleColsTotal]int
	if len(m.slices) == 0 {
		return out
	}
	front := m.slices[0]
	for i := range front.columns {
		out[i] = front.columns[i].Count()
	}
	return out
}

// ReadoutCountHistogram and NotReadOutCount expose the aggregate per-pixel
// readout statistics collected as hits are disposed of.
func (m *PixelMatrix) ReadoutCountHistogram() map[int]int {
	if m.stats == nil {
		return map[int]int{}
	}
	return m.stats.Histogram()
}

func (m *PixelMatrix) NotReadOutCount() int {
	if m.stats == nil {
		return 0
	}
	return m.stats.NotReadOutCount()
}
