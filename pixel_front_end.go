// pixel_front_end.go - Front-end hit queue and active-window bookkeeping

package main

// PixelFrontEnd buffers hits handed in by the external hit-generation
// collaborator until their active window expires. On a strobe's rising
// edge, the FROMU asks the front end for every hit active "now" and latches
// a retained copy of each into the newly allocated MEB slice; the front end
// keeps its own reference until the hit's window closes.
type PixelFrontEnd struct {
	stats *ReadoutStats
	hits  []PixelHit
}

// NewPixelFrontEnd creates an empty front end whose hits report readout
// statistics into stats (may be nil).
func NewPixelFrontEnd(stats *ReadoutStats) *PixelFrontEnd {
	return &PixelFrontEnd{stats: stats}
}

// PixelInput enqueues one new hit, out of bounds coordinates are a
// programming error in the caller.
func (f *PixelFrontEnd) PixelInput(col, row, chipID int, activeStart, activeEnd uint64) {
	if col < 0 || col >= matrixCols || row < 0 || row >= matrixRows {
		panic("pixel_front_end: hit coordinates out of bounds")
	}
	hit := NewPixelHit(col, row, chipID, activeStart, activeEnd, f.stats)
	// The front end holds its own stake in the hit's reference count,
	// balanced by the release in RemoveInactiveHits. Without this, a hit
	// latched into more than one MEB slice across overlapping strobes
	// would have its readout count reported as soon as the front end's
	// window closed, while a MEB slice still held it.
	hit.retain()
	f.hits = append(f.hits, hit)
}

// InputEventFrame ingests a batch of hits sharing one logical event in a
// single call. It is sugar over repeated PixelInput calls, not a distinct
// hardware behavior.
func (f *PixelFrontEnd) InputEventFrame(hits []struct {
	Col, Row, ChipID    int
	ActiveStart, ActiveEnd uint64
}) {
	for _, h := range hits {
		f.PixelInput(h.Col, h.Row, h.ChipID, h.ActiveStart, h.ActiveEnd)
	}
}

// ActiveHitsAt returns every currently buffered hit whose window covers t.
// Each returned hit has been retained once on behalf of the caller; the
// caller is responsible for releasing it when done (typically by latching
// it into a MEB slice, which transfers ownership of that reference).
func (f *PixelFrontEnd) ActiveHitsAt(t uint64) []PixelHit {
	var out []PixelHit
	for _, h := range f.hits {
		if h.IsActive(t) {
			h.retain()
			out = append(out, h)
		}
	}
	return out
}

// RemoveInactiveHits drops and releases every buffered hit whose window has
// closed as of t.
func (f *PixelFrontEnd) RemoveInactiveHits(t uint64) {
	remaining := f.hits[:0]
	for _, h := range f.hits {
		if h.ActiveEnd <= t {
			h.release()
			continue
		}
		remaining = append(remaining, h)
	}
	f.hits = remaining
}

// PendingCount returns the number of hits currently buffered in the front
// end, regardless of activity window.
func (f *PixelFrontEnd) PendingCount() int {
	return len(f.hits)
}
