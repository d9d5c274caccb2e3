// pixel_hit.go - A single pixel hit and its priority-encoder ordering

package main

// PixelHit identifies a struck pixel and the time window during which it
// is electrically active. Equality and identity for matrix bookkeeping are
// based on (col, row) alone; two hits at the same coordinates with
// overlapping windows are duplicates from the matrix's point of view.
type PixelHit struct {
	Col      int
	Row      int
	ChipID   int
	ActiveStart uint64 // ns, inclusive
	ActiveEnd   uint64 // ns, exclusive

	ref *hitRef
}

// NewPixelHit creates a hit with its own dedicated readout-stats reference.
// stats may be nil, in which case readout counts are tracked but never
// reported anywhere.
func NewPixelHit(col, row, chipID int, activeStart, activeEnd uint64, stats *ReadoutStats) PixelHit {
	return PixelHit{
		Col:         col,
		Row:         row,
		ChipID:      chipID,
		ActiveStart: activeStart,
		ActiveEnd:   activeEnd,
		ref:         newHitRef(stats),
	}
}

// IsActive reports whether the hit's window covers time t (inclusive start,
// exclusive end).
func (h PixelHit) IsActive(t uint64) bool {
	return t >= h.ActiveStart && t < h.ActiveEnd
}

// Equal compares coordinates only, matching the matrix's duplicate-hit
// detection.
func (h PixelHit) Equal(other PixelHit) bool {
	return h.Col == other.Col && h.Row == other.Row
}

// PriEncAddress returns the hit's address within its double column, in the
// same numbering the real priority encoder hardware produces:
// row<<1 | ((col&1) ^ (row&1)).
func (h PixelHit) PriEncAddress() int {
	return (h.Row << 1) | ((h.Col & 1) ^ (h.Row & 1))
}

// PriEncIndexInRegion returns which of the 16 double-column priority
// encoders within a region this hit belongs to.
func (h PixelHit) PriEncIndexInRegion() int {
	return (h.Col >> 1) & 0x0F
}

// RegionID returns which of the 32 regions this hit's column falls in.
func (h PixelHit) RegionID() int {
	return h.Col / colsPerRegion
}

// DoubleColumnIndex returns the hit's double-column index across the whole
// matrix (0..511).
func (h PixelHit) DoubleColumnIndex() int {
	return h.Col / 2
}

func (h PixelHit) increaseReadoutCount() {
	if h.ref != nil {
		h.ref.increaseReadoutCount()
	}
}

func (h PixelHit) readoutCount() int {
	if h.ref == nil {
		return 0
	}
	return h.ref.getReadoutCount()
}

func (h PixelHit) retain() {
	if h.ref != nil {
		h.ref.retain()
	}
}

func (h PixelHit) release() {
	if h.ref != nil {
		h.ref.release()
	}
}

// priorityLess implements the ALPIDE priority encoder's ordering, which is
// not simple (col, row) lexicographic order: rows are scanned in ascending
// order, and within a row the two columns of a double column alternate
// which one comes first depending on row parity. This is the order pixels
// are actually read out of a double column, and the order used to sort
// them in PixelDoubleColumn.
func priorityLess(a, b PixelHit) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	if a.Row%2 == 0 {
		return a.Col < b.Col
	}
	return a.Col > b.Col
}
