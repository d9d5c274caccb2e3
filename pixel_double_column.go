// pixel_double_column.go - One double column's worth of latched pixel hits

package main

import "sort"

// PixelDoubleColumn holds the hits latched for one double column (two
// physical columns sharing one priority encoder), kept in priority-encoder
// order at all times. Only struck pixels are stored; there is no dense
// per-row array.
type PixelDoubleColumn struct {
	hits []PixelHit
}

// Insert adds a hit in priority-encoder order. If a hit already exists at
// the same (col, row), the new hit is discarded and Insert reports false,
// since the matrix tracks a single duplicate counter rather than storing
// the duplicate.
func (c *PixelDoubleColumn) Insert(hit PixelHit) bool {
	i := sort.Search(len(c.hits), func(i int) bool {
		return !priorityLess(c.hits[i], hit)
	})
	if i < len(c.hits) && c.hits[i].Equal(hit) {
		return false
	}
	c.hits = append(c.hits, PixelHit{})
	copy(c.hits[i+1:], c.hits[i:])
	c.hits[i] = hit
	return true
}

// Peek returns the highest-priority hit without removing it.
func (c *PixelDoubleColumn) Peek() (PixelHit, bool) {
	if len(c.hits) == 0 {
		return PixelHit{}, false
	}
	return c.hits[0], true
}

// ReadAndErase removes and returns the highest-priority hit.
func (c *PixelDoubleColumn) ReadAndErase() (PixelHit, bool) {
	if len(c.hits) == 0 {
		return PixelHit{}, false
	}
	hit := c.hits[0]
	c.hits = c.hits[1:]
	return hit, true
}

// Inspect reports whether a hit exists at (col, row) without mutating the
// column.
func (c *PixelDoubleColumn) Inspect(col, row int) bool {
	for _, h := range c.hits {
		if h.Col == col && h.Row == row {
			return true
		}
	}
	return false
}

// Count returns the number of latched hits remaining.
func (c *PixelDoubleColumn) Count() int {
	return len(c.hits)
}

// Clear discards all latched hits immediately, releasing each one's shared
// reference without reporting it as read out.
func (c *PixelDoubleColumn) Clear() {
	for _, h := range c.hits {
		h.release()
	}
	c.hits = nil
}
