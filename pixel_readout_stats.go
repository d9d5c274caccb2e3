// pixel_readout_stats.go - Aggregate pixel readout-count histogram

package main

import "sync"

// ReadoutStats aggregates, across the lifetime of the chip, how many times
// each pixel hit was included in an emitted DATA_SHORT or DATA_LONG word
// before being disposed of. A hit that was never read out still reports
// into the zero bucket, so NotReadOutCount reflects hits that were
// discarded (flushed, aborted, or simply timed out) without ever reaching
// the output stream.
type ReadoutStats struct {
	mu        sync.Mutex
	histogram map[int]int
}

// NewReadoutStats returns an empty aggregate.
func NewReadoutStats() *ReadoutStats {
	return &ReadoutStats{histogram: make(map[int]int)}
}

// addReadoutCount records the final readout count of one disposed pixel hit.
func (s *ReadoutStats) addReadoutCount(count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.histogram[count]++
}

// Histogram returns a copy of the count->occurrences map.
func (s *ReadoutStats) Histogram() map[int]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]int, len(s.histogram))
	for k, v := range s.histogram {
		out[k] = v
	}
	return out
}

// NotReadOutCount returns how many disposed hits were never included in any
// emitted data word.
func (s *ReadoutStats) NotReadOutCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.histogram[0]
}

// ReadOutCount returns how many disposed hits were included in at least one
// emitted data word.
func (s *ReadoutStats) ReadOutCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for count, n := range s.histogram {
		if count > 0 {
			total += n
		}
	}
	return total
}

// hitRef is the shared backing state for one logical pixel hit that may be
// latched into more than one MEB slice at once. It plays the role the
// original model gives a std::shared_ptr<PixelData>: each slice that
// latches the hit holds a reference; the hit reports its cumulative
// readout count to the aggregate once the last slice releases it.
type hitRef struct {
	mu           sync.Mutex
	refCount     int
	readoutCount int
	stats        *ReadoutStats
}

func newHitRef(stats *ReadoutStats) *hitRef {
	return &hitRef{stats: stats}
}

func (r *hitRef) retain() {
	r.mu.Lock()
	r.refCount++
	r.mu.Unlock()
}

// release drops one reference. When the last reference is dropped, the
// cumulative readout count is reported to the aggregate stats.
func (r *hitRef) release() {
	r.mu.Lock()
	r.refCount--
	done := r.refCount <= 0
	count := r.readoutCount
	stats := r.stats
	r.mu.Unlock()
	if done && stats != nil {
		stats.addReadoutCount(count)
	}
}

func (r *hitRef) increaseReadoutCount() {
	r.mu.Lock()
	r.readoutCount++
	r.mu.Unlock()
}

func (r *hitRef) getReadoutCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readoutCount
}
