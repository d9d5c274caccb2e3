package main

import "testing"

func stepRegionUntilTrailer(t *testing.T, r *RegionReadoutUnit, maxCycles int) []DataWord {
	t.Helper()
	var words []DataWord
	r.StepMatrixReadout(true, false)
	for i := 0; i < maxCycles; i++ {
		if w, ok := r.fifo.Peek(); ok {
			words = append(words, w)
			if w.Kind == WordRegionTrailer {
				return words
			}
			r.fifo.Get()
			continue
		}
		r.StepMatrixReadout(false, false)
	}
	t.Fatalf("region readout did not reach REGION_TRAILER within %d cycles", maxCycles)
	return nil
}

func TestRegionReadoutUnit_SinglePixelEmitsDataShort(t *testing.T) {
	m := NewPixelMatrix(nil)
	m.NewEvent(0)
	m.SetPixel(NewPixelHit(0, 0, 0, 0, 1, nil))

	r := NewRegionReadoutUnit(0, m, 8, true, readoutDelayFast)
	words := stepRegionUntilTrailer(t, r, 32)

	if len(words) != 2 {
		t.Fatalf("expected DATA_SHORT + REGION_TRAILER, got %d words", len(words))
	}
	if words[0].Kind != WordDataShort {
		t.Fatalf("expected first word DATA_SHORT, got kind %v", words[0].Kind)
	}
	if words[1].Kind != WordRegionTrailer {
		t.Fatalf("expected last word REGION_TRAILER, got kind %v", words[1].Kind)
	}
}

func TestRegionReadoutUnit_EmptyRegionGoesStraightToTrailer(t *testing.T) {
	m := NewPixelMatrix(nil)
	m.NewEvent(0)

	r := NewRegionReadoutUnit(0, m, 8, true, readoutDelayFast)
	r.StepMatrixReadout(true, false)
	if r.mr != mrRegionTrailer {
		t.Fatalf("empty region must transition straight to mrRegionTrailer, got state %v", r.mr)
	}
}

func TestRegionReadoutUnit_ClusteringPacksAdjacentHits(t *testing.T) {
	m := NewPixelMatrix(nil)
	m.NewEvent(0)
	// Two pixels in the same double column priority-encoder, adjacent
	// addresses, should cluster into one DATA_LONG.
	m.SetPixel(NewPixelHit(0, 0, 0, 0, 1, nil))
	m.SetPixel(NewPixelHit(1, 0, 0, 0, 1, nil))

	r := NewRegionReadoutUnit(0, m, 8, true, readoutDelayFast)
	words := stepRegionUntilTrailer(t, r, 32)

	if len(words) != 2 {
		t.Fatalf("expected one clustered word + REGION_TRAILER, got %d words", len(words))
	}
	if words[0].Kind != WordDataLong {
		t.Fatalf("expected clustered hits to emit DATA_LONG, got kind %v", words[0].Kind)
	}
}

func TestRegionReadoutUnit_AbortDiscardsClusterAndResetsToIdle(t *testing.T) {
	m := NewPixelMatrix(nil)
	m.NewEvent(0)
	m.SetPixel(NewPixelHit(0, 0, 0, 0, 1, nil))

	r := NewRegionReadoutUnit(0, m, 8, true, readoutDelayFast)
	r.StepMatrixReadout(true, false)  // -> START_READOUT
	r.StepMatrixReadout(false, false) // -> READOUT_AND_CLUSTERING
	r.StepMatrixReadout(false, false) // reads the hit and opens a cluster
	if !r.clusterActive {
		t.Fatalf("expected an open cluster before the abort")
	}
	r.StepMatrixReadout(false, true)
	if r.mr != mrIdle {
		t.Fatalf("abort must reset the matrix-readout FSM to mrIdle, got %v", r.mr)
	}
	if r.clusterActive {
		t.Fatalf("abort must clear any in-progress cluster")
	}
}

func TestRegionReadoutUnit_DrainAbortPopsOneWordPerCall(t *testing.T) {
	m := NewPixelMatrix(nil)
	r := NewRegionReadoutUnit(0, m, 8, true, readoutDelayFast)
	r.fifo.Put(newRegionTrailer())
	r.fifo.Put(newRegionTrailer())
	r.DrainAbort()
	if r.fifo.Len() != 1 {
		t.Fatalf("DrainAbort must remove exactly one word, Len() = %d", r.fifo.Len())
	}
	r.DrainAbort()
	if r.fifo.Len() != 0 {
		t.Fatalf("Len() = %d after draining both words, want 0", r.fifo.Len())
	}
}
