package main

import "testing"

func TestPixelFrontEnd_ActiveHitsAtRespectsWindow(t *testing.T) {
	f := NewPixelFrontEnd(nil)
	f.PixelInput(0, 0, 0, 10, 20)
	f.PixelInput(1, 0, 0, 30, 40)

	active := f.ActiveHitsAt(15)
	if len(active) != 1 {
		t.Fatalf("ActiveHitsAt(15) returned %d hits, want 1", len(active))
	}
	if active[0].Col != 0 {
		t.Fatalf("expected the hit active at t=15 to be col 0, got col %d", active[0].Col)
	}
	for _, h := range active {
		h.release()
	}
}

func TestPixelFrontEnd_RemoveInactiveHits(t *testing.T) {
	stats := NewReadoutStats()
	f := NewPixelFrontEnd(stats)
	f.PixelInput(0, 0, 0, 0, 10)
	f.PixelInput(1, 0, 0, 0, 100)

	f.RemoveInactiveHits(50)
	if f.PendingCount() != 1 {
		t.Fatalf("PendingCount() = %d, want 1 after removing the expired hit", f.PendingCount())
	}
	if got := stats.NotReadOutCount(); got != 1 {
		t.Fatalf("NotReadOutCount() = %d, want 1 for the expired, never-read hit", got)
	}
}

func TestPixelFrontEnd_InputEventFrameBatchIngestsHits(t *testing.T) {
	f := NewPixelFrontEnd(nil)
	f.InputEventFrame([]struct {
		Col, Row, ChipID       int
		ActiveStart, ActiveEnd uint64
	}{
		{Col: 0, Row: 0, ChipID: 0, ActiveStart: 0, ActiveEnd: 10},
		{Col: 1, Row: 1, ChipID: 0, ActiveStart: 0, ActiveEnd: 10},
	})
	if f.PendingCount() != 2 {
		t.Fatalf("PendingCount() = %d, want 2", f.PendingCount())
	}
}

func TestPixelFrontEnd_PixelInputPanicsOutOfBounds(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected PixelInput to panic on an out-of-bounds column")
		}
	}()
	f := NewPixelFrontEnd(nil)
	f.PixelInput(matrixCols, 0, 0, 0, 1)
}
