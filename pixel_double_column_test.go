package main

import "testing"

func TestPixelDoubleColumn_InsertOrdersByPriority(t *testing.T) {
	var col PixelDoubleColumn
	col.Insert(NewPixelHit(4, 0, 0, 0, 1, nil))
	col.Insert(NewPixelHit(2, 0, 0, 0, 1, nil))
	col.Insert(NewPixelHit(6, 1, 0, 0, 1, nil))

	h, ok := col.ReadAndErase()
	if !ok || h.Col != 2 || h.Row != 0 {
		t.Fatalf("expected (col=2,row=0) first, got %+v ok=%v", h, ok)
	}
	h, ok = col.ReadAndErase()
	if !ok || h.Col != 4 || h.Row != 0 {
		t.Fatalf("expected (col=4,row=0) second, got %+v ok=%v", h, ok)
	}
	h, ok = col.ReadAndErase()
	if !ok || h.Col != 6 || h.Row != 1 {
		t.Fatalf("expected (col=6,row=1) third, got %+v ok=%v", h, ok)
	}
	if _, ok := col.ReadAndErase(); ok {
		t.Fatalf("expected column to be empty")
	}
}

func TestPixelDoubleColumn_DuplicateRejected(t *testing.T) {
	var col PixelDoubleColumn
	if !col.Insert(NewPixelHit(2, 0, 0, 0, 1, nil)) {
		t.Fatalf("first insert at a coordinate must succeed")
	}
	if col.Insert(NewPixelHit(2, 0, 0, 0, 1, nil)) {
		t.Fatalf("duplicate (col,row) insert must be rejected")
	}
	if col.Count() != 1 {
		t.Fatalf("Count() = %d, want 1 after rejected duplicate", col.Count())
	}
}

func TestPixelDoubleColumn_InspectDoesNotMutate(t *testing.T) {
	var col PixelDoubleColumn
	col.Insert(NewPixelHit(2, 0, 0, 0, 1, nil))
	if !col.Inspect(2, 0) {
		t.Fatalf("Inspect must find the latched hit")
	}
	if col.Inspect(4, 0) {
		t.Fatalf("Inspect must not find an absent hit")
	}
	if col.Count() != 1 {
		t.Fatalf("Inspect must not remove the hit")
	}
}

func TestPixelDoubleColumn_ClearReleasesAll(t *testing.T) {
	stats := NewReadoutStats()
	var col PixelDoubleColumn
	col.Insert(NewPixelHit(2, 0, 0, 0, 1, stats))
	col.Insert(NewPixelHit(4, 0, 0, 0, 1, stats))
	col.Clear()
	if col.Count() != 0 {
		t.Fatalf("Count() = %d after Clear, want 0", col.Count())
	}
	if got := stats.NotReadOutCount(); got != 2 {
		t.Fatalf("NotReadOutCount() = %d, want 2 after clearing unread hits", got)
	}
}
