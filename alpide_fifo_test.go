package main

import "testing"

func TestFIFO_PutGetOrderAndWraparound(t *testing.T) {
	q := newFIFO[int](3)
	if !q.Put(1) || !q.Put(2) || !q.Put(3) {
		t.Fatalf("expected all three Puts to succeed within capacity")
	}
	if q.Put(4) {
		t.Fatalf("Put on a full FIFO must report false")
	}

	if v, ok := q.Get(); !ok || v != 1 {
		t.Fatalf("Get() = (%d,%v), want (1,true)", v, ok)
	}
	if !q.Put(4) {
		t.Fatalf("Put must succeed after freeing a slot")
	}
	for _, want := range []int{2, 3, 4} {
		v, ok := q.Get()
		if !ok || v != want {
			t.Fatalf("Get() = (%d,%v), want (%d,true)", v, ok, want)
		}
	}
	if _, ok := q.Get(); ok {
		t.Fatalf("Get on an empty FIFO must report false")
	}
}

func TestFIFO_PeekDoesNotRemove(t *testing.T) {
	q := newFIFO[string](2)
	q.Put("a")
	if v, ok := q.Peek(); !ok || v != "a" {
		t.Fatalf("Peek() = (%q,%v), want (\"a\",true)", v, ok)
	}
	if q.Len() != 1 {
		t.Fatalf("Peek must not remove the element, Len() = %d", q.Len())
	}
}

func TestFIFO_EmptyAndFull(t *testing.T) {
	q := newFIFO[int](1)
	if !q.Empty() {
		t.Fatalf("new FIFO must be Empty")
	}
	q.Put(1)
	if !q.Full() {
		t.Fatalf("FIFO at capacity must be Full")
	}
}

func TestFIFO_NewFIFOPanicsOnNonPositiveCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected newFIFO to panic on capacity 0")
		}
	}()
	newFIFO[int](0)
}
