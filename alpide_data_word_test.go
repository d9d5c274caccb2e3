package main

import "testing"

func TestDataWord_BytesEncoding(t *testing.T) {
	cases := []struct {
		name string
		w    DataWord
		want [3]byte
	}{
		{"idle", newIdle(), [3]byte{0xFF, 0xFF, 0xFF}},
		{"comma", newComma(), [3]byte{0xFE, 0xFE, 0xFE}},
		{"busy_on", newBusyOn(), [3]byte{0xF1, 0xFF, 0xFF}},
		{"busy_off", newBusyOff(), [3]byte{0xF0, 0xFF, 0xFF}},
		{"region_trailer", newRegionTrailer(), [3]byte{0xF3, 0xF3, 0xF3}},
		{"chip_header", newChipHeader(5, 0x0FF), [3]byte{0xA5, 0x1F, 0xFF}},
		{"chip_trailer", newChipTrailer(trailerBitBusyTransition | trailerBitBusyViolation), [3]byte{0xB9, 0xFF, 0xFF}},
		{"chip_empty_frame", newChipEmptyFrame(3, 0x0FF), [3]byte{0xE3, 0x1F, 0xFF}},
		{"region_header", newRegionHeader(17), [3]byte{0xD1, 0xFF, 0xFF}},
	}
	for _, c := range cases {
		if got := c.w.Bytes(); got != c.want {
			t.Fatalf("%s: Bytes() = %02X, want %02X", c.name, got, c.want)
		}
	}
}

func TestDataWord_DataShortEncoding(t *testing.T) {
	hit := NewPixelHit(0, 0, 0, 0, 1, nil)
	w := newDataShort(3, 0x145, hit)
	got := w.Bytes()
	want := [3]byte{byte(0x40 | (3 << 2) | (0x145 >> 8 & 0x03)), byte(0x145 & 0xFF), 0xFF}
	if got != want {
		t.Fatalf("DATA_SHORT Bytes() = %02X, want %02X", got, want)
	}
	w.Drop()
}

func TestDataWord_DataLongEncoding(t *testing.T) {
	hits := []PixelHit{NewPixelHit(0, 0, 0, 0, 1, nil), NewPixelHit(0, 1, 0, 0, 1, nil)}
	w := newDataLong(5, 0x0AA, 0x55, hits)
	got := w.Bytes()
	want := [3]byte{byte((5 << 2) | (0x0AA >> 8 & 0x03)), byte(0x0AA & 0xFF), 0x55 & 0x7F}
	if got != want {
		t.Fatalf("DATA_LONG Bytes() = %02X, want %02X", got, want)
	}
	w.Drop()
}

func TestDataWord_EmitSettlesReadoutCountAndReleasesHit(t *testing.T) {
	stats := NewReadoutStats()
	hit := NewPixelHit(0, 0, 0, 0, 1, stats)
	w := newDataShort(0, 0, hit)
	w.Emit()
	if got := stats.ReadOutCount(); got != 1 {
		t.Fatalf("ReadOutCount() = %d, want 1 after Emit", got)
	}
}

func TestDataWord_DropSettlesWithoutReadoutCredit(t *testing.T) {
	stats := NewReadoutStats()
	hit := NewPixelHit(0, 0, 0, 0, 1, stats)
	w := newDataShort(0, 0, hit)
	w.Drop()
	if got := stats.NotReadOutCount(); got != 1 {
		t.Fatalf("NotReadOutCount() = %d, want 1 after Drop", got)
	}
}
