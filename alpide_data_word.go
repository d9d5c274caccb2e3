// alpide_data_word.go - Tagged 24-bit data words and their byte encoding

package main

// DataWordKind tags which of the ALPIDE data word variants a DataWord
// represents.
type DataWordKind int

const (
	WordIdle DataWordKind = iota
	WordChipHeader
	WordChipTrailer
	WordChipEmptyFrame
	WordRegionHeader
	WordRegionTrailer // internal sentinel only, never emitted on the wire
	WordDataShort
	WordDataLong
	WordBusyOn
	WordBusyOff
	WordComma
)

// DataWord is a 24-bit output unit. Only the fields relevant to its Kind
// are meaningful. DATA_SHORT and DATA_LONG words carry strong references to
// the pixel hits they represent; Emit/Drop must be called exactly once on
// every such word to settle those references.
type DataWord struct {
	Kind DataWordKind

	ChipID       int
	BunchCounter uint16
	TrailerFlags uint8
	RegionID     int
	EncoderID    int
	Addr         int
	Hitmap       uint8

	hits []PixelHit
}

func newIdle() DataWord  { return DataWord{Kind: WordIdle} }
func newComma() DataWord { return DataWord{Kind: WordComma} }
func newBusyOn() DataWord  { return DataWord{Kind: WordBusyOn} }
func newBusyOff() DataWord { return DataWord{Kind: WordBusyOff} }

func newChipHeader(chipID int, bunchCounter uint16) DataWord {
	return DataWord{Kind: WordChipHeader, ChipID: chipID, BunchCounter: bunchCounter}
}

func newChipTrailer(flags uint8) DataWord {
	return DataWord{Kind: WordChipTrailer, TrailerFlags: flags}
}

func newChipEmptyFrame(chipID int, bunchCounter uint16) DataWord {
	return DataWord{Kind: WordChipEmptyFrame, ChipID: chipID, BunchCounter: bunchCounter}
}

func newRegionHeader(regionID int) DataWord {
	return DataWord{Kind: WordRegionHeader, RegionID: regionID}
}

func newRegionTrailer() DataWord {
	return DataWord{Kind: WordRegionTrailer}
}

func newDataShort(encoderID, addr int, hit PixelHit) DataWord {
	return DataWord{Kind: WordDataShort, EncoderID: encoderID, Addr: addr, hits: []PixelHit{hit}}
}

func newDataLong(encoderID, addr int, hitmap uint8, hits []PixelHit) DataWord {
	return DataWord{Kind: WordDataLong, EncoderID: encoderID, Addr: addr, Hitmap: hitmap, hits: hits}
}

// Emit marks every hit this word carries as read out once, then releases
// the word's references to them. Call exactly once, when the word
// successfully leaves the chip on the normal data path.
func (w DataWord) Emit() {
	for _, h := range w.hits {
		h.increaseReadoutCount()
		h.release()
	}
}

// Drop releases every hit this word carries without marking them as read
// out. Call exactly once, when the word is discarded on the readout-abort
// drain path instead of being emitted.
func (w DataWord) Drop() {
	for _, h := range w.hits {
		h.release()
	}
}

// Bytes returns the 3-byte, MSB-first wire encoding for the word, per the
// ALPIDE data format. Byte order is [byte2, byte1, byte0].
func (w DataWord) Bytes() [3]byte {
	switch w.Kind {
	case WordIdle:
		return [3]byte{0xFF, 0xFF, 0xFF}
	case WordChipHeader:
		b2 := byte(0xA0) | byte(w.ChipID&0x0F)
		b1 := byte(w.BunchCounter >> 3 & 0xFF)
		return [3]byte{b2, b1, 0xFF}
	case WordChipTrailer:
		b2 := byte(0xB0) | (w.TrailerFlags & 0x0F)
		return [3]byte{b2, 0xFF, 0xFF}
	case WordChipEmptyFrame:
		b2 := byte(0xE0) | byte(w.ChipID&0x0F)
		b1 := byte(w.BunchCounter >> 3 & 0xFF)
		return [3]byte{b2, b1, 0xFF}
	case WordRegionHeader:
		b2 := byte(0xC0) | byte(w.RegionID&0x1F)
		return [3]byte{b2, 0xFF, 0xFF}
	case WordRegionTrailer:
		return [3]byte{0xF3, 0xF3, 0xF3}
	case WordDataShort:
		b2 := byte(0x40) | byte(w.EncoderID&0x0F)<<2 | byte(w.Addr>>8&0x03)
		b1 := byte(w.Addr & 0xFF)
		return [3]byte{b2, b1, 0xFF}
	case WordDataLong:
		b2 := byte(w.EncoderID&0x0F)<<2 | byte(w.Addr>>8&0x03)
		b1 := byte(w.Addr & 0xFF)
		b0 := w.Hitmap & 0x7F
		return [3]byte{b2, b1, b0}
	case WordBusyOn:
		return [3]byte{0xF1, 0xFF, 0xFF}
	case WordBusyOff:
		return [3]byte{0xF0, 0xFF, 0xFF}
	case WordComma:
		return [3]byte{0xFE, 0xFE, 0xFE}
	default:
		panic("alpide_data_word: unknown word kind")
	}
}
