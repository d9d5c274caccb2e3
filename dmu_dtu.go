// dmu_dtu.go - Output path: DMU FIFO, fixed-delay DTU line, serial output

package main

// DataTransferPath carries words from the TopReadoutUnit's DMU FIFO through
// a fixed-delay DTU line and out as a byte stream, one word per clock
// cycle. The DTU delay line is pre-filled with COMMA words and always
// stays full, so the very first dtuDelayCycles words out of the chip are
// COMMA regardless of what is waiting in the DMU FIFO.
type DataTransferPath struct {
	dmu *fifo[DataWord]
	dtu *fifo[DataWord]
}

// NewDataTransferPath creates the output path sharing the given DMU FIFO
// (also written to by the TopReadoutUnit) with a DTU delay line of
// dtuDelayCycles words. A delay of 0 bypasses the DTU FIFO entirely.
func NewDataTransferPath(dmu *fifo[DataWord], dtuDelayCycles int) *DataTransferPath {
	p := &DataTransferPath{dmu: dmu}
	if dtuDelayCycles > 0 {
		p.dtu = newFIFO[DataWord](dtuDelayCycles)
		for i := 0; i < dtuDelayCycles; i++ {
			p.dtu.Put(newComma())
		}
	}
	return p
}

// Step pops one word out of the chip for this cycle and, if a DTU delay is
// configured, advances the delay line by feeding it one word from the DMU
// FIFO (or COMMA if the DMU FIFO is empty).
func (p *DataTransferPath) Step() DataWord {
	if p.dtu == nil {
		w, ok := p.dmu.Get()
		if !ok {
			return newComma()
		}
		return w
	}

	out, ok := p.dtu.Get()
	if !ok {
		out = newComma()
	}

	next, ok := p.dmu.Get()
	if !ok {
		next = newComma()
	}
	p.dtu.Put(next)

	return out
}
