// alpide_chip.go - Top-level chip: wires the front end, matrix, regions, TRU, and output path

package main

// ControlMessage is one word on the inbound control channel. Per the
// protocol, only opcode 0x55 (trigger) is recognized; everything else is a
// reserved/unimplemented opcode.
type ControlMessage struct {
	Opcode  byte
	ChipID  byte
	Address uint16
	Data    uint16
}

// Chip is one ALPIDE sensor: a PixelFrontEnd feeding a PixelMatrix, 32
// RegionReadoutUnits, one TopReadoutUnit, and the DMU/DTU output path, all
// driven by one FROMU and stepped one 40MHz clock cycle at a time.
type Chip struct {
	cfg *AlpideConfig

	stats    *ReadoutStats
	frontEnd *PixelFrontEnd
	matrix   *PixelMatrix
	regions  []*RegionReadoutUnit
	tru      *TopReadoutUnit
	fromu    *FROMU
	output   *DataTransferPath

	dmuFifo *fifo[DataWord]

	cycle uint64

	traceEnabled   bool
	traceUntilCycle uint64
	trace          func(string)
}

// NewChip builds a fully wired chip from cfg. cfg is not copied; do not
// mutate it after construction.
func NewChip(cfg *AlpideConfig) *Chip {
	stats := NewReadoutStats()
	matrix := NewPixelMatrix(stats)
	frontEnd := NewPixelFrontEnd(stats)

	readoutDelay := readoutDelaySlow
	if cfg.MatrixReadoutSpeedFast {
		readoutDelay = readoutDelayFast
	}

	regions := make([]*RegionReadoutUnit, numRegions)
	for i := range regions {
		regions[i] = NewRegionReadoutUnit(i, matrix, cfg.RegionFIFOSize, cfg.EnableClustering, readoutDelay)
	}

	frameStartFifo := newFIFO[FrameStart](truFrameFIFOSize)
	frameEndFifo := newFIFO[FrameEnd](truFrameFIFOSize)
	dmuFifo := newFIFO[DataWord](cfg.DMUFIFOSize)

	tru := NewTopReadoutUnit(cfg.ChipID, regions, frameStartFifo, frameEndFifo, dmuFifo)
	fromu := NewFROMU(cfg, matrix, frontEnd, regions, frameStartFifo, frameEndFifo)
	output := NewDataTransferPath(dmuFifo, cfg.DTUDelayCycles)

	return &Chip{
		cfg:      cfg,
		stats:    stats,
		frontEnd: frontEnd,
		matrix:   matrix,
		regions:  regions,
		tru:      tru,
		fromu:    fromu,
		output:   output,
		dmuFifo:  dmuFifo,
	}
}

// HandleControl dispatches one inbound control message. Messages addressed
// to a different chip id are silently ignored, matching a shared control
// bus with multiple chips on it.
func (c *Chip) HandleControl(msg ControlMessage) error {
	if int(msg.ChipID) != c.cfg.ChipID {
		return nil
	}
	return c.fromu.ControlOpcode(msg.Opcode, c.nowNS())
}

// clockPeriodNS is the length of one 40MHz clock cycle.
const clockPeriodNS = 25

// nowNS returns the absolute simulation time of the current cycle in
// nanoseconds, the unit used by hit windows, strobe lengths, and the MEB
// histogram.
func (c *Chip) nowNS() uint64 {
	return c.cycle * clockPeriodNS
}

// PixelInput hands one hit to the front end. t_start/t_end are absolute
// nanosecond timestamps.
func (c *Chip) PixelInput(col, row int, activeStart, activeEnd uint64) {
	c.frontEnd.PixelInput(col, row, c.cfg.ChipID, activeStart, activeEnd)
}

// RemoveInactiveHits drops front-end hits whose window has closed as of
// now; the FROMU also calls this itself at every strobe start, so calling
// it externally is only needed to bound front-end memory when no triggers
// are arriving.
func (c *Chip) RemoveInactiveHits(now uint64) {
	c.frontEnd.RemoveInactiveHits(now)
}

// Clock steps every subsystem by one 40MHz cycle and returns the 3-byte
// word serialized out this cycle.
func (c *Chip) Clock() [3]byte {
	now := c.nowNS()

	frameReadoutStart, readoutAbort, busyOnEdge, busyOffEdge := c.fromu.Clock(now)

	for _, r := range c.regions {
		r.StepMatrixReadout(frameReadoutStart, readoutAbort)
		if readoutAbort {
			r.DrainAbort()
		}
	}

	c.tru.Step(readoutAbort)

	// BUSY_ON/BUSY_OFF are chip-wide status words, not framed within any
	// region or trigger, so they are pushed onto the DMU FIFO directly
	// rather than through the TRU's per-frame multiplexing. A momentarily
	// full DMU FIFO simply drops the edge, matching how a rejected trigger
	// is counted rather than retried.
	if busyOnEdge {
		c.dmuFifo.Put(newBusyOn())
	}
	if busyOffEdge {
		c.dmuFifo.Put(newBusyOff())
	}

	word := c.output.Step()

	if c.traceEnabled && c.cycle < c.traceUntilCycle && c.trace != nil {
		c.trace(c.traceLine(word))
	}

	c.cycle++
	return word.Bytes()
}

// EnableTrace turns on bounded per-cycle diagnostic tracing for the next n
// cycles, delivered through sink.
func (c *Chip) EnableTrace(n uint64, sink func(string)) {
	c.traceEnabled = true
	c.traceUntilCycle = c.cycle + n
	c.trace = sink
}

func (c *Chip) traceLine(word DataWord) string {
	return wordKindName(word.Kind)
}

func wordKindName(k DataWordKind) string {
	switch k {
	case WordIdle:
		return "IDLE"
	case WordChipHeader:
		return "CHIP_HEADER"
	case WordChipTrailer:
		return "CHIP_TRAILER"
	case WordChipEmptyFrame:
		return "CHIP_EMPTY_FRAME"
	case WordRegionHeader:
		return "REGION_HEADER"
	case WordRegionTrailer:
		return "REGION_TRAILER"
	case WordDataShort:
		return "DATA_SHORT"
	case WordDataLong:
		return "DATA_LONG"
	case WordBusyOn:
		return "BUSY_ON"
	case WordBusyOff:
		return "BUSY_OFF"
	case WordComma:
		return "COMMA"
	default:
		return "UNKNOWN"
	}
}

// Stats returns the chip's aggregate readout-count histogram and
// not-read-out count.
func (c *Chip) Stats() (histogram map[int]int, notReadOut int) {
	return c.stats.Histogram(), c.stats.NotReadOutCount()
}

// BusyCounters reports cumulative busy/abort/fatal edge counts.
func (c *Chip) BusyCounters() BusyCounters {
	return c.fromu.BusyCounters()
}

// MEBHistogram reports how long the matrix spent at each MEB occupancy
// level, in nanoseconds.
func (c *Chip) MEBHistogram() map[int]uint64 {
	return c.matrix.Histogram()
}

// Fatal reports whether the chip has latched a fatal frame-FIFO overflow.
func (c *Chip) Fatal() bool { return c.fromu.Fatal() }

// RegionFIFOOccupancy returns the current fill level of each region's
// output FIFO, for the visualizer and the monitor CLI.
func (c *Chip) RegionFIFOOccupancy() [numRegions]int {
	var out [numRegions]int
	for i, r := range c.regions {
		out[i] = r.fifo.Len()
	}
	return out
}

// MEBSliceCount returns the number of MEB slices currently in use (0..3).
func (c *Chip) MEBSliceCount() int {
	return c.matrix.SliceCount()
}

// MatrixOccupancy returns the oldest MEB slice's per-double-column hit
// counts, for the visualizer and PNG snapshot exporter.
func (c *Chip) MatrixOccupancy() [doubleColsTotal]int {
	return c.matrix.DoubleColumnOccupancy()
}
