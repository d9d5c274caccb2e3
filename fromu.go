// fromu.go - Frame Readout Management Unit: strobing, framing, and busy handling

package main

import "fmt"

type frcState int

const (
	frcWaitForEvents frcState = iota
	frcRegionReadoutStart
	frcWaitForRegionReadout
	frcRegionReadoutDone
)

// pendingFrameFlags carries the two frame-level flags that are only known
// once a strobe closes, queued in the same order as the MEB slices they
// describe so the frame readout controller can match them up later.
type pendingFrameFlags struct {
	flushedIncomplete bool
	strobeExtended    bool
}

// FROMU (Frame Readout Management Unit) owns triggering, strobe timing,
// MEB admission, the busy/readout-abort/fatal decision tables, and the
// frame readout controller FSM that drains MEB slices through the regions
// in order.
type FROMU struct {
	cfg       *AlpideConfig
	matrix    *PixelMatrix
	frontEnd  *PixelFrontEnd
	regions   []*RegionReadoutUnit
	frameFlags []pendingFrameFlags

	frameStartFifo *fifo[FrameStart]
	frameEndFifo   *fifo[FrameEnd]

	bunchCounter uint16

	strobeActive      bool
	strobeStartTime   uint64
	strobeEndTime     uint64
	strobeExtendedNow bool
	chipReady         bool
	busyViolationNow  bool
	flushedNow        bool

	frameFifoBusy bool
	readoutAbort  bool
	fatal         bool
	busyLatched   bool

	frc            frcState
	pendingEnd     FrameEnd

	triggersAccepted uint64
	triggersRejected uint64
	eventsFlushed    uint64

	busyOnCount        uint64
	busyViolationCount  uint64
	flushedIncompleteCount uint64
	readoutAbortCount   uint64
	fatalCount          uint64
}

// NewFROMU wires a FROMU to the matrix, front end, region units, and the
// shared frame FIFOs it shares with the TopReadoutUnit.
func NewFROMU(cfg *AlpideConfig, matrix *PixelMatrix, frontEnd *PixelFrontEnd, regions []*RegionReadoutUnit, frameStartFifo *fifo[FrameStart], frameEndFifo *fifo[FrameEnd]) *FROMU {
	return &FROMU{
		cfg:            cfg,
		matrix:         matrix,
		frontEnd:       frontEnd,
		regions:        regions,
		frameStartFifo: frameStartFifo,
		frameEndFifo:   frameEndFifo,
		frc:            frcWaitForEvents,
	}
}

// ControlOpcode dispatches a control-channel message. Only opcode 0x55
// (trigger) is recognized; anything else is reported as an error rather
// than silently ignored.
func (f *FROMU) ControlOpcode(opcode byte, now uint64) error {
	if opcode != opcodeTrigger {
		return fmt.Errorf("fromu: unsupported control opcode 0x%02x", opcode)
	}
	f.Trigger(now)
	return nil
}

// Trigger starts a new strobe interval, or extends/rejects one already in
// progress, per the chip's strobe_extension configuration.
func (f *FROMU) Trigger(now uint64) {
	if !f.strobeActive {
		f.strobeActive = true
		f.strobeStartTime = now
		f.strobeEndTime = now + f.cfg.StrobeLengthNS
		f.strobeExtendedNow = false
		f.beginFrame(now)
		return
	}
	if f.cfg.StrobeExtension {
		f.strobeEndTime = now + f.cfg.StrobeLengthNS
		f.strobeExtendedNow = true
	} else {
		f.triggersRejected++
	}
}

// beginFrame runs the MEB admission decision at the strobe's start: whether
// this trigger gets a new MEB slice, is rejected with a busy violation, or
// (continuous mode only) forces an incomplete flush of the oldest slice to
// make room.
func (f *FROMU) beginFrame(now uint64) {
	f.frontEnd.RemoveInactiveHits(now)

	n := f.matrix.SliceCount()
	f.flushedNow = false

	if f.cfg.ContinuousMode {
		switch {
		case n == maxMEBSlices:
			f.triggersRejected++
			f.busyViolationNow = true
			f.chipReady = false
		case n == maxMEBSlices-1:
			f.matrix.FlushOldest(now)
			f.matrix.NewEvent(now)
			f.eventsFlushed++
			f.flushedIncompleteCount++
			f.triggersAccepted++
			f.busyViolationNow = false
			f.chipReady = true
			f.flushedNow = true
		default:
			f.matrix.NewEvent(now)
			f.triggersAccepted++
			f.busyViolationNow = false
			f.chipReady = true
		}
		return
	}

	// Triggered mode: no flushing, reject outright when all three MEBs are
	// in use.
	if n == maxMEBSlices {
		f.chipReady = false
		f.triggersRejected++
		f.busyViolationNow = true
		return
	}
	f.matrix.NewEvent(now)
	f.triggersAccepted++
	f.chipReady = true
	f.busyViolationNow = false
}

// endStrobe runs at the strobe's scheduled end: latches whatever hits are
// still active into the MEB slice allocated at beginFrame, pushes this
// frame's FrameStart record, and re-evaluates busy/readout-abort/fatal from
// the frame FIFOs' occupancy.
func (f *FROMU) endStrobe(now uint64) {
	if f.chipReady {
		for _, hit := range f.frontEnd.ActiveHitsAt(now) {
			f.matrix.SetPixel(hit)
		}
		f.frameFlags = append(f.frameFlags, pendingFrameFlags{
			flushedIncomplete: f.flushedNow,
			strobeExtended:    f.strobeExtendedNow,
		})
	}

	f.strobeActive = false
	wasBusyViolation := f.busyViolationNow
	f.chipReady = false
	f.busyViolationNow = false

	startEmpty := f.frameStartFifo.Empty()
	endEmpty := f.frameEndFifo.Empty()
	size := f.frameStartFifo.Len()

	switch {
	case startEmpty && endEmpty:
		f.frameFifoBusy = false
		f.readoutAbort = false
	case f.frameStartFifo.Full():
		f.frameFifoBusy = true
		f.readoutAbort = true
		if !f.fatal {
			f.fatalCount++
		}
		f.fatal = true
	case size >= almostFull2:
		if !f.readoutAbort {
			f.readoutAbortCount++
		}
		f.frameFifoBusy = true
		f.readoutAbort = true
	case size >= almostFull1:
		if !f.frameFifoBusy {
			f.busyOnCount++
		}
		f.frameFifoBusy = true
	case !f.readoutAbort:
		f.frameFifoBusy = false
	}

	if wasBusyViolation {
		f.busyViolationCount++
	}

	f.frameStartFifo.Put(FrameStart{BusyViolation: wasBusyViolation, BunchCounter: f.bunchCounter})
}

// busyStatus mirrors updateBusyStatus: busy is asserted either because the
// frame FIFOs are filling up or because the matrix itself is as full as
// the current mode allows.
func (f *FROMU) busyStatus() bool {
	n := f.matrix.SliceCount()
	var mebBusy bool
	if f.cfg.ContinuousMode {
		mebBusy = n > 1
	} else {
		mebBusy = n == maxMEBSlices
	}
	return f.frameFifoBusy || mebBusy
}

func (f *FROMU) allRegionsDone() bool {
	for _, r := range f.regions {
		if !r.FrameReadoutDone() {
			return false
		}
	}
	return true
}

// Clock advances the FROMU by one cycle: checking for strobe expiry,
// stepping the frame readout controller, and returning whether a
// frame_readout_start pulse should be delivered to the regions this cycle,
// plus busyOnEdge/busyOffEdge pulses on the cycle the chip's busy status
// actually changes, for the caller to turn into BUSY_ON/BUSY_OFF status
// words on the output stream.
func (f *FROMU) Clock(now uint64) (frameReadoutStart, readoutAbort, busyOnEdge, busyOffEdge bool) {
	if f.strobeActive && now >= f.strobeEndTime {
		f.endStrobe(now)
	}

	f.bunchCounter++
	if f.bunchCounter == lhcOrbitBunchCount {
		f.bunchCounter = 0
	}

	switch f.frc {
	case frcWaitForEvents:
		n := f.matrix.SliceCount()
		if n > 1 || (n == 1 && !f.strobeActive) {
			f.frc = frcRegionReadoutStart
		}
	case frcRegionReadoutStart:
		frameReadoutStart = true
		f.frc = frcWaitForRegionReadout
	case frcWaitForRegionReadout:
		if f.readoutAbort {
			f.pendingEnd = f.popFrameFlags()
			f.frc = frcRegionReadoutDone
		} else if f.allRegionsDone() {
			flags := f.popFrameFlags()
			flags.BusyTransition = f.busyStatus()
			f.pendingEnd = flags
			f.frc = frcRegionReadoutDone
		}
	case frcRegionReadoutDone:
		f.frameEndFifo.Put(f.pendingEnd)
		f.matrix.DeleteEvent(now)
		f.frc = frcWaitForEvents
	}

	busy := f.busyStatus()
	if busy != f.busyLatched {
		busyOnEdge = busy
		busyOffEdge = !busy
		f.busyLatched = busy
	}

	return frameReadoutStart, f.readoutAbort, busyOnEdge, busyOffEdge
}

func (f *FROMU) popFrameFlags() FrameEnd {
	if len(f.frameFlags) == 0 {
		return FrameEnd{}
	}
	flags := f.frameFlags[0]
	f.frameFlags = f.frameFlags[1:]
	return FrameEnd{FlushedIncomplete: flags.flushedIncomplete, StrobeExtended: flags.strobeExtended}
}

// BusyCounters reports cumulative edge counts for the monitor CLI and the
// visualizer overlay.
type BusyCounters struct {
	TriggersAccepted      uint64
	TriggersRejected      uint64
	EventsFlushed         uint64
	BusyOnTransitions     uint64
	BusyViolations        uint64
	FlushedIncompleteFrames uint64
	ReadoutAborts         uint64
	FatalLatches          uint64
}

func (f *FROMU) BusyCounters() BusyCounters {
	return BusyCounters{
		TriggersAccepted:        f.triggersAccepted,
		TriggersRejected:        f.triggersRejected,
		EventsFlushed:           f.eventsFlushed,
		BusyOnTransitions:       f.busyOnCount,
		BusyViolations:          f.busyViolationCount,
		FlushedIncompleteFrames: f.flushedIncompleteCount,
		ReadoutAborts:           f.readoutAbortCount,
		FatalLatches:            f.fatalCount,
	}
}

// Fatal reports whether the chip has latched a fatal frame-FIFO overflow.
// Per spec this can only be cleared by an external reset, out of scope for
// this core.
func (f *FROMU) Fatal() bool { return f.fatal }

// BunchCounter returns the current LHC bunch counter value (wraps at 3564).
func (f *FROMU) BunchCounter() uint16 { return f.bunchCounter }
