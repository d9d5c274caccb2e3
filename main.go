// main.go - CLI entry point for the ALPIDE chip simulator

package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
)

func main() {
	chipID := flag.Int("chip-id", 0, "chip id reported in headers/trailers")
	cycles := flag.Uint64("cycles", 0, "number of 40MHz cycles to run in batch mode")
	continuous := flag.Bool("continuous", false, "use the continuous-mode MEB policy (flush the oldest slice instead of rejecting a trigger)")
	fastReadout := flag.Bool("fast-readout", true, "use 1-cycle-per-region matrix readout instead of 2")
	noCluster := flag.Bool("no-cluster", false, "disable DATA_LONG clustering; always emit DATA_SHORT")
	dtuDelay := flag.Int("dtu-delay", 0, "DTU delay line length in cycles (0 bypasses the DTU FIFO)")
	fifoSize := flag.Int("fifo-size", 64, "region and DMU FIFO capacity in words")
	interactive := flag.Bool("interactive", false, "run a raw-mode terminal monitor: 't' triggers, 'q' quits")
	visualize := flag.Bool("visualize", false, "open a live occupancy/FIFO visualizer window")
	snapshot := flag.String("snapshot", "", "write a PNG occupancy snapshot to this path after the run and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: alpidesim [options]\n\nRuns a single ALPIDE chip simulation.\n\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  alpidesim -interactive -visualize\n")
		fmt.Fprintf(os.Stderr, "  alpidesim -cycles 100000 -continuous -snapshot occupancy.png\n")
	}
	flag.Parse()

	if !*interactive && *cycles == 0 {
		fmt.Fprintf(os.Stderr, "error: -cycles must be nonzero unless -interactive is set\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg := DefaultAlpideConfig(*chipID)
	cfg.ContinuousMode = *continuous
	cfg.MatrixReadoutSpeedFast = *fastReadout
	cfg.EnableClustering = !*noCluster
	cfg.DTUDelayCycles = *dtuDelay
	cfg.RegionFIFOSize = *fifoSize
	cfg.DMUFIFOSize = *fifoSize

	chip := NewChip(cfg)

	var vis *AlpideVisualizer
	if *visualize {
		vis = NewAlpideVisualizer(chip, cfg.RegionFIFOSize)
		vis.Start()
	}

	if *interactive {
		runInteractive(chip)
	} else {
		runBatch(chip, *cycles)
	}

	if vis != nil {
		vis.Stop()
	}

	if *snapshot != "" {
		if err := writeSnapshot(chip, *snapshot); err != nil {
			fmt.Fprintf(os.Stderr, "error writing snapshot: %v\n", err)
			os.Exit(1)
		}
	}
}

func runBatch(chip *Chip, cycles uint64) {
	for i := uint64(0); i < cycles; i++ {
		chip.Clock()
	}
}

func runInteractive(chip *Chip) {
	done := make(chan struct{})
	host := NewTerminalHost(chip, func(b byte) {
		switch b {
		case 't', 'T':
			_ = chip.HandleControl(ControlMessage{Opcode: opcodeTrigger, ChipID: byte(chip.cfg.ChipID)})
		case 'q', 'Q', 0x03:
			close(done)
		}
	})
	host.Start()
	defer host.Stop()

	for {
		select {
		case <-done:
			return
		default:
			chip.Clock()
		}
	}
}

func writeSnapshot(chip *Chip, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if err := WriteMatrixOccupancyPNG(chip, 2, w); err != nil {
		return err
	}
	return w.Flush()
}
