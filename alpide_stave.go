// alpide_stave.go - Drives multiple chips sharing one control bus concurrently

package main

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Stave is a set of chips sharing one broadcast control bus, modeling an
// ITS stave's 9 (inner barrel) or 14/28/49 (outer barrel) chips. Each
// chip's Clock is independent of the others', so a stave steps every chip
// concurrently and reports their output words together, indexed by each
// chip's position in Chips().
type Stave struct {
	chips []*Chip
}

// NewStave wires a stave from already-constructed chips. Chip ids need not
// be contiguous but must be unique; callers are expected to have built
// each chip's AlpideConfig with the stave's shared ChipID assignment.
func NewStave(chips ...*Chip) *Stave {
	return &Stave{chips: chips}
}

// Chips returns the stave's chips in construction order.
func (s *Stave) Chips() []*Chip { return s.chips }

// Broadcast delivers msg to every chip on the stave concurrently, matching
// the control bus being a shared wire all chips listen on. Returns the
// first error encountered, if any, after all chips have been given the
// message.
func (s *Stave) Broadcast(ctx context.Context, msg ControlMessage) error {
	g, _ := errgroup.WithContext(ctx)
	for _, c := range s.chips {
		c := c
		g.Go(func() error {
			return c.HandleControl(msg)
		})
	}
	return g.Wait()
}

// Clock steps every chip by one cycle concurrently and returns each chip's
// output word indexed by its position in Chips(). A panic or error in one
// chip does not stop the others from completing their cycle.
func (s *Stave) Clock(ctx context.Context) ([][3]byte, error) {
	out := make([][3]byte, len(s.chips))
	g, _ := errgroup.WithContext(ctx)
	for i, c := range s.chips {
		i, c := i, c
		g.Go(func() error {
			out[i] = c.Clock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}

// Fatal reports whether any chip on the stave has latched a fatal
// frame-FIFO overflow.
func (s *Stave) Fatal() bool {
	for _, c := range s.chips {
		if c.Fatal() {
			return true
		}
	}
	return false
}
