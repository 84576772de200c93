package display

import (
	"context"
	"log"
	"sync/atomic"
	"time"
)

// DefaultPeriod is the time each digit stays lit (about 3ms for a full cycle).
const DefaultPeriod = time.Millisecond

// Refresher runs the multiplexer from a periodic tick. Ticks are handled one
// at a time on the Run goroutine, so a refresh never overlaps another.
type Refresher struct {
	mux *Multiplexer
	bus Bus

	refreshes atomic.Uint64
	errors    atomic.Uint64
	failing   bool
}

// NewRefresher creates a Refresher driving bus from mux.
func NewRefresher(mux *Multiplexer, bus Bus) *Refresher {
	return &Refresher{mux: mux, bus: bus}
}

// Run refreshes the display on every tick until ctx is cancelled, then blanks it.
// The tick period is fixed by the caller's ticker and never corrected for drift.
func (r *Refresher) Run(ctx context.Context, tick <-chan time.Time) {
	for {
		select {
		case <-ctx.Done():
			if err := r.bus.SetDigits(0); err != nil {
				log.Printf("display: blank on exit: %v", err)
			}
			return
		case <-tick:
			r.Step()
		}
	}
}

// Step performs one refresh. Errors are counted and logged once per failure
// streak; the cycle always continues.
func (r *Refresher) Step() {
	f, err := r.mux.Refresh(r.bus)
	r.refreshes.Add(1)
	if err != nil {
		r.errors.Add(1)
		if !r.failing {
			log.Printf("display: phase %d: %v", f.Phase, err)
			r.failing = true
		}
		return
	}
	if r.failing {
		log.Printf("display: refresh recovered")
		r.failing = false
	}
}

// Refreshes returns the number of refresh periods run so far. Safe for concurrent use.
func (r *Refresher) Refreshes() uint64 {
	return r.refreshes.Load()
}

// Errors returns the number of refresh periods that hit a bus error. Safe for concurrent use.
func (r *Refresher) Errors() uint64 {
	return r.errors.Load()
}
