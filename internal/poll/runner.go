package poll

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/Zuo-Peng/droptrack/internal/capture"
	"github.com/Zuo-Peng/droptrack/internal/snapshot"
	"github.com/Zuo-Peng/droptrack/internal/telemetry"
)

// DefaultInterval is the poll cadence.
const DefaultInterval = 200 * time.Millisecond

// Runner feeds a Session from a capture source and persists state after
// every cycle that changed it.
type Runner struct {
	Session  *Session
	Source   capture.Source
	Store    *snapshot.Store // nil disables persistence
	Interval time.Duration
	Metrics  *telemetry.Metrics

	// OnCycle, if set, is called after every cycle.
	OnCycle func(CycleResult)
}

// Poll reads one batch of fragments and runs a cycle over it. A failed read
// counts as an empty poll. Poll returns io.EOF once a finite source is
// exhausted.
func (r *Runner) Poll(ctx context.Context) (CycleResult, error) {
	log := r.Session.Logger()

	frags, err := r.Source.Read(ctx)
	if errors.Is(err, io.EOF) {
		return CycleResult{}, io.EOF
	}
	if err != nil {
		log.Debug("capture failed", "err", err)
		r.Metrics.CaptureFailed()
		frags = nil
	}

	res := r.Session.RunOnce(frags)
	if res.Changed && r.Store != nil {
		if err := r.Store.Save(ctx, r.Session.State()); err != nil {
			log.Warn("save failed", "err", err)
			r.Metrics.SaveFailed()
		}
	}
	if r.OnCycle != nil {
		r.OnCycle(res)
	}
	return res, nil
}

// Run polls once immediately, then on every tick, until ctx is done or the
// source is exhausted.
func (r *Runner) Run(ctx context.Context) error {
	interval := r.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	if _, err := r.Poll(ctx); err != nil {
		return eofOK(err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := r.Poll(ctx); err != nil {
				return eofOK(err)
			}
		}
	}
}

// Drain polls back to back until the source is exhausted or ctx is done,
// returning the number of cycles run.
func (r *Runner) Drain(ctx context.Context) (int, error) {
	n := 0
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if _, err := r.Poll(ctx); err != nil {
			return n, eofOK(err)
		}
		n++
	}
}

// Reset clears the session and persists the default state.
func (r *Runner) Reset(ctx context.Context) error {
	r.Session.Reset()
	if r.Store == nil {
		return nil
	}
	return r.Store.Save(ctx, r.Session.State())
}

func eofOK(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
