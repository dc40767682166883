package stats

import (
	"fmt"

	"github.com/Zuo-Peng/droptrack/internal/catalog"
)

// maxBreakdownSpan caps how wide a quantity range is broken down row by
// row; coin drops span hundreds of values.
const maxBreakdownSpan = 25

// QtyShare is one row of a quantity breakdown.
type QtyShare struct {
	Qty     int
	Count   int
	Percent float64
}

// AvgQty returns the mean quantity rolled for id.
func (s *State) AvgQty(id string) (float64, bool) {
	d := s.Drops[id]
	if d == nil || d.Count == 0 {
		return 0, false
	}
	return float64(d.QtySum) / float64(d.Count), true
}

// DropChance returns the percentage of all rolls that yielded id.
func (s *State) DropChance(id string) (float64, bool) {
	if s.TotalRolls == 0 {
		return 0, false
	}
	var n int
	if d := s.Drops[id]; d != nil {
		n = d.Count
	}
	return float64(n) / float64(s.TotalRolls) * 100, true
}

// AvgRollTime returns the mean seconds between rolls.
func (s *State) AvgRollTime() (float64, bool) {
	if len(s.RollIntervals) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range s.RollIntervals {
		sum += v
	}
	avg := sum / float64(len(s.RollIntervals))
	return avg, avg > 0
}

// RollsPerHour extrapolates the roll rate from AvgRollTime.
func (s *State) RollsPerHour() (float64, bool) {
	avg, ok := s.AvgRollTime()
	if !ok {
		return 0, false
	}
	return 3600 / avg, true
}

// FeedProgress renders the feed counter against the threshold, e.g. "3/5".
func (s *State) FeedProgress() string {
	return fmt.Sprintf("%d/%d", s.FeedCount, FeedThreshold)
}

// RangeLabel describes the observed quantity extremes for id, or "" before
// the first observation.
func (s *State) RangeLabel(id string) string {
	d := s.Drops[id]
	if d == nil || d.ObservedMin == nil || d.ObservedMax == nil {
		return ""
	}
	return fmt.Sprintf("range: MIN %d – MAX %d", *d.ObservedMin, *d.ObservedMax)
}

// Expandable reports whether def has a variable quantity with data behind it.
func (s *State) Expandable(def catalog.Drop) bool {
	d := s.Drops[def.ID]
	return def.Min != def.Max && d != nil && len(d.QtyCounts) > 0
}

// QtyBreakdown lists the observed quantities of def with their share of
// all its drops. The span covers the observed extremes, falling back to the
// catalog range. ok is false when the span is too wide to list.
func (s *State) QtyBreakdown(def catalog.Drop) (rows []QtyShare, ok bool) {
	d := s.Drops[def.ID]
	if d == nil {
		return nil, true
	}

	lo, hi := def.Min, def.Max
	if d.ObservedMin != nil {
		lo = *d.ObservedMin
	}
	if d.ObservedMax != nil {
		hi = *d.ObservedMax
	}
	if hi-lo > maxBreakdownSpan {
		return nil, false
	}

	for q := lo; q <= hi; q++ {
		c := d.QtyCounts[q]
		if c == 0 {
			continue
		}
		var pct float64
		if d.Count > 0 {
			pct = float64(c) / float64(d.Count) * 100
		}
		rows = append(rows, QtyShare{Qty: q, Count: c, Percent: pct})
	}
	return rows, true
}
