// Package stats owns the tracker's aggregate state and the arithmetic that
// updates it.
package stats

import "github.com/Zuo-Peng/droptrack/internal/catalog"

// SchemaVersion tags persisted snapshots. A stored snapshot with any other
// version is discarded.
const SchemaVersion = 1

// FeedThreshold is the number of treats expected before each roll. Treats
// beyond it count as wasted.
const FeedThreshold = 5

// DropStats aggregates every observation of one item.
type DropStats struct {
	Count       int         `json:"count"`
	QtySum      int         `json:"qtySum"`
	QtyCounts   map[int]int `json:"qtyCounts"`
	ObservedMin *int        `json:"observedMin"`
	ObservedMax *int        `json:"observedMax"`
}

// NewDropStats returns an empty aggregate.
func NewDropStats() *DropStats {
	return &DropStats{QtyCounts: map[int]int{}}
}

// State is the root aggregate. It is also the persisted snapshot shape.
type State struct {
	Version       int                   `json:"version"`
	FeedCount     int                   `json:"feedCount"`
	TotalRolls    int                   `json:"totalRolls"`
	FoodWasted    int                   `json:"foodWasted"`
	LastRollTime  *int64                `json:"lastRollTime"` // unix millis
	RollIntervals []float64             `json:"rollIntervals"`
	Drops         map[string]*DropStats `json:"drops"`
}

// Default returns a fresh state with an empty aggregate per catalog item.
func Default(cat *catalog.Catalog) *State {
	s := &State{
		Version:       SchemaVersion,
		RollIntervals: []float64{},
		Drops:         make(map[string]*DropStats, cat.Len()),
	}
	for _, id := range cat.IDs() {
		s.Drops[id] = NewDropStats()
	}
	return s
}

// Clone returns a deep copy, for handing state to readers outside the
// poll loop.
func (s *State) Clone() *State {
	c := *s
	if s.LastRollTime != nil {
		v := *s.LastRollTime
		c.LastRollTime = &v
	}
	c.RollIntervals = append([]float64{}, s.RollIntervals...)
	c.Drops = make(map[string]*DropStats, len(s.Drops))
	for id, d := range s.Drops {
		dc := *d
		dc.QtyCounts = make(map[int]int, len(d.QtyCounts))
		for q, n := range d.QtyCounts {
			dc.QtyCounts[q] = n
		}
		dc.ObservedMin = cloneInt(d.ObservedMin)
		dc.ObservedMax = cloneInt(d.ObservedMax)
		c.Drops[id] = &dc
	}
	return &c
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
