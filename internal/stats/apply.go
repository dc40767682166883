package stats

import (
	"time"

	"github.com/Zuo-Peng/droptrack/internal/classify"
)

// Apply folds one event into s. Feeds bump the feed counter; drops settle
// waste, record the roll interval and update the item's aggregate. Nothing
// is ever decremented except the feed counter, which resets on each roll.
func Apply(ev classify.Event, s *State, now time.Time) {
	switch ev.Kind {
	case classify.KindFeed:
		s.FeedCount++

	case classify.KindDrop:
		s.FoodWasted += max(0, s.FeedCount-FeedThreshold)

		nowMs := now.UnixMilli()
		if s.LastRollTime != nil {
			s.RollIntervals = append(s.RollIntervals, float64(nowMs-*s.LastRollTime)/1000)
		}
		s.LastRollTime = &nowMs

		d := s.Drops[ev.ItemID]
		if d == nil {
			d = NewDropStats()
			if s.Drops == nil {
				s.Drops = map[string]*DropStats{}
			}
			s.Drops[ev.ItemID] = d
		}
		d.observe(ev.Quantity)

		s.TotalRolls++
		s.FeedCount = 0
	}
}

func (d *DropStats) observe(qty int) {
	d.Count++
	d.QtySum += qty
	if d.QtyCounts == nil {
		d.QtyCounts = map[int]int{}
	}
	d.QtyCounts[qty]++

	if d.ObservedMin == nil || qty < *d.ObservedMin {
		v := qty
		d.ObservedMin = &v
	}
	if d.ObservedMax == nil || qty > *d.ObservedMax {
		v := qty
		d.ObservedMax = &v
	}
}
