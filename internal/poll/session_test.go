package poll

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/droptrack/internal/catalog"
	"github.com/Zuo-Peng/droptrack/internal/chatlog"
	"github.com/Zuo-Peng/droptrack/internal/classify"
	"github.com/Zuo-Peng/droptrack/internal/stats"
	"github.com/Zuo-Peng/droptrack/internal/telemetry"
)

func fixedClock(start time.Time, step time.Duration) func() time.Time {
	t := start
	return func() time.Time {
		now := t
		t = t.Add(step)
		return now
	}
}

// seedScreen runs the baseline poll over an unrelated screen line.
func seedScreen(s *Session) {
	s.RunOnce(chatlog.Fragments("[11:00:00] Welcome to the game."))
}

func newTestSession(opts ...Option) *Session {
	base := []Option{WithClock(fixedClock(time.UnixMilli(1_700_000_000_000), 30*time.Second))}
	return NewSession(catalog.Default(), append(base, opts...)...)
}

func TestBaselineAppliesNothing(t *testing.T) {
	s := newTestSession()
	frags := chatlog.Fragments(
		"[12:00:01] The dog happily eats the treat.",
		"[12:00:02] You find 5 Bones.",
	)

	res := s.RunOnce(frags)
	assert.True(t, res.Baseline)
	assert.False(t, res.Changed)
	assert.Len(t, res.Lines, 2)
	assert.Equal(t, stats.Default(catalog.Default()), s.State())

	// Same screen again: everything is already seen.
	res = s.RunOnce(frags)
	assert.False(t, res.Baseline)
	assert.Empty(t, res.New)
	assert.Empty(t, res.Events)
	assert.Equal(t, stats.Default(catalog.Default()), s.State())
}

func TestNewLinesAfterBaseline(t *testing.T) {
	s := newTestSession()
	s.RunOnce(chatlog.Fragments("[12:00:00] Welcome."))

	res := s.RunOnce(chatlog.Fragments(
		"[12:00:00] Welcome.",
		"[12:00:01] The dog happily eats the treat.",
		"[12:00:02] You find ", "3 ", "Bones.",
	))
	require.True(t, res.Changed)
	assert.Equal(t, []string{
		"[12:00:01] The dog happily eats the treat.",
		"[12:00:02] You find 3 Bones.",
	}, res.New)
	assert.Equal(t, []classify.Event{classify.Feed(), classify.Drop("bones", 3)}, res.Events)

	st := s.State()
	assert.Equal(t, 1, st.TotalRolls)
	assert.Equal(t, 0, st.FeedCount)
	assert.Equal(t, 1, st.Drops["bones"].Count)
}

func TestDedupAcrossCycles(t *testing.T) {
	s := newTestSession()
	seedScreen(s)

	frags := chatlog.Fragments("[12:00:05] You find 2 Oak logs.")
	for k := 0; k < 10; k++ {
		s.RunOnce(frags)
	}
	st := s.State()
	assert.Equal(t, 1, st.TotalRolls)
	assert.Equal(t, 1, st.Drops["oak_logs"].Count)
}

func TestSameMessageDifferentTimestamp(t *testing.T) {
	s := newTestSession()
	seedScreen(s)

	s.RunOnce(chatlog.Fragments("[12:00:05] The dog happily eats the treat."))
	s.RunOnce(chatlog.Fragments(
		"[12:00:05] The dog  happily eats the treat.",
		"[12:00:06] The dog happily eats the treat.",
	))
	assert.Equal(t, 2, s.State().FeedCount)
}

func TestUnmatchedLinesAreRememberedNotApplied(t *testing.T) {
	s := newTestSession()
	seedScreen(s)

	res := s.RunOnce(chatlog.Fragments("[12:00:07] ❆", "[12:00:08] You find 1 Dragon."))
	assert.Len(t, res.New, 2)
	assert.Empty(t, res.Events)
	assert.False(t, res.Changed)
}

func TestFeedWasteAcrossCycles(t *testing.T) {
	s := newTestSession()
	seedScreen(s)

	for i := 0; i < 7; i++ {
		s.RunOnce(chatlog.Fragments(fmt.Sprintf("[12:01:%02d] The dog happily eats the treat.", i)))
	}
	assert.Equal(t, "7/5", s.State().FeedProgress())

	s.RunOnce(chatlog.Fragments("[12:02:00] You find 600 Coins."))
	st := s.State()
	assert.Equal(t, 2, st.FoodWasted)
	assert.Equal(t, 0, st.FeedCount)
}

func TestRollIntervalsUseClock(t *testing.T) {
	s := newTestSession()
	seedScreen(s)
	s.RunOnce(chatlog.Fragments("[12:00:01] You find 1 Bones."))
	s.RunOnce(chatlog.Fragments("[12:00:31] You find 2 Bones."))

	st := s.State()
	assert.Equal(t, []float64{30}, st.RollIntervals)
	avg, ok := st.AvgRollTime()
	require.True(t, ok)
	assert.Equal(t, 30.0, avg)
}

func TestResetRearmsBaseline(t *testing.T) {
	s := newTestSession()
	seedScreen(s)
	frags := chatlog.Fragments("[12:00:01] You find 1 Bones.")
	s.RunOnce(frags)
	require.Equal(t, 1, s.State().TotalRolls)

	s.Reset()
	assert.Equal(t, stats.Default(catalog.Default()), s.State())

	// The line is still on screen after reset; it must not count again.
	res := s.RunOnce(frags)
	assert.True(t, res.Baseline)
	assert.Equal(t, 0, s.State().TotalRolls)

	s.RunOnce(chatlog.Fragments("[12:00:01] You find 1 Bones.", "[12:00:09] You find 4 Bones."))
	assert.Equal(t, 1, s.State().TotalRolls)
}

func TestStateIsACopy(t *testing.T) {
	s := newTestSession()
	st := s.State()
	st.FeedCount = 99
	assert.Equal(t, 0, s.State().FeedCount)
}

func TestWithStateResumes(t *testing.T) {
	prev := stats.Default(catalog.Default())
	prev.TotalRolls = 12
	s := newTestSession(WithState(prev))
	seedScreen(s)
	s.RunOnce(chatlog.Fragments("[12:00:01] You find 1 Bones."))
	assert.Equal(t, 13, s.State().TotalRolls)
}

func TestSessionIDsAreUnique(t *testing.T) {
	a, b := newTestSession(), newTestSession()
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Len(t, a.ID(), 36)
}

func TestSessionMetrics(t *testing.T) {
	m := telemetry.New()
	s := newTestSession(WithMetrics(m))
	seedScreen(s)
	s.RunOnce(chatlog.Fragments("[12:00:01] The dog happily eats the treat."))

	mfs, err := m.Registry.Gather()
	require.NoError(t, err)
	found := false
	for _, mf := range mfs {
		if mf.GetName() == "droptrack_poll_cycles_total" {
			found = true
			assert.Equal(t, 2.0, mf.GetMetric()[0].GetCounter().GetValue())
		}
	}
	assert.True(t, found)
}

func TestEmptyPollIsNoop(t *testing.T) {
	s := newTestSession()

	res := s.RunOnce(nil)
	assert.False(t, res.Baseline)
	assert.Empty(t, res.Lines)

	// The first screen seen is still the baseline, so nothing on it counts.
	res = s.RunOnce(chatlog.Fragments(
		"[11:59:00] You find 5 Bones.",
		"[11:59:01] The dog happily eats the treat.",
	))
	assert.True(t, res.Baseline)
	assert.Empty(t, res.Events)
	assert.Equal(t, stats.Default(catalog.Default()), s.State())
}

func TestEmptyPollAfterResetKeepsBaselineArmed(t *testing.T) {
	s := newTestSession()
	seedScreen(s)
	s.Reset()

	s.RunOnce([]chatlog.Fragment{})
	res := s.RunOnce(chatlog.Fragments("[12:00:01] You find 1 Bones."))
	assert.True(t, res.Baseline)
	assert.Equal(t, 0, s.State().TotalRolls)
}
