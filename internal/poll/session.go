// Package poll runs the read-classify-aggregate cycle over chatbox polls.
package poll

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Zuo-Peng/droptrack/internal/catalog"
	"github.com/Zuo-Peng/droptrack/internal/chatlog"
	"github.com/Zuo-Peng/droptrack/internal/classify"
	"github.com/Zuo-Peng/droptrack/internal/logging"
	"github.com/Zuo-Peng/droptrack/internal/seen"
	"github.com/Zuo-Peng/droptrack/internal/stats"
	"github.com/Zuo-Peng/droptrack/internal/telemetry"
)

// CycleResult describes one finished cycle.
type CycleResult struct {
	Lines    []string
	New      []string
	Events   []classify.Event
	Baseline bool
	Changed  bool
}

func (r CycleResult) String() string {
	return fmt.Sprintf("lines=%d new=%d events=%d baseline=%t changed=%t",
		len(r.Lines), len(r.New), len(r.Events), r.Baseline, r.Changed)
}

// Session owns the state, the seen-line cache and the baseline flag for one
// tracking run. RunOnce and Reset are serialized.
type Session struct {
	mu sync.Mutex

	id          string
	cat         *catalog.Catalog
	classifier  *classify.Classifier
	cache       *seen.Cache
	state       *stats.State
	initialized bool

	now     func() time.Time
	log     *logging.Logger
	metrics *telemetry.Metrics
}

// Option configures a Session.
type Option func(*Session)

// WithState starts the session from a previously loaded state.
func WithState(st *stats.State) Option {
	return func(s *Session) {
		if st != nil {
			s.state = st
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func WithLogger(l *logging.Logger) Option {
	return func(s *Session) { s.log = l }
}

func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithCacheCapacity bounds the seen-line cache.
func WithCacheCapacity(n int) Option {
	return func(s *Session) { s.cache = seen.New(n) }
}

// NewSession creates a Session in baseline mode.
func NewSession(cat *catalog.Catalog, opts ...Option) *Session {
	s := &Session{
		id:         uuid.NewString(),
		cat:        cat,
		classifier: classify.New(cat),
		cache:      seen.New(seen.DefaultCapacity),
		state:      stats.Default(cat),
		now:        time.Now,
		log:        logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("session", s.id[:8])
	return s
}

// ID returns the session's unique id.
func (s *Session) ID() string { return s.id }

// RunOnce processes one poll. The first non-empty poll after creation or
// Reset only records what is already on screen. A poll with no fragments
// changes nothing, not even the baseline.
func (s *Session) RunOnce(fragments []chatlog.Fragment) CycleResult {
	if len(fragments) == 0 {
		return CycleResult{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	res := CycleResult{Lines: chatlog.Reconstruct(fragments)}

	if !s.initialized {
		for _, line := range res.Lines {
			s.cache.Remember(chatlog.Key(line))
		}
		s.initialized = true
		res.Baseline = true
		s.log.Info("baseline captured", "lines", len(res.Lines))
		s.metrics.ObserveCycle(len(res.Lines), 0, nil, s.state.FeedCount, time.Since(start))
		return res
	}

	var kinds []string
	for _, line := range res.Lines {
		key := chatlog.Key(line)
		if s.cache.Contains(key) {
			continue
		}
		s.cache.Remember(key)
		res.New = append(res.New, line)

		ev := s.classifier.Classify(line)
		if ev.Kind == classify.KindNone {
			s.log.Debug("unmatched line", "line", chatlog.StripTimestamps(line))
			continue
		}
		stats.Apply(ev, s.state, s.now())
		res.Events = append(res.Events, ev)
		res.Changed = true
		kinds = append(kinds, ev.Kind.String())

		switch ev.Kind {
		case classify.KindDrop:
			s.log.Info("drop", "item", ev.ItemID, "qty", ev.Quantity, "rolls", s.state.TotalRolls)
		case classify.KindFeed:
			s.log.Debug("feed", "progress", s.state.FeedProgress())
		}
	}

	s.metrics.ObserveCycle(len(res.Lines), len(res.New), kinds, s.state.FeedCount, time.Since(start))
	return res
}

// Reset discards all state and the seen cache. The next RunOnce is a
// baseline again, so lines still visible on screen are not re-counted.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = stats.Default(s.cat)
	s.cache.Purge()
	s.initialized = false
	s.log.Info("state reset")
}

// State returns a copy of the current state.
func (s *Session) State() *stats.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Catalog returns the catalog the session classifies against.
func (s *Session) Catalog() *catalog.Catalog { return s.cat }

// Logger returns the session-tagged logger.
func (s *Session) Logger() *logging.Logger { return s.log }
