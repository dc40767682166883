package poll

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/droptrack/internal/capture"
	"github.com/Zuo-Peng/droptrack/internal/catalog"
	"github.com/Zuo-Peng/droptrack/internal/chatlog"
	"github.com/Zuo-Peng/droptrack/internal/snapshot"
	"github.com/Zuo-Peng/droptrack/internal/stats"
)

// scriptSource returns its polls in order, then repeats the last one.
type scriptSource struct {
	mu    sync.Mutex
	polls [][]chatlog.Fragment
	errs  map[int]error
	n     int
}

func (s *scriptSource) Read(context.Context) ([]chatlog.Fragment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.n
	s.n++
	if err := s.errs[i]; err != nil {
		return nil, err
	}
	if i >= len(s.polls) {
		i = len(s.polls) - 1
	}
	return s.polls[i], nil
}

func TestRunnerPersistsOnChange(t *testing.T) {
	cat := catalog.Default()
	kv := snapshot.NewMemKV()
	src := &scriptSource{polls: [][]chatlog.Fragment{
		chatlog.Fragments("[12:00:00] hello"),
		chatlog.Fragments("[12:00:00] hello", "[12:00:01] You find 2 Bones."),
	}}
	r := &Runner{Session: newTestSession(), Source: src, Store: snapshot.NewStore(kv, cat)}
	ctx := context.Background()

	res, err := r.Poll(ctx)
	require.NoError(t, err)
	assert.True(t, res.Baseline)
	_, ok, _ := kv.Get(ctx, snapshot.Key)
	assert.False(t, ok, "baseline must not persist")

	res, err = r.Poll(ctx)
	require.NoError(t, err)
	assert.True(t, res.Changed)

	loaded, err := snapshot.Load(ctx, kv, cat)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.TotalRolls)
}

func TestRunnerCaptureErrorIsEmptyPoll(t *testing.T) {
	src := &scriptSource{
		polls: [][]chatlog.Fragment{chatlog.Fragments("[12:00:00] hi")},
		errs:  map[int]error{0: errors.New("ocr timeout")},
	}
	r := &Runner{Session: newTestSession(), Source: src}

	res, err := r.Poll(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Baseline)
	assert.Empty(t, res.Lines)

	// The first successful read becomes the baseline.
	res, err = r.Poll(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Baseline)
	assert.Equal(t, []string{"[12:00:00] hi"}, res.Lines)
}

func TestRunnerMissingChatboxDoesNotArmBaseline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chatbox.txt")
	r := &Runner{Session: newTestSession(), Source: &capture.FileSource{Path: path}}
	ctx := context.Background()

	res, err := r.Poll(ctx)
	require.NoError(t, err)
	assert.False(t, res.Baseline)

	// The OCR feed comes up with an older drop already on screen.
	require.NoError(t, os.WriteFile(path, []byte("[11:58:00] You find 3 Bones.\n"), 0o644))
	res, err = r.Poll(ctx)
	require.NoError(t, err)
	assert.True(t, res.Baseline)
	assert.Equal(t, 0, r.Session.State().TotalRolls)
}

func TestRunnerRunStopsOnCancel(t *testing.T) {
	src := &scriptSource{polls: [][]chatlog.Fragment{nil}}
	var mu sync.Mutex
	cycles := 0
	r := &Runner{
		Session:  newTestSession(),
		Source:   src,
		Interval: time.Millisecond,
		OnCycle: func(CycleResult) {
			mu.Lock()
			cycles++
			mu.Unlock()
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return cycles >= 3
	}, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestRunnerDrainReplay(t *testing.T) {
	recording := strings.Join([]string{
		`["[12:00:00] Welcome."]`,
		`["[12:00:00] Welcome.", "[12:00:01] The dog happily eats the treat."]`,
		`[{"text":"[12:00:01] The dog happily eats the treat."},{"text":"[12:00:02] You find "},{"text":"4 Big bones."}]`,
	}, "\n")
	r := &Runner{
		Session: newTestSession(),
		Source:  capture.NewReplaySource(strings.NewReader(recording)),
	}

	n, err := r.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	st := r.Session.State()
	assert.Equal(t, 1, st.TotalRolls)
	assert.Equal(t, map[int]int{4: 1}, st.Drops["big_bones"].QtyCounts)
}

func TestRunnerReset(t *testing.T) {
	cat := catalog.Default()
	kv := snapshot.NewMemKV()
	src := &scriptSource{polls: [][]chatlog.Fragment{
		chatlog.Fragments("[12:00:00] hello"),
		chatlog.Fragments("[12:00:01] You find 2 Bones."),
	}}
	r := &Runner{Session: newTestSession(), Source: src, Store: snapshot.NewStore(kv, cat)}
	ctx := context.Background()
	_, _ = r.Poll(ctx)
	_, _ = r.Poll(ctx)

	require.NoError(t, r.Reset(ctx))
	loaded, err := snapshot.Load(ctx, kv, cat)
	require.NoError(t, err)
	assert.Equal(t, stats.Default(cat), loaded)
}
