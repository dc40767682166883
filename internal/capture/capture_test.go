package capture

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/droptrack/internal/chatlog"
)

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chatbox.txt")
	src := &FileSource{Path: path}

	frags, err := src.Read(context.Background())
	require.NoError(t, err)
	assert.Empty(t, frags, "missing file is an empty poll")

	require.NoError(t, os.WriteFile(path, []byte("[12:00:01] You find \r\n\n5 Bones.\n"), 0o644))
	frags, err = src.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, chatlog.Fragments("[12:00:01] You find ", "5 Bones."), frags)

	// Same contents, same fragments.
	again, err := src.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, frags, again)
}

func TestFileSourceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&FileSource{Path: "x"}).Read(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReplaySource(t *testing.T) {
	rec := strings.Join([]string{
		`[{"text":"[12:00:01] Hello."}]`,
		``,
		`["[12:00:02] You find ", "5 Bones."]`,
		`{"bad":true}`,
	}, "\n")
	src := NewReplaySource(strings.NewReader(rec))
	ctx := context.Background()

	frags, err := src.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, chatlog.Fragments("[12:00:01] Hello."), frags)

	frags, err = src.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, chatlog.Fragments("[12:00:02] You find ", "5 Bones."), frags)

	_, err = src.Read(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "replay line 4")

	_, err = src.Read(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

type staticSource struct{ polls [][]chatlog.Fragment }

func (s *staticSource) Read(context.Context) ([]chatlog.Fragment, error) {
	if len(s.polls) == 0 {
		return nil, nil
	}
	p := s.polls[0]
	s.polls = s.polls[1:]
	return p, nil
}

func TestRecorderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	src := &staticSource{polls: [][]chatlog.Fragment{
		chatlog.Fragments("[12:00:01] a"),
		nil,
		chatlog.Fragments("[12:00:02] b", "c"),
	}}
	rec := NewRecorder(src, &buf)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := rec.Read(ctx)
		require.NoError(t, err)
	}

	replay := NewReplaySource(&buf)
	first, err := replay.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, chatlog.Fragments("[12:00:01] a"), first)
	second, err := replay.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, chatlog.Fragments("[12:00:02] b", "c"), second)
	_, err = replay.Read(ctx)
	assert.ErrorIs(t, err, io.EOF)
}
