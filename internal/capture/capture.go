// Package capture supplies chatbox fragments to the poll loop. The OCR
// reader itself lives outside this module; sources here read what it
// produces.
package capture

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/Zuo-Peng/droptrack/internal/chatlog"
)

const maxLineSize = 1024 * 1024 // 1MB per recorded poll

// Source yields the fragments visible on one poll.
type Source interface {
	Read(ctx context.Context) ([]chatlog.Fragment, error)
}

// FileSource re-reads a text file on every poll; each non-empty line is one
// fragment. The file stands in for the visible chatbox, so unchanged lines
// are reported again on every poll just like an OCR reader would.
type FileSource struct {
	Path string
}

// Read returns the current fragments. A missing file is an empty poll.
func (s *FileSource) Read(ctx context.Context) ([]chatlog.Fragment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read chatbox: %w", err)
	}

	var out []chatlog.Fragment
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, chatlog.Fragment{Text: line})
	}
	return out, nil
}

// ReplaySource plays back a JSONL recording, one poll per line. Each line
// is either an array of {"text": ...} objects or an array of strings.
// Blank lines are skipped. Read returns io.EOF once the recording ends.
type ReplaySource struct {
	mu      sync.Mutex
	scanner *bufio.Scanner
	line    int
}

// NewReplaySource reads polls from r.
func NewReplaySource(r io.Reader) *ReplaySource {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &ReplaySource{scanner: sc}
}

func (s *ReplaySource) Read(ctx context.Context) ([]chatlog.Fragment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.scanner.Scan() {
		s.line++
		raw := bytes.TrimSpace(s.scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		frags, err := DecodePoll(raw)
		if err != nil {
			return nil, fmt.Errorf("replay line %d: %w", s.line, err)
		}
		return frags, nil
	}
	if err := s.scanner.Err(); err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	return nil, io.EOF
}

// DecodePoll parses one recorded poll in either accepted shape.
func DecodePoll(raw []byte) ([]chatlog.Fragment, error) {
	var frags []chatlog.Fragment
	if err := json.Unmarshal(raw, &frags); err == nil {
		return frags, nil
	}
	var texts []string
	if err := json.Unmarshal(raw, &texts); err != nil {
		return nil, fmt.Errorf("decode poll: %w", err)
	}
	return chatlog.Fragments(texts...), nil
}

// Recorder wraps a Source and appends every non-empty poll to w as JSONL,
// producing files ReplaySource can play back.
type Recorder struct {
	Source Source

	mu  sync.Mutex
	enc *json.Encoder
}

// NewRecorder tees src into w.
func NewRecorder(src Source, w io.Writer) *Recorder {
	return &Recorder{Source: src, enc: json.NewEncoder(w)}
}

func (r *Recorder) Read(ctx context.Context) ([]chatlog.Fragment, error) {
	frags, err := r.Source.Read(ctx)
	if err != nil || len(frags) == 0 {
		return frags, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enc.Encode(frags); err != nil {
		return frags, fmt.Errorf("record poll: %w", err)
	}
	return frags, nil
}
