// Package snapshot persists the aggregate state as a versioned JSON blob.
//
// Loading never fails outright. A missing snapshot, a snapshot written by a
// different schema version, or an unparsable blob all yield the default
// state; individual fields with the wrong type or no value fall back to
// their defaults one by one. The returned error says what was recovered
// from, for logging.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Zuo-Peng/droptrack/internal/catalog"
	"github.com/Zuo-Peng/droptrack/internal/stats"
)

// Key is the storage key the snapshot lives under.
const Key = "snapshot"

var (
	ErrVersionMismatch = errors.New("snapshot version mismatch")
	ErrCorrupt         = errors.New("snapshot corrupt")
)

// Store binds a KV to the catalog used to backfill loaded state.
type Store struct {
	kv  KV
	cat *catalog.Catalog
}

// NewStore creates a Store.
func NewStore(kv KV, cat *catalog.Catalog) *Store {
	return &Store{kv: kv, cat: cat}
}

// Load reads the persisted state. The returned state is always usable.
func (s *Store) Load(ctx context.Context) (*stats.State, error) {
	return Load(ctx, s.kv, s.cat)
}

// Save writes st.
func (s *Store) Save(ctx context.Context, st *stats.State) error {
	return Save(ctx, s.kv, st)
}

// Reset overwrites the stored snapshot with a fresh default state.
func (s *Store) Reset(ctx context.Context) (*stats.State, error) {
	st := stats.Default(s.cat)
	return st, s.Save(ctx, st)
}

// Load reads the snapshot under Key from kv.
func Load(ctx context.Context, kv KV, cat *catalog.Catalog) (*stats.State, error) {
	raw, ok, err := kv.Get(ctx, Key)
	if err != nil {
		return stats.Default(cat), fmt.Errorf("load snapshot: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return stats.Default(cat), nil
	}
	return Decode([]byte(raw), cat)
}

// Save encodes st and writes it under Key.
func Save(ctx context.Context, kv KV, st *stats.State) error {
	data, err := Encode(st)
	if err != nil {
		return err
	}
	if err := kv.Put(ctx, Key, string(data)); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Encode serializes st, stamping the current schema version.
func Encode(st *stats.State) ([]byte, error) {
	out := *st
	out.Version = stats.SchemaVersion
	if out.RollIntervals == nil {
		out.RollIntervals = []float64{}
	}
	data, err := json.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a snapshot blob leniently against cat.
func Decode(data []byte, cat *catalog.Catalog) (*stats.State, error) {
	var root map[string]any
	if err := json.Unmarshal(data, &root); err != nil {
		return stats.Default(cat), fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if root == nil {
		return stats.Default(cat), fmt.Errorf("%w: not an object", ErrCorrupt)
	}

	// The version tag is never coerced: only the exact JSON number matches.
	if v, ok := root["version"].(float64); !ok || v != stats.SchemaVersion {
		return stats.Default(cat), fmt.Errorf("%w: got %v, want %d", ErrVersionMismatch, root["version"], stats.SchemaVersion)
	}

	st := stats.Default(cat)
	st.FeedCount = toInt(root["feedCount"])
	st.TotalRolls = toInt(root["totalRolls"])
	st.FoodWasted = toInt(root["foodWasted"])
	if v, ok := asNumber(root["lastRollTime"]); ok && inInt64Range(v) {
		ms := int64(v)
		st.LastRollTime = &ms
	}
	if arr, ok := root["rollIntervals"].([]any); ok {
		for _, x := range arr {
			if v, ok := asNumber(x); ok {
				st.RollIntervals = append(st.RollIntervals, v)
			}
		}
	}

	drops, _ := root["drops"].(map[string]any)
	for id, v := range drops {
		obj, ok := v.(map[string]any)
		if !ok {
			continue
		}
		st.Drops[id] = decodeDrop(obj)
	}
	return st, nil
}

func decodeDrop(obj map[string]any) *stats.DropStats {
	d := stats.NewDropStats()
	d.Count = toInt(obj["count"])
	d.QtySum = toInt(obj["qtySum"])
	if counts, ok := obj["qtyCounts"].(map[string]any); ok {
		for k, v := range counts {
			q, err := strconv.Atoi(strings.TrimSpace(k))
			if err != nil {
				continue
			}
			if n := toInt(v); n != 0 {
				d.QtyCounts[q] = n
			}
		}
	}
	d.ObservedMin = toIntPtr(obj["observedMin"])
	d.ObservedMax = toIntPtr(obj["observedMax"])
	return d
}

// asNumber coerces JSON numbers, numeric strings and bools. Null, missing
// and anything non-numeric report ok=false.
func asNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// asInt is asNumber restricted to values that fit in an int.
func asInt(v any) (int, bool) {
	f, ok := asNumber(v)
	if !ok || f < float64(math.MinInt) || f >= -float64(math.MinInt) {
		return 0, false
	}
	return int(f), true
}

func inInt64Range(f float64) bool {
	return f >= float64(math.MinInt64) && f < -float64(math.MinInt64)
}

func toInt(v any) int {
	n, _ := asInt(v)
	return n
}

func toIntPtr(v any) *int {
	n, ok := asInt(v)
	if !ok {
		return nil
	}
	return &n
}
