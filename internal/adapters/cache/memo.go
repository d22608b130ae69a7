// Package cache memoizes aggregation results keyed by store version.
package cache

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/coocood/freecache"

	"github.com/okian/dugout/pkg/metrics"
)

const (
	defaultSizeBytes = 16 << 20
	keySeparator     = 0x1f
)

// Memo stores JSON-encoded results in a fixed-size freecache.
type Memo struct {
	cache      *freecache.Cache
	ttlSeconds int
}

// Stats reports cache effectiveness.
type Stats struct {
	Entries int64   `json:"entries"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// New creates a memo. freecache enforces a 512KB minimum size.
func New(opts ...Option) *Memo {
	m := &Memo{}
	size := defaultSizeBytes
	for _, opt := range opts {
		opt(m, &size)
	}
	m.cache = freecache.NewCache(size)
	return m
}

// Key digests an operation, the store version it was computed at and its
// arguments.
func Key(op string, version uint64, args ...string) []byte {
	d := xxhash.New()
	_, _ = d.WriteString(op)
	var v [9]byte
	v[0] = keySeparator
	binary.BigEndian.PutUint64(v[1:], version)
	_, _ = d.Write(v[:])
	for _, a := range args {
		_, _ = d.Write([]byte{keySeparator})
		_, _ = d.WriteString(a)
	}
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, d.Sum64())
	return out
}

// Get decodes the value stored under key into out.
func (m *Memo) Get(op string, key []byte, out any) bool {
	raw, err := m.cache.Get(key)
	if err != nil {
		metrics.RecordCacheMiss(op)
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		metrics.RecordCacheMiss(op)
		metrics.RecordErrorByComponent("cache", "decode")
		return false
	}
	metrics.RecordCacheHit(op)
	return true
}

// Set stores v under key. Values larger than 1/1024 of the cache are refused
// by freecache and reported as an error.
func (m *Memo) Set(key []byte, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache value: %w", err)
	}
	if err := m.cache.Set(key, raw, m.ttlSeconds); err != nil {
		return fmt.Errorf("store cache value: %w", err)
	}
	return nil
}

// Clear drops every entry and resets the counters.
func (m *Memo) Clear() { m.cache.Clear() }

// Stats returns counters since the last Clear.
func (m *Memo) Stats() Stats {
	return Stats{
		Entries: m.cache.EntryCount(),
		Hits:    m.cache.HitCount(),
		Misses:  m.cache.MissCount(),
		HitRate: m.cache.HitRate(),
	}
}

// Remember returns the memoized result for key, computing and storing it on a
// miss. Errors from compute are returned and never cached. A nil memo always
// computes.
func Remember[T any](m *Memo, op string, key []byte, compute func() (T, error)) (T, error) {
	var out T
	if m != nil && m.Get(op, key, &out) {
		return out, nil
	}
	out, err := compute()
	if err != nil || m == nil {
		return out, err
	}
	if err := m.Set(key, out); err != nil {
		metrics.RecordErrorByComponent("cache", "store")
	}
	return out, nil
}
