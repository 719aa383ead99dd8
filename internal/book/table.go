package book

import (
	"math"
	"sort"
)

// Table accumulates (position, move) observations. Add merges duplicates by
// summing weights; ForEach visits every distinct entry in a deterministic
// order so that writing the same table twice produces identical bytes.
//
// Access is strictly single-writer then single-reader: the aggregator
// populates the table, then the writer drains it once. Implementations do
// not need to be safe for concurrent use.
type Table interface {
	Add(hash uint64, mv MoveKey) error
	Len() int
	ForEach(fn func(Entry) error) error
	Close() error
}

// MemTable is the default in-memory Table: a map from position hash to the
// distinct moves seen from that position.
type MemTable struct {
	buckets map[uint64]map[MoveKey]uint16
	entries int
}

// NewMemTable returns an empty in-memory table.
func NewMemTable() *MemTable {
	return &MemTable{buckets: make(map[uint64]map[MoveKey]uint16)}
}

// Add records one observation, creating the entry with weight 1 or
// incrementing the existing one. Weights saturate at 65535 rather than
// wrapping.
func (t *MemTable) Add(hash uint64, mv MoveKey) error {
	bucket, ok := t.buckets[hash]
	if !ok {
		bucket = make(map[MoveKey]uint16)
		t.buckets[hash] = bucket
	}
	w, ok := bucket[mv]
	if !ok {
		bucket[mv] = 1
		t.entries++
		return nil
	}
	if w < math.MaxUint16 {
		bucket[mv] = w + 1
	}
	return nil
}

// Len returns the number of distinct (position, move) entries.
func (t *MemTable) Len() int { return t.entries }

// ForEach visits entries ordered by hash, then by move identity.
func (t *MemTable) ForEach(fn func(Entry) error) error {
	hashes := make([]uint64, 0, len(t.buckets))
	for h := range t.buckets {
		hashes = append(hashes, h)
	}
	sort.Slice(hashes, func(i, j int) bool { return hashes[i] < hashes[j] })

	for _, h := range hashes {
		bucket := t.buckets[h]
		moves := make([]MoveKey, 0, len(bucket))
		for mv := range bucket {
			moves = append(moves, mv)
		}
		sort.Slice(moves, func(i, j int) bool { return moveKeyLess(moves[i], moves[j]) })

		for _, mv := range moves {
			if err := fn(Entry{Hash: h, Move: mv, Weight: bucket[mv]}); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close releases nothing for the in-memory table.
func (t *MemTable) Close() error { return nil }

func moveKeyLess(a, b MoveKey) bool {
	if a.From != b.From {
		return a.From < b.From
	}
	if a.To != b.To {
		return a.To < b.To
	}
	if a.Promotion != b.Promotion {
		return a.Promotion < b.Promotion
	}
	if a.Type != b.Type {
		return a.Type < b.Type
	}
	return a.Piece < b.Piece
}
