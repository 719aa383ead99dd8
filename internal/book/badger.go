package book

import (
	"encoding/binary"
	"math"

	"github.com/dgraph-io/badger/v4"
)

// DiskTable is a Table backed by BadgerDB, for corpora whose aggregation
// table would not fit in memory. Keys are the 13-byte composite
// (hash big-endian, from, to, promotion, type, piece) so badger's
// lexicographic iteration yields entries grouped by position hash; values
// are the little-endian uint16 weight.
type DiskTable struct {
	db      *badger.DB
	entries int
}

// NewDiskTable opens (or creates) a badger database under dir. The
// directory should be empty at the start of a run; leftover entries from a
// previous run would be merged into the new book.
func NewDiskTable(dir string) (*DiskTable, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &DiskTable{db: db}, nil
}

func diskKey(hash uint64, mv MoveKey) []byte {
	key := make([]byte, 13)
	binary.BigEndian.PutUint64(key[0:8], hash)
	key[8] = mv.From
	key[9] = mv.To
	key[10] = mv.Promotion
	key[11] = mv.Type
	key[12] = mv.Piece
	return key
}

// Add records one observation, inserting with weight 1 or incrementing the
// stored weight. Weights saturate at 65535.
func (t *DiskTable) Add(hash uint64, mv MoveKey) error {
	key := diskKey(hash, mv)
	return t.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			val := make([]byte, 2)
			binary.LittleEndian.PutUint16(val, 1)
			t.entries++
			return txn.Set(key, val)
		}
		if err != nil {
			return err
		}

		var weight uint16
		if err := item.Value(func(val []byte) error {
			weight = binary.LittleEndian.Uint16(val)
			return nil
		}); err != nil {
			return err
		}
		if weight == math.MaxUint16 {
			return nil
		}
		val := make([]byte, 2)
		binary.LittleEndian.PutUint16(val, weight+1)
		return txn.Set(key, val)
	})
}

// Len returns the number of distinct entries added this run.
func (t *DiskTable) Len() int { return t.entries }

// ForEach visits entries in key order: by hash, then by move identity.
func (t *DiskTable) ForEach(fn func(Entry) error) error {
	return t.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := item.Key()
			if len(key) != 13 {
				continue
			}

			entry := Entry{
				Hash: binary.BigEndian.Uint64(key[0:8]),
				Move: MoveKey{
					From:      key[8],
					To:        key[9],
					Promotion: key[10],
					Type:      key[11],
					Piece:     key[12],
				},
			}
			if err := item.Value(func(val []byte) error {
				entry.Weight = binary.LittleEndian.Uint16(val)
				return nil
			}); err != nil {
				return err
			}
			if err := fn(entry); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close closes the underlying database.
func (t *DiskTable) Close() error { return t.db.Close() }
