package book_test

import (
	"testing"

	"github.com/freeeve/bookgen/internal/book"
)

func TestMemTableMerge(t *testing.T) {
	table := book.NewMemTable()
	mv := book.MoveKey{From: 12, To: 28, Type: book.MoveDoublePawnPush, Piece: 1}
	other := book.MoveKey{From: 11, To: 27, Type: book.MoveDoublePawnPush, Piece: 1}

	for i := 0; i < 2; i++ {
		if err := table.Add(100, mv); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	if err := table.Add(100, other); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := table.Add(200, mv); err != nil {
		t.Fatalf("add: %v", err)
	}

	if table.Len() != 3 {
		t.Fatalf("len: got %d, want 3", table.Len())
	}

	weights := make(map[uint64]map[book.MoveKey]uint16)
	if err := table.ForEach(func(e book.Entry) error {
		if weights[e.Hash] == nil {
			weights[e.Hash] = make(map[book.MoveKey]uint16)
		}
		weights[e.Hash][e.Move] = e.Weight
		return nil
	}); err != nil {
		t.Fatalf("ForEach: %v", err)
	}

	if w := weights[100][mv]; w != 2 {
		t.Errorf("merged weight: got %d, want 2", w)
	}
	if w := weights[100][other]; w != 1 {
		t.Errorf("sibling weight: got %d, want 1", w)
	}
	if w := weights[200][mv]; w != 1 {
		t.Errorf("other-position weight: got %d, want 1", w)
	}
}

func TestDiskTableMerge(t *testing.T) {
	table, err := book.NewDiskTable(t.TempDir())
	if err != nil {
		t.Fatalf("open disk table: %v", err)
	}
	defer table.Close()

	mv := book.MoveKey{From: 12, To: 28, Type: book.MoveDoublePawnPush, Piece: 1}
	for i := 0; i < 3; i++ {
		if err := table.Add(100, mv); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	if err := table.Add(50, mv); err != nil {
		t.Fatalf("add: %v", err)
	}

	if table.Len() != 2 {
		t.Fatalf("len: got %d, want 2", table.Len())
	}

	var entries []book.Entry
	if err := table.ForEach(func(e book.Entry) error {
		entries = append(entries, e)
		return nil
	}); err != nil {
		t.Fatalf("ForEach: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("entries: got %d, want 2", len(entries))
	}
	// Iteration is ordered by hash.
	if entries[0].Hash != 50 || entries[1].Hash != 100 {
		t.Errorf("order: got %d, %d, want 50, 100", entries[0].Hash, entries[1].Hash)
	}
	if entries[1].Weight != 3 {
		t.Errorf("merged weight: got %d, want 3", entries[1].Weight)
	}
	if entries[0].Move != mv || entries[1].Move != mv {
		t.Errorf("move keys did not round-trip: %+v / %+v", entries[0].Move, entries[1].Move)
	}
}
