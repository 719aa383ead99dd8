package book_test

import (
	"testing"

	"github.com/freeeve/pgn/v3"

	"github.com/freeeve/bookgen/internal/book"
	"github.com/freeeve/bookgen/internal/zobrist"
)

var testKeys = zobrist.Generate(zobrist.DefaultSeed)

// makeGame builds a game record with the given Elo tags by replaying SAN
// moves from the starting position.
func makeGame(t *testing.T, whiteElo, blackElo string, sans ...string) *pgn.Game {
	t.Helper()
	pos := pgn.NewStartingPosition()
	var moves []pgn.Mv
	for _, san := range sans {
		mv, err := pgn.ParseSAN(pos, san)
		if err != nil {
			t.Fatalf("parse %q: %v", san, err)
		}
		moves = append(moves, mv)
		if err := pgn.ApplyMove(pos, mv); err != nil {
			t.Fatalf("apply %q: %v", san, err)
		}
	}
	return &pgn.Game{
		Tags:  map[string]string{"WhiteElo": whiteElo, "BlackElo": blackElo},
		Moves: moves,
	}
}

func newAggregator(minRating, maxPly int) *book.Aggregator {
	return &book.Aggregator{Keys: testKeys, MinRating: minRating, MaxPly: maxPly}
}

func collect(t *testing.T, table book.Table) []book.Entry {
	t.Helper()
	var entries []book.Entry
	if err := table.ForEach(func(e book.Entry) error {
		entries = append(entries, e)
		return nil
	}); err != nil {
		t.Fatalf("ForEach: %v", err)
	}
	return entries
}

func TestAdmissionRatingFloor(t *testing.T) {
	agg := newAggregator(2200, 20)
	table := book.NewMemTable()

	if err := agg.IngestGame(makeGame(t, "2500", "2199", "e4", "e5"), table); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if table.Len() != 0 {
		t.Errorf("low-rated game contributed %d entries", table.Len())
	}
	if agg.Skipped != 1 || agg.Games != 0 {
		t.Errorf("counters: skipped=%d games=%d, want 1/0", agg.Skipped, agg.Games)
	}
}

func TestAdmissionInvalidRating(t *testing.T) {
	agg := newAggregator(0, 20)
	table := book.NewMemTable()

	games := []*pgn.Game{
		makeGame(t, "?", "2500", "e4"),
		makeGame(t, "2500", "abc", "e4"),
		makeGame(t, "", "2500", "e4"),
	}
	for _, g := range games {
		if err := agg.IngestGame(g, table); err != nil {
			t.Fatalf("ingest: %v", err)
		}
	}
	if table.Len() != 0 {
		t.Errorf("unrated games contributed %d entries", table.Len())
	}
	if agg.Skipped != 3 {
		t.Errorf("skipped: got %d, want 3", agg.Skipped)
	}
}

func TestAggregationMergesDuplicates(t *testing.T) {
	agg := newAggregator(2200, 20)
	table := book.NewMemTable()

	for i := 0; i < 3; i++ {
		if err := agg.IngestGame(makeGame(t, "2400", "2400", "d4"), table); err != nil {
			t.Fatalf("ingest: %v", err)
		}
	}

	entries := collect(t, table)
	if len(entries) != 1 {
		t.Fatalf("entries: got %d, want 1", len(entries))
	}
	if entries[0].Weight != 3 {
		t.Errorf("weight: got %d, want 3", entries[0].Weight)
	}
}

func TestPlyCap(t *testing.T) {
	agg := newAggregator(2200, 2)
	table := book.NewMemTable()

	if err := agg.IngestGame(makeGame(t, "2400", "2400", "e4", "e5", "Nf3", "Nc6"), table); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	// Only plies 0 and 1 are recorded: the starting position and the
	// position after e4.
	entries := collect(t, table)
	if len(entries) != 2 {
		t.Fatalf("entries: got %d, want 2", len(entries))
	}

	wantHashes := make(map[uint64]bool)
	wantHashes[zobrist.HashState(pgn.NewStartingPosition(), testKeys)] = true
	wantHashes[zobrist.HashState(replay(t, "e4"), testKeys)] = true
	for _, e := range entries {
		if !wantHashes[e.Hash] {
			t.Errorf("entry at unexpected position hash %016x", e.Hash)
		}
	}
}

func TestEndToEndScenario(t *testing.T) {
	agg := newAggregator(2200, 20)
	table := book.NewMemTable()

	games := []*pgn.Game{
		makeGame(t, "2400", "2300", "e4", "e5"),
		makeGame(t, "2250", "2600", "e4", "c5"),
		makeGame(t, "2500", "2500", "d4", "d5"),
	}
	for _, g := range games {
		if err := agg.IngestGame(g, table); err != nil {
			t.Fatalf("ingest: %v", err)
		}
	}

	startHash := zobrist.HashState(pgn.NewStartingPosition(), testKeys)
	var startEntries []book.Entry
	for _, e := range collect(t, table) {
		if e.Hash == startHash {
			startEntries = append(startEntries, e)
		}
	}

	// Two distinct first moves from the starting position: e4 (weight 2)
	// and d4 (weight 1).
	if len(startEntries) != 2 {
		t.Fatalf("starting-position entries: got %d, want 2", len(startEntries))
	}
	for _, e := range startEntries {
		if e.Move.Type != book.MoveDoublePawnPush {
			t.Errorf("move type: got %d, want %d", e.Move.Type, book.MoveDoublePawnPush)
		}
		switch {
		case e.Move.From == 12 && e.Move.To == 28: // e2e4
			if e.Weight != 2 {
				t.Errorf("e4 weight: got %d, want 2", e.Weight)
			}
		case e.Move.From == 11 && e.Move.To == 27: // d2d4
			if e.Weight != 1 {
				t.Errorf("d4 weight: got %d, want 1", e.Weight)
			}
		default:
			t.Errorf("unexpected move %d-%d at starting position", e.Move.From, e.Move.To)
		}
	}
}
