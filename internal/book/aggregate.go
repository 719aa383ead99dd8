package book

import (
	"strconv"
	"strings"

	"github.com/freeeve/pgn/v3"

	"github.com/freeeve/bookgen/internal/zobrist"
)

// Aggregator replays admitted games and merges their opening moves into a
// Table. One Aggregator drives one conversion run.
type Aggregator struct {
	Keys      *zobrist.KeyTable
	MinRating int // games where either player is rated below this are skipped
	MaxPly    int // plies recorded per game

	// Run counters, read after (or during) ingestion for progress logs.
	Games        int64 // admitted games
	Skipped      int64 // games rejected by the admission filter
	Observations int64 // (position, move) observations merged
}

// IngestGame applies the admission filter and, if the game is admitted,
// replays its moves up to MaxPly, recording each (position-before-move,
// move) observation. A skipped game is not an error; the returned error is
// only ever a table storage failure.
func (a *Aggregator) IngestGame(game *pgn.Game, table Table) error {
	whiteRating, okW := parseRating(game.Tags["WhiteElo"])
	blackRating, okB := parseRating(game.Tags["BlackElo"])
	if !okW || !okB {
		a.Skipped++
		return nil
	}
	if min(whiteRating, blackRating) < a.MinRating {
		a.Skipped++
		return nil
	}

	pos := pgn.NewStartingPosition()
	for ply, mv := range game.Moves {
		if ply >= a.MaxPly {
			break
		}

		hash := zobrist.Hash(pos.Pack(), a.Keys)
		moveType, piece := Classify(pos, mv)
		key := MoveKey{
			From:      uint8(mv.From),
			To:        uint8(mv.To),
			Promotion: PromotionCode(mv),
			Type:      moveType,
			Piece:     piece,
		}

		if err := table.Add(hash, key); err != nil {
			return err
		}
		a.Observations++

		if err := pgn.ApplyMove(pos, mv); err != nil {
			// Malformed tail of the move stream; keep what was recorded.
			break
		}
	}

	a.Games++
	return nil
}

// parseRating parses an Elo tag value. Placeholder values like "?" or "-"
// and empty tags report not-ok, which excludes the game regardless of the
// configured rating floor.
func parseRating(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	r, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return r, true
}
