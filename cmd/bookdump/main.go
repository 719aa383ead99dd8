package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/freeeve/bookgen/internal/book"
	"github.com/freeeve/bookgen/internal/logx"
)

func main() {
	var (
		bookPath = flag.String("book", "", "Path to book file (supports .zst)")
		limit    = flag.Int("limit", 20, "Entries to list, by weight")
	)
	flag.Parse()

	if *bookPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: bookdump --book <file.bin[.zst]> [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	logger := logx.NewLogger()

	var (
		entries   []book.Entry
		positions = make(map[uint64]struct{})
		byType    = make(map[uint8]int)
	)
	count, err := book.ReadFile(*bookPath, func(e book.Entry) error {
		entries = append(entries, e)
		positions[e.Hash] = struct{}{}
		byType[e.Move.Type]++
		return nil
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("read book")
	}

	logger.Info().
		Str("book", *bookPath).
		Int("entries", count).
		Int("positions", len(positions)).
		Int("captures", byType[book.MoveCapture]).
		Int("castles", byType[book.MoveCastle]).
		Int("promotions", byType[book.MovePromotion]).
		Msg("book loaded")

	sort.Slice(entries, func(i, j int) bool { return entries[i].Weight > entries[j].Weight })
	if *limit > 0 && len(entries) > *limit {
		entries = entries[:*limit]
	}

	fmt.Printf("%-18s %-6s %-5s %-6s %s\n", "hash", "move", "type", "piece", "weight")
	for _, e := range entries {
		fmt.Printf("%016x   %-6s %-5d %-6d %d\n",
			e.Hash, uciMove(e.Move), e.Move.Type, e.Move.Piece, e.Weight)
	}
}

// uciMove renders a move key in UCI notation, e.g. "e2e4" or "e7e8q".
func uciMove(mv book.MoveKey) string {
	files := "abcdefgh"
	ranks := "12345678"
	s := string(files[mv.From%8]) + string(ranks[mv.From/8]) +
		string(files[mv.To%8]) + string(ranks[mv.To/8])
	if mv.Promotion > 0 && mv.Promotion <= 4 {
		s += string("qrbn"[mv.Promotion-1])
	}
	return s
}
