package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/freeeve/pgn/v3"

	"github.com/freeeve/bookgen/internal/book"
	"github.com/freeeve/bookgen/internal/logx"
	"github.com/freeeve/bookgen/internal/zobrist"
)

func main() {
	defaultRatingMin := 2200
	if envRating := os.Getenv("BOOKGEN_RATING_MIN"); envRating != "" {
		if rating, err := strconv.Atoi(envRating); err == nil {
			defaultRatingMin = rating
		}
	}

	var (
		inputPath  = flag.String("pgn", "", "Path to PGN file (supports .zst)")
		outputPath = flag.String("out", "opening_book.bin", "Output book file")
		ratingMin  = flag.Int("rating-min", defaultRatingMin, "Rating floor for games")
		maxPly     = flag.Int("max-ply", 20, "Plies to record per game")
		maxGames   = flag.Int("max-games", 0, "Maximum games to process (0 = unlimited)")
		seed       = flag.Uint("seed", uint(zobrist.DefaultSeed), "Zobrist key seed")
		compress   = flag.Bool("compress", false, "zstd-compress the output book")
		spillDir   = flag.String("spill-dir", "", "Aggregate on disk under this directory instead of in memory")
	)
	flag.Parse()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: bookgen --pgn <file.pgn[.zst]> [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	logger := logx.NewLogger()
	logger.Info().
		Str("pgn", *inputPath).
		Str("out", *outputPath).
		Int("rating_min", *ratingMin).
		Int("max_ply", *maxPly).
		Msg("starting book build")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var table book.Table
	if *spillDir != "" {
		dt, err := book.NewDiskTable(*spillDir)
		if err != nil {
			logger.Fatal().Err(err).Msg("open spill table")
		}
		table = dt
	} else {
		table = book.NewMemTable()
	}
	defer table.Close()

	agg := &book.Aggregator{
		Keys:      zobrist.Generate(uint32(*seed)),
		MinRating: *ratingMin,
		MaxPly:    *maxPly,
	}

	startTime := time.Now()
	lastLog := time.Now()

	parser := pgn.Games(*inputPath)

	stopped := false
gameLoop:
	for game := range parser.Games {
		select {
		case <-ctx.Done():
			if !stopped {
				logger.Info().Msg("interrupted, stopping parser...")
				parser.Stop()
				stopped = true
			}
			break gameLoop
		default:
		}

		if *maxGames > 0 && agg.Games >= int64(*maxGames) {
			logger.Info().Int64("games", agg.Games).Msg("reached max games limit")
			parser.Stop()
			break gameLoop
		}

		if err := agg.IngestGame(game, table); err != nil {
			logger.Fatal().Err(err).Msg("aggregate game")
		}

		if time.Since(lastLog) > 10*time.Second {
			elapsed := time.Since(startTime)
			gps := float64(agg.Games) / elapsed.Seconds()
			logger.Info().
				Int64("games", agg.Games).
				Int64("skipped", agg.Skipped).
				Int64("observations", agg.Observations).
				Int("entries", table.Len()).
				Float64("games_per_sec", gps).
				Msg("build progress")
			lastLog = time.Now()
		}
	}

	if err := parser.Err(); err != nil {
		logger.Fatal().Err(err).Msg("parse PGN")
	}

	logger.Info().Str("out", *outputPath).Msg("writing book...")
	count, err := book.WriteFile(*outputPath, table, *compress)
	if err != nil {
		logger.Fatal().Err(err).Msg("write book")
	}

	elapsed := time.Since(startTime)
	logger.Info().
		Int64("games", agg.Games).
		Int64("skipped", agg.Skipped).
		Int64("observations", agg.Observations).
		Int("entries", count).
		Dur("elapsed", elapsed).
		Msg("book build complete")
}
