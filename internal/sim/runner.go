// Package sim plays batches of random-vs-random games concurrently and
// aggregates the results into baseline statistics.
package sim

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/2lu3/games/agent"
	"github.com/2lu3/games/engine"
	"github.com/2lu3/games/env"
)

// progressEvery controls how often the runner logs aggregate progress.
const progressEvery = 1000

// Config controls one batch run.
type Config struct {
	Games   int    // total episodes to play
	Workers int    // concurrent workers; 0 or less means one
	Seed    uint64 // base seed; episode i derives its generator from (Seed, i)
}

// Stats aggregates finished episodes.
type Stats struct {
	Episodes int
	XWins    int
	OWins    int
	Draws    int
	Moves    int // total moves across all episodes
}

// XWinRate returns the fraction of episodes X won.
func (s Stats) XWinRate() float64 {
	if s.Episodes == 0 {
		return 0
	}
	return float64(s.XWins) / float64(s.Episodes)
}

// OWinRate returns the fraction of episodes O won.
func (s Stats) OWinRate() float64 {
	if s.Episodes == 0 {
		return 0
	}
	return float64(s.OWins) / float64(s.Episodes)
}

// AvgMoves returns the mean episode length in moves.
func (s Stats) AvgMoves() float64 {
	if s.Episodes == 0 {
		return 0
	}
	return float64(s.Moves) / float64(s.Episodes)
}

// episodeResult is one finished game.
type episodeResult struct {
	outcome engine.Outcome
	moves   int
	err     error
}

// Run plays cfg.Games random-vs-random episodes across cfg.Workers
// goroutines and merges the results. Every worker owns an exclusive
// environment, and every episode derives its generator from (cfg.Seed,
// episode index) alone, so the aggregate is identical for any worker
// count. Cancelling ctx stops feeding new episodes; Run then drains the
// in-flight ones and returns the partial stats with ctx's error.
func Run(ctx context.Context, log *logrus.Logger, cfg Config) (Stats, error) {
	if cfg.Games <= 0 {
		return Stats{}, fmt.Errorf("games must be positive, got %d", cfg.Games)
	}
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > cfg.Games {
		workers = cfg.Games
	}

	jobs := make(chan int)
	results := make(chan episodeResult)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e := env.New()
			for i := range jobs {
				results <- playEpisode(e, cfg.Seed, i)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < cfg.Games; i++ {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var stats Stats
	var firstErr error
	for r := range results {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		stats.Episodes++
		stats.Moves += r.moves
		switch r.outcome {
		case engine.WonX:
			stats.XWins++
		case engine.WonO:
			stats.OWins++
		default:
			stats.Draws++
		}
		if stats.Episodes%progressEvery == 0 {
			log.WithFields(logrus.Fields{
				"episodes": stats.Episodes,
				"x_wins":   stats.XWins,
				"o_wins":   stats.OWins,
				"draws":    stats.Draws,
			}).Info("simulation progress")
		}
	}

	if firstErr != nil {
		return stats, firstErr
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

// playEpisode runs one random-vs-random game to completion on e. The
// episode's generator depends only on (seed, index), never on the worker
// running it.
func playEpisode(e *env.Env, seed uint64, index int) episodeResult {
	rng := rand.New(rand.NewPCG(seed, uint64(index)+1))
	a := agent.NewRandomWithRand(rng)
	e.Reset()

	moves := 0
	for {
		pos, err := a.SelectAction(e.Board())
		if err != nil {
			return episodeResult{err: fmt.Errorf("episode %d move %d: %w", index, moves, err)}
		}
		res, err := e.Step(pos.Index())
		if err != nil {
			return episodeResult{err: fmt.Errorf("episode %d move %d: %w", index, moves, err)}
		}
		moves++
		if res.Terminated {
			return episodeResult{outcome: e.Board().Status(), moves: moves}
		}
	}
}
