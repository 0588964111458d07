// Command uttt-sim drives the Ultimate Tic-Tac-Toe environment from the
// terminal: a quick smoke check, an interactive game against the random
// agent, or batched random-vs-random simulation.
//
// Usage:
//
//	uttt-sim -mode test
//	uttt-sim -mode human
//	uttt-sim -mode random -games 1000 -workers 8 -seed 42
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/2lu3/games/agent"
	"github.com/2lu3/games/engine"
	"github.com/2lu3/games/env"
	"github.com/2lu3/games/internal/sim"
)

func main() {
	mode := flag.String("mode", "test", "test, human or random")
	games := flag.Int("games", 1, "number of games (random mode)")
	workers := flag.Int("workers", runtime.NumCPU(), "concurrent workers (random mode)")
	seed := flag.Uint64("seed", 0, "rng seed; 0 derives one from the clock")
	flag.Parse()

	log := logrus.New()
	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}

	var err error
	switch *mode {
	case "test":
		err = runSmoke()
	case "human":
		err = playHuman(*seed)
	case "random":
		err = runRandom(log, *games, *workers, *seed)
	default:
		log.Fatalf("unknown mode %q (want test, human or random)", *mode)
	}
	if err != nil {
		log.WithField("error", err).Fatal("simulation failed")
	}
}

// runSmoke exercises one reset/step cycle and prints the board.
func runSmoke() error {
	fmt.Println("running environment checks...")
	e := env.New()
	e.Reset()
	res, err := e.Step(0)
	if err != nil {
		return fmt.Errorf("step: %w", err)
	}
	fmt.Printf("step: reward=%v terminated=%v\n", res.Reward, res.Terminated)
	fmt.Print(renderBoard(e.Board()))
	fmt.Println("environment checks passed")
	return nil
}

// playHuman runs an interactive game on stdin: the human holds X, the
// random agent holds O.
func playHuman(seed uint64) error {
	e := env.New()
	opponent := agent.NewRandom(seed)
	e.Reset()

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print(renderBoard(e.Board()))
	for {
		var action int
		if e.Board().CurrentPlayer() == engine.PlayerX {
			fmt.Println("\nyour turn (X)")
			idx, ok := readAction(scanner, e.Board())
			if !ok {
				return nil
			}
			action = idx
		} else {
			fmt.Println("\nagent's turn (O)")
			pos, err := opponent.SelectAction(e.Board())
			if err != nil {
				return fmt.Errorf("agent move: %w", err)
			}
			action = pos.Index()
			fmt.Printf("agent plays %d\n", action)
		}

		res, err := e.Step(action)
		if err != nil {
			fmt.Printf("rejected: %v\n", err)
			continue
		}
		fmt.Print(renderBoard(e.Board()))
		if res.Terminated {
			switch {
			case res.Info.HasWinner && res.Info.Winner == engine.PlayerX:
				fmt.Println("you win!")
			case res.Info.HasWinner:
				fmt.Println("the agent wins!")
			default:
				fmt.Println("draw!")
			}
			return nil
		}
	}
}

// readAction prompts until the human enters a number in range. Returns
// false when stdin closes.
func readAction(scanner *bufio.Scanner, b *engine.Board) (int, bool) {
	for {
		if forced, ok := b.ForcedSubBoard(); ok {
			fmt.Printf("play is forced to sub-board %d\n", forced)
		}
		fmt.Print("enter a cell index (0-80): ")
		if !scanner.Scan() {
			return 0, false
		}
		idx, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil {
			fmt.Println("please enter a number")
			continue
		}
		if idx < 0 || idx >= engine.NumCells {
			fmt.Println("the index must be between 0 and 80")
			continue
		}
		return idx, true
	}
}

// runRandom plays random-vs-random games. Small runs play sequentially
// with a line per game; larger runs go through the worker pool.
func runRandom(log *logrus.Logger, games, workers int, seed uint64) error {
	if games <= 10 {
		return runRandomVerbose(games, seed)
	}
	stats, err := sim.Run(context.Background(), log, sim.Config{Games: games, Workers: workers, Seed: seed})
	if err != nil {
		return err
	}
	printTally(stats.Episodes, stats.XWins, stats.OWins, stats.Draws)
	fmt.Printf("average moves per game: %.1f\n", stats.AvgMoves())
	return nil
}

func runRandomVerbose(games int, seed uint64) error {
	e := env.New()
	var xWins, oWins, draws int
	for g := 0; g < games; g++ {
		// Same per-game seeding as the worker pool, so a small run
		// reproduces the head of a large one.
		rng := rand.New(rand.NewPCG(seed, uint64(g)+1))
		a := agent.NewRandomWithRand(rng)
		e.Reset()
		for {
			pos, err := a.SelectAction(e.Board())
			if err != nil {
				return fmt.Errorf("game %d: %w", g+1, err)
			}
			res, err := e.Step(pos.Index())
			if err != nil {
				return fmt.Errorf("game %d: %w", g+1, err)
			}
			if res.Terminated {
				break
			}
		}
		switch e.Board().Status() {
		case engine.WonX:
			xWins++
			fmt.Printf("game %d: X wins\n", g+1)
		case engine.WonO:
			oWins++
			fmt.Printf("game %d: O wins\n", g+1)
		default:
			draws++
			fmt.Printf("game %d: draw\n", g+1)
		}
	}
	printTally(games, xWins, oWins, draws)
	return nil
}

func printTally(games, xWins, oWins, draws int) {
	fmt.Printf("\nresults after %d games:\n", games)
	fmt.Printf("X wins: %d\n", xWins)
	fmt.Printf("O wins: %d\n", oWins)
	fmt.Printf("draws: %d\n", draws)
}

// renderBoard draws the 9x9 grid with sub-board separators.
func renderBoard(b *engine.Board) string {
	marks := [...]string{".", "X", "O"}
	m := b.Matrix()
	var sb strings.Builder
	for r := 0; r < 9; r++ {
		if r > 0 && r%3 == 0 {
			sb.WriteString(strings.Repeat("-", 21))
			sb.WriteByte('\n')
		}
		for c := 0; c < 9; c++ {
			if c > 0 {
				if c%3 == 0 {
					sb.WriteString(" |")
				}
				sb.WriteByte(' ')
			}
			sb.WriteString(marks[m[r][c]])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
