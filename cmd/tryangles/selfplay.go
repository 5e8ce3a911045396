package main

import (
	"fmt"
	"os"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tryangles/internal/config"
	"github.com/vovakirdan/tryangles/internal/core"
	"github.com/vovakirdan/tryangles/internal/games/tryangles"
	"github.com/vovakirdan/tryangles/internal/storage"
)

var (
	flagGames    int
	flagOpponent string
	flagNoSave   bool
)

var selfplayCmd = &cobra.Command{
	Use:   "selfplay",
	Short: "Let the computer play against itself",
	Long: `Run a batch of computer vs computer games and report the results.

Player 1 plays at --difficulty; player 2 plays at --opponent (defaults to
the same strength). Finished games are saved to the results database under
the tryangles_selfplay mode.

Examples:
  tryangles selfplay --games 50
  tryangles selfplay --width 5 --height 5 --difficulty hard --opponent easy
  tryangles selfplay --seed 42 --no-save`,
	Run: runSelfplay,
}

func init() {
	addBoardFlags(selfplayCmd)
	selfplayCmd.Flags().IntVar(&flagGames, "games", 20, "Number of games to play")
	selfplayCmd.Flags().StringVar(&flagOpponent, "opponent", "", "Difficulty of player 2 (default: same as --difficulty)")
	selfplayCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not store the results")
}

// selfplaySummary tallies a batch of games.
type selfplaySummary struct {
	games      int
	wins       [2]int
	draws      int
	totalMoves int
}

func (s *selfplaySummary) add(o core.Outcome) {
	s.games++
	s.totalMoves += len(o.Moves)
	if o.Winner == 0 {
		s.draws++
		return
	}
	s.wins[o.Winner-1]++
}

func newSelfplayBar(games int) *progressbar.ProgressBar {
	return progressbar.NewOptions(games,
		progressbar.OptionSetDescription("Self play"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        aurora.Cyan("█").String(),
			SaucerHead:    aurora.Cyan("█").String(),
			SaucerPadding: " ",
			BarStart:      "|",
			BarEnd:        "|",
		}),
	)
}

// playSelfGame runs one computer vs computer game to the end.
func playSelfGame(cfg config.TryanglesConfig, opponent config.DifficultyPreset, seed int64) core.Outcome {
	g := tryangles.NewWithConfig(tryangles.ModeSelfPlay, cfg)
	g.Reset(core.RuntimeConfig{TickRate: flagFPS, Seed: seed})
	if opponent != "" {
		g.SetSeatDifficulty(1, opponent)
	}

	// Every step plays a line. Lines never cross, so a board holds fewer
	// than three per point.
	limit := cfg.Board.Width * cfg.Board.Height * 3
	frame := core.NewInputFrame()
	for i := 0; i < limit && !g.State().GameOver; i++ {
		g.Step(frame)
	}
	return g.Outcome()
}

func runSelfplay(cmd *cobra.Command, _ []string) {
	if flagGames <= 0 {
		fmt.Fprintf(os.Stderr, "Error: --games must be positive, got %d\n", flagGames)
		os.Exit(1)
	}

	cfg, err := applyFlags(cmd, tryangles.Settings())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg.CPU.ThinkTicks = 0

	var opponent config.DifficultyPreset
	if flagOpponent != "" {
		opponent, err = config.ParseDifficulty(flagOpponent)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	var store *storage.Store
	if !flagNoSave {
		store = openStore()
		if store != nil {
			defer store.Close()
		}
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	logger.Info("self play started",
		"games", flagGames,
		"board", fmt.Sprintf("%dx%d", cfg.Board.Width, cfg.Board.Height),
		"difficulty", cfg.CPU.Difficulty,
		"opponent", opponent,
		"seed", seed,
	)

	var summary selfplaySummary
	var players [2]string
	bar := newSelfplayBar(flagGames)
	start := time.Now()

	for i := range flagGames {
		outcome := playSelfGame(cfg, opponent, seed+int64(i))
		summary.add(outcome)
		players = outcome.Players

		id := ""
		if store != nil {
			id, err = store.SaveOutcome(outcome)
			if err != nil {
				logger.Warn("could not save result", "game", i+1, "error", err)
			}
		}
		logger.Debug("game finished",
			"game", i+1,
			"winner", outcome.Winner,
			"reason", outcome.Reason,
			"moves", len(outcome.Moves),
			"result", id,
		)
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	fmt.Println()

	fmt.Printf("Games:      %d\n", summary.games)
	fmt.Printf("P1 wins:    %d  (%s)\n", summary.wins[0], players[0])
	fmt.Printf("P2 wins:    %d  (%s)\n", summary.wins[1], players[1])
	fmt.Printf("Draws:      %d\n", summary.draws)
	fmt.Printf("Avg moves:  %.1f\n", float64(summary.totalMoves)/float64(summary.games))

	logger.Info("self play finished",
		"games", summary.games,
		"p1_wins", summary.wins[0],
		"p2_wins", summary.wins[1],
		"draws", summary.draws,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
}
