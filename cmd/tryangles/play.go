package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tryangles/internal/config"
	"github.com/vovakirdan/tryangles/internal/core"
	"github.com/vovakirdan/tryangles/internal/games/tryangles"
	"github.com/vovakirdan/tryangles/internal/platform/tui"
	"github.com/vovakirdan/tryangles/internal/registry"
)

var (
	flagWidth      int
	flagHeight     int
	flagHint       bool
	flagDifficulty string
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a game mode",
	Long: `Start playing the given mode (default: tryangles).

Without board flags a setup screen asks for the board size and, against
the computer, its difficulty.

Controls:
  Arrows/WASD/hjkl  - Move cursor
  Enter/Space       - Pick a point (twice to draw a line)
  Esc/B             - Cancel the picked point
  U/Backspace       - Undo
  ?                 - Toggle hint
  N                 - New game
  P                 - Pause
  Q/Ctrl+C          - Quit

Difficulty options:
  easy    - Plays a random legal line
  normal  - Plays the first safe line
  hard    - Plays a random safe line

Examples:
  tryangles play
  tryangles play tryangles_cpu --difficulty hard
  tryangles play --width 6 --height 6 --hint`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	addBoardFlags(playCmd)
	playCmd.Flags().BoolVar(&flagHint, "hint", false, "Show the hint line from the start")
}

// addBoardFlags registers the flags that override the configured board and
// CPU strength.
func addBoardFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flagWidth, "width", 0, "Board width in points (0 = from config)")
	cmd.Flags().IntVar(&flagHeight, "height", 0, "Board height in points (0 = from config)")
	cmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "CPU difficulty: easy, normal, hard")
}

// applyFlags returns cfg with the command line overrides applied.
func applyFlags(cmd *cobra.Command, cfg config.TryanglesConfig) (config.TryanglesConfig, error) {
	if flagWidth > 0 {
		cfg.Board.Width = flagWidth
	}
	if flagHeight > 0 {
		cfg.Board.Height = flagHeight
	}
	if f := cmd.Flags().Lookup("hint"); f != nil && f.Changed {
		cfg.Hint.Enabled = flagHint
	}
	if flagDifficulty != "" {
		preset, err := config.ParseDifficulty(flagDifficulty)
		if err != nil {
			return cfg, err
		}
		config.ApplyTryanglesPreset(&cfg, preset)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// terminalConfig builds the runtime config from the terminal size.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := tryangles.ID
	if len(args) > 0 {
		gameID = args[0]
	}

	// Check if the mode exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game mode %q\n", gameID)
		if suggestion, ok := registry.Suggest(gameID); ok {
			fmt.Fprintf(os.Stderr, "Did you mean %q?\n", suggestion)
		}
		fmt.Fprintln(os.Stderr, "Run 'tryangles list' to see available modes.")
		os.Exit(1)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	cfg := terminalConfig()

	if c, ok := game.(tui.Configurable); ok {
		gameCfg, flagErr := applyFlags(cmd, c.Config())
		if flagErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", flagErr)
			os.Exit(1)
		}
		c.SetConfig(gameCfg)

		// Board flags skip the setup screen
		if flagWidth == 0 && flagHeight == 0 {
			ok, _, setupErr := tui.RunSetup(c, game.Title(), cfg)
			if setupErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", setupErr)
				os.Exit(1)
			}
			if !ok {
				return
			}
		}
	}

	store := openStore()

	_, runErr := tui.Run(game, store, cfg)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
