package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tryangles/internal/platform/tui"
	"github.com/vovakirdan/tryangles/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a mode picker menu",
	Long: `Start Tryangles in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a mode.
After a game ends, press Esc to return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select mode
  Tab          - Results history
  Q            - Quit

Examples:
  tryangles menu
  tryangles menu --fps 30
  tryangles menu --db ./results.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	store := openStore()
	cfg := terminalConfig()

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsHistory {
			goBack, historyErr := tui.RunHistory(store, cfg.ScreenW, cfg.ScreenH)
			if historyErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", historyErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from history
		}

		if menuResult.GameID == "" {
			break
		}

		game, err := registry.Create(menuResult.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		if c, ok := game.(tui.Configurable); ok {
			ok, quit, setupErr := tui.RunSetup(c, game.Title(), cfg)
			if setupErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", setupErr)
				continue
			}
			if quit {
				break
			}
			if !ok {
				continue
			}
		}

		// New seed for each game
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		logger.Debug("game started", "game", game.ID(), "seed", cfg.Seed)
		quit, err := tui.Run(game, store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
		if quit {
			break
		}
		// Loop back to menu
	}

	if store != nil {
		store.Close()
	}
}
