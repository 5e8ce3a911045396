// tryangles is a terminal version of the Tryangles line game.
//
// Usage:
//
//	tryangles list                  - List available game modes
//	tryangles play [mode]           - Play a game mode
//	tryangles menu                  - Start menu to pick modes interactively
//	tryangles serve                 - Start SSH server for remote play
//	tryangles history [mode]        - Show finished games and stats
//	tryangles selfplay              - Let the computer play against itself
//	tryangles analyze <moves...>    - Analyze a position
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.tryangles/results.db)
//	--config <path>       - Use a custom tryangles.yaml
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tryangles/internal/config"
	// Import the game to register its modes
	"github.com/vovakirdan/tryangles/internal/games/tryangles"
	"github.com/vovakirdan/tryangles/internal/storage"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string

	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tryangles",
	Short: "Tryangles - draw lines, never close a triangle",
	Long: `Tryangles is a two player line game played in the terminal.

Players take turns drawing straight lines between points of a lattice.
Lines may not cross or overlap earlier lines. Whoever closes a triangle
loses.

Available commands:
  list      - Show all game modes
  play      - Play a mode directly
  menu      - Interactive mode picker menu
  serve     - Start SSH server for remote play
  history   - View finished games
  selfplay  - Run computer vs computer games
  analyze   - Inspect a position given as moves

Examples:
  tryangles list
  tryangles play tryangles_cpu --difficulty hard
  tryangles menu
  tryangles serve --ssh :2222
  tryangles analyze A1-B1 B1-A2`,
	PersistentPreRunE: setup,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to results database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom tryangles.yaml")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(selfplayCmd)
	rootCmd.AddCommand(analyzeCmd)
}

// setup builds the logger and loads the game configuration before any
// subcommand runs.
func setup(_ *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tryangles",
		Level:           level,
	})

	cfg, err := config.LoadTryangles(flagConfig)
	if err != nil {
		return err
	}
	tryangles.Configure(cfg)

	if flagFPS <= 0 {
		return fmt.Errorf("--fps must be positive, got %d", flagFPS)
	}
	return nil
}

// openStore opens the results database. Games still work without it.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open results database: %v\n", err)
		return nil
	}
	return store
}
