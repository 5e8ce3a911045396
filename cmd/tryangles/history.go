package main

import (
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tryangles/internal/registry"
	"github.com/vovakirdan/tryangles/internal/storage"
)

var (
	flagHistoryLimit int
	flagHistoryJSON  bool
	flagHistoryClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history [mode]",
	Short: "Show finished games",
	Long: `Display recent finished games and win statistics.

Without a mode, games of every mode are listed.

Examples:
  tryangles history
  tryangles history tryangles_cpu --limit 5
  tryangles history --json
  tryangles history tryangles_selfplay --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of games to show")
	historyCmd.Flags().BoolVar(&flagHistoryJSON, "json", false, "Print results as JSON")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete the stored results")
}

// historyEntry is the JSON form of a stored result.
type historyEntry struct {
	ID        string    `json:"id"`
	Mode      string    `json:"mode"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Moves     []string  `json:"moves"`
	Winner    int       `json:"winner"`
	Reason    string    `json:"reason"`
	Players   []string  `json:"players"`
	Duration  int       `json:"duration_secs"`
	CreatedAt time.Time `json:"created_at"`
}

func runHistory(cmd *cobra.Command, args []string) {
	gameID := ""
	if len(args) > 0 {
		gameID = args[0]
		if !registry.Known(gameID) {
			fmt.Fprintf(os.Stderr, "Error: unknown game mode %q\n", gameID)
			if suggestion, ok := registry.Suggest(gameID); ok {
				fmt.Fprintf(os.Stderr, "Did you mean %q?\n", suggestion)
			}
			os.Exit(1)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening results database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagHistoryClear {
		n, clearErr := store.ClearResults(gameID)
		if clearErr != nil {
			fmt.Fprintf(os.Stderr, "Error clearing results: %v\n", clearErr)
			os.Exit(1)
		}
		fmt.Printf("Deleted %d results.\n", n)
		return
	}

	results, err := store.RecentResults(gameID, flagHistoryLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving results: %v\n", err)
		os.Exit(1)
	}

	if flagHistoryJSON {
		printHistoryJSON(results)
		return
	}

	title := "All modes"
	if gameID != "" {
		title = gameID
	}
	fmt.Printf("History - %s\n", title)
	fmt.Println()

	if len(results) == 0 {
		fmt.Println("No games recorded yet.")
		fmt.Println()
		fmt.Println("Play 'tryangles play' to record the first game!")
		return
	}

	fmt.Printf("  %-3s  %-18s  %-8s  %5s  %-5s  %-16s  %s\n", "#", "Winner", "Reason", "Moves", "Board", "Date", "ID")
	fmt.Printf("  %-3s  %-18s  %-8s  %5s  %-5s  %-16s  %s\n", "-", "------", "------", "-----", "-----", "----", "--")

	for i, r := range results {
		fmt.Printf("  %-3d  %-18s  %-8s  %5d  %-5s  %-16s  %s\n",
			i+1,
			winnerName(r),
			r.EndReason,
			len(r.Moves),
			fmt.Sprintf("%dx%d", r.Width, r.Height),
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.ID[:min(8, len(r.ID))],
		)
	}

	fmt.Println()
	printStats(store, gameID)
}

// winnerName names the winner of a result.
func winnerName(r storage.Result) string {
	switch r.Winner {
	case 1:
		return r.Player1
	case 2:
		return r.Player2
	default:
		return "Draw"
	}
}

// printStats prints the aggregate statistics of one mode, or of all modes.
func printStats(store *storage.Store, gameID string) {
	var all []*storage.GameStats
	if gameID != "" {
		stats, err := store.GetGameStats(gameID)
		if err != nil {
			return
		}
		all = append(all, stats)
	} else {
		byMode, err := store.GetAllGamesStats()
		if err != nil {
			return
		}
		for _, g := range registry.Modes() {
			if stats, ok := byMode[g.ID]; ok {
				all = append(all, stats)
			}
		}
	}

	for _, s := range all {
		fmt.Printf("%s: %d played, P1 %d, P2 %d, draws %d, avg %.1f moves, longest %d\n",
			s.GameID, s.GamesCount, s.Player1Wins, s.Player2Wins, s.Draws, s.AvgMoves, s.LongestGame)
	}
}

func printHistoryJSON(results []storage.Result) {
	entries := make([]historyEntry, len(results))
	for i, r := range results {
		entries[i] = historyEntry{
			ID:        r.ID,
			Mode:      r.GameID,
			Width:     r.Width,
			Height:    r.Height,
			Moves:     r.Moves,
			Winner:    r.Winner,
			Reason:    r.EndReason,
			Players:   []string{r.Player1, r.Player2},
			Duration:  r.DurationSecs,
			CreatedAt: r.CreatedAt,
		}
	}

	out, err := sonic.MarshalString(entries)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding results: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(out)
}
