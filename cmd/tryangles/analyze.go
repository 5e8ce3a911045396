package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tryangles/internal/games/tryangles"
	engine "github.com/vovakirdan/tryangles/internal/games/tryangles/core"
	"github.com/vovakirdan/tryangles/internal/storage"
)

var (
	flagAnalyzeJSON   bool
	flagAnalyzeResult string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [moves...]",
	Short: "Analyze a position",
	Long: `Replay the given lines on an empty board and describe the position.

Moves use board notation: columns are letters from A, rows are numbers
from 1. A line is written as two points joined by a dash.

The report lists the triangles on the board, whether a safe line is left,
the hint line and how many lines pass through every point.

Examples:
  tryangles analyze A1-B1 B1-A2
  tryangles analyze --width 4 --height 4 A1-D4 A4-B3
  tryangles analyze --json A1-C1 C1-A3 A3-A1
  tryangles analyze --result 5f0c8a3e-...`,
	Run: runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntVar(&flagWidth, "width", 0, "Board width in points (0 = from config)")
	analyzeCmd.Flags().IntVar(&flagHeight, "height", 0, "Board height in points (0 = from config)")
	analyzeCmd.Flags().BoolVar(&flagAnalyzeJSON, "json", false, "Print the analysis as JSON")
	analyzeCmd.Flags().StringVar(&flagAnalyzeResult, "result", "", "Replay a stored game by its result ID")
}

// analysis is the report printed by the analyze command.
type analysis struct {
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	Moves      []string   `json:"moves"`
	ToMove     int        `json:"to_move"`
	Triangles  [][]string `json:"triangles"`
	Loser      int        `json:"loser,omitempty"`
	SafeMove   bool       `json:"safe_move"`
	Hint       string     `json:"hint,omitempty"`
	LegalMoves int        `json:"legal_moves"`
	SafeMoves  int        `json:"safe_moves"`
	Occupancy  [][]int    `json:"occupancy"`
}

// analyzeBoard describes the position on b.
func analyzeBoard(b *engine.Board) analysis {
	a := analysis{
		Width:      b.Width(),
		Height:     b.Height(),
		Moves:      []string{},
		ToMove:     b.MoveCount()%2 + 1,
		Triangles:  [][]string{},
		SafeMove:   b.SafeMoveExists(),
		LegalMoves: len(b.LegalMoves()),
		SafeMoves:  len(b.SafeMoves(0)),
	}

	for _, m := range b.PlayedMoves() {
		a.Moves = append(a.Moves, m.String())
	}
	for _, t := range b.Triangles() {
		var corners []string
		for _, p := range t.Corners() {
			corners = append(corners, p.String())
		}
		a.Triangles = append(a.Triangles, corners)
	}
	if len(a.Triangles) > 0 {
		// The player who drew the last line closed the triangle.
		a.Loser = (b.MoveCount()-1)%2 + 1
	}
	if hint, ok := b.HintMove(); ok {
		a.Hint = hint.String()
	}

	a.Occupancy = make([][]int, b.Height())
	for y := range b.Height() {
		a.Occupancy[y] = make([]int, b.Width())
		for x := range b.Width() {
			a.Occupancy[y][x] = b.Occupancy(engine.P(x, y))
		}
	}
	return a
}

// replay plays moves on an empty board of the given size.
func replay(width, height int, moves []string) (*engine.Board, error) {
	board, err := engine.NewBoard(width, height)
	if err != nil {
		return nil, err
	}
	for i, text := range moves {
		move, err := engine.ParseMove(text)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		if err := board.AddMove(move.A, move.B); err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
	}
	return board, nil
}

// storedGame loads the board size and lines of a saved result.
func storedGame(store *storage.Store, id string) (width, height int, moves []string, err error) {
	r, err := store.ResultByID(id)
	if err != nil {
		return 0, 0, nil, err
	}
	if r == nil {
		return 0, 0, nil, fmt.Errorf("no result with ID %q", id)
	}
	return r.Width, r.Height, r.Moves, nil
}

func runAnalyze(_ *cobra.Command, args []string) {
	cfg := tryangles.Settings()
	width, height := cfg.Board.Width, cfg.Board.Height
	if flagWidth > 0 {
		width = flagWidth
	}
	if flagHeight > 0 {
		height = flagHeight
	}

	moves := args
	if flagAnalyzeResult != "" {
		if len(args) > 0 {
			fmt.Fprintln(os.Stderr, "Error: --result cannot be combined with moves")
			os.Exit(1)
		}
		store, err := storage.Open(flagDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening results database: %v\n", err)
			os.Exit(1)
		}
		width, height, moves, err = storedGame(store, flagAnalyzeResult)
		store.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	board, err := replay(width, height, moves)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	a := analyzeBoard(board)

	if flagAnalyzeJSON {
		out, err := sonic.MarshalString(a)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding analysis: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(out)
		return
	}

	printAnalysis(a)
}

func printAnalysis(a analysis) {
	fmt.Printf("Board:      %dx%d\n", a.Width, a.Height)
	fmt.Printf("Moves:      %d\n", len(a.Moves))

	if len(a.Triangles) > 0 {
		fmt.Printf("Triangles:  %d (player %d loses)\n", len(a.Triangles), a.Loser)
		for _, t := range a.Triangles {
			fmt.Printf("  %s\n", strings.Join(t, " "))
		}
	} else {
		fmt.Printf("To move:    player %d\n", a.ToMove)
		fmt.Println("Triangles:  none")
	}

	if a.SafeMove {
		fmt.Println("Safe move:  yes")
	} else {
		fmt.Println("Safe move:  no more moves left")
	}
	hint := a.Hint
	if hint == "" {
		hint = "none"
	}
	fmt.Printf("Hint:       %s\n", hint)
	fmt.Printf("Legal:      %d lines (%d safe)\n", a.LegalMoves, a.SafeMoves)

	fmt.Println()
	fmt.Println(occupancyMap(a.Occupancy))
}

// occupancyMap draws the number of lines through every point, row 1 first.
// Free points are shown as dots.
func occupancyMap(grid [][]int) string {
	var b strings.Builder
	if len(grid) == 0 {
		return ""
	}

	b.WriteString("    ")
	for x := range grid[0] {
		b.WriteString(fmt.Sprintf(" %c", 'A'+x))
	}
	for y, row := range grid {
		b.WriteString(fmt.Sprintf("\n%3d ", y+1))
		for _, n := range row {
			switch {
			case n == 0:
				b.WriteString(" .")
			case n > 9:
				b.WriteString(" +")
			default:
				b.WriteString(fmt.Sprintf(" %d", n))
			}
		}
	}
	return b.String()
}
