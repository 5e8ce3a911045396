package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tryangles/internal/core"
)

// ansiCodes maps palette colors to terminal color codes.
var ansiCodes = map[core.Color]string{
	core.ColorRed:           "1",
	core.ColorGreen:         "2",
	core.ColorYellow:        "3",
	core.ColorBlue:          "4",
	core.ColorMagenta:       "5",
	core.ColorCyan:          "6",
	core.ColorWhite:         "7",
	core.ColorBrightRed:     "9",
	core.ColorBrightGreen:   "10",
	core.ColorBrightYellow:  "11",
	core.ColorBrightBlue:    "12",
	core.ColorBrightMagenta: "13",
	core.ColorBrightCyan:    "14",
	core.ColorBrightWhite:   "15",
	core.ColorOrange:        "208",
	core.ColorGray:          "245",
}

var colorStyles = buildColorStyles()

// buildColorStyles prepares one style per palette color. Bright colors are
// drawn bold so the last line and the cursor stand out on 8-color terminals.
func buildColorStyles() map[core.Color]lipgloss.Style {
	styles := map[core.Color]lipgloss.Style{core.ColorDefault: lipgloss.NewStyle()}
	for c, code := range ansiCodes {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(code))
		if c >= core.ColorBrightRed && c <= core.ColorBrightWhite {
			style = style.Bold(true)
		}
		styles[c] = style
	}
	return styles
}

// styleFor returns the style of c, falling back to the default style.
func styleFor(c core.Color) lipgloss.Style {
	if style, ok := colorStyles[c]; ok {
		return style
	}
	return colorStyles[core.ColorDefault]
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Adjacent cells of one color share a single styled run.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		runColor := s.GetCell(0, y).Color
		for x := range s.Width() {
			cell := s.GetCell(x, y)
			if cell.Color != runColor {
				sb.WriteString(styleFor(runColor).Render(run.String()))
				run.Reset()
				runColor = cell.Color
			}
			run.WriteRune(cell.Rune)
		}
		sb.WriteString(styleFor(runColor).Render(run.String()))
		run.Reset()
	}
	return sb.String()
}
