// Package registry provides a global registry for game factories.
// Games register themselves in init() functions, allowing the platform
// to discover and instantiate games without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/agnivade/levenshtein"

	"github.com/vovakirdan/tryangles/internal/core"
)

// Game is the core interface that every playable mode must implement.
// Games contain pure logic with no external dependencies (especially no Bubble Tea).
// The platform handles input mapping, timing, and rendering.
type Game interface {
	// ID returns a unique identifier for this game (e.g., "tryangles").
	// Used for CLI commands and result storage.
	ID() string

	// Title returns a human-readable name for display (e.g., "Tryangles vs CPU").
	Title() string

	// Reset initializes or resets the game state.
	// Called once at start and again when restarting after game over.
	// The RuntimeConfig provides screen dimensions and RNG seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one fixed tick.
	// Input is abstracted to platform-level actions (Up, Confirm, Undo, etc.).
	// Returns the result of this tick including current game state.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current game state into the provided screen buffer.
	// The screen is pre-cleared before this call.
	Render(dst *core.Screen)

	// State returns the current game state (moves, game over, paused, winner).
	State() core.GameState
}

// Reporter is implemented by games that can describe a finished game for
// persistence. The platform saves the outcome once per game over.
type Reporter interface {
	Outcome() core.Outcome
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a game.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	described = make(map[string]string) // modes with results but no factory
	mu        sync.RWMutex
)

// Register adds a game factory to the registry.
// Typically called from a game's init() function.
// Panics if a game with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	factories[id] = f

	// Get title by creating a temporary instance
	g := f()
	titles[id] = g.Title()
}

// List returns information about all registered games, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Describe names a mode that records results but cannot be started from the
// menu, such as computer self play or online matches.
func Describe(id, title string) {
	mu.Lock()
	defer mu.Unlock()
	described[id] = title
}

// Modes returns every mode that can have results: the registered games
// followed by the described modes, each group sorted by ID.
func Modes() []GameInfo {
	result := List()

	mu.RLock()
	defer mu.RUnlock()

	extra := make([]GameInfo, 0, len(described))
	for id, title := range described {
		if _, registered := factories[id]; !registered {
			extra = append(extra, GameInfo{ID: id, Title: title})
		}
	}
	sort.Slice(extra, func(i, j int) bool {
		return extra[i].ID < extra[j].ID
	})

	return append(result, extra...)
}

// Known reports whether id is a registered or described mode.
func Known(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, registered := factories[id]
	_, ok := described[id]
	return registered || ok
}

// Create instantiates a new game by its ID.
// Returns an error if the game ID is not registered.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}

	return f(), nil
}

// Exists checks if a game with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}

// maxSuggestDistance is the largest edit distance still offered as a suggestion.
const maxSuggestDistance = 3

// Suggest returns the registered ID closest to id by edit distance, for
// "did you mean" hints. It returns false when nothing is close enough.
func Suggest(id string) (string, bool) {
	mu.RLock()
	defer mu.RUnlock()

	best, bestDist := "", maxSuggestDistance+1
	for known := range factories {
		d := levenshtein.ComputeDistance(id, known)
		if d < bestDist || (d == bestDist && known < best) {
			best, bestDist = known, d
		}
	}
	return best, best != ""
}
