package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 100, i.e. 10ms)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 100,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score     int    // Current score
	GameOver  bool   // Whether the player has lost
	Finished  bool   // Whether the last level has been completed
	Paused    bool   // Whether the game is paused
	Level     string // Current level id
	Health    int    // Current player health
	MaxHealth int    // Maximum player health
	Tick      uint64 // Ticks simulated since the game was created
}

// EventKind identifies something notable that happened during a tick.
type EventKind int

const (
	EventLevelComplete EventKind = iota + 1 // Player reached a level goal
	EventLevelChanged                       // A new level has been loaded
	EventLost                               // Player health reached zero
	EventGameFinished                       // Goal target was the end marker
)

// String returns a human-readable name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventLevelComplete:
		return "LevelComplete"
	case EventLevelChanged:
		return "LevelChanged"
	case EventLost:
		return "Lost"
	case EventGameFinished:
		return "GameFinished"
	default:
		return "Unknown"
	}
}

// Event is emitted by Game.Step for the platform to react to
// (save a score, show a popup).
type Event struct {
	Kind  EventKind
	Level string // Level the event happened in
	Next  string // Level loaded next, if any
	Score int    // Score at the time of the event
}

// StepResult is returned by Game.Step() after each simulation tick.
// Contains the updated game state and any events that occurred.
type StepResult struct {
	State  GameState
	Events []Event
}
