package platformer

import "github.com/vovakirdan/tui-platformer/internal/core"

const (
	// SwitchTicks is how long an open switch window keeps blocks removed.
	SwitchTicks = 450
	// SwitchRadius is the distance from the switch centre within which
	// blocks are removed.
	SwitchRadius = 50
)

// TransitionKind tells how the player leaves a level.
type TransitionKind uint8

const (
	TransitionGoal TransitionKind = iota + 1
	TransitionTunnel
)

// String returns the transition name.
func (k TransitionKind) String() string {
	switch k {
	case TransitionGoal:
		return "goal"
	case TransitionTunnel:
		return "tunnel"
	default:
		return "none"
	}
}

// Transition is a request to leave the current level, applied at the end
// of the tick.
type Transition struct {
	Kind   TransitionKind
	Target string
	Heal   int
}

// SwitchWindow is the timed interval during which blocks around a pressed
// switch are removed.
type SwitchWindow struct {
	Open     bool
	Origin   core.Vec // centre of the switch that opened the window
	Ticks    int      // timer passes since the window opened
	OpenedAt uint64   // level tick the window opened in

	pending bool     // removal not applied yet
	removed []*Block // blocks to restore when the window closes
}

// Removed returns the blocks currently taken out by the window.
func (w *SwitchWindow) Removed() []*Block {
	return w.removed
}

// LevelState holds the transient flags of one level instance. It is the
// context collision handlers read and write.
type LevelState struct {
	Level  string
	Goal   string // level reached through the flagpole
	Tunnel string // level reached through a tunnel

	TunnelEligible bool
	LastSwitch     core.Vec // position of the last switch touched
	Switch         SwitchWindow

	lost       bool
	transition *Transition
}

// MarkLost records that the player lost. It returns true only the first
// time it is called for this level instance.
func (s *LevelState) MarkLost() bool {
	if s.lost {
		return false
	}
	s.lost = true
	return true
}

// Lost reports whether the player lost in this level.
func (s *LevelState) Lost() bool {
	return s.lost
}

// RequestTransition queues a level change. Only the first request of a
// level instance is kept.
func (s *LevelState) RequestTransition(t Transition) bool {
	if s.transition != nil {
		return false
	}
	s.transition = &t
	return true
}

// PendingTransition returns the queued level change, if any.
func (s *LevelState) PendingTransition() (Transition, bool) {
	if s.transition == nil {
		return Transition{}, false
	}
	return *s.transition, true
}
