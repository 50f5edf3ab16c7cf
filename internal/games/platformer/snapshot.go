package platformer

import (
	"fmt"
	"hash/fnv"

	"github.com/vmihailenco/msgpack/v5"
)

// Snapshot is the observable game state at a tick. Two runs with the same
// seed and inputs produce equal snapshots.
type Snapshot struct {
	Tick     uint64 `msgpack:"tick"`
	Level    string `msgpack:"level"`
	Paused   bool   `msgpack:"paused"`
	Lost     bool   `msgpack:"lost"`
	Finished bool   `msgpack:"finished"`

	Player PlayerState `msgpack:"player"`
	Switch SwitchState `msgpack:"switch"`

	TunnelEligible bool        `msgpack:"tunnel_eligible"`
	Bodies         []BodyState `msgpack:"bodies"`
}

// PlayerState is the player part of a snapshot.
type PlayerState struct {
	Name       string  `msgpack:"name"`
	Score      int     `msgpack:"score"`
	Health     int     `msgpack:"health"`
	Invincible bool    `msgpack:"invincible"`
	InvLeft    int     `msgpack:"inv_left"`
	Jumping    bool    `msgpack:"jumping"`
	X          float64 `msgpack:"x"`
	Y          float64 `msgpack:"y"`
	VX         float64 `msgpack:"vx"`
	VY         float64 `msgpack:"vy"`
}

// SwitchState is the switch window part of a snapshot.
type SwitchState struct {
	Open    bool `msgpack:"open"`
	Ticks   int  `msgpack:"ticks"`
	Removed int  `msgpack:"removed"`
}

// BodyState is one thing in the world.
type BodyState struct {
	ID     uint64  `msgpack:"id"`
	Kind   string  `msgpack:"kind"`
	X      float64 `msgpack:"x"`
	Y      float64 `msgpack:"y"`
	VX     float64 `msgpack:"vx"`
	VY     float64 `msgpack:"vy"`
	Tempo  float64 `msgpack:"tempo,omitempty"`
	Active bool    `msgpack:"active,omitempty"`
}

// Snapshot captures the current game state.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Tick:     g.tick,
		Level:    g.current,
		Paused:   g.paused,
		Lost:     g.lost,
		Finished: g.finished,
	}
	if p := g.player; p != nil {
		pos, vel := p.body.Position(), p.body.Velocity()
		s.Player = PlayerState{
			Name:       p.Name(),
			Score:      p.Score(),
			Health:     p.Health(),
			Invincible: p.Invincible(),
			InvLeft:    p.InvincibilityLeft(),
			Jumping:    p.Jumping(),
			X:          pos.X,
			Y:          pos.Y,
			VX:         vel.X,
			VY:         vel.Y,
		}
	}
	lv := g.level
	if lv == nil {
		return s
	}
	s.TunnelEligible = lv.State.TunnelEligible
	s.Switch = SwitchState{
		Open:    lv.State.Switch.Open,
		Ticks:   lv.State.Switch.Ticks,
		Removed: len(lv.State.Switch.Removed()),
	}
	for _, b := range lv.World.Bodies() {
		pos, vel := b.Position(), b.Velocity()
		bs := BodyState{
			ID:   b.ID(),
			Kind: b.Category.String(),
			X:    pos.X,
			Y:    pos.Y,
			VX:   vel.X,
			VY:   vel.Y,
		}
		switch e := b.Owner.(type) {
		case *Block:
			bs.Kind += ":" + string(e.kind)
			bs.Active = e.active
		case *Item:
			bs.Kind += ":" + string(e.kind)
		case *Mob:
			bs.Kind += ":" + string(e.kind)
			bs.Tempo = e.tempo
		}
		s.Bodies = append(s.Bodies, bs)
	}
	return s
}

// Marshal encodes the snapshot with msgpack.
func (s Snapshot) Marshal() ([]byte, error) {
	data, err := msgpack.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("platformer: encode snapshot: %w", err)
	}
	return data, nil
}

// UnmarshalSnapshot decodes a snapshot produced by Marshal.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("platformer: decode snapshot: %w", err)
	}
	return s, nil
}

// Fingerprint returns a hash of the encoded snapshot for determinism checks.
func (s Snapshot) Fingerprint() (uint64, error) {
	data, err := s.Marshal()
	if err != nil {
		return 0, err
	}
	h := fnv.New64a()
	_, _ = h.Write(data)
	return h.Sum64(), nil
}
