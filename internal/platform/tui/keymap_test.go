package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-platformer/internal/core"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyMapAction(t *testing.T) {
	keys := DefaultKeyMap()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want core.Action
	}{
		{"w jumps", runeKey("w"), core.ActionJump},
		{"up jumps", tea.KeyMsg{Type: tea.KeyUp}, core.ActionJump},
		{"a moves left", runeKey("a"), core.ActionLeft},
		{"left arrow", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft},
		{"d moves right", runeKey("d"), core.ActionRight},
		{"right arrow", tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight},
		{"s ducks", runeKey("s"), core.ActionDuck},
		{"down ducks", tea.KeyMsg{Type: tea.KeyDown}, core.ActionDuck},
		{"p pauses", runeKey("p"), core.ActionPause},
		{"r restarts", runeKey("r"), core.ActionRestart},
		{"esc goes back", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack},
		{"q quits", runeKey("q"), core.ActionQuit},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{"unbound key", runeKey("z"), core.ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keys.Action(tt.msg); got != tt.want {
				t.Errorf("Action(%q) = %v, expected %v", tt.msg.String(), got, tt.want)
			}
		})
	}
}

func TestMenuKeyMapAction(t *testing.T) {
	keys := DefaultMenuKeyMap()

	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{runeKey("k"), MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		{runeKey("j"), MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{runeKey("q"), MenuActionQuit},
		{runeKey("x"), MenuActionNone},
	}

	for _, tt := range tests {
		if got := keys.Action(tt.msg); got != tt.want {
			t.Errorf("Action(%q) = %v, expected %v", tt.msg.String(), got, tt.want)
		}
	}
}

func TestKeyMapHelpCoversGameKeys(t *testing.T) {
	keys := DefaultKeyMap()
	if n := len(keys.ShortHelp()); n != 7 {
		t.Errorf("ShortHelp has %d bindings, expected 7", n)
	}
	total := 0
	for _, col := range keys.FullHelp() {
		total += len(col)
	}
	if total != 9 {
		t.Errorf("FullHelp has %d bindings, expected 9", total)
	}
}
