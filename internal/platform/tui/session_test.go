package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-platformer/internal/registry"
)

var lastScripted *scriptedGame

func init() {
	registry.Register("tui-scripted", func() registry.Game {
		lastScripted = &scriptedGame{}
		return lastScripted
	})
}

func sessionUpdate(t *testing.T, m SessionModel, msg tea.Msg) SessionModel {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(SessionModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out
}

func newTestSession(t *testing.T) SessionModel {
	t.Helper()
	return NewSessionModel(openStore(t), testRuntime, SessionConfig{
		GameID: "tui-scripted",
		Levels: []string{"level1.txt", "level2.txt"},
	})
}

func TestSessionMenuStartsSelectedLevel(t *testing.T) {
	m := newTestSession(t)
	if !strings.Contains(m.View(), "level2") {
		t.Fatal("menu does not list level2")
	}

	m = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != modeGame || m.gameModel == nil {
		t.Fatal("session did not enter the game")
	}
	if lastScripted == nil || len(lastScripted.loaded) != 1 || lastScripted.loaded[0] != "level2.txt" {
		t.Fatalf("start level not loaded: %+v", lastScripted)
	}
	if !strings.Contains(m.View(), "LEVEL level2.txt") {
		t.Error("game view not shown")
	}

	m.gameModel.gameState.Paused = true
	m = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeMenu {
		t.Error("esc while paused did not return to the menu")
	}
}

func TestSessionScoreboardRoundTrip(t *testing.T) {
	m := newTestSession(t)

	m = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.mode != modeScoreboard {
		t.Fatal("tab did not open the scoreboard")
	}
	if !strings.Contains(m.View(), "HIGH SCORES - level1.txt") {
		t.Errorf("scoreboard title missing")
	}

	m = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeMenu {
		t.Error("esc did not return to the menu")
	}
	if m.quitting {
		t.Error("session quit on back")
	}
}

func TestSessionQuitFromMenu(t *testing.T) {
	m := newTestSession(t)
	m = sessionUpdate(t, m, runeKey("q"))
	if !m.quitting || m.View() != "" {
		t.Error("q did not quit the session")
	}
}

func TestSessionUnknownGame(t *testing.T) {
	m := NewSessionModel(nil, testRuntime, SessionConfig{GameID: "missing", Levels: []string{"a.txt"}})
	m = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Err() == nil {
		t.Error("Expected error for unknown game id")
	}
}
