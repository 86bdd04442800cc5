package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"calcify/internal/calculator"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	return New(context.Background(), calculator.NewMachine(context.Background()))
}

func typeRunes(t *testing.T, m *Model, s string) {
	t.Helper()
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func press(m *Model, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

func TestTypingEvaluates(t *testing.T) {
	m := newTestModel(t)

	typeRunes(t, m, "12+3")
	if got := m.Snapshot().Display; got != "3" {
		t.Fatalf("expected display 3, got %q", got)
	}

	press(m, tea.KeyEnter)
	snap := m.Snapshot()
	if snap.Display != "15" || snap.Expression != "15" {
		t.Fatalf("expected 15, got %#v", snap)
	}
	if !strings.Contains(m.View(), "15") {
		t.Fatal("expected view to contain the result")
	}
}

func TestBackspaceAndEscape(t *testing.T) {
	m := newTestModel(t)

	typeRunes(t, m, "123")
	press(m, tea.KeyBackspace)
	if got := m.Snapshot().Expression; got != "12" {
		t.Fatalf("expected 12 after backspace, got %q", got)
	}

	press(m, tea.KeyEsc)
	if got := m.Snapshot().Display; got != "0" {
		t.Fatalf("expected cleared display, got %q", got)
	}
}

func TestErrorIsShown(t *testing.T) {
	m := newTestModel(t)

	typeRunes(t, m, "5/0")
	press(m, tea.KeyEnter)

	if !m.Snapshot().IsError {
		t.Fatal("expected error state")
	}
	if !strings.Contains(m.View(), calculator.ErrorDisplay) {
		t.Fatal("expected view to show the error display")
	}
}

func TestEmptyExpressionLineShowsZero(t *testing.T) {
	m := newTestModel(t)
	if !strings.Contains(m.View(), "0") {
		t.Fatal("expected view to show 0")
	}
}

func TestHistoryPanelRestores(t *testing.T) {
	m := newTestModel(t)

	typeRunes(t, m, "2+3")
	press(m, tea.KeyEnter)
	typeRunes(t, m, "9*9")
	press(m, tea.KeyEnter)

	typeRunes(t, m, "h")
	view := m.View()
	if !strings.Contains(view, "9×9 = 81") || !strings.Contains(view, "2+3 = 5") {
		t.Fatalf("expected both entries in history view, got:\n%s", view)
	}

	press(m, tea.KeyDown)
	press(m, tea.KeyDown)
	press(m, tea.KeyEnter)

	if m.showHistory {
		t.Fatal("expected history panel to close after restore")
	}
	if got := m.Snapshot().Display; got != "5" {
		t.Fatalf("expected restored 5, got %q", got)
	}
}

func TestHistoryPanelToggleAndEmpty(t *testing.T) {
	m := newTestModel(t)

	typeRunes(t, m, "h")
	if !strings.Contains(m.View(), "no calculations yet") {
		t.Fatal("expected empty history message")
	}

	press(m, tea.KeyEnter)
	if !m.showHistory {
		t.Fatal("enter on empty history should keep the panel open")
	}

	typeRunes(t, m, "h")
	if m.showHistory {
		t.Fatal("expected h to close the panel")
	}
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command for q")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg for q")
	}

	if cmd := press(m, tea.KeyCtrlC); cmd == nil {
		t.Fatal("expected quit command for ctrl+c")
	}
}
