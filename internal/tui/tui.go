package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"calcify/internal/calculator"
	"calcify/internal/observability"
)

const (
	helpText        = "0-9 . + - * / %  enter: =  backspace: delete  esc: clear  h: history  q: quit"
	historyHelpText = "↑/↓: select  enter: restore  esc/h: close  q: quit"
)

// Model is the bubbletea front end of a calculator Machine.
type Model struct {
	ctx     context.Context
	machine *calculator.Machine
	snap    calculator.Snapshot

	showHistory bool
	selected    int
}

// New wraps machine. ctx is passed to every event the model handles.
func New(ctx context.Context, machine *calculator.Machine) *Model {
	return &Model{
		ctx:     ctx,
		machine: machine,
		snap:    machine.Snapshot(),
	}
}

// Snapshot returns the state painted by the last View.
func (m *Model) Snapshot() calculator.Snapshot {
	return m.snap
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := keyMsg.String()
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "h":
		m.showHistory = !m.showHistory
		m.selected = 0
		return m, nil
	}

	if m.showHistory && m.updateHistory(key) {
		return m, nil
	}

	ev, ok := calculator.KeyEvent(key)
	if !ok {
		return m, nil
	}
	m.snap = m.machine.Handle(m.ctx, ev)
	return m, nil
}

// updateHistory handles keys aimed at the history panel and reports whether
// key was consumed.
func (m *Model) updateHistory(key string) bool {
	entries := m.machine.History()

	switch key {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(entries)-1 {
			m.selected++
		}
	case "esc":
		m.showHistory = false
	case "enter":
		if len(entries) == 0 {
			return true
		}
		snap, err := m.machine.Restore(m.ctx, m.selected)
		if err != nil {
			observability.Logger.Warn("history restore failed", zap.Int("index", m.selected), zap.Error(err))
			return true
		}
		m.snap = snap
		m.showHistory = false
	default:
		return false
	}
	return true
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("calcify"))
	b.WriteString("\n")

	expression := m.snap.Expression
	if expression == "" {
		expression = "0"
	}
	b.WriteString(expressionStyle.Render(expression))
	b.WriteString("\n")

	display := displayStyle
	if m.snap.IsError {
		display = errorStyle
	}
	b.WriteString(display.Render(m.snap.Display))
	b.WriteString("\n")

	if m.showHistory {
		b.WriteString(m.historyView())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(historyHelpText))
	} else {
		b.WriteString(helpStyle.Render(helpText))
	}
	b.WriteString("\n")

	return b.String()
}

func (m *Model) historyView() string {
	entries := m.machine.History()

	var b strings.Builder
	b.WriteString(historyTitleStyle.Render("History"))
	b.WriteString("\n")

	if len(entries) == 0 {
		b.WriteString(historyItemStyle.Render("no calculations yet"))
		return b.String()
	}

	for i, e := range entries {
		line := fmt.Sprintf("%s = %s", e.Expression, e.Result)
		if i == m.selected {
			b.WriteString(historySelectStyle.Render("▸ " + line))
		} else {
			b.WriteString(historyItemStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
