package calculator

import "strings"

// EventKind names one of the input events the state machine consumes.
type EventKind int

const (
	EventDigit EventKind = iota
	EventOperator
	EventDelete
	EventClear
	EventEvaluate
)

var eventKindNames = map[EventKind]string{
	EventDigit:    "digit",
	EventOperator: "operator",
	EventDelete:   "delete",
	EventClear:    "clear",
	EventEvaluate: "evaluate",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseEventKind is the inverse of EventKind.String.
func ParseEventKind(name string) (EventKind, bool) {
	for k, n := range eventKindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Event is one discrete input. Value carries the digit or operator symbol.
type Event struct {
	Kind  EventKind
	Value string
}

// Digit is a digit or decimal point key.
func Digit(d string) Event {
	return Event{Kind: EventDigit, Value: d}
}

// OperatorInput is an operator key, ASCII or glyph.
func OperatorInput(op string) Event {
	return Event{Kind: EventOperator, Value: op}
}

func Delete() Event {
	return Event{Kind: EventDelete}
}

func Clear() Event {
	return Event{Kind: EventClear}
}

func Evaluate() Event {
	return Event{Kind: EventEvaluate}
}

// KeyEvent maps a physical key name to an event. Both browser key names
// ("Enter", "Backspace", "Escape") and terminal names ("enter",
// "backspace", "esc") are understood. Unmapped keys return false.
func KeyEvent(key string) (Event, bool) {
	switch key {
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9", ".":
		return Digit(key), true
	case "+", "-", "*", "/", "%", "−", "×", "÷":
		return OperatorInput(key), true
	case "=":
		return Evaluate(), true
	case "c", "C":
		return Clear(), true
	}

	switch strings.ToLower(key) {
	case "enter":
		return Evaluate(), true
	case "backspace":
		return Delete(), true
	case "escape", "esc":
		return Clear(), true
	}

	return Event{}, false
}
