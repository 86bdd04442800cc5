package calculator

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"calcify/internal/expr"
	"calcify/internal/history"
)

// Mode is the input mode of the state machine.
type Mode int

const (
	ModeNormal Mode = iota
	ModeJustEvaluated
	ModeError
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeJustEvaluated:
		return "just_evaluated"
	case ModeError:
		return "error"
	default:
		return "unknown"
	}
}

// ErrorDisplay is shown while the machine is in ModeError.
const ErrorDisplay = "Error"

// State is the calculator aggregate. Transitions are value methods that
// return the next state; the receiver is never modified. History is shared
// between states and replaced, never mutated, on append.
type State struct {
	Expression      string
	Mode            Mode
	LastWasOperator bool
	// History holds completed calculations, most recent first.
	History []history.Entry
}

// NewState returns a fresh state carrying entries as its history.
func NewState(entries []history.Entry) State {
	return State{History: entries}
}

// Display is the text shown on the main display. It is derived from the
// expression and mode: the active numeral while typing, the operator glyph
// right after an operator, the whole result after an evaluation.
func (s State) Display() string {
	switch {
	case s.Mode == ModeError:
		return ErrorDisplay
	case s.Expression == "":
		return "0"
	case s.Mode == ModeJustEvaluated:
		return s.Expression
	}

	last, _ := utf8.DecodeLastRuneInString(s.Expression)
	if expr.IsOperatorGlyph(last) {
		return string(last)
	}

	if numeral := expr.LastNumeral(s.Expression); numeral != "" && numeral != "-" {
		return numeral
	}
	return "0"
}

// Snapshot returns the read-only view painted by front ends.
func (s State) Snapshot() Snapshot {
	return Snapshot{
		Expression: s.Expression,
		Display:    s.Display(),
		IsError:    s.Mode == ModeError,
		Mode:       s.Mode.String(),
	}
}

// Clear resets everything except history.
func (s State) Clear() State {
	return NewState(s.History)
}

// Digit appends d, which must be "0"-"9" or "."; anything else is ignored.
func (s State) Digit(d string) State {
	if !isDigit(d) {
		return s
	}

	if s.Mode == ModeError {
		s = s.Clear()
	}

	if s.Mode == ModeJustEvaluated {
		next := NewState(s.History)
		next.Expression = d
		if d == "." {
			next.Expression = "0."
		}
		return next
	}

	if d == "." {
		if strings.Contains(expr.LastNumeral(s.Expression), ".") {
			return s
		}

		if s.LastWasOperator || s.Expression == "" {
			s.Expression += "0."
			s.LastWasOperator = false
			return s
		}
	}

	display := s.Display()
	if utf8.RuneCountInString(display) >= expr.MaxDisplayLength {
		return s
	}

	if display == "0" && d != "." {
		s.Expression = trimLastRune(s.Expression) + d
	} else {
		s.Expression += d
	}

	s.LastWasOperator = false
	return s
}

// Operator appends the operator for symbol, replacing a trailing operator.
// Unknown symbols are ignored.
func (s State) Operator(symbol string) State {
	glyph, ok := expr.NormalizeOperator(symbol)
	if !ok {
		return s
	}

	if s.Mode == ModeError {
		s = s.Clear()
	}

	if s.Expression == "" {
		return s
	}

	if s.LastWasOperator {
		s.Expression = trimLastRune(s.Expression) + glyph
		return s
	}

	if s.Mode == ModeJustEvaluated {
		s.Expression = s.Display() + glyph
		s.Mode = ModeNormal
	} else {
		s.Expression += glyph
	}

	s.LastWasOperator = true
	return s
}

// Delete removes the last character. In ModeError it clears instead.
func (s State) Delete() State {
	if s.Mode == ModeError {
		return s.Clear()
	}

	if s.Expression == "" {
		return s
	}

	s.Expression = trimLastRune(s.Expression)
	s.Mode = ModeNormal

	// A numeral never ends in a bare sign or exponent marker: "-" and "5e-"
	// left over from editing a result are dropped along with the deleted rune.
	numeral := expr.LastNumeral(s.Expression)
	s.Expression = s.Expression[:len(s.Expression)-len(numeral)] + strings.TrimRight(numeral, "e-")

	last, _ := utf8.DecodeLastRuneInString(s.Expression)
	s.LastWasOperator = s.Expression != "" && expr.IsOperatorGlyph(last)
	return s
}

// Evaluation describes what an Evaluate transition did.
type Evaluation struct {
	// Ignored is set when the expression was empty or incomplete.
	Ignored bool
	Value   float64
	Entry   history.Entry
	// Err is the cause of a failed evaluation; the state is then in ModeError.
	Err error
}

// Evaluate computes the expression. An empty or operator-terminated
// expression is left untouched. Failures of any kind put the state in
// ModeError; success records a history entry stamped with now.
func (s State) Evaluate(now time.Time) (State, Evaluation) {
	last, _ := utf8.DecodeLastRuneInString(s.Expression)
	if s.Expression == "" || s.LastWasOperator || expr.IsOperatorGlyph(last) {
		return s, Evaluation{Ignored: true}
	}

	value, err := safeEval(s.Expression)
	if err != nil {
		next := NewState(s.History)
		next.Mode = ModeError
		return next, Evaluation{Err: err}
	}

	entry := history.Entry{
		Expression: s.Expression,
		Result:     expr.FormatNumber(value),
		Timestamp:  now,
	}

	next := NewState(history.Prepend(s.History, entry))
	next.Expression = entry.Result
	next.Mode = ModeJustEvaluated

	return next, Evaluation{Value: value, Entry: entry}
}

// Restore makes entry's result the current value, as if it had just been
// evaluated.
func (s State) Restore(entry history.Entry) State {
	next := NewState(s.History)
	next.Expression = entry.Result
	next.Mode = ModeJustEvaluated
	return next
}

// Apply dispatches ev to the matching transition.
func (s State) Apply(ev Event, now time.Time) (State, Evaluation) {
	switch ev.Kind {
	case EventDigit:
		return s.Digit(ev.Value), Evaluation{}
	case EventOperator:
		return s.Operator(ev.Value), Evaluation{}
	case EventDelete:
		return s.Delete(), Evaluation{}
	case EventClear:
		return s.Clear(), Evaluation{}
	case EventEvaluate:
		return s.Evaluate(now)
	default:
		return s, Evaluation{Ignored: true}
	}
}

// safeEval turns a panic inside the evaluator into an error.
func safeEval(expression string) (v float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("evaluating %q: %v", expression, r)
		}
	}()

	return expr.Evaluate(expr.Tokenize(expression))
}

func isDigit(d string) bool {
	return len(d) == 1 && (d[0] == '.' || (d[0] >= '0' && d[0] <= '9'))
}

func trimLastRune(s string) string {
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}
