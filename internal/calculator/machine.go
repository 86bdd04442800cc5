package calculator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"calcify/internal/expr"
	"calcify/internal/history"
	"calcify/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// ErrNoSuchEntry is returned when restoring a history index that does not exist.
var ErrNoSuchEntry = errors.New("no such history entry")

// Snapshot is what a front end needs to paint the calculator.
type Snapshot struct {
	Expression string `json:"expression"`
	Display    string `json:"display"`
	IsError    bool   `json:"is_error"`
	Mode       string `json:"mode"`
}

// Renderer receives a snapshot after every handled event.
type Renderer interface {
	Render(Snapshot)
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(Snapshot)

func (f RenderFunc) Render(s Snapshot) { f(s) }

// Machine drives a State from input events. It persists history after each
// successful evaluation and renders after each event. A Machine is not safe
// for concurrent use; callers serialise events.
type Machine struct {
	state    State
	repo     *history.Repository
	renderer Renderer
	now      func() time.Time
}

// Option configures a Machine.
type Option func(*Machine)

// WithRepository persists history through repo.
func WithRepository(repo *history.Repository) Option {
	return func(m *Machine) { m.repo = repo }
}

// WithRenderer sets the render sink.
func WithRenderer(r Renderer) Option {
	return func(m *Machine) { m.renderer = r }
}

// WithClock overrides the clock used to timestamp history entries.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// NewMachine builds a machine and rehydrates its history. A history that
// cannot be loaded is logged and replaced by an empty one.
func NewMachine(ctx context.Context, opts ...Option) *Machine {
	m := &Machine{now: time.Now}
	for _, opt := range opts {
		opt(m)
	}

	var entries []history.Entry
	if m.repo != nil {
		loaded, err := m.repo.Load(ctx)
		if err != nil {
			persistErrCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "load")))
			observability.LoggerWithTrace(ctx).Warn("history load failed, starting empty",
				zap.String("key", m.repo.Key()),
				zap.Error(err),
			)
		} else {
			entries = loaded
		}
	}

	m.state = NewState(entries)
	m.render()
	return m
}

// Snapshot returns the current snapshot.
func (m *Machine) Snapshot() Snapshot {
	return m.state.Snapshot()
}

// History returns a copy of the history, most recent first.
func (m *Machine) History() []history.Entry {
	return append([]history.Entry(nil), m.state.History...)
}

// Handle applies ev and returns the resulting snapshot.
func (m *Machine) Handle(ctx context.Context, ev Event) Snapshot {
	eventsCounter.Add(ctx, 1, metric.WithAttributes(eventAttributes(ev)...))

	if ev.Kind == EventEvaluate {
		m.evaluate(ctx)
	} else {
		m.state, _ = m.state.Apply(ev, m.now())
	}

	m.render()
	return m.state.Snapshot()
}

// Restore re-enters the just-evaluated mode with the result of the history
// entry at index (0 is the most recent).
func (m *Machine) Restore(ctx context.Context, index int) (Snapshot, error) {
	if index < 0 || index >= len(m.state.History) {
		return m.state.Snapshot(), fmt.Errorf("%w: %d", ErrNoSuchEntry, index)
	}

	m.state = m.state.Restore(m.state.History[index])
	m.render()
	return m.state.Snapshot(), nil
}

func (m *Machine) evaluate(ctx context.Context) {
	expression := m.state.Expression
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculator.evaluate",
		trace.WithAttributes(
			attribute.String("calculator.expression", expression),
		),
	)
	defer span.End()

	start := time.Now()
	next, result := m.state.Evaluate(m.now())
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	m.state = next

	switch {
	case result.Ignored:
		span.AddEvent("evaluation.ignored")
		return

	case result.Err != nil:
		reason := failureReason(result.Err)
		span.RecordError(result.Err)
		span.SetStatus(codes.Error, reason)
		errorCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))

		logger.Debug("evaluation failed",
			zap.String("expression", expression),
			zap.String("reason", reason),
			zap.Error(result.Err),
		)
		return
	}

	attrs := metric.WithAttributes(attribute.String("operation", "evaluate"))
	evalCounter.Add(ctx, 1, attrs)
	evalHistogram.Record(ctx, elapsed, attrs)
	resultGauge.Record(ctx, result.Value, attrs)

	span.SetAttributes(attribute.String("calculator.result", result.Entry.Result))
	span.SetStatus(codes.Ok, "")

	logger.Debug("evaluation completed",
		zap.String("expression", expression),
		zap.String("result", result.Entry.Result),
		zap.Float64("duration_ms", elapsed),
	)

	m.persist(ctx)
}

// persist saves the history. Failures never reach the display.
func (m *Machine) persist(ctx context.Context) {
	if m.repo == nil {
		return
	}

	if err := m.repo.Save(ctx, m.state.History); err != nil {
		persistErrCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "save")))
		observability.LoggerWithTrace(ctx).Warn("history save failed",
			zap.String("key", m.repo.Key()),
			zap.Error(err),
		)
	}
}

func (m *Machine) render() {
	if m.renderer != nil {
		m.renderer.Render(m.state.Snapshot())
	}
}

// eventAttributes labels an event for metrics. Operator events also carry
// the operator name.
func eventAttributes(ev Event) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String("event", ev.Kind.String())}
	if ev.Kind != EventOperator {
		return attrs
	}

	glyph, ok := expr.NormalizeOperator(ev.Value)
	if !ok {
		return attrs
	}
	if op, ok := expr.ParseOperator(glyph); ok {
		attrs = append(attrs, attribute.String("operator", op.Name()))
	}
	return attrs
}

// failureReason classifies an evaluation error for metrics and logs.
func failureReason(err error) string {
	switch {
	case errors.Is(err, expr.ErrMalformedExpression):
		return "malformed_expression"
	case errors.Is(err, expr.ErrDivisionByZero):
		return "division_by_zero"
	case errors.Is(err, expr.ErrInvalidResult):
		return "invalid_result"
	default:
		return "internal"
	}
}
