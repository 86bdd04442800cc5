package calculator

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"calcify/internal/expr"
	"calcify/internal/handlers"
	"calcify/internal/observability"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Handler serves the calculator HTTP API.
type Handler struct {
	sessions *Registry
}

func NewHandler(sessions *Registry) *Handler {
	return &Handler{sessions: sessions}
}

// ---------------------------------------------------------------------------
// Handler: stateless evaluation
// ---------------------------------------------------------------------------

// Evaluate handles POST /calculator/evaluate.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.evaluate_expression",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(attribute.String("calculator.expression", req.Expression))

	tokens := expr.Tokenize(req.Expression)

	start := time.Now()
	result, err := expr.Evaluate(tokens)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", err.Error(), err, http.StatusUnprocessableEntity, w)
		return
	}

	display := expr.FormatNumber(result)

	attrs := metric.WithAttributes(attribute.String("operation", "evaluate"))
	evalCounter.Add(ctx, 1, attrs)
	evalHistogram.Record(ctx, elapsed, attrs)
	resultGauge.Record(ctx, result, attrs)

	span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.Float64("result", result),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetAttributes(attribute.String("calculator.result", display))
	span.SetStatus(codes.Ok, "")

	logger.Info("expression evaluated",
		zap.String("expression", req.Expression),
		zap.Int("tokens", len(tokens)),
		zap.String("result", display),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	texts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		texts = append(texts, tok.Text)
	}

	handlers.WriteJSON(w, http.StatusOK, EvaluateResponse{
		Expression: req.Expression,
		Tokens:     texts,
		Result:     result,
		Display:    display,
	})
}

// ---------------------------------------------------------------------------
// Handlers: sessions
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s := h.sessions.Create(ctx)

	observability.LoggerWithTrace(ctx).Info("session created",
		zap.String("session_id", s.ID),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	var snap Snapshot
	s.Do(func(m *Machine) { snap = m.Snapshot() })

	handlers.WriteJSON(w, http.StatusCreated, SessionResponse{ID: s.ID, Snapshot: snap})
}

// GetSession handles GET /calculator/sessions/{id}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var snap Snapshot
	s.Do(func(m *Machine) { snap = m.Snapshot() })

	handlers.WriteJSON(w, http.StatusOK, SessionResponse{ID: s.ID, Snapshot: snap})
}

// DeleteSession handles DELETE /calculator/sessions/{id}.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.sessions.Delete(id) {
		handlers.WriteError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PostEvents handles POST /calculator/sessions/{id}/events. It applies a
// batch of typed input events in order.
func (h *Handler) PostEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	s, ok := h.session(w, r)
	if !ok {
		return
	}

	ctx, span := tracer.Start(ctx, "calculator.session.events",
		trace.WithAttributes(attribute.String("session.id", s.ID)),
	)
	defer span.End()

	var req EventsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "events", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	events := make([]Event, 0, len(req.Events))
	for i, e := range req.Events {
		kind, ok := ParseEventKind(e.Type)
		if !ok {
			observability.RecordError(ctx, span, logger, errorCounter, "events", "unknown event type",
				fmt.Errorf("unknown event type %q at index %d", e.Type, i), http.StatusBadRequest, w)
			return
		}
		events = append(events, Event{Kind: kind, Value: e.Value})
	}

	span.SetAttributes(attribute.Int("session.events_count", len(events)))

	var snap Snapshot
	s.Do(func(m *Machine) {
		snap = m.Snapshot()
		for _, ev := range events {
			snap = m.Handle(ctx, ev)
		}
	})

	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, SessionResponse{ID: s.ID, Snapshot: snap})
}

// PostKeys handles POST /calculator/sessions/{id}/keys. It maps keyboard
// key names to events. Unmapped keys are skipped and counted.
func (h *Handler) PostKeys(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	s, ok := h.session(w, r)
	if !ok {
		return
	}

	ctx, span := tracer.Start(ctx, "calculator.session.keys",
		trace.WithAttributes(attribute.String("session.id", s.ID)),
	)
	defer span.End()

	var req KeysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "keys", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	ignored := 0
	var snap Snapshot
	s.Do(func(m *Machine) {
		snap = m.Snapshot()
		for _, key := range req.Keys {
			ev, ok := KeyEvent(key)
			if !ok {
				ignored++
				continue
			}
			snap = m.Handle(ctx, ev)
		}
	})

	span.SetAttributes(
		attribute.Int("session.keys_count", len(req.Keys)),
		attribute.Int("session.keys_ignored", ignored),
	)
	span.SetStatus(codes.Ok, "")

	handlers.WriteJSON(w, http.StatusOK, SessionResponse{ID: s.ID, Snapshot: snap, Ignored: ignored})
}

// GetHistory handles GET /calculator/sessions/{id}/history.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var resp HistoryResponse
	s.Do(func(m *Machine) {
		resp = HistoryResponse{ID: s.ID, Entries: toHistoryEntries(m.History())}
	})

	handlers.WriteJSON(w, http.StatusOK, resp)
}

// RestoreHistory handles POST /calculator/sessions/{id}/history/{index}/restore.
func (h *Handler) RestoreHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	s, ok := h.session(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "invalid history index")
		return
	}

	var (
		snap       Snapshot
		restoreErr error
	)
	s.Do(func(m *Machine) {
		snap, restoreErr = m.Restore(ctx, index)
	})

	if errors.Is(restoreErr, ErrNoSuchEntry) {
		handlers.WriteError(w, http.StatusNotFound, restoreErr.Error())
		return
	}

	handlers.WriteJSON(w, http.StatusOK, SessionResponse{ID: s.ID, Snapshot: snap})
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	s, ok := h.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		handlers.WriteError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return s, true
}
