package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"calcify/internal/calculator"
	"calcify/internal/storage"
	"calcify/internal/testutil"

	"github.com/google/uuid"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	if err := calculator.InitMetrics(); err != nil {
		t.Fatalf("initializing calculator metrics: %v", err)
	}
	return NewRouter(calculator.NewRegistry(storage.NewMemory()))
}

func TestNewRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := testutil.ExecuteRequest(req, router)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	if body := w.Body.String(); body != "ok" {
		t.Fatalf("expected body %q, got %q", "ok", body)
	}
}

func TestNewRouterMetricsEndpointExposesSessionGauge(t *testing.T) {
	router := newTestRouter(t)

	create := httptest.NewRequest(http.MethodPost, "/calculator/sessions", nil)
	testutil.CheckResponseCode(t, http.StatusCreated, testutil.ExecuteRequest(create, router).Code)

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/metrics", nil), router)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	if !strings.Contains(w.Body.String(), "calcify_sessions_created_total") {
		t.Fatal("expected calcify_sessions_created_total in /metrics output")
	}
}

func TestNewRouterEvaluateSetsHeaderAndOmitsRequestIDInBody(t *testing.T) {
	router := newTestRouter(t)

	body := []byte(`{"expression":"12+3"}`)
	req := httptest.NewRequest(http.MethodPost, "/calculator/evaluate", bytes.NewReader(body))
	w := testutil.ExecuteRequest(req, router)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	requestID := w.Result().Header.Get("X-Request-ID")
	if requestID == "" {
		t.Fatal("expected X-Request-ID header to be set")
	}
	if _, err := uuid.Parse(requestID); err != nil {
		t.Fatalf("expected valid UUID in X-Request-ID, got %q: %v", requestID, err)
	}

	var payload map[string]any
	testutil.DecodeJSONBody(t, w.Result().Body, &payload)

	if _, ok := payload["request_id"]; ok {
		t.Fatal("did not expect request_id field in success JSON body")
	}

	if got, ok := payload["result"].(float64); !ok || got != 15 {
		t.Fatalf("expected result 15, got %#v", payload["result"])
	}
	if got := payload["display"]; got != "15" {
		t.Fatalf("expected display %q, got %#v", "15", got)
	}
}

func TestNewRouterSessionFlow(t *testing.T) {
	router := newTestRouter(t)

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodPost, "/calculator/sessions", nil), router)
	testutil.CheckResponseCode(t, http.StatusCreated, w.Code)

	var created calculator.SessionResponse
	testutil.DecodeJSONBody(t, w.Result().Body, &created)
	if created.Snapshot.Display != "0" {
		t.Fatalf("expected fresh display %q, got %q", "0", created.Snapshot.Display)
	}

	keys := []byte(`{"keys":["1","2","+","3","Enter"]}`)
	req := httptest.NewRequest(http.MethodPost, "/calculator/sessions/"+created.ID+"/keys", bytes.NewReader(keys))
	w = testutil.ExecuteRequest(req, router)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var after calculator.SessionResponse
	testutil.DecodeJSONBody(t, w.Result().Body, &after)
	if after.Snapshot.Display != "15" {
		t.Fatalf("expected display %q, got %q", "15", after.Snapshot.Display)
	}

	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/calculator/sessions/"+created.ID+"/history", nil), router)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var hist calculator.HistoryResponse
	testutil.DecodeJSONBody(t, w.Result().Body, &hist)
	if len(hist.Entries) != 1 || hist.Entries[0].Expression != "12+3" {
		t.Fatalf("expected one history entry for 12+3, got %#v", hist.Entries)
	}
}

func TestNewRouterUnknownSession(t *testing.T) {
	router := newTestRouter(t)

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/calculator/sessions/nope", nil), router)
	testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)
}
