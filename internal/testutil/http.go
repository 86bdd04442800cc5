package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func ExecuteRequest(req *http.Request, handler http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// Do sends a request with an optional JSON body to handler.
func Do(handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return ExecuteRequest(req, handler)
}

func CheckResponseCode(t testing.TB, expected, actual int) {
	t.Helper()
	if expected != actual {
		t.Fatalf("expected status %d, got %d", expected, actual)
	}
}

func DecodeJSONBody(t testing.TB, body io.Reader, dst any) {
	t.Helper()
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		t.Fatalf("decoding JSON response: %v", err)
	}
}

// CheckJSONError asserts that w carries status and a JSON {"error": ...} body.
func CheckJSONError(t testing.TB, w *httptest.ResponseRecorder, status int) string {
	t.Helper()
	CheckResponseCode(t, status, w.Code)

	var body map[string]string
	DecodeJSONBody(t, w.Body, &body)
	if body["error"] == "" {
		t.Fatalf("expected error message in body, got %v", body)
	}
	return body["error"]
}
