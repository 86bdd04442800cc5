package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestNewRequestIDReturnsUUID(t *testing.T) {
	if _, err := uuid.Parse(NewRequestID()); err != nil {
		t.Fatalf("expected valid UUID: %v", err)
	}
}

func TestRequestIDForHonoursClientHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		reuse  bool
	}{
		{name: "valid uuid", header: "3f1c1e8a-5b6d-4c1e-9a43-2f6f8d0e7b21", reuse: true},
		{name: "missing", header: "", reuse: false},
		{name: "not a uuid", header: "<script>", reuse: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set(RequestIDHeader, tc.header)
			}

			got := RequestIDFor(req)
			if _, err := uuid.Parse(got); err != nil {
				t.Fatalf("expected UUID, got %q", got)
			}
			if (got == tc.header) != tc.reuse {
				t.Fatalf("header %q: expected reuse=%t, got id %q", tc.header, tc.reuse, got)
			}
		})
	}
}

func TestRequestIDContextRoundTrip(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "abc-123")

	if got := RequestIDFromContext(ctx); got != "abc-123" {
		t.Fatalf("expected %q, got %q", "abc-123", got)
	}
}

func TestRequestIDFromContextWhenMissingOrWrongType(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}

	ctx := context.WithValue(context.Background(), RequestIDKey, 42)
	if got := RequestIDFromContext(ctx); got != "" {
		t.Fatalf("expected empty string for wrong type, got %q", got)
	}
}
