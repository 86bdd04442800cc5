package calculator

import "calcify/internal/history"

// EvaluateRequest is the JSON body for POST /calculator/evaluate.
type EvaluateRequest struct {
	Expression string `json:"expression"`
}

// EvaluateResponse is the JSON response for POST /calculator/evaluate.
type EvaluateResponse struct {
	Expression string   `json:"expression"`
	Tokens     []string `json:"tokens"`
	Result     float64  `json:"result"`
	Display    string   `json:"display"` // result as the calculator shows it
}

// EventRequest describes a single input event in a session batch.
type EventRequest struct {
	Type  string `json:"type"`            // "digit", "operator", "delete", "clear", "evaluate"
	Value string `json:"value,omitempty"` // the digit or operator symbol
}

// EventsRequest is the JSON body for POST /calculator/sessions/{id}/events.
type EventsRequest struct {
	Events []EventRequest `json:"events"`
}

// KeysRequest is the JSON body for POST /calculator/sessions/{id}/keys.
type KeysRequest struct {
	Keys []string `json:"keys"` // key names as reported by a keyboard
}

// SessionResponse is the JSON response for every session endpoint that
// changes or reads calculator state.
type SessionResponse struct {
	ID       string   `json:"id"`
	Snapshot Snapshot `json:"snapshot"`
	Ignored  int      `json:"ignored,omitempty"` // unmapped keys skipped
}

// HistoryEntry is one history item in API responses.
type HistoryEntry struct {
	Expression string `json:"expression"`
	Result     string `json:"result"`
	Timestamp  int64  `json:"timestamp"` // Unix milliseconds
}

// HistoryResponse lists a session's history, most recent first.
type HistoryResponse struct {
	ID      string         `json:"id"`
	Entries []HistoryEntry `json:"entries"`
}

func toHistoryEntries(entries []history.Entry) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, HistoryEntry{
			Expression: e.Expression,
			Result:     e.Result,
			Timestamp:  e.Timestamp.UnixMilli(),
		})
	}
	return out
}
