package history

import (
	"encoding/json"
	"fmt"
	"time"
)

// Limit is the maximum number of entries kept; older entries are evicted.
const Limit = 50

// Entry is one completed calculation.
type Entry struct {
	Expression string
	Result     string
	Timestamp  time.Time
}

// entryJSON is the persisted shape. Timestamps are Unix milliseconds.
type entryJSON struct {
	Expression string `json:"expression"`
	Result     string `json:"result"`
	Timestamp  int64  `json:"timestamp"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(entryJSON{
		Expression: e.Expression,
		Result:     e.Result,
		Timestamp:  e.Timestamp.UnixMilli(),
	})
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw entryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	e.Expression = raw.Expression
	e.Result = raw.Result
	e.Timestamp = time.UnixMilli(raw.Timestamp)
	return nil
}

// Prepend returns a new slice with e first, followed by entries, truncated
// to Limit. entries is not modified.
func Prepend(entries []Entry, e Entry) []Entry {
	n := len(entries) + 1
	if n > Limit {
		n = Limit
	}

	out := make([]Entry, n)
	out[0] = e
	copy(out[1:], entries)
	return out
}

// Encode serialises entries, most recent first.
func Encode(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encoding history: %w", err)
	}
	return data, nil
}

// Decode parses data written by Encode, keeping at most Limit entries.
func Decode(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding history: %w", err)
	}

	if len(entries) > Limit {
		entries = entries[:Limit]
	}
	return entries, nil
}
