package calculator

import "testing"

func TestKeyEvent(t *testing.T) {
	tests := []struct {
		key    string
		want   Event
		wantOK bool
	}{
		{key: "7", want: Digit("7"), wantOK: true},
		{key: ".", want: Digit("."), wantOK: true},
		{key: "+", want: OperatorInput("+"), wantOK: true},
		{key: "-", want: OperatorInput("-"), wantOK: true},
		{key: "*", want: OperatorInput("*"), wantOK: true},
		{key: "/", want: OperatorInput("/"), wantOK: true},
		{key: "%", want: OperatorInput("%"), wantOK: true},
		{key: "÷", want: OperatorInput("÷"), wantOK: true},
		{key: "Enter", want: Evaluate(), wantOK: true},
		{key: "enter", want: Evaluate(), wantOK: true},
		{key: "=", want: Evaluate(), wantOK: true},
		{key: "Backspace", want: Delete(), wantOK: true},
		{key: "backspace", want: Delete(), wantOK: true},
		{key: "Escape", want: Clear(), wantOK: true},
		{key: "esc", want: Clear(), wantOK: true},
		{key: "c", want: Clear(), wantOK: true},
		{key: "C", want: Clear(), wantOK: true},
		{key: "Tab", wantOK: false},
		{key: "x", wantOK: false},
		{key: "", wantOK: false},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			got, ok := KeyEvent(tc.key)
			if ok != tc.wantOK {
				t.Fatalf("KeyEvent(%q): expected ok=%t, got %t", tc.key, tc.wantOK, ok)
			}
			if ok && got != tc.want {
				t.Fatalf("KeyEvent(%q): expected %#v, got %#v", tc.key, tc.want, got)
			}
		})
	}
}

func TestParseEventKindRoundTrip(t *testing.T) {
	for _, kind := range []EventKind{EventDigit, EventOperator, EventDelete, EventClear, EventEvaluate} {
		got, ok := ParseEventKind(kind.String())
		if !ok || got != kind {
			t.Fatalf("ParseEventKind(%q): expected %v, got %v (ok=%t)", kind.String(), kind, got, ok)
		}
	}

	if _, ok := ParseEventKind("explode"); ok {
		t.Fatal("expected unknown event type to be rejected")
	}
}

func TestEventAttributesNameOperators(t *testing.T) {
	tests := []struct {
		ev   Event
		want map[string]string
	}{
		{ev: Digit("7"), want: map[string]string{"event": "digit"}},
		{ev: OperatorInput("*"), want: map[string]string{"event": "operator", "operator": "multiply"}},
		{ev: OperatorInput("−"), want: map[string]string{"event": "operator", "operator": "subtract"}},
		{ev: OperatorInput("%"), want: map[string]string{"event": "operator", "operator": "modulo"}},
		{ev: OperatorInput("^"), want: map[string]string{"event": "operator"}},
	}

	for _, tc := range tests {
		got := make(map[string]string)
		for _, kv := range eventAttributes(tc.ev) {
			got[string(kv.Key)] = kv.Value.AsString()
		}
		if len(got) != len(tc.want) {
			t.Fatalf("eventAttributes(%#v): expected %v, got %v", tc.ev, tc.want, got)
		}
		for k, v := range tc.want {
			if got[k] != v {
				t.Fatalf("eventAttributes(%#v): expected %v, got %v", tc.ev, tc.want, got)
			}
		}
	}
}
