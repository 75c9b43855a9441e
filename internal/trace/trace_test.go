package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "error", "phase", "detail", "DEBUG"} {
		lvl, err := ParseLevel(s)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", s, err)
		}
		if lvl.String() != strings.ToLower(s) {
			t.Errorf("round trip %q -> %s", s, lvl)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestLevelFilters(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v", tt.level, tt.scope, got)
		}
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText, "run-1")

	root := Begin(tr, ScopeDriver, "check", 0)
	child := Begin(tr, ScopePass, "scan", root.ID())
	child.WithExtra("tokens", "3").End("")
	Begin(tr, ScopeFile, "file:a.tmpl", root.ID()).End("filtered")
	root.End("ok")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "→ check") {
		t.Errorf("first line %q", lines[0])
	}
	if !strings.Contains(lines[2], "  ← scan") || !strings.Contains(lines[2], "{tokens=3}") {
		t.Errorf("child end line %q", lines[2])
	}
	if !strings.Contains(lines[3], "← check (ok)") {
		t.Errorf("last line %q", lines[3])
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDebug, Format: FormatNDJSON, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	Point(tr, ScopeNode, "token", "Dollar")
	Error(tr, ScopeFile, "file:b.tmpl", errors.New("expected $$"))

	dec := json.NewDecoder(&buf)
	var seen []map[string]any
	for dec.More() {
		var m map[string]any
		if err := dec.Decode(&m); err != nil {
			t.Fatal(err)
		}
		seen = append(seen, m)
	}
	if len(seen) != 2 {
		t.Fatalf("expected 2 events, got %d", len(seen))
	}
	if seen[0]["run"] == "" || seen[0]["run"] != tr.RunID() {
		t.Errorf("run id not stamped: %v", seen[0])
	}
	if seen[1]["kind"] != "error" || seen[1]["detail"] != "expected $$" {
		t.Errorf("unexpected error event %v", seen[1])
	}
	if seen[0]["seq"].(float64) >= seen[1]["seq"].(float64) {
		t.Error("sequence numbers must increase")
	}
}

func TestErrorLevelOnlyErrors(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelError, FormatText, "")
	Begin(tr, ScopeDriver, "check", 0).End("")
	Error(tr, ScopeDriver, "check", errors.New("boom"))
	if got := strings.Count(buf.String(), "\n"); got != 1 {
		t.Fatalf("expected only the error event, got:\n%s", buf.String())
	}
}

func TestOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr != Nop || tr.Enabled() {
		t.Fatal("LevelOff must yield Nop")
	}
	if d := Begin(tr, ScopeDriver, "x", 0).End(""); d != 0 {
		t.Fatal("inert span must report zero duration")
	}
}

func TestContextPropagation(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON, "r")
	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != tr {
		t.Fatal("tracer not found in context")
	}
	if FromContext(context.Background()) != Nop {
		t.Fatal("missing tracer must be Nop")
	}

	ctx, outer := Start(ctx, ScopeDriver, "outer")
	_, inner := Start(ctx, ScopePass, "inner")
	inner.End("")
	outer.End("")

	var events []Event
	dec := json.NewDecoder(&buf)
	for dec.More() {
		var m struct {
			SpanID   uint64 `json:"span_id"`
			ParentID uint64 `json:"parent_id"`
			Name     string `json:"name"`
		}
		if err := dec.Decode(&m); err != nil {
			t.Fatal(err)
		}
		events = append(events, Event{SpanID: m.SpanID, ParentID: m.ParentID, Name: m.Name})
	}
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(events))
	}
	if events[1].Name != "inner" || events[1].ParentID != outer.ID() {
		t.Fatalf("inner span parent = %d, want %d", events[1].ParentID, outer.ID())
	}
}

func TestMultiTracerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	m := NewMultiTracer(LevelPhase,
		NewStreamTracer(&a, LevelPhase, FormatText, "a"),
		NewStreamTracer(&b, LevelDebug, FormatText, "b"))
	Begin(m, ScopeDriver, "check", 0).End("")
	if a.String() != b.String() {
		t.Fatalf("outputs differ:\n%s\n%s", a.String(), b.String())
	}
	if m.RunID() != "a" {
		t.Fatalf("RunID = %q", m.RunID())
	}
}

func TestParseFormat(t *testing.T) {
	if f, _ := ParseFormat("auto", "out.ndjson"); f != FormatNDJSON {
		t.Error("auto should pick ndjson by extension")
	}
	if f, _ := ParseFormat("", "-"); f != FormatText {
		t.Error("default is text")
	}
	if _, err := ParseFormat("chrome", ""); err == nil {
		t.Error("expected error")
	}
}
