package ui

import (
	"errors"
	"strings"
	"testing"

	"dollar/internal/pipeline"
)

func newModel(files ...string) *progressModel {
	return NewProgressModel("check", files, nil).(*progressModel)
}

func TestApplyEvents(t *testing.T) {
	m := newModel("a.tmpl", "b.tmpl", "c.tmpl")
	m.applyEvent(pipeline.Event{File: "a.tmpl", Stage: pipeline.StageScan, Status: pipeline.StatusWorking})
	if m.items[0].status != "checking" {
		t.Fatalf("status = %q", m.items[0].status)
	}
	m.applyEvent(pipeline.Event{File: "a.tmpl", Stage: pipeline.StageParse, Status: pipeline.StatusDone})
	m.applyEvent(pipeline.Event{File: "b.tmpl", Stage: pipeline.StageParse, Status: pipeline.StatusError, Err: errors.New("expected $$")})
	m.applyEvent(pipeline.Event{File: "c.tmpl", Stage: pipeline.StageCache, Status: pipeline.StatusDone})
	m.applyEvent(pipeline.Event{File: "unknown.tmpl", Status: pipeline.StatusError})

	got := []string{m.items[0].status, m.items[1].status, m.items[2].status}
	want := []string{"ok", "error", "cached"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d status %q, want %q", i, got[i], want[i])
		}
	}
	if checked, failed := m.counts(); checked != 3 || failed != 1 {
		t.Errorf("counts = %d, %d", checked, failed)
	}
	if p := m.percent(); p != 1 {
		t.Errorf("percent = %v", p)
	}

	// terminal status is sticky
	m.applyEvent(pipeline.Event{File: "b.tmpl", Stage: pipeline.StageScan, Status: pipeline.StatusWorking})
	if m.items[1].status != "error" {
		t.Error("late event overwrote a final status")
	}

	view := m.View()
	for _, want := range []string{"check (3/3, 1 failed)", "a.tmpl", "expected $$"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestPartialProgress(t *testing.T) {
	m := newModel("a.tmpl", "b.tmpl")
	m.applyEvent(pipeline.Event{File: "a.tmpl", Stage: pipeline.StageScan, Status: pipeline.StatusWorking})
	if p := m.percent(); p != 0.2 {
		t.Fatalf("percent = %v", p)
	}
}

func TestDoneQuits(t *testing.T) {
	events := make(chan pipeline.Event)
	close(events)
	m := NewProgressModel("check", []string{"a.tmpl"}, events).(*progressModel)
	if msg := m.listenForEvent()(); msg != (doneMsg{}) {
		t.Fatalf("expected doneMsg, got %#v", msg)
	}
	_, cmd := m.Update(doneMsg{})
	if !m.done || cmd == nil {
		t.Fatal("model should finish and quit")
	}
	if !strings.HasPrefix(stripANSI(m.View()), "done: check") {
		t.Errorf("view:\n%s", m.View())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefghij", 6); got != "abc..." {
		t.Errorf("got %q", got)
	}
	if got := truncate("日本語", 4); got != "日..." && got != "..." {
		t.Errorf("got %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
