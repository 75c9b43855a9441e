package pipeline

import (
	"errors"
	"sync"
	"testing"
)

func TestChannelSinkForwards(t *testing.T) {
	ch := make(chan Event, 2)
	sink := ChannelSink{Ch: ch}
	Emit(sink, Event{File: "a.tmpl", Stage: StageScan, Status: StatusWorking})
	Emit(sink, Event{File: "a.tmpl", Stage: StageParse, Status: StatusDone})
	close(ch)

	var got []Status
	for evt := range ch {
		got = append(got, evt.Status)
	}
	if len(got) != 2 || got[0] != StatusWorking || got[1] != StatusDone {
		t.Fatalf("unexpected events %v", got)
	}
}

func TestNilSinks(t *testing.T) {
	Emit(nil, Event{})
	ChannelSink{}.OnEvent(Event{})
}

func TestRecorderFinal(t *testing.T) {
	var rec Recorder
	var wg sync.WaitGroup
	for _, name := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec.OnEvent(Event{File: name, Status: StatusQueued})
			rec.OnEvent(Event{File: name, Status: StatusWorking})
			if name == "b" {
				rec.OnEvent(Event{File: name, Status: StatusError, Err: errors.New("expected $$")})
				return
			}
			rec.OnEvent(Event{File: name, Status: StatusDone})
		}()
	}
	wg.Wait()
	rec.OnEvent(Event{Status: StatusDone})

	if n := len(rec.Events()); n != 10 {
		t.Fatalf("expected 10 events, got %d", n)
	}
	final := rec.Final()
	want := map[string]Status{"a": StatusDone, "b": StatusError, "c": StatusDone}
	if len(final) != len(want) {
		t.Fatalf("final = %v", final)
	}
	for k, v := range want {
		if final[k] != v {
			t.Errorf("final[%s] = %s, want %s", k, final[k], v)
		}
	}
}
