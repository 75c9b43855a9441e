// Package observ measures the duration of pipeline phases.
package observ

import (
	"fmt"
	"strings"
	"time"
)

// Phase records the duration of one step, e.g. "scan".
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer tracks phases in the order they were started. It is not safe for
// concurrent use; each pipeline run owns its timer.
type Timer struct {
	phases []Phase
}

func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 4)} }

// Begin starts a new phase and returns its index.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index. Unknown indexes are ignored.
func (t *Timer) End(idx int, note string) {
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// Add records an already measured phase.
func (t *Timer) Add(name string, dur time.Duration, note string) {
	t.phases = append(t.phases, Phase{Name: name, Dur: dur, Note: note})
}

// Phases returns the recorded phases.
func (t *Timer) Phases() []Phase {
	return t.phases
}

// Total is the sum of all phase durations.
func (t *Timer) Total() time.Duration {
	var total time.Duration
	for _, p := range t.phases {
		total += p.Dur
	}
	return total
}

// Merge adds other's phases into t, summing durations of phases with the
// same name. Used to aggregate timings across the files of a directory.
func (t *Timer) Merge(other *Timer) {
	if other == nil {
		return
	}
	for _, op := range other.phases {
		found := false
		for i := range t.phases {
			if t.phases[i].Name == op.Name {
				t.phases[i].Dur += op.Dur
				found = true
				break
			}
		}
		if !found {
			t.phases = append(t.phases, Phase{Name: op.Name, Dur: op.Dur})
		}
	}
}

// Summary returns a human-readable table of phases.
func (t *Timer) Summary() string {
	report := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&sb, "  %-12s %9.3f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			sb.WriteString("  // " + p.Note)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "  %-12s %9.3f ms\n", "total", report.TotalMS)
	return sb.String()
}

// PhaseReport: фаза в сериализуемом виде.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report: агрегированные данные таймера.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	if len(t.phases) == 0 {
		return Report{}
	}
	report := Report{Phases: make([]PhaseReport, len(t.phases))}
	for i, phase := range t.phases {
		report.Phases[i] = PhaseReport{
			Name:       phase.Name,
			DurationMS: durationToMillis(phase.Dur),
			Note:       phase.Note,
		}
	}
	report.TotalMS = durationToMillis(t.Total())
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
