package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"dollar/internal/driver"
	"dollar/internal/pipeline"
	"dollar/internal/source"
	"dollar/internal/ui"
)

type checkOutcome struct {
	fs      *source.FileSet
	results []driver.CheckResult
	err     error
}

// runCheckWithUI runs CheckDir in the background and renders its progress
// events until the check finishes.
func runCheckWithUI(ctx context.Context, title, dir string, files []string, opts driver.CheckOptions) (*source.FileSet, []driver.CheckResult, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = pipeline.ChannelSink{Ch: events}
		fs, results, err := driver.CheckDir(ctx, dir, optsCopy)
		outcomeCh <- checkOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// UI мог выйти раньше (Ctrl-C): дочитываем события, чтобы проверка не встала
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
