package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dollar/internal/trace"
)

// setupTracing inspects trace-related flags and initializes the tracer.
// Several --trace outputs share one run ID and are combined into a
// MultiTracer. It returns a cleanup function and an error if
// initialization fails.
func setupTracing(cmd *cobra.Command) (func(), error) {
	root := cmd.Root()

	outputs, err := root.PersistentFlags().GetStringArray("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}

	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}

	formatStr, err := root.PersistentFlags().GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}

	// --trace без уровня включает фазы
	if level == trace.LevelOff && len(outputs) > 0 && !root.PersistentFlags().Changed("trace-level") {
		level = trace.LevelPhase
	}

	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}
	if len(outputs) == 0 {
		outputs = []string{"-"}
	}

	tracers := make([]trace.Tracer, 0, len(outputs))
	closeAll := func() {
		for _, tr := range tracers {
			_ = tr.Close()
		}
	}
	runID := ""
	for _, out := range outputs {
		format, err := trace.ParseFormat(formatStr, out)
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("invalid trace format: %w", err)
		}
		tr, err := trace.New(trace.Config{
			Level:      level,
			Format:     format,
			OutputPath: out,
			RunID:      runID,
		})
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("failed to create tracer: %w", err)
		}
		runID = tr.RunID()
		tracers = append(tracers, tr)
	}

	tracer := tracers[0]
	if len(tracers) > 1 {
		tracer = trace.NewMultiTracer(level, tracers...)
	}

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)

	cleanup := func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}
