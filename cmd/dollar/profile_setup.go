package main

import (
	"fmt"
	"os"

	"github.com/google/gops/agent"
	"github.com/spf13/cobra"

	"dollar/internal/prof"
)

// setupProfiling inspects persistent profiling flags, enables the
// corresponding profilers and optionally starts a gops agent. The returned
// cleanup is safe to call twice.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	root := cmd.Root()

	var opts prof.Options
	var err error
	if opts.CPU, err = root.PersistentFlags().GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Mem, err = root.PersistentFlags().GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = root.PersistentFlags().GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	withAgent, err := root.PersistentFlags().GetBool("gops")
	if err != nil {
		return nil, fmt.Errorf("failed to get gops flag: %w", err)
	}

	// агент gops не критичен: при ошибке только предупреждаем
	if withAgent {
		if err := agent.Listen(agent.Options{}); err != nil {
			fmt.Fprintf(os.Stderr, "gops agent failed: %v\n", err)
			withAgent = false
		}
	}

	var session *prof.Session
	if opts.Enabled() {
		if session, err = prof.Start(opts); err != nil {
			if withAgent {
				agent.Close()
			}
			return nil, fmt.Errorf("failed to start profiling: %w", err)
		}
	}

	cleaned := false
	return func() {
		if cleaned {
			return
		}
		cleaned = true
		if err := session.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "profile: %v\n", err)
		}
		if withAgent {
			agent.Close()
		}
	}, nil
}
