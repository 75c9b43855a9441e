// Package main implements the dollar CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"dollar/internal/version"
)

// errReported означает, что диагностика уже выведена и печатать ошибку
// повторно не нужно; процесс просто завершается с кодом 1.
var errReported = errors.New("validation failed")

var rootCmd = &cobra.Command{
	Use:   "dollar",
	Short: "Dollar template validator",
	Long:  `Dollar scans and parses templates with $$-delimited expressions and reports structural errors`,

	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: rootPreRun,
}

// Сбрасывают трассировщик и останавливают профилировщики; заменяются в rootPreRun.
var (
	traceCleanup   = func() {}
	profileCleanup = func() {}
)

// main registers subcommands and persistent flags, then executes the root
// command. A non-nil error from any command exits with status 1.
func main() {
	rootCmd.Version = version.Get().Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("config", "", "config file (default: dollar.toml|dollar.yaml found upwards from the working directory)")
	rootCmd.PersistentFlags().StringArray("trace", nil, "write a trace to PATH (\"-\" for stderr); repeatable")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to PATH")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to PATH on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to PATH")
	rootCmd.PersistentFlags().Bool("gops", false, "start a gops agent for live inspection of the process")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	profileCleanup()
	traceCleanup()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func rootPreRun(cmd *cobra.Command, _ []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	traceCleanup = cleanup

	if profileCleanup, err = setupProfiling(cmd); err != nil {
		profileCleanup = func() {}
		return err
	}
	return nil
}

// isTerminal проверяет, является ли файл терминалом (включая mintty в Cygwin/MSYS)
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) || isatty.IsCygwinTerminal(f.Fd())
}
