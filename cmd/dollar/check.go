package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dollar/internal/diag"
	"dollar/internal/diagfmt"
	"dollar/internal/driver"
	"dollar/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [directory]",
	Short: "Validate every template under a directory",
	Long:  `Check validates all template files under a directory in parallel and reports structural errors`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	checkCmd.Flags().StringSlice("ext", nil, "template extensions to check (default .tmpl,.dollar)")
	checkCmd.Flags().Bool("cache", false, "reuse results cached on disk for unchanged files")
	checkCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	checkCmd.Flags().String("format", "", "diagnostics format (pretty|json|short); default from config")
}

// checkFileJSON: результат одного файла в JSON-отчёте.
type checkFileJSON struct {
	Path        string                   `json:"path"`
	OK          bool                     `json:"ok"`
	Cached      bool                     `json:"cached,omitempty"`
	Expressions int                      `json:"expressions"`
	Error       string                   `json:"error,omitempty"`
	Diagnostics []diagfmt.DiagnosticJSON `json:"diagnostics,omitempty"`
}

type checkReportJSON struct {
	Files   []checkFileJSON `json:"files"`
	Checked int             `json:"checked"`
	Failed  int             `json:"failed"`
	Cached  int             `json:"cached"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 && args[0] != "" {
		dir = args[0]
	}

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	opts, format, useTUI, err := readCheckFlags(cmd, s)
	if err != nil {
		return err
	}

	if opts.Cache != nil && !s.quiet {
		fmt.Fprintf(os.Stderr, "cache: %s\n", opts.Cache.Dir())
	}

	var (
		fs      *source.FileSet
		results []driver.CheckResult
	)
	if format != "json" && useTUI {
		files, listErr := driver.ListFiles(dir, opts.Extensions)
		if listErr != nil {
			return fmt.Errorf("failed to list %s: %w", dir, listErr)
		}
		fs, results, err = runCheckWithUI(cmd.Context(), "checking "+dir, dir, files, opts)
	} else {
		fs, results, err = driver.CheckDir(cmd.Context(), dir, opts)
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	summary := driver.Summarize(results)
	switch format {
	case "json":
		err = writeCheckJSON(results, fs, summary)
	case "short":
		err = writeCheckShort(s, results, fs)
	default:
		err = writeCheckPretty(s, results, fs)
	}
	if err != nil {
		return err
	}

	if format != "json" && !s.quiet {
		fmt.Fprintf(os.Stderr, "checked %d files, %d failed", summary.Files, summary.Failed)
		if opts.Cache != nil {
			fmt.Fprintf(os.Stderr, " (%d cached)", summary.Cached)
		}
		fmt.Fprintln(os.Stderr)
	}
	if s.timings {
		printTimings(os.Stderr, driver.MergeTimings(results))
	}
	if summary.Failed > 0 {
		return errReported
	}
	return nil
}

// readCheckFlags merges check flags over the [check] section of the config.
// With --ui auto the progress view is shown only when stdout is a terminal.
func readCheckFlags(cmd *cobra.Command, s *settings) (opts driver.CheckOptions, format string, useTUI bool, err error) {
	opts = driver.CheckOptions{
		Jobs:           s.cfg.Check.Jobs,
		Extensions:     s.cfg.Check.Extensions,
		MaxDiagnostics: s.cfg.Output.MaxDiagnostics,
		NormalizeNFC:   s.cfg.NormalizeNFC(),
	}
	flags := cmd.Flags()
	if flags.Changed("jobs") {
		if opts.Jobs, err = flags.GetInt("jobs"); err != nil {
			return opts, "", false, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if flags.Changed("ext") {
		if opts.Extensions, err = flags.GetStringSlice("ext"); err != nil {
			return opts, "", false, fmt.Errorf("failed to get ext flag: %w", err)
		}
	}

	useCache := s.cfg.Check.Cache
	if flags.Changed("cache") {
		if useCache, err = flags.GetBool("cache"); err != nil {
			return opts, "", false, fmt.Errorf("failed to get cache flag: %w", err)
		}
	}
	if useCache {
		if opts.Cache, err = driver.OpenDiskCache("dollar"); err != nil {
			return opts, "", false, fmt.Errorf("failed to open cache: %w", err)
		}
	}

	format = s.cfg.Output.Format
	if flags.Changed("format") {
		if format, err = flags.GetString("format"); err != nil {
			return opts, "", false, fmt.Errorf("failed to get format flag: %w", err)
		}
	}
	if format, err = oneOf("format", format, "pretty", "json", "short"); err != nil {
		return opts, "", false, err
	}

	uiValue, err := flags.GetString("ui")
	if err != nil {
		return opts, "", false, fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := oneOf("ui", uiValue, "auto", "on", "off")
	if err != nil {
		return opts, "", false, err
	}
	useTUI = mode == "on" || (mode == "auto" && isTerminal(os.Stdout))
	return opts, format, useTUI, nil
}

// mergeDiagnostics collects the diagnostics of every loaded file into one
// sorted bag. Files that failed to load are returned separately: they have
// no position to sort by.
func mergeDiagnostics(results []driver.CheckResult, maxDiagnostics int) (*diag.Bag, []*driver.CheckResult) {
	all := diag.NewBag(maxDiagnostics)
	var unloaded []*driver.CheckResult
	for i := range results {
		r := &results[i]
		switch {
		case !r.Failed():
		case !r.Loaded:
			unloaded = append(unloaded, r)
		default:
			all.Merge(r.Bag)
		}
	}
	all.Sort()
	all.Dedup()
	return all, unloaded
}

func writeCheckPretty(s *settings, results []driver.CheckResult, fs *source.FileSet) error {
	all, unloaded := mergeDiagnostics(results, s.cfg.Output.MaxDiagnostics)
	for _, r := range unloaded {
		if err := diagfmt.PrettyFileError(os.Stderr, r.Path, diag.IOLoadFileError, r.Err.Error(), s.prettyOpts(os.Stderr)); err != nil {
			return err
		}
	}
	return s.printDiagnostics(os.Stderr, "pretty", all, fs)
}

func writeCheckShort(s *settings, results []driver.CheckResult, fs *source.FileSet) error {
	all, unloaded := mergeDiagnostics(results, s.cfg.Output.MaxDiagnostics)
	for _, r := range unloaded {
		if _, err := fmt.Fprintf(os.Stderr, "error %s %s %s\n", diag.IOLoadFileError.ID(), r.Path, r.Err.Error()); err != nil {
			return err
		}
	}
	return s.printDiagnostics(os.Stderr, "short", all, fs)
}

func writeCheckJSON(results []driver.CheckResult, fs *source.FileSet, summary driver.CheckSummary) error {
	report := checkReportJSON{
		Files:   make([]checkFileJSON, 0, len(results)),
		Checked: summary.Files,
		Failed:  summary.Failed,
		Cached:  summary.Cached,
	}
	opts := diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true}
	for i := range results {
		r := &results[i]
		entry := checkFileJSON{
			Path:   r.Path,
			OK:     !r.Failed(),
			Cached: r.Cached,
		}
		if r.Loaded {
			entry.Path = fs.DisplayPath(r.FileID)
		}
		if r.Doc != nil {
			entry.Expressions = len(r.Doc.Expressions())
		}
		if r.Err != nil {
			entry.Error = r.Err.Error()
			if r.Loaded && r.Bag != nil {
				entry.Diagnostics = diagfmt.BuildDiagnostics(r.Bag.Items(), fs, opts)
			}
		}
		report.Files = append(report.Files, entry)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
