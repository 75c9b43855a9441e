package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dollar/internal/diag"
	"dollar/internal/diagfmt"
	"dollar/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.tmpl",
	Short: "Parse a template file and print its segments",
	Long:  `Parse validates a template and prints its Exp and DollarExp segments, or the first structural error`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json|debug)")
}

func runParse(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format, err = oneOf("format", format, "pretty", "json", "debug"); err != nil {
		return err
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	result, err := driver.ValidateFile(cmd.Context(), filePath, driver.ValidateOptions{
		MaxDiagnostics: s.cfg.Output.MaxDiagnostics,
		NormalizeNFC:   s.cfg.NormalizeNFC(),
	})
	if err != nil {
		if perr := diagfmt.PrettyFileError(os.Stderr, filePath, diag.IOLoadFileError, err.Error(), s.prettyOpts(os.Stderr)); perr != nil {
			return perr
		}
		return errReported
	}
	if s.timings {
		defer printTimings(os.Stderr, result.Timing)
	}

	if result.Err != nil {
		diagFormat := s.cfg.Output.Format
		if format == "json" {
			diagFormat = "json"
		}
		if err := s.printDiagnostics(os.Stderr, diagFormat, result.Bag, result.FileSet); err != nil {
			return err
		}
		return errReported
	}

	switch format {
	case "json":
		return diagfmt.FormatNodesJSON(os.Stdout, result.Doc, result.FileSet)
	case "debug":
		return diagfmt.FormatNodesDebug(os.Stdout, result.Doc)
	default:
		return diagfmt.FormatNodesPretty(os.Stdout, result.Doc, result.FileSet)
	}
}
