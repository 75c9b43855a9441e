package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dollar/internal/diag"
	"dollar/internal/diagfmt"
	"dollar/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.tmpl",
	Short: "Tokenize a template file",
	Long:  `Tokenize breaks a template into Dollar, DollarDollar and Other tokens with escapes resolved`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format, err = oneOf("format", format, "pretty", "json"); err != nil {
		return err
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(filePath, s.cfg.Output.MaxDiagnostics)
	if err != nil {
		if perr := diagfmt.PrettyFileError(os.Stderr, filePath, diag.IOLoadFileError, err.Error(), s.prettyOpts(os.Stderr)); perr != nil {
			return perr
		}
		return errReported
	}

	// Выводим диагностику в stderr, если есть
	if result.Bag.HasErrors() || result.Bag.HasWarnings() {
		if err := s.printDiagnostics(os.Stderr, "pretty", result.Bag, result.FileSet); err != nil {
			return err
		}
	}

	if format == "json" {
		err = diagfmt.FormatTokensJSON(os.Stdout, result.Tokens, result.FileSet)
	} else {
		err = diagfmt.FormatTokensPretty(os.Stdout, result.Tokens, result.FileSet)
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return errReported
	}
	return nil
}
