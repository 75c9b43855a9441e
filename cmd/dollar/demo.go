package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dollar/internal/driver"
)

// demoInput exercises every token kind: a lone '$', escaped markers and a
// dollar-expression whose body is an escaped `$$`.
const demoInput = `abc $def $$ some $exp $$ other exp $ another exp \$ $$ \$$ $$`

var demoCmd = &cobra.Command{
	Use:   "demo [text]",
	Short: "Validate a sample template and print the segments",
	Long:  `Demo runs the scanner and parser on a built-in template (or TEXT) and prints the segment list or the error message`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := demoInput
		if len(args) == 1 {
			input = args[0]
		}
		out := cmd.OutOrStdout()
		doc, err := driver.Validate(input)
		if err != nil {
			_, err = fmt.Fprintln(out, err.Error())
			return err
		}
		_, err = fmt.Fprintln(out, doc.String())
		return err
	},
}
