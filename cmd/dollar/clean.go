package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dollar/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove cached check results",
	Long:  "Remove every entry of the on-disk cache used by check --cache.",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, _ []string) error {
	cache, err := driver.OpenDiskCache("dollar")
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to remove %q: %w", cache.Dir(), err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", cache.Dir())
	return nil
}
