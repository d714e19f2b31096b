package main

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff <property-file-a> <property-file-b>",
	Short: "Line-diff the flattened property sets of two property files",
	Args:  cobra.ExactArgs(2),
	RunE:  runDiff,
}

func runDiff(cmd *cobra.Command, args []string) error {
	left, err := loadProperties(args[0])
	if err != nil {
		return err
	}
	right, err := loadProperties(args[1])
	if err != nil {
		return err
	}

	diff := difflib.UnifiedDiff{
		A:        renderProperties(left),
		B:        renderProperties(right),
		FromFile: args[0],
		ToFile:   args[1],
		Context:  3,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Errorf("failed to render diff: %w", err)
	}
	if text == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "no differences")
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), text)
	return nil
}
