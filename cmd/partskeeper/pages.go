package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPagesCommand(a *app) *cobra.Command {
	var tf tableFlags
	var of outputFlags

	cmd := &cobra.Command{
		Use:   "pages",
		Short: "Show every page of the inventory in turn",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.load(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if d.isParts() {
				return allPages(a, cmd, partsSource(d.parts), tf.forParts(), of)
			}
			return allPages(a, cmd, recordsSource(d), tf, of)
		},
	}
	addTableFlags(cmd, &tf)
	addOutputFlags(cmd, &of)
	return cmd
}

// allPages renders pages from --page to the last one. Paging reuses the
// processed set, so filters and sort run once.
func allPages[T any](a *app, cmd *cobra.Command, src source[T], tf tableFlags, of outputFlags) error {
	if of.output != "" {
		return fmt.Errorf("--output is not supported by pages")
	}
	tbl, err := buildTable(a, src, tf, nil)
	if err != nil {
		return err
	}
	cfg, _ := tbl.Pagination()
	last := tbl.Metadata().TotalPages
	for page := cfg.CurrentPage; page <= max(last, 1); page++ {
		if page != cfg.CurrentPage {
			tbl.HandlePageChange(page)
			fmt.Fprintln(cmd.OutOrStdout())
		}
		if err := writeReport(a, cmd, tbl, of); err != nil {
			return err
		}
		if err := cmd.Context().Err(); err != nil {
			return err
		}
	}
	return nil
}
