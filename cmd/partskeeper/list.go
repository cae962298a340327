package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TFMV/partskeeper/pkg/core"
	"github.com/TFMV/partskeeper/pkg/table"
	"github.com/TFMV/partskeeper/report"
)

// outputFlags choose how a page is rendered.
type outputFlags struct {
	format     string
	output     string
	title      string
	breakpoint string
}

func addOutputFlags(cmd *cobra.Command, o *outputFlags) {
	fs := cmd.Flags()
	fs.StringVarP(&o.format, "output-format", "o", "text", "Report format (text, json, html)")
	fs.StringVar(&o.output, "output", "", "Write the report to a file instead of stdout")
	fs.StringVar(&o.title, "title", "", "Report title")
	fs.StringVar(&o.breakpoint, "breakpoint", string(core.BreakpointLG), "Viewport breakpoint selecting visible columns (xs, sm, md, lg, xl)")
}

func parseBreakpoint(s string) (core.Breakpoint, error) {
	for _, bp := range core.Breakpoints {
		if strings.EqualFold(string(bp), s) {
			return bp, nil
		}
	}
	return "", fmt.Errorf("unknown breakpoint %q", s)
}

func newListCommand(a *app) *cobra.Command {
	var tf tableFlags
	var of outputFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show one page of the inventory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.load(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if d.isParts() {
				return listPage(a, cmd, partsSource(d.parts), tf.forParts(), of)
			}
			return listPage(a, cmd, recordsSource(d), tf, of)
		},
	}
	addTableFlags(cmd, &tf)
	addOutputFlags(cmd, &of)
	return cmd
}

func listPage[T any](a *app, cmd *cobra.Command, src source[T], tf tableFlags, of outputFlags) error {
	tbl, err := buildTable(a, src, tf, nil)
	if err != nil {
		return err
	}
	return writeReport(a, cmd, tbl, of)
}

func writeReport[T any](a *app, cmd *cobra.Command, tbl *table.Table[T], of outputFlags) error {
	bp, err := parseBreakpoint(of.breakpoint)
	if err != nil {
		return err
	}
	gen, err := report.NewGenerator(of.format)
	if err != nil {
		return err
	}

	snap := a.mc.Snapshot()
	r := report.Build(tbl.Columns(), tbl.View(), report.Options{
		Title:           of.title,
		Breakpoint:      bp,
		MaxVisiblePages: a.cfg.Table.MaxVisiblePages,
		Metrics:         &snap,
	})
	if of.output != "" {
		return gen.SaveReportToFile(r, of.output)
	}
	data, err := gen.GeneratePageReport(r)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
