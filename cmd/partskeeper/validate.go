package main

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/TFMV/partskeeper/pkg/core"
	"github.com/TFMV/partskeeper/pkg/inventory"
	"github.com/TFMV/partskeeper/pkg/pagination"
	"github.com/TFMV/partskeeper/validation"
)

// errValidation is returned when any check fails; the details are printed.
var errValidation = errors.New("validation failed")

func newValidateCommand(a *app) *cobra.Command {
	var filters []string
	var schemaPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration, the table layout and the data files",
		Long: `Validate checks that the configured sort and filters fit the inventory
columns, that every data file has the fields of a part, and that every
part is valid. The configuration itself is checked before any command runs.

With --schema, data files are checked against the rules of a JSON or YAML
schema file instead, and files that do not describe parts are accepted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := false
			report := func(what string, errs []string, warnings []string) {
				for _, w := range warnings {
					fmt.Fprintf(out, "WARN  %s: %s\n", what, w)
				}
				for _, e := range errs {
					fmt.Fprintf(out, "FAIL  %s: %s\n", what, e)
				}
				if len(errs) == 0 {
					fmt.Fprintf(out, "OK    %s\n", what)
				}
				failed = failed || len(errs) > 0
			}

			conds := make([]core.Condition, 0, len(filters))
			for _, f := range filters {
				cond, err := parseFilter(f)
				if err != nil {
					return err
				}
				conds = append(conds, cond)
			}
			pg := a.cfg.Table.Pagination(0)
			res := validation.ValidateProps(validation.NewValidator(a.log), validation.Props[inventory.Part]{
				Columns:    inventory.Columns(),
				Pagination: &pg,
				Limits:     pagination.Limits{MinPageSize: 1, MaxPageSize: a.cfg.Table.MaxPageSize},
				Sort:       a.cfg.Table.Sort(),
				Filters:    conds,
				Selection:  a.cfg.Table.SelectionMode(),
			})
			report("table", res.Errors, res.Warnings)

			d, err := a.load(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			rules := validation.InventoryRules()
			if schemaPath != "" {
				if rules, err = validation.LoadSchemaRules(schemaPath); err != nil {
					return err
				}
			}
			schemas := validation.NewSchemaValidator(a.log, rules...)
			for _, ds := range d.datasets {
				if ds.Schema == nil {
					continue
				}
				sr := schemas.ValidateSchema(ds.Schema)
				var errs []string
				for _, rule := range slices.Sorted(maps.Keys(sr.Errors)) {
					for _, m := range sr.Errors[rule] {
						errs = append(errs, rule+": "+m)
					}
				}
				report(ds.Path, errs, nil)
			}

			if d.isParts() {
				var errs []string
				for _, p := range d.parts {
					if err := p.Validate(); err != nil {
						errs = append(errs, fmt.Sprintf("part %q: %v", p.ID, err))
					}
				}
				report(fmt.Sprintf("%d parts", len(d.parts)), errs, nil)
			} else if schemaPath == "" {
				report("records", []string{"files do not describe inventory parts"}, nil)
			}

			if failed {
				return errValidation
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "Filter to check, as column:operator:value (repeatable)")
	cmd.Flags().StringVar(&schemaPath, "schema", "", "JSON or YAML schema file for the data files")
	return cmd
}
