package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TFMV/partskeeper/metrics"
	"github.com/TFMV/partskeeper/pkg/inventory"
	"github.com/TFMV/partskeeper/pkg/readers"
	"github.com/TFMV/partskeeper/pkg/writers"
)

type exportFlags struct {
	out          string
	format       string
	compression  string
	selectedOnly bool
}

func addExportFlags(cmd *cobra.Command, ef *exportFlags) {
	cmd.Flags().StringVar(&ef.out, "out", "", "Output file")
	cmd.Flags().StringVar(&ef.format, "out-format", "",
		"Output format ("+strings.Join(writers.DefaultFactory.Types(), ", ")+")")
	cmd.Flags().StringVar(&ef.compression, "compression", "",
		"Parquet compression ("+strings.Join(writers.Compressions, ", ")+"); snappy by default")
}

func (e exportFlags) config() (writers.Config, error) {
	if e.out == "" {
		return writers.Config{}, errors.New("--out is required")
	}
	format := e.format
	if format == "" {
		detected, err := readers.DetectFormat(e.out)
		if err != nil {
			return writers.Config{}, err
		}
		format = detected
	}
	return writers.Config{Type: format, Path: e.out, Compression: e.compression}, nil
}

func newExportCommand(a *app) *cobra.Command {
	var tf tableFlags
	var ef exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered and sorted inventory to a file",
		Long: `Export writes every row that passes the filters and search, in sort order,
ignoring pagination. The file format follows the --out extension unless
--out-format is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wc, err := ef.config()
			if err != nil {
				return err
			}
			d, err := a.load(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			var n int
			if d.isParts() {
				n, err = exportRows(cmd.Context(), a, partsSource(d.parts), tf.forParts(), ef, wc)
			} else {
				n, err = exportRows(cmd.Context(), a, recordsSource(d), tf, ef, wc)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s\n", n, wc.Path)
			return nil
		},
	}
	addTableFlags(cmd, &tf)
	addExportFlags(cmd, &ef)
	cmd.Flags().BoolVar(&ef.selectedOnly, "selected-only", false, "Only export rows named by --select")
	return cmd
}

func exportRows[T any](ctx context.Context, a *app, src source[T], tf tableFlags, ef exportFlags, wc writers.Config) (int, error) {
	tbl, err := buildTable(a, src, tf, nil)
	if err != nil {
		return 0, err
	}
	rows := tbl.ProcessedData()
	if ef.selectedOnly {
		rows = tbl.SelectedItems()
	}

	start := time.Now()
	if err := writers.Export(ctx, wc, src.exported, rows); err != nil {
		return 0, err
	}
	a.mc.RecordStage(metrics.StageExport, time.Since(start), len(rows))
	return len(rows), nil
}

func newRemoveCommand(a *app) *cobra.Command {
	var ids []string
	var ef exportFlags

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove parts by ID and write the remaining inventory to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(ids) == 0 {
				return errors.New("--id is required")
			}
			wc, err := ef.config()
			if err != nil {
				return err
			}
			d, err := a.load(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if !d.isParts() {
				return fmt.Errorf("remove needs inventory parts; the loaded files have other columns")
			}

			svc := inventory.NewService(d.parts, inventory.WithLogger(a.log))
			removed, err := svc.DeleteMany(cmd.Context(), ids)
			if err != nil {
				return err
			}
			remaining, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			if err := writers.Export(cmd.Context(), wc, inventory.ExportColumns(), remaining); err != nil {
				return err
			}
			a.log.Info("Removed parts", zap.Int("removed", removed), zap.Int("remaining", len(remaining)))
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d parts, wrote %d to %s\n", removed, len(remaining), wc.Path)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&ids, "id", nil, "Part IDs to remove")
	addExportFlags(cmd, &ef)
	return cmd
}
