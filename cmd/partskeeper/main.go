// Package main provides the entry point for the partskeeper inventory tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TFMV/partskeeper/config"
	"github.com/TFMV/partskeeper/logger"
	"github.com/TFMV/partskeeper/metrics"
	"github.com/TFMV/partskeeper/version"
)

// app carries state shared by every command.
type app struct {
	configPath string
	logLevel   string
	files      []string
	format     string
	raw        bool
	quiet      bool

	cfg *config.Config
	log *zap.Logger
	mc  *metrics.StageCollector
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func newRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "partskeeper",
		Short: "Partskeeper lists, filters and exports PC parts inventories",
		Long: `Partskeeper loads a parts inventory from CSV, JSON lines, Arrow, Parquet or Excel
files (or generates a sample one) and runs it through the table pipeline:
filters, search, sort, pagination and selection.

Filters use the form column:operator:value, for example
  --filter category:equals:GPU --filter price:between:200,600`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.saveMetrics(cmd.Context())
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringSliceVarP(&a.files, "file", "f", nil, "Data files; overrides data.files")
	flags.StringVar(&a.format, "format", "", "Data file format (csv, jsonl, arrow, parquet, xlsx); detected when empty")
	flags.BoolVar(&a.raw, "raw", false, "Show records with inferred columns instead of inventory columns")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "Disable the progress spinner")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version of partskeeper",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	})
	rootCmd.AddCommand(newListCommand(a))
	rootCmd.AddCommand(newPagesCommand(a))
	rootCmd.AddCommand(newBrowseCommand(a))
	rootCmd.AddCommand(newExportCommand(a))
	rootCmd.AddCommand(newRemoveCommand(a))
	rootCmd.AddCommand(newValidateCommand(a))

	return rootCmd
}

// setup loads the config and initializes the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if len(a.files) > 0 {
		cfg.Data.Files = a.files
	}
	if a.format != "" {
		cfg.Data.Format = a.format
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Log.Path != "" {
		logger.SetLogPath(cfg.Log.Path)
		logger.ResetLogger()
	}
	if level, err := logger.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	}

	a.cfg = cfg
	a.log = logger.GetLogger()
	a.mc = metrics.NewStageCollector()
	a.log.Debug("Configuration loaded",
		zap.String("config", a.configPath),
		zap.Strings("files", cfg.Data.Files))
	return nil
}

func (a *app) saveMetrics(ctx context.Context) error {
	if a.cfg == nil || a.cfg.Metrics.Path == "" {
		return nil
	}
	store := &metrics.JSONMetricsStore{FilePath: a.cfg.Metrics.Path}
	if err := store.SaveWithContext(ctx, a.mc.Snapshot()); err != nil {
		return fmt.Errorf("failed to save metrics: %w", err)
	}
	return nil
}
