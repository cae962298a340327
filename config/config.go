package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/TFMV/partskeeper/logger"
	"github.com/TFMV/partskeeper/pkg/core"
	"github.com/TFMV/partskeeper/pkg/filter"
	"github.com/TFMV/partskeeper/pkg/pagination"
)

// EnvPrefix prefixes environment overrides, e.g. PARTSKEEPER_TABLE_PAGE_SIZE.
const EnvPrefix = "PARTSKEEPER"

// Formats lists the accepted data.format values. The empty format means
// "detect from the file extension".
var Formats = []string{"", "csv", "jsonl", "arrow", "parquet", "xlsx"}

// --- Configuration Structs ---

type TableConfig struct {
	PageSize        int           `mapstructure:"page_size" yaml:"page_size"`
	PageSizeOptions []int         `mapstructure:"page_size_options" yaml:"page_size_options"`
	MaxPageSize     int           `mapstructure:"max_page_size" yaml:"max_page_size"`
	MaxVisiblePages int           `mapstructure:"max_visible_pages" yaml:"max_visible_pages"`
	SortColumn      string        `mapstructure:"sort_column" yaml:"sort_column"`
	SortDirection   string        `mapstructure:"sort_direction" yaml:"sort_direction"`
	SearchMode      string        `mapstructure:"search_mode" yaml:"search_mode"`
	Selection       string        `mapstructure:"selection" yaml:"selection"`
	SearchDebounce  time.Duration `mapstructure:"search_debounce" yaml:"search_debounce"`
}

type DataConfig struct {
	Files      []string `mapstructure:"files" yaml:"files"`
	Format     string   `mapstructure:"format" yaml:"format"`
	SampleSize int      `mapstructure:"sample_size" yaml:"sample_size"`
	Seed       uint64   `mapstructure:"seed" yaml:"seed"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	Path  string `mapstructure:"path" yaml:"path,omitempty"`
}

type MetricsConfig struct {
	Path string `mapstructure:"path" yaml:"path,omitempty"`
}

type Config struct {
	Table   TableConfig   `mapstructure:"table" yaml:"table"`
	Data    DataConfig    `mapstructure:"data" yaml:"data"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// --- Load Configuration ---

func setDefaults(v *viper.Viper) {
	v.SetDefault("table.page_size", 10)
	v.SetDefault("table.page_size_options", core.DefaultPageSizeOptions)
	v.SetDefault("table.max_page_size", pagination.DefaultLimits.MaxPageSize)
	v.SetDefault("table.max_visible_pages", pagination.DefaultMaxVisible)
	v.SetDefault("table.sort_column", "")
	v.SetDefault("table.sort_direction", string(core.Asc))
	v.SetDefault("table.search_mode", filter.SearchAny.String())
	v.SetDefault("table.selection", string(core.SelectionMultiple))
	v.SetDefault("table.search_debounce", 300*time.Millisecond)
	v.SetDefault("data.files", []string{})
	v.SetDefault("data.format", "")
	v.SetDefault("data.sample_size", 100)
	v.SetDefault("data.seed", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", "")
	v.SetDefault("metrics.path", "")
}

// Default returns the built-in defaults, ignoring files and environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// the defaults always decode
		panic(err)
	}
	return &cfg
}

// LoadConfig reads the YAML file at configPath on top of the defaults.
// An empty path loads the defaults only. Environment variables prefixed
// with PARTSKEEPER_ override both.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// --- Validation Functions ---

// validate is a helper function to reduce repetition.
func validate(condition bool, format string, a ...any) error {
	if !condition {
		return fmt.Errorf(format, a...)
	}
	return nil
}

func (c *Config) Validate() error {
	if err := c.Table.Validate(); err != nil {
		return fmt.Errorf("table validation failed: %w", err)
	}
	if err := c.Data.Validate(); err != nil {
		return fmt.Errorf("data validation failed: %w", err)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log validation failed: %w", err)
	}
	return nil
}

func (tc *TableConfig) Validate() error {
	if err := validate(tc.MaxPageSize >= 1, "max page size must be at least 1, got %d", tc.MaxPageSize); err != nil {
		return err
	}
	limits := pagination.Limits{MinPageSize: 1, MaxPageSize: tc.MaxPageSize}
	if err := pagination.ValidateConfig(tc.Pagination(0), limits).Err(); err != nil {
		return err
	}
	for _, size := range tc.PageSizeOptions {
		if err := validate(size >= 1 && size <= tc.MaxPageSize,
			"page size option %d must be between 1 and %d", size, tc.MaxPageSize); err != nil {
			return fmt.Errorf("%w: %w", core.ErrInvalidPageSize, err)
		}
	}
	if err := validate(tc.MaxVisiblePages >= 5, "max visible pages must be at least 5, got %d", tc.MaxVisiblePages); err != nil {
		return err
	}
	if _, err := core.ParseDirection(tc.SortDirection); err != nil {
		return err
	}
	if _, ok := filter.ParseSearchMode(tc.SearchMode); !ok {
		return fmt.Errorf("unknown search mode %q", tc.SearchMode)
	}
	if _, err := core.ParseSelectionMode(tc.Selection); err != nil {
		return err
	}
	return validate(tc.SearchDebounce >= 0, "search debounce must not be negative")
}

func (dc *DataConfig) Validate() error {
	format := strings.ToLower(dc.Format)
	known := false
	for _, f := range Formats {
		known = known || f == format
	}
	if err := validate(known, "unknown data format %q", dc.Format); err != nil {
		return fmt.Errorf("%w: %w", core.ErrUnsupportedFormat, err)
	}
	for i, f := range dc.Files {
		if err := validate(strings.TrimSpace(f) != "", "file %d has an empty path", i); err != nil {
			return err
		}
	}
	return validate(dc.SampleSize >= 0, "sample size must not be negative, got %d", dc.SampleSize)
}

func (lc *LogConfig) Validate() error {
	if lc.Level == "" {
		return nil
	}
	_, err := logger.ParseLevel(lc.Level)
	return err
}

// --- Conversions ---

// Pagination returns the initial pagination config for totalItems records.
func (tc *TableConfig) Pagination(totalItems int) core.PaginationConfig {
	cfg := core.NewPaginationConfig(tc.PageSize, totalItems)
	if len(tc.PageSizeOptions) > 0 {
		cfg.PageSizeOptions = append([]int(nil), tc.PageSizeOptions...)
	}
	return cfg
}

// Sort returns the initial sort, or nil when no column is configured.
func (tc *TableConfig) Sort() *core.SortConfig {
	if tc.SortColumn == "" {
		return nil
	}
	dir, err := core.ParseDirection(tc.SortDirection)
	if err != nil {
		dir = core.Asc
	}
	return &core.SortConfig{Column: tc.SortColumn, Direction: dir}
}

// Search returns the configured search mode, defaulting to any-column.
func (tc *TableConfig) Search() filter.SearchMode {
	mode, _ := filter.ParseSearchMode(tc.SearchMode)
	return mode
}

// SelectionMode returns the configured selection mode.
func (tc *TableConfig) SelectionMode() core.SelectionMode {
	mode, err := core.ParseSelectionMode(tc.Selection)
	if err != nil {
		return core.SelectionNone
	}
	return mode
}
