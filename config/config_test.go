package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/partskeeper/pkg/core"
	"github.com/TFMV/partskeeper/pkg/filter"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "partskeeper.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 10, cfg.Table.PageSize)
	assert.Equal(t, core.DefaultPageSizeOptions, cfg.Table.PageSizeOptions)
	assert.Equal(t, 1000, cfg.Table.MaxPageSize)
	assert.Equal(t, 7, cfg.Table.MaxVisiblePages)
	assert.Equal(t, 300*time.Millisecond, cfg.Table.SearchDebounce)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 100, cfg.Data.SampleSize)
	assert.NoError(t, cfg.Validate())

	loaded, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
table:
  page_size: 25
  page_size_options: [25, 50]
  sort_column: price
  sort_direction: desc
  search_mode: all
  selection: single
  search_debounce: 150ms
data:
  files:
    - parts.csv
    - more.parquet
log:
  level: debug
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 25, cfg.Table.PageSize)
	assert.Equal(t, []int{25, 50}, cfg.Table.PageSizeOptions)
	assert.Equal(t, &core.SortConfig{Column: "price", Direction: core.Desc}, cfg.Table.Sort())
	assert.Equal(t, filter.SearchAll, cfg.Table.Search())
	assert.Equal(t, core.SelectionSingle, cfg.Table.SelectionMode())
	assert.Equal(t, 150*time.Millisecond, cfg.Table.SearchDebounce)
	assert.Equal(t, []string{"parts.csv", "more.parquet"}, cfg.Data.Files)
	assert.Equal(t, "debug", cfg.Log.Level)

	p := cfg.Table.Pagination(60)
	assert.Equal(t, core.PaginationConfig{PageSize: 25, CurrentPage: 1, TotalItems: 60, PageSizeOptions: []int{25, 50}}, p)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeConfig(t, "table:\n  page_size: 25\n")
	t.Setenv("PARTSKEEPER_TABLE_PAGE_SIZE", "50")
	t.Setenv("PARTSKEEPER_LOG_LEVEL", "warn")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Table.PageSize)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"page size too big", func(c *Config) { c.Table.PageSize = 5000 }, core.ErrInvalidPageSize},
		{"zero page size", func(c *Config) { c.Table.PageSize = 0 }, core.ErrInvalidPageSize},
		{"bad page size option", func(c *Config) { c.Table.PageSizeOptions = []int{10, 0} }, core.ErrInvalidPageSize},
		{"bad direction", func(c *Config) { c.Table.SortDirection = "up" }, core.ErrInvalidDirection},
		{"bad format", func(c *Config) { c.Data.Format = "ods" }, core.ErrUnsupportedFormat},
		{"bad search mode", func(c *Config) { c.Table.SearchMode = "fuzzy" }, nil},
		{"bad selection", func(c *Config) { c.Table.Selection = "some" }, nil},
		{"few visible pages", func(c *Config) { c.Table.MaxVisiblePages = 3 }, nil},
		{"empty file path", func(c *Config) { c.Data.Files = []string{" "} }, nil},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, nil},
		{"negative debounce", func(c *Config) { c.Table.SearchDebounce = -time.Second }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestConversionsFallBack(t *testing.T) {
	tc := TableConfig{}
	assert.Nil(t, tc.Sort())
	assert.Equal(t, filter.SearchAny, tc.Search())
	assert.Equal(t, core.SelectionNone, tc.SelectionMode())

	tc.SortColumn = "name"
	tc.SortDirection = "sideways"
	assert.Equal(t, &core.SortConfig{Column: "name", Direction: core.Asc}, tc.Sort())
}
