// Package readers loads part files (CSV, JSON lines, Arrow IPC, Parquet)
// into plain records for the table pipeline.
package readers

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/TFMV/partskeeper/pkg/core"
)

// Supported file formats.
const (
	FormatCSV     = "csv"
	FormatJSONL   = "jsonl"
	FormatArrow   = "arrow"
	FormatParquet = "parquet"
	FormatXLSX    = "xlsx"
)

// DefaultBatchSize is the number of rows per record batch.
const DefaultBatchSize = 10000

// DatasetReader streams a columnar file as Arrow records.
type DatasetReader interface {
	// Read returns the next record, or io.EOF when the file is exhausted.
	// The caller releases the returned record.
	Read(ctx context.Context) (arrow.Record, error)

	// Schema returns the schema of the file.
	Schema() *arrow.Schema

	// Close releases resources held by the reader.
	Close() error
}

// Config configures a reader.
type Config struct {
	// Type is one of the Format constants; detected from Path when empty.
	Type string
	// Path is the file to read.
	Path string
	// BatchSize is the number of rows per record batch.
	BatchSize int64
	// NumericFields are string columns parsed as float64 after reading.
	NumericFields []string
}

func (c Config) batchSize() int64 {
	if c.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return c.BatchSize
}

// DetectFormat maps a file extension to a format.
func DetectFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".jsonl", ".ndjson", ".json":
		return FormatJSONL, nil
	case ".arrow", ".ipc", ".feather":
		return FormatArrow, nil
	case ".parquet", ".pq":
		return FormatParquet, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: cannot detect format of %q", core.ErrUnsupportedFormat, path)
}
