package readers

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// ParquetReader reads a Parquet file as Arrow record batches.
type ParquetReader struct {
	reader  *file.Reader
	records pqarrow.RecordReader
	schema  *arrow.Schema
}

// NewParquetReader creates a new Parquet reader.
func NewParquetReader(config Config) (DatasetReader, error) {
	if config.Path == "" {
		return nil, errors.New("path is required for Parquet reader")
	}

	// the parquet reader owns and closes the file
	pr, err := file.OpenParquetFile(config.Path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open Parquet file: %w", err)
	}

	props := pqarrow.ArrowReadProperties{
		Parallel:  true,
		BatchSize: config.batchSize(),
	}
	fr, err := pqarrow.NewFileReader(pr, props, memory.NewGoAllocator())
	if err != nil {
		pr.Close()
		return nil, fmt.Errorf("failed to create Arrow reader: %w", err)
	}

	schema, err := fr.Schema()
	if err != nil {
		pr.Close()
		return nil, fmt.Errorf("failed to get schema: %w", err)
	}

	records, err := fr.GetRecordReader(context.Background(), nil, nil)
	if err != nil {
		pr.Close()
		return nil, fmt.Errorf("failed to create record reader: %w", err)
	}

	return &ParquetReader{reader: pr, records: records, schema: schema}, nil
}

// Read returns the next record batch.
func (r *ParquetReader) Read(ctx context.Context) (arrow.Record, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if !r.records.Next() {
		if err := r.records.Err(); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read Parquet batch: %w", err)
		}
		return nil, io.EOF
	}
	rec := r.records.Record()
	rec.Retain()
	return rec, nil
}

// Schema returns the schema of the file.
func (r *ParquetReader) Schema() *arrow.Schema {
	return r.schema
}

// Close closes the reader.
func (r *ParquetReader) Close() error {
	if r.records != nil {
		r.records.Release()
	}
	return r.reader.Close()
}
