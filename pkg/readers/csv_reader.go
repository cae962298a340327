package readers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// CSVReader reads a CSV file with a header row, inferring column types
// from the first batch.
type CSVReader struct {
	file    *os.File
	reader  *csv.Reader
	pending arrow.Record
	peeked  bool
}

// NewCSVReader creates a new CSV reader.
func NewCSVReader(config Config) (DatasetReader, error) {
	if config.Path == "" {
		return nil, errors.New("path is required for CSV reader")
	}

	file, err := os.Open(config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}

	reader := csv.NewInferringReader(
		file,
		csv.WithChunk(int(config.batchSize())),
		csv.WithHeader(true),
		csv.WithNullReader(true, ""), // Empty string is treated as null
		csv.WithAllocator(memory.NewGoAllocator()),
	)

	return &CSVReader{file: file, reader: reader}, nil
}

// peek reads the first batch so the inferred schema is known.
func (r *CSVReader) peek() {
	if r.peeked {
		return
	}
	r.peeked = true
	if r.reader.Next() {
		r.pending = r.reader.Record()
		r.pending.Retain()
	}
}

// Read returns the next batch of records.
func (r *CSVReader) Read(ctx context.Context) (arrow.Record, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	r.peek()
	if r.pending != nil {
		rec := r.pending
		r.pending = nil
		return rec, nil
	}

	if !r.reader.Next() {
		if err := r.reader.Err(); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		return nil, io.EOF
	}
	rec := r.reader.Record()
	rec.Retain()
	return rec, nil
}

// Schema returns the inferred schema; nil for an empty file.
func (r *CSVReader) Schema() *arrow.Schema {
	r.peek()
	return r.reader.Schema()
}

// Close closes the reader.
func (r *CSVReader) Close() error {
	if r.pending != nil {
		r.pending.Release()
		r.pending = nil
	}
	r.reader.Release()
	return r.file.Close()
}
