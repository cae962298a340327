package writers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// recordWriter is the part of ipc.FileWriter and pqarrow.FileWriter used
// by fileWriter.
type recordWriter interface {
	Write(rec arrow.Record) error
	Close() error
}

// fileWriter writes a binary Arrow based format. The file is created up
// front so a bad path fails early; the format writer is opened with the
// schema of the first record.
type fileWriter struct {
	format string
	file   *os.File
	open   func(schema *arrow.Schema, file *os.File) (recordWriter, error)
	writer recordWriter
	schema *arrow.Schema
	// the format writer closes the file itself
	ownsFile bool
}

func createFileWriter(format string, config Config, ownsFile bool,
	open func(*arrow.Schema, *os.File) (recordWriter, error)) (*fileWriter, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("path is required for %s writer", format)
	}
	file, err := os.Create(config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s file: %w", format, err)
	}
	return &fileWriter{format: format, file: file, open: open, ownsFile: ownsFile}, nil
}

// Write writes record, opening the format writer on the first call.
// Later records must share the first record's schema.
func (w *fileWriter) Write(ctx context.Context, record arrow.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if w.writer == nil {
		writer, err := w.open(record.Schema(), w.file)
		if err != nil {
			return fmt.Errorf("failed to create %s writer: %w", w.format, err)
		}
		w.writer, w.schema = writer, record.Schema()
	} else if !record.Schema().Equal(w.schema) {
		return fmt.Errorf("%s writer: record schema differs from the first record", w.format)
	}

	if err := w.writer.Write(record); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// Close finishes the format writer and closes the file. A writer that
// never saw a record leaves an empty file behind.
func (w *fileWriter) Close() error {
	var err error
	if w.writer != nil {
		err = w.writer.Close()
		if w.ownsFile {
			return err
		}
	}
	return errors.Join(err, w.file.Close())
}

// NewArrowWriter creates an Arrow IPC file writer.
func NewArrowWriter(config Config) (DatasetWriter, error) {
	return createFileWriter("Arrow", config, false, func(schema *arrow.Schema, file *os.File) (recordWriter, error) {
		return ipc.NewFileWriter(file, ipc.WithSchema(schema))
	})
}

// NewParquetWriter creates a Parquet writer using config.Compression
// (Snappy when empty). The Arrow schema is stored in the file so
// timestamps read back with their unit.
func NewParquetWriter(config Config) (DatasetWriter, error) {
	codec, err := parquetCodec(config.Compression)
	if err != nil {
		return nil, err
	}
	props := parquet.NewWriterProperties(
		parquet.WithCompression(codec),
		parquet.WithDictionaryDefault(false),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	return createFileWriter("Parquet", config, true, func(schema *arrow.Schema, file *os.File) (recordWriter, error) {
		return pqarrow.NewFileWriter(schema, file, props, arrowProps)
	})
}

// Compressions lists the accepted Parquet compression names.
var Compressions = []string{"snappy", "zstd", "gzip", "none"}

func parquetCodec(name string) (compress.Compression, error) {
	switch strings.ToLower(name) {
	case "", "snappy":
		return compress.Codecs.Snappy, nil
	case "zstd":
		return compress.Codecs.Zstd, nil
	case "gzip":
		return compress.Codecs.Gzip, nil
	case "none", "uncompressed":
		return compress.Codecs.Uncompressed, nil
	}
	return compress.Codecs.Uncompressed, fmt.Errorf("unknown parquet compression %q (want one of %s)",
		name, strings.Join(Compressions, ", "))
}
