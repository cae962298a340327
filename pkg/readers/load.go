package readers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/TFMV/partskeeper/logger"
	"github.com/TFMV/partskeeper/utils"
)

// Dataset is one loaded file.
type Dataset struct {
	Path   string
	Format string
	// Schema is nil for JSON lines.
	Schema  *arrow.Schema
	Records []map[string]any
}

// Load reads the whole file described by config into records.
func (f *Factory) Load(ctx context.Context, config Config) (*Dataset, error) {
	if config.Type == "" {
		format, err := DetectFormat(config.Path)
		if err != nil {
			return nil, err
		}
		config.Type = format
	}

	log := logger.GetLogger()
	start := time.Now()
	ds := &Dataset{Path: config.Path, Format: config.Type}

	if config.Type == FormatJSONL {
		file, err := os.Open(config.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open JSON lines file: %w", err)
		}
		defer file.Close()
		ds.Records, err = ReadJSONLines(ctx, file)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.Path, err)
		}
	} else {
		reader, err := f.Create(config)
		if err != nil {
			return nil, err
		}
		defer reader.Close()

		for {
			rec, err := reader.Read(ctx)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("%s: %w", config.Path, err)
			}
			converted, err := utils.ConvertNumericFields(rec, config.NumericFields...)
			rec.Release()
			if err != nil {
				return nil, fmt.Errorf("%s: %w", config.Path, err)
			}
			if ds.Schema == nil {
				ds.Schema = converted.Schema()
			}
			ds.Records = append(ds.Records, utils.RecordToMaps(converted)...)
			converted.Release()
		}
		if ds.Schema == nil {
			ds.Schema = reader.Schema()
		}
	}

	log.Info("Loaded dataset",
		zap.String("path", ds.Path),
		zap.String("format", ds.Format),
		zap.Int("records", len(ds.Records)),
		zap.Duration("elapsed", time.Since(start)))
	return ds, nil
}

// LoadFile loads a file with the default factory.
func LoadFile(ctx context.Context, config Config) (*Dataset, error) {
	return DefaultFactory.Load(ctx, config)
}

// LoadFiles loads files concurrently, at most limit at a time (no limit
// when limit <= 0). Datasets come back in input order; the first error
// cancels the rest.
func LoadFiles(ctx context.Context, limit int, configs ...Config) ([]*Dataset, error) {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	out := make([]*Dataset, len(configs))
	for i, cfg := range configs {
		g.Go(func() error {
			ds, err := LoadFile(ctx, cfg)
			if err != nil {
				return err
			}
			out[i] = ds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Records concatenates the records of every dataset.
func Records(datasets []*Dataset) []map[string]any {
	n := 0
	for _, ds := range datasets {
		n += len(ds.Records)
	}
	out := make([]map[string]any, 0, n)
	for _, ds := range datasets {
		out = append(out, ds.Records...)
	}
	return out
}
