// Command gen_inventory writes a deterministic sample inventory file for
// local testing of the partskeeper CLI.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/TFMV/partskeeper/pkg/inventory"
	"github.com/TFMV/partskeeper/pkg/readers"
	"github.com/TFMV/partskeeper/pkg/writers"
)

const (
	defaultRows   = 1000
	defaultSeed   = 42
	defaultOutDir = "data"
	defaultFile   = "inventory.parquet"
)

// Config holds the generator flags.
type Config struct {
	rows      int
	seed      uint64
	outputDir string
	fileName  string
	format    string
}

func main() {
	config := parseFlags()

	if err := os.MkdirAll(config.outputDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	path := filepath.Join(config.outputDir, config.fileName)
	format := config.format
	if format == "" {
		detected, err := readers.DetectFormat(path)
		if err != nil {
			log.Fatalf("Cannot pick an output format: %v", err)
		}
		format = detected
	}

	start := time.Now()
	log.Printf("Generating %d parts (seed %d) into %s", config.rows, config.seed, path)
	parts := inventory.SampleParts(config.rows, config.seed)

	err := writers.Export(context.Background(), writers.Config{Type: format, Path: path}, inventory.ExportColumns(), parts)
	if err != nil {
		log.Fatalf("Failed to write %s: %v", path, err)
	}
	log.Printf("Wrote %d parts in %s", len(parts), time.Since(start).Round(time.Millisecond))
}

// parseFlags parses command-line arguments and returns a Config
func parseFlags() Config {
	rows := flag.Int("rows", defaultRows, "Number of parts to generate")
	seed := flag.Uint64("seed", defaultSeed, "Random seed for data generation")
	outputDir := flag.String("outdir", defaultOutDir, "Output directory for the generated file")
	fileName := flag.String("file", defaultFile, "Output file name; the extension picks the format")
	format := flag.String("format", "", "Output format (parquet, arrow, csv, jsonl, xlsx); overrides the extension")

	flag.Parse()

	return Config{
		rows:      *rows,
		seed:      *seed,
		outputDir: *outputDir,
		fileName:  *fileName,
		format:    *format,
	}
}
