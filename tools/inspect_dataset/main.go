// Command inspect_dataset prints the schema, row count and first rows of a
// dataset file, and checks it against the inventory schema rules.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/TFMV/partskeeper/pkg/readers"
	"github.com/TFMV/partskeeper/validation"
)

func main() {
	maxRows := flag.Int("rows", 5, "Number of rows to print")
	flag.Usage = func() {
		fmt.Println("Usage: inspect_dataset [-rows N] <file>")
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	filePath := flag.Arg(0)
	ds, err := readers.LoadFile(context.Background(), readers.Config{Path: filePath})
	if err != nil {
		fmt.Printf("Error loading file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("File: %s\n", ds.Path)
	fmt.Printf("Format: %s\n", ds.Format)
	fmt.Printf("Number of rows: %d\n", len(ds.Records))

	if ds.Schema != nil {
		fmt.Println("\nSchema:")
		for i, field := range ds.Schema.Fields() {
			fmt.Printf("  Field %d: %s (%s)\n", i, field.Name, field.Type)
		}

		res := validation.NewSchemaValidator(nil, validation.InventoryRules()...).ValidateSchema(ds.Schema)
		if res.Valid {
			fmt.Println("\nInventory schema: OK")
		} else {
			fmt.Printf("\nInventory schema: %v\n", res.Err())
		}
	}

	fmt.Printf("\nFirst %d rows:\n", min(*maxRows, len(ds.Records)))
	printRows(ds.Records, *maxRows)
}

func printRows(records []map[string]any, maxRows int) {
	for i, rec := range records {
		if i >= maxRows {
			return
		}
		keys := make([]string, 0, len(rec))
		for k := range rec {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		cells := make([]string, len(keys))
		for j, k := range keys {
			if rec[k] == nil {
				cells[j] = k + "=NULL"
			} else {
				cells[j] = fmt.Sprintf("%s=%v", k, rec[k])
			}
		}
		fmt.Printf("Row %d: [%s]\n", i, strings.Join(cells, ", "))
	}
}
