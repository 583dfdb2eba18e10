// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/hep-ingest/internal/convert"
	"github.com/pdiddy/hep-ingest/internal/ingest"
	"github.com/pdiddy/hep-ingest/internal/store"
)

var convertCmd = &cobra.Command{
	Use:   "convert [item-files...]",
	Short: "Convert item files to HEP-format records",
	Long: `Convert reads item files (JSON objects carrying a record, its declared
record_format, and optionally the retrieved record_files) and converts each
to a validated HEP-format record. Output goes to stdout, or to one file per
record when --output-dir is set.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("source", "", "harvest source identifier stamped into acquisition_source (required)")
	convertCmd.Flags().String("output-dir", "", "directory for converted records (default: stdout)")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more item files")
	}
	source, _ := cmd.Flags().GetString("source")
	if source == "" {
		return fmt.Errorf("--source is required")
	}
	outputDir, _ := cmd.Flags().GetString("output-dir")

	failed := 0
	for _, path := range args {
		item, err := ingest.ReadItem(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed:  %s (%v)\n", path, err)
			failed++
			continue
		}

		rec, err := convert.ItemToHEP(item, source)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed:  %s (%v)\n", path, err)
			failed++
			continue
		}

		if outputDir == "" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(rec); err != nil {
				return fmt.Errorf("writing record: %w", err)
			}
			continue
		}

		if err := writeRecord(rec, filepath.Join(outputDir, store.RecordID(rec)+".json")); err != nil {
			fmt.Fprintf(os.Stderr, "failed:  %s (%v)\n", path, err)
			failed++
			continue
		}
		fmt.Fprintf(os.Stderr, "converted: %s\n", path)
	}

	if failed > 0 {
		return fmt.Errorf("%d item(s) failed conversion", failed)
	}
	return nil
}

func writeRecord(rec map[string]any, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
