// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/hep-ingest/internal/attach"
	"github.com/pdiddy/hep-ingest/internal/convert"
	"github.com/pdiddy/hep-ingest/internal/ingest"
	"github.com/pdiddy/hep-ingest/internal/store"
	"github.com/pdiddy/hep-ingest/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "hep-ingest/0.1"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run the full ingestion pipeline over a source folder",
	Long: `Ingest scans a local source folder for harvested record files, retrieves
each record's declared file attachments, converts the record to HEP format,
and writes the result to the output directory with a YAML sidecar. Outcomes
are tracked in a SQLite index so finished records are skipped on re-runs.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().String("source", "", "harvest source identifier stamped into acquisition_source (required)")
	ingestCmd.Flags().String("source-dir", "harvest/source", "folder scanned for record files")
	ingestCmd.Flags().String("files-dir", "harvest/files", "destination for retrieved file attachments")
	ingestCmd.Flags().String("output-dir", "harvest/out", "directory for converted records")
	ingestCmd.Flags().String("store-dir", "harvest/index", "directory for the conversion index")
	ingestCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	ingestCmd.Flags().Bool("skip-converted", true, "skip records already marked converted in the index")
	ingestCmd.Flags().Bool("report", false, "print the full conversion index as YAML after the run")

	rootCmd.AddCommand(ingestCmd)
}

func ingestConfigFromFlags(cmd *cobra.Command) types.IngestConfig {
	source, _ := cmd.Flags().GetString("source")
	sourceDir, _ := cmd.Flags().GetString("source-dir")
	filesDir, _ := cmd.Flags().GetString("files-dir")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	storeDir, _ := cmd.Flags().GetString("store-dir")
	skip, _ := cmd.Flags().GetBool("skip-converted")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return types.IngestConfig{
		Source:        source,
		SourceDir:     sourceDir,
		OutputDir:     outputDir,
		StoreDir:      storeDir,
		SkipConverted: skip,
		Attach: types.AttachConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   timeout,
				UserAgent: defaultUserAgent,
			},
			FilesDir: filesDir,
		},
	}
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := ingestConfigFromFlags(cmd)
	if cfg.Source == "" {
		return fmt.Errorf("--source is required")
	}

	idx, err := store.Open(cfg.StoreDir)
	if err != nil {
		return err
	}
	defer idx.Close()

	items, err := ingest.ScanSource(cfg.SourceDir, os.Stdout)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: cfg.Attach.Timeout}
	converted, skipped, failed := 0, 0, 0

	for _, item := range items {
		id := store.RecordID(item.Record)

		if cfg.SkipConverted {
			status, seen, err := idx.Status(id)
			if err != nil {
				return err
			}
			if seen && status == store.StatusConverted {
				fmt.Fprintf(os.Stdout, "skipped: %s (already converted)\n", id)
				skipped++
				continue
			}
		}

		item.RecordFiles = attach.FetchAll(client, item.FileURLs, cfg.Attach, os.Stdout)

		rec, err := convert.ItemToHEP(item, cfg.Source)
		if err != nil {
			fmt.Fprintf(os.Stdout, "failed:  %s (%v)\n", id, err)
			if markErr := idx.MarkFailed(id, cfg.Source, item.RecordFormat, err.Error()); markErr != nil {
				return markErr
			}
			failed++
			continue
		}

		outPath := filepath.Join(cfg.OutputDir, id+".json")
		if err := writeRecord(rec, outPath); err != nil {
			fmt.Fprintf(os.Stdout, "failed:  %s (%v)\n", id, err)
			if markErr := idx.MarkFailed(id, cfg.Source, item.RecordFormat, err.Error()); markErr != nil {
				return markErr
			}
			failed++
			continue
		}

		sidecar := ingest.Sidecar{
			ID:           id,
			Source:       cfg.Source,
			RecordFormat: item.RecordFormat,
			Title:        ingest.RecordTitle(rec),
			OutputPath:   outPath,
			Files:        item.RecordFiles,
			ConvertedAt:  time.Now().UTC().Format(time.RFC3339),
		}
		if err := ingest.WriteSidecar(sidecar, filepath.Join(cfg.OutputDir, id+".yaml")); err != nil {
			fmt.Fprintf(os.Stdout, "warning: sidecar for %s: %v\n", id, err)
		}

		if err := idx.MarkConverted(id, cfg.Source, item.RecordFormat, outPath); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "converted: %s\n", id)
		converted++
	}

	fmt.Fprintf(os.Stdout, "\nIngest summary: %d converted, %d skipped, %d failed (total: %d)\n",
		converted, skipped, failed, converted+skipped+failed)

	if report, _ := cmd.Flags().GetBool("report"); report {
		if err := idx.ExportYAML(os.Stdout); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d record(s) failed conversion", failed)
	}
	return nil
}
