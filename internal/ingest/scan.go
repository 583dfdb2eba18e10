// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest discovers harvested records in a local source folder and
// wraps them into pipeline items.
//
// Source folders hold .json files, each carrying a single HEP-format record
// or an array of them, as produced by the upstream MARC-ingesting
// extraction. The record's declared _fft paths are resolved into fetchable
// URLs against the source folder, ready for the attach stage.
package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/hep-ingest/pkg/types"
)

// ScanSource reads record files from sourceDir and returns one item per
// record, in file-name order. Files that cannot be decoded produce a
// warning on w and are skipped; the scan itself only fails when the folder
// cannot be read.
func ScanSource(sourceDir string, w io.Writer) ([]*types.Item, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("reading source directory %s: %w", sourceDir, err)
	}

	var items []*types.Item
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(sourceDir, entry.Name())

		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(w, "warning: skipping %s: %v\n", entry.Name(), err)
			continue
		}
		records, err := decodeRecords(data)
		if err != nil {
			fmt.Fprintf(w, "warning: skipping %s: %v\n", entry.Name(), err)
			continue
		}

		for _, rec := range records {
			items = append(items, &types.Item{
				Record:       rec,
				RecordFormat: types.FormatHEP,
				FileURLs:     fileURLs(rec, sourceDir),
			})
		}
	}
	return items, nil
}

// decodeRecords parses a record file holding either one record object or an
// array of record objects.
func decodeRecords(data []byte) ([]types.Record, error) {
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding record file: %w", err)
	}

	switch v := payload.(type) {
	case map[string]any:
		return []types.Record{types.Record(v)}, nil
	case []any:
		records := make([]types.Record, 0, len(v))
		for i, elem := range v {
			rec, ok := types.AsRecord(elem)
			if !ok {
				return nil, fmt.Errorf("record %d is not an object", i)
			}
			records = append(records, rec)
		}
		return records, nil
	default:
		return nil, fmt.Errorf("record file is neither an object nor an array")
	}
}

// fileURLs resolves the record's declared _fft paths into fetchable
// locations: http(s) URLs pass through, absolute paths are kept, and
// relative paths are joined against the source folder.
func fileURLs(rec types.Record, baseDir string) []string {
	var urls []string
	for _, raw := range rec.List("_fft") {
		fft, ok := types.AsRecord(raw)
		if !ok {
			continue
		}
		declared := fft.String("path")
		if declared == "" {
			continue
		}
		switch {
		case strings.HasPrefix(declared, "http://"), strings.HasPrefix(declared, "https://"):
			urls = append(urls, declared)
		case filepath.IsAbs(declared):
			urls = append(urls, declared)
		default:
			urls = append(urls, filepath.Join(baseDir, declared))
		}
	}
	return urls
}

// ReadItem reads an explicit item file: a JSON object with record,
// record_format, and optionally record_files, as emitted by harvest-format
// extraction pipelines.
func ReadItem(path string) (*types.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading item file: %w", err)
	}
	var item types.Item
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("decoding item file %s: %w", path, err)
	}
	if item.Record == nil {
		return nil, fmt.Errorf("item file %s has no record", path)
	}
	return &item, nil
}
