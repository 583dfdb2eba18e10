// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/hep-ingest/pkg/types"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanSource(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "single.json", `{"control_number": 111, "_fft": [{"path": "attachments/paper.pdf"}]}`)
	writeFile(t, dir, "batch.json", `[{"control_number": 222}, {"control_number": 333}]`)
	writeFile(t, dir, "notes.txt", "not a record file")

	var buf bytes.Buffer
	items, err := ScanSource(dir, &buf)
	if err != nil {
		t.Fatalf("ScanSource: %v", err)
	}

	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	for _, item := range items {
		if item.RecordFormat != types.FormatHEP {
			t.Errorf("record_format = %q, want %q", item.RecordFormat, types.FormatHEP)
		}
	}

	// Files sort before each other by name: batch.json precedes single.json.
	if n, _ := types.AsInt(items[0].Record["control_number"]); n != 222 {
		t.Errorf("items[0].control_number = %v, want 222", items[0].Record["control_number"])
	}

	wantURL := filepath.Join(dir, "attachments/paper.pdf")
	if !reflect.DeepEqual(items[2].FileURLs, []string{wantURL}) {
		t.Errorf("FileURLs = %v, want [%s]", items[2].FileURLs, wantURL)
	}
}

func TestScanSourceSkipsMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.json", `{broken`)
	writeFile(t, dir, "good.json", `{"control_number": 1}`)

	var buf bytes.Buffer
	items, err := ScanSource(dir, &buf)
	if err != nil {
		t.Fatalf("ScanSource: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("got %d items, want 1", len(items))
	}
	if !strings.Contains(buf.String(), "warning: skipping bad.json") {
		t.Errorf("output = %q, want warning about bad.json", buf.String())
	}
}

func TestScanSourceMissingDirFails(t *testing.T) {
	if _, err := ScanSource(filepath.Join(t.TempDir(), "absent"), &bytes.Buffer{}); err == nil {
		t.Error("ScanSource on missing directory: got nil error")
	}
}

func TestFileURLs(t *testing.T) {
	tests := []struct {
		name string
		fft  []any
		want []string
	}{
		{
			name: "relative joined against base",
			fft:  []any{map[string]any{"path": "files/paper.pdf"}},
			want: []string{filepath.Join("/data/desy", "files/paper.pdf")},
		},
		{
			name: "absolute kept",
			fft:  []any{map[string]any{"path": "/mnt/share/paper.pdf"}},
			want: []string{"/mnt/share/paper.pdf"},
		},
		{
			name: "http passed through",
			fft:  []any{map[string]any{"path": "https://example.com/paper.pdf"}},
			want: []string{"https://example.com/paper.pdf"},
		},
		{
			name: "empty path skipped",
			fft:  []any{map[string]any{"type": "Main"}},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := types.Record{"_fft": tt.fft}
			if got := fileURLs(rec, "/data/desy"); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("fileURLs = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadItem(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "item.json", `{
		"record": {"title": "On Things"},
		"record_format": "harvest",
		"record_files": [{"name": "paper.pdf", "path": "/store/paper.pdf"}]
	}`)

	item, err := ReadItem(filepath.Join(dir, "item.json"))
	if err != nil {
		t.Fatalf("ReadItem: %v", err)
	}
	if item.RecordFormat != types.FormatHarvest {
		t.Errorf("record_format = %q, want harvest", item.RecordFormat)
	}
	if item.Record.String("title") != "On Things" {
		t.Errorf("record.title = %q, want On Things", item.Record.String("title"))
	}
	if len(item.RecordFiles) != 1 || item.RecordFiles[0].Name != "paper.pdf" {
		t.Errorf("record_files = %v", item.RecordFiles)
	}
}

func TestReadItemWithoutRecordFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.json", `{"record_format": "hep"}`)

	if _, err := ReadItem(filepath.Join(dir, "empty.json")); err == nil {
		t.Error("ReadItem without record: got nil error")
	}
}
