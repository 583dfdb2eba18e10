// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/hep-ingest/pkg/types"
)

// Sidecar describes one converted record, written next to its HEP JSON
// output for quick inspection without parsing the record itself.
type Sidecar struct {
	ID           string             `yaml:"id"`
	Source       string             `yaml:"source"`
	RecordFormat string             `yaml:"record_format"`
	Title        string             `yaml:"title,omitempty"`
	OutputPath   string             `yaml:"output_path"`
	Files        []types.RecordFile `yaml:"files,omitempty"`
	ConvertedAt  string             `yaml:"converted_at"`
}

// WriteSidecar writes the sidecar YAML to path.
func WriteSidecar(sc Sidecar, path string) error {
	data, err := yaml.Marshal(sc)
	if err != nil {
		return fmt.Errorf("marshaling sidecar: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// RecordTitle returns the first title of a HEP-format record, or "".
func RecordTitle(rec types.Record) string {
	titles := rec.List("titles")
	if len(titles) == 0 {
		return ""
	}
	title, _ := types.AsRecord(titles[0])
	return title.String("title")
}
