// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Record formats an Item may declare. Harvest-format records are flat,
// source-oriented mappings that need full normalization; HEP-format records
// are already in the canonical nested shape and only need their file
// attachments patched.
const (
	FormatHEP     = "hep"
	FormatHarvest = "harvest"
)

// RecordFile identifies a retrieved file attachment. Name is the resolved
// basename used as the join key against record-declared file references;
// Path is the local path the file was fetched to.
type RecordFile struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
}

// Item wraps one harvested record on its way through the pipeline. It is
// created per harvested document and consumed once by the converter.
type Item struct {
	// Record is the record payload; its shape depends on RecordFormat.
	Record Record `json:"record"`

	// RecordFormat is one of FormatHEP or FormatHarvest.
	RecordFormat string `json:"record_format"`

	// FileURLs lists the fetchable locations of the record's declared file
	// attachments, resolved by the source scanner.
	FileURLs []string `json:"file_urls,omitempty"`

	// RecordFiles lists the attachments actually retrieved by the attach
	// stage. The converter reconciles these against the record's _fft
	// references.
	RecordFiles []RecordFile `json:"record_files,omitempty"`
}
