// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "hep-ingest/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AttachConfig holds settings for the file-attachment retrieval stage.
type AttachConfig struct {
	HTTPConfig `yaml:",inline"`

	// FilesDir is the destination directory for retrieved files.
	FilesDir string `json:"files_dir" yaml:"files_dir"`

	// MaxRetries is the number of retries on rate-limited downloads (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// IngestConfig holds settings for a full ingestion run.
type IngestConfig struct {
	// Source identifies the harvest source (e.g. "desy"); stamped into
	// every converted record's acquisition_source.
	Source string `json:"source" yaml:"source"`

	// SourceDir is the local folder scanned for harvested record files.
	SourceDir string `json:"source_dir" yaml:"source_dir"`

	// OutputDir is the directory converted HEP records are written to.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// StoreDir is the directory holding the conversion index database.
	StoreDir string `json:"store_dir" yaml:"store_dir"`

	// SkipConverted skips items already marked converted in the index.
	SkipConverted bool `json:"skip_converted" yaml:"skip_converted"`

	// Attach configures file-attachment retrieval for the run.
	Attach AttachConfig `json:"attach" yaml:"attach"`
}
