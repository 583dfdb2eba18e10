// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns harvested items into validated HEP-format records.
//
// Two record formats arrive here: HEP-format records, which are already in
// the canonical nested shape and only need their file attachments patched,
// and harvest-format records, which need full field normalization, collection
// classification, and validation before they become HEP records.
package convert

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/pdiddy/hep-ingest/internal/hep"
	"github.com/pdiddy/hep-ingest/pkg/types"
)

// acquisitionMethod is stamped into every converted record's
// acquisition_source.
const acquisitionMethod = "harvest"

// jobIDEnv names the environment variable carrying the harvest job
// identifier, used as the acquisition-source submission number. An unset
// variable yields an empty string.
const jobIDEnv = "HEP_INGEST_JOB"

// nowFunc returns the processing timestamp. Declared as a var so tests can
// freeze the clock.
var nowFunc = time.Now

// UnknownFormatError reports an item whose declared record format is not
// recognized. It indicates an upstream contract bug, not a data-quality
// problem, and is never retried.
type UnknownFormatError struct {
	Format string
}

func (e UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown item record format %q", e.Format)
}

// ItemToHEP converts an item to a HEP-format record, whatever format its
// record declares. The source string identifies the harvest source (e.g.
// "desy") and is stamped into the record's acquisition_source together with
// the processing timestamp and the job identifier, for both formats, before
// any format-specific handling.
func ItemToHEP(item *types.Item, source string) (types.Record, error) {
	b := hep.NewBuilder(source)
	b.AddAcquisitionSource(
		acquisitionMethod,
		nowFunc().Format(time.RFC3339),
		source,
		os.Getenv(jobIDEnv),
	)
	item.Record["acquisition_source"] = b.Record()["acquisition_source"]

	switch item.RecordFormat {
	case types.FormatHEP:
		return hepToHEP(item.Record, item.RecordFiles), nil
	case types.FormatHarvest:
		return harvestToHEP(normalizeHarvestRecord(item.Record, source))
	default:
		return nil, UnknownFormatError{Format: item.RecordFormat}
	}
}

// hepToHEP patches the _fft field of an already HEP-shaped record. Earlier
// in the pipeline the record's declared file paths point at the source
// system; once the attach stage has retrieved the files, each reference is
// rewritten to the local path. With no retrieved files, or no declared
// references, the record passes through unchanged.
func hepToHEP(rec types.Record, files []types.RecordFile) types.Record {
	if len(files) == 0 {
		return rec
	}
	if fft := rec.List("_fft"); len(fft) > 0 {
		rec["_fft"] = patchedFFTFields(fft, files)
	}
	return rec
}

// patchedFFTFields rewrites each _fft entry's path to the retrieved local
// path, joining on the file basename. Entries with no matching retrieved
// file are dropped rather than left pointing at an unresolved path.
func patchedFFTFields(fftFields []any, files []types.RecordFile) []any {
	index := make(map[string]string, len(files))
	for _, f := range files {
		index[f.Name] = f.Path
	}

	patched := make([]any, 0, len(fftFields))
	for _, raw := range fftFields {
		fft, ok := types.AsRecord(raw)
		if !ok {
			continue
		}
		name := path.Base(fft.String("path"))
		resolved, found := index[name]
		if !found {
			continue
		}
		fft["path"] = resolved
		patched = append(patched, map[string]any(fft))
	}
	return patched
}
