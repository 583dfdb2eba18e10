// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package hep

import (
	"fmt"
	"regexp"

	"github.com/pdiddy/hep-ingest/pkg/types"
)

// ValidationError reports a record that violates the canonical HEP shape.
// Conversion treats it as fatal for the record; the caller decides the
// per-item skip or retry policy.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid record: %s: %s", e.Field, e.Reason)
}

// doiPattern matches DOIs: "10.1145/1234567.1234568".
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)

// arxivPattern matches arXiv IDs: "2301.07041", "2301.07041v2", and the
// pre-2007 form "hep-ph/9901234".
var arxivPattern = regexp.MustCompile(`^(\d{4}\.\d{4,5}(v\d+)?|[a-z-]+(\.[A-Z]{2})?/\d{7})$`)

// listFields names the repeated-entity fields whose values must be lists of
// objects when present.
var listFields = []string{
	"authors",
	"titles",
	"abstracts",
	"arxiv_eprints",
	"dois",
	"public_notes",
	"license",
	"collaborations",
	"imprints",
	"copyright",
	"report_numbers",
	"publication_info",
	"_fft",
}

// Validate checks a HEP-format record against the canonical shape: a
// non-empty document_type list, a complete acquisition_source, list-shaped
// repeated fields, and well-formed DOI and arXiv identifiers. It returns a
// *ValidationError describing the first violation found, or nil.
func Validate(rec types.Record) error {
	docTypes, ok := stringList(rec["document_type"])
	if !ok || len(docTypes) == 0 {
		return &ValidationError{Field: "document_type", Reason: "at least one document type is required"}
	}
	for _, dt := range docTypes {
		if dt == "" {
			return &ValidationError{Field: "document_type", Reason: "empty document type"}
		}
	}

	acq, ok := types.AsRecord(rec["acquisition_source"])
	if !ok {
		return &ValidationError{Field: "acquisition_source", Reason: "missing or not an object"}
	}
	for _, key := range []string{"source", "method", "datetime"} {
		if acq.String(key) == "" {
			return &ValidationError{Field: "acquisition_source." + key, Reason: "required"}
		}
	}

	for _, field := range listFields {
		v, present := rec[field]
		if !present {
			continue
		}
		list, isList := v.([]any)
		if !isList {
			return &ValidationError{Field: field, Reason: "must be a list"}
		}
		for i, elem := range list {
			if _, isObj := types.AsRecord(elem); !isObj {
				return &ValidationError{
					Field:  fmt.Sprintf("%s[%d]", field, i),
					Reason: "must be an object",
				}
			}
		}
	}

	for i, raw := range rec.List("dois") {
		doi, _ := types.AsRecord(raw)
		if value := doi.String("value"); !doiPattern.MatchString(value) {
			return &ValidationError{
				Field:  fmt.Sprintf("dois[%d].value", i),
				Reason: fmt.Sprintf("malformed DOI %q", value),
			}
		}
	}

	for i, raw := range rec.List("arxiv_eprints") {
		eprint, _ := types.AsRecord(raw)
		if value := eprint.String("value"); !arxivPattern.MatchString(value) {
			return &ValidationError{
				Field:  fmt.Sprintf("arxiv_eprints[%d].value", i),
				Reason: fmt.Sprintf("malformed arXiv identifier %q", value),
			}
		}
	}

	for i, raw := range rec.List("publication_info") {
		info, _ := types.AsRecord(raw)
		year, present := info["year"]
		if !present {
			continue
		}
		n, isInt := types.AsInt(year)
		if !isInt || n < 1000 || n > 2100 {
			return &ValidationError{
				Field:  fmt.Sprintf("publication_info[%d].year", i),
				Reason: fmt.Sprintf("implausible year %v", year),
			}
		}
	}

	return nil
}

// stringList converts a dynamic value to a []string. It accepts both the
// []string the Builder produces and the []any a JSON decode produces.
func stringList(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []any:
		out := make([]string, 0, len(list))
		for _, elem := range list {
			s, ok := elem.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
