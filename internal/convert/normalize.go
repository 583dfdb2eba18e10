// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"strconv"

	"github.com/pdiddy/hep-ingest/pkg/types"
)

// pubInfoTriggerFields are the flat source fields whose presence triggers a
// publication_info entry. All of them are renamed away during normalization
// whether or not the entry is built, so they never leak downstream.
var pubInfoTriggerFields = []string{
	"pubinfo_freetext",
	"journal_volume",
	"journal_title",
	"journal_year",
	"journal_issue",
	"journal_fpage",
	"journal_lpage",
	"journal_artid",
	"journal_doctype",
}

func hasPublicationInfo(rec types.Record) bool {
	for _, field := range pubInfoTriggerFields {
		if truthy(rec[field]) {
			return true
		}
	}
	return false
}

// truthy reports whether a trigger value counts as set. Records decoded from
// JSON may carry numbers where strings are expected, so anything other than
// an absent key, an empty string, or an empty list triggers.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case []any:
		return len(val) > 0
	default:
		return true
	}
}

// popScalar removes key from the record and returns its value as a string.
// Numbers are rendered in decimal so JSON-decoded records behave like their
// string-valued harvest counterparts.
func popScalar(rec types.Record, key string) string {
	v, ok := rec[key]
	delete(rec, key)
	if !ok {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}

// normalizeHarvestRecord reshapes a harvest-format record into the nested
// HEP shape. It is a pure transformation: the input record is not modified.
// Titles, abstracts, imprints, and copyright are always produced as
// single-element lists, even when their source fields are empty; publication
// info is produced only when at least one of its trigger fields is set.
// No classification or validation happens here.
func normalizeHarvestRecord(rec types.Record, source string) types.Record {
	rec = rec.Clone()

	if related, ok := rec["related_article_doi"]; ok {
		dois := rec.List("dois")
		if list, isList := related.([]any); isList {
			dois = append(dois, list...)
		}
		rec["dois"] = dois
		delete(rec, "related_article_doi")
	}

	rec["titles"] = []any{types.Record{
		"title":    rec.PopString("title"),
		"subtitle": rec.PopString("subtitle"),
		"source":   source,
	}}

	rec["abstracts"] = []any{types.Record{
		"value":  rec.PopString("abstract"),
		"source": source,
	}}

	rec["imprints"] = []any{types.Record{
		"date": rec.PopString("date_published"),
	}}

	rec["copyright"] = []any{types.Record{
		"holder":    rec.PopString("copyright_holder"),
		"year":      rec.PopString("copyright_year"),
		"statement": rec.PopString("copyright_statement"),
		"material":  rec.PopString("copyright_material"),
	}}

	if hasPublicationInfo(rec) {
		info := types.Record{
			"journal_title":    popScalar(rec, "journal_title"),
			"journal_volume":   popScalar(rec, "journal_volume"),
			"journal_issue":    popScalar(rec, "journal_issue"),
			"artid":            popScalar(rec, "journal_artid"),
			"page_start":       popScalar(rec, "journal_fpage"),
			"page_end":         popScalar(rec, "journal_lpage"),
			"note":             popScalar(rec, "journal_doctype"),
			"pubinfo_freetext": popScalar(rec, "pubinfo_freetext"),
			"pubinfo_material": popScalar(rec, "pubinfo_material"),
		}
		// An unparseable year is omitted, not an error.
		if year, ok := types.AsInt(rec["journal_year"]); ok {
			info["year"] = year
		}
		delete(rec, "journal_year")
		rec["publication_info"] = []any{info}
	}

	for _, field := range pubInfoTriggerFields {
		delete(rec, field)
	}
	delete(rec, "pubinfo_material")

	return rec
}
