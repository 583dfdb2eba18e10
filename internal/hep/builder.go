// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package hep assembles and validates HEP-format literature records. The
// Builder accumulates a record through per-field add operations; nothing is
// committed until the caller validates and reads the record back.
package hep

import (
	"github.com/pdiddy/hep-ingest/pkg/types"
)

// Builder incrementally assembles a HEP-format record. Add operations with
// only empty values leave the record unchanged, so callers can pass harvest
// fields through without pre-filtering.
type Builder struct {
	source string
	rec    types.Record
}

// NewBuilder returns a Builder scoped to the given acquisition source. The
// source is used as the default provenance tag for titles and abstracts
// added without an explicit one.
func NewBuilder(source string) *Builder {
	return &Builder{
		source: source,
		rec:    types.Record{},
	}
}

// Record returns the accumulated record. It may be read at any point; the
// final commit is ValidateRecord followed by Record.
func (b *Builder) Record() types.Record {
	return b.rec
}

// appendEntry drops empty values from entry and appends it to the list under
// key. An entry with no non-empty values is discarded.
func (b *Builder) appendEntry(key string, entry types.Record) {
	for k, v := range entry {
		if isEmpty(v) {
			delete(entry, k)
		}
	}
	if len(entry) == 0 {
		return
	}
	list := b.rec.List(key)
	b.rec[key] = append(list, entry)
}

// appendString appends value to the string list under key.
func (b *Builder) appendString(key, value string) {
	if value == "" {
		return
	}
	list, _ := b.rec[key].([]string)
	b.rec[key] = append(list, value)
}

func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	default:
		return false
	}
}

// AddAuthor adds an author entry. Affiliations are wrapped as value objects;
// an empty full name adds nothing.
func (b *Builder) AddAuthor(fullName string, affiliations []string) {
	if fullName == "" {
		return
	}
	entry := types.Record{"full_name": fullName}
	if len(affiliations) > 0 {
		affs := make([]any, 0, len(affiliations))
		for _, a := range affiliations {
			affs = append(affs, types.Record{"value": a})
		}
		entry["affiliations"] = affs
	}
	b.appendEntry("authors", entry)
}

// AddTitle adds a title entry tagged with its source. When source is empty
// the builder's own source is used.
func (b *Builder) AddTitle(title, subtitle, source string) {
	if source == "" {
		source = b.source
	}
	if title == "" && subtitle == "" {
		return
	}
	b.appendEntry("titles", types.Record{
		"title":    title,
		"subtitle": subtitle,
		"source":   source,
	})
}

// AddAbstract adds an abstract entry tagged with its source.
func (b *Builder) AddAbstract(value, source string) {
	if source == "" {
		source = b.source
	}
	if value == "" {
		return
	}
	b.appendEntry("abstracts", types.Record{
		"value":  value,
		"source": source,
	})
}

// AddArxivEprint adds an arXiv identifier with its categories.
func (b *Builder) AddArxivEprint(arxivID string, categories []string) {
	if arxivID == "" {
		return
	}
	entry := types.Record{"value": arxivID}
	if len(categories) > 0 {
		cats := make([]any, 0, len(categories))
		for _, c := range categories {
			cats = append(cats, c)
		}
		entry["categories"] = cats
	}
	b.appendEntry("arxiv_eprints", entry)
}

// AddDOI adds a DOI entry.
func (b *Builder) AddDOI(doi, material string) {
	b.appendEntry("dois", types.Record{
		"value":    doi,
		"material": material,
	})
}

// AddPublicNote adds a public note tagged with its source.
func (b *Builder) AddPublicNote(value, source string) {
	b.appendEntry("public_notes", types.Record{
		"value":  value,
		"source": source,
	})
}

// AddLicense adds a license entry.
func (b *Builder) AddLicense(url, license, material string) {
	b.appendEntry("license", types.Record{
		"url":      url,
		"license":  license,
		"material": material,
	})
}

// AddCollaboration adds a collaboration entry.
func (b *Builder) AddCollaboration(value string) {
	b.appendEntry("collaborations", types.Record{"value": value})
}

// AddImprintDate adds an imprint entry carrying the publication date.
func (b *Builder) AddImprintDate(date string) {
	b.appendEntry("imprints", types.Record{"date": date})
}

// AddCopyright adds a copyright entry.
func (b *Builder) AddCopyright(holder, material, statement, year string) {
	b.appendEntry("copyright", types.Record{
		"holder":    holder,
		"material":  material,
		"statement": statement,
		"year":      year,
	})
}

// AddAcquisitionSource sets the record's acquisition source. The record
// carries exactly one acquisition source; repeated calls replace it. The
// submission number is kept even when empty so downstream consumers always
// see the field.
func (b *Builder) AddAcquisitionSource(method, date, source, submissionNumber string) {
	b.rec["acquisition_source"] = types.Record{
		"method":            method,
		"datetime":          date,
		"source":            source,
		"submission_number": submissionNumber,
	}
}

// PublicationInfo carries the fields of a publication-info entry. Zero
// values are treated as absent.
type PublicationInfo struct {
	Year          int
	Artid         string
	PageStart     string
	PageEnd       string
	JournalIssue  string
	JournalTitle  string
	JournalVolume string
	Freetext      string
	Material      string
}

// AddPublicationInfo adds a publication-info entry. A PublicationInfo with
// no non-zero fields adds nothing.
func (b *Builder) AddPublicationInfo(info PublicationInfo) {
	entry := types.Record{
		"artid":            info.Artid,
		"page_start":       info.PageStart,
		"page_end":         info.PageEnd,
		"journal_issue":    info.JournalIssue,
		"journal_title":    info.JournalTitle,
		"journal_volume":   info.JournalVolume,
		"pubinfo_freetext": info.Freetext,
		"material":         info.Material,
	}
	if info.Year != 0 {
		entry["year"] = info.Year
	}
	b.appendEntry("publication_info", entry)
}

// AddReportNumber adds a report number tagged with its source.
func (b *Builder) AddReportNumber(value, source string) {
	b.appendEntry("report_numbers", types.Record{
		"value":  value,
		"source": source,
	})
}

// AddPreprintDate sets the preprint date.
func (b *Builder) AddPreprintDate(date string) {
	if date == "" {
		return
	}
	b.rec["preprint_date"] = date
}

// SetNumberOfPages sets the page count.
func (b *Builder) SetNumberOfPages(n int) {
	b.rec["number_of_pages"] = n
}

// AddDocumentType appends a document type.
func (b *Builder) AddDocumentType(documentType string) {
	b.appendString("document_type", documentType)
}

// AddSpecialCollection appends a special-collection tag.
func (b *Builder) AddSpecialCollection(name string) {
	b.appendString("special_collections", name)
}

// AddPublicationType appends a publication type.
func (b *Builder) AddPublicationType(publicationType string) {
	b.appendString("publication_type", publicationType)
}

// SetCiteable marks whether the record is citeable.
func (b *Builder) SetCiteable(citeable bool) {
	b.rec["citeable"] = citeable
}

// SetCore marks whether the record belongs to the core collection.
func (b *Builder) SetCore(core bool) {
	b.rec["core"] = core
}

// SetRefereed marks whether the record was refereed.
func (b *Builder) SetRefereed(refereed bool) {
	b.rec["refereed"] = refereed
}

// SetWithdrawn marks whether the record was withdrawn.
func (b *Builder) SetWithdrawn(withdrawn bool) {
	b.rec["withdrawn"] = withdrawn
}

// ValidateRecord validates the accumulated record against the canonical
// shape. It returns a *ValidationError describing the first violation.
func (b *Builder) ValidateRecord() error {
	return Validate(b.rec)
}
