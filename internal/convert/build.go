// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"strings"

	"github.com/pdiddy/hep-ingest/internal/hep"
	"github.com/pdiddy/hep-ingest/pkg/types"
)

// Fixed collection-tag vocabularies. Tags are matched after trimming and
// lower-casing; anything not covered by the classification switch is
// ignored.
var publicationTypes = map[string]struct{}{
	"introductory": {},
	"lectures":     {},
	"review":       {},
}

var specialCollections = map[string]struct{}{
	"cdf-internal-note":     {},
	"cdf-note":              {},
	"cds":                   {},
	"d0-internal-note":      {},
	"d0-preliminary-note":   {},
	"h1-internal-note":      {},
	"h1-preliminary-note":   {},
	"halhidden":             {},
	"hephidden":             {},
	"hermes-internal-note":  {},
	"larsoft-internal-note": {},
	"larsoft-note":          {},
	"zeus-internal-note":    {},
	"zeus-preliminary-note": {},
}

var documentTypes = map[string]struct{}{
	"book":        {},
	"note":        {},
	"report":      {},
	"proceedings": {},
	"thesis":      {},
}

// harvestToHEP builds a validated HEP record from a fully-normalized
// harvest record. It maps each repeated-entity field onto one Builder call
// per element, applies the collection classification, re-applies the
// record's own acquisition source, and validates the result. A validation
// failure propagates unmodified to the caller.
func harvestToHEP(rec types.Record) (types.Record, error) {
	acq, _ := types.AsRecord(rec["acquisition_source"])
	b := hep.NewBuilder(acq.String("source"))

	for _, raw := range rec.List("authors") {
		author, ok := types.AsRecord(raw)
		if !ok {
			continue
		}
		b.AddAuthor(author.String("full_name"), affiliationValues(author.List("affiliations")))
	}

	for _, raw := range rec.List("titles") {
		title, ok := types.AsRecord(raw)
		if !ok {
			continue
		}
		b.AddTitle(title.String("title"), title.String("subtitle"), title.String("source"))
	}

	for _, raw := range rec.List("abstracts") {
		abstract, ok := types.AsRecord(raw)
		if !ok {
			continue
		}
		b.AddAbstract(abstract.String("value"), abstract.String("source"))
	}

	for _, raw := range rec.List("arxiv_eprints") {
		eprint, ok := types.AsRecord(raw)
		if !ok {
			continue
		}
		b.AddArxivEprint(eprint.String("value"), stringValues(eprint.List("categories")))
	}

	for _, raw := range rec.List("dois") {
		doi, ok := types.AsRecord(raw)
		if !ok {
			continue
		}
		b.AddDOI(doi.String("value"), doi.String("material"))
	}

	for _, raw := range rec.List("public_notes") {
		note, ok := types.AsRecord(raw)
		if !ok {
			continue
		}
		b.AddPublicNote(note.String("value"), note.String("source"))
	}

	for _, raw := range rec.List("license") {
		license, ok := types.AsRecord(raw)
		if !ok {
			continue
		}
		b.AddLicense(license.String("url"), license.String("license"), license.String("material"))
	}

	for _, raw := range rec.List("collaborations") {
		collaboration, ok := types.AsRecord(raw)
		if !ok {
			continue
		}
		b.AddCollaboration(collaboration.String("value"))
	}

	for _, raw := range rec.List("imprints") {
		imprint, ok := types.AsRecord(raw)
		if !ok {
			continue
		}
		b.AddImprintDate(imprint.String("date"))
	}

	for _, raw := range rec.List("copyright") {
		c, ok := types.AsRecord(raw)
		if !ok {
			continue
		}
		b.AddCopyright(c.String("holder"), c.String("material"), c.String("statement"), c.String("year"))
	}

	b.AddPreprintDate(rec.String("preprint_date"))

	// The record's own acquisition source takes precedence over the one the
	// dispatcher stamped on the builder.
	b.AddAcquisitionSource(
		acq.String("method"),
		acq.String("datetime"),
		acq.String("source"),
		acq.String("submission_number"),
	)

	// Page count is best-effort: a missing key, empty list, or non-numeric
	// value is ignored.
	if pages := rec.List("page_nr"); len(pages) > 0 {
		if n, ok := types.AsInt(pages[0]); ok {
			b.SetNumberOfPages(n)
		}
	}

	classifyCollections(b, rec.List("collections"))

	var info types.Record
	if list := rec.List("publication_info"); len(list) > 0 {
		info, _ = types.AsRecord(list[0])
	}
	year, _ := types.AsInt(info["year"])
	b.AddPublicationInfo(hep.PublicationInfo{
		Year:          year,
		Artid:         info.String("artid"),
		PageStart:     info.String("page_start"),
		PageEnd:       info.String("page_end"),
		JournalIssue:  info.String("journal_issue"),
		JournalTitle:  info.String("journal_title"),
		JournalVolume: info.String("journal_volume"),
		Freetext:      info.String("pubinfo_freetext"),
		Material:      info.String("pubinfo_material"),
	})

	for _, raw := range rec.List("report_numbers") {
		report, ok := types.AsRecord(raw)
		if !ok {
			continue
		}
		b.AddReportNumber(report.String("value"), report.String("source"))
	}

	if err := b.ValidateRecord(); err != nil {
		return nil, err
	}
	return b.Record(), nil
}

// classifyCollections maps each free-text collection tag onto typed record
// attributes. Tags are applied independently in list order, with no
// deduplication or conflict resolution: a list containing both "core" and
// "noncore" ends with whichever was processed last. When no tag yields a
// document type, "article" is added once after the full list has been
// scanned.
func classifyCollections(b *hep.Builder, collections []any) {
	addedDocType := false

	for _, raw := range collections {
		collection, ok := types.AsRecord(raw)
		if !ok {
			continue
		}
		tag := strings.ToLower(strings.TrimSpace(collection.String("primary")))

		switch {
		case tag == "arxiv":
			// ignored
		case tag == "citeable":
			b.SetCiteable(true)
		case tag == "core":
			b.SetCore(true)
		case tag == "noncore":
			b.SetCore(false)
		case tag == "published":
			b.SetRefereed(true)
		case tag == "withdrawn":
			b.SetWithdrawn(true)
		case contains(publicationTypes, tag):
			b.AddPublicationType(tag)
		case contains(specialCollections, tag):
			b.AddSpecialCollection(strings.ToUpper(tag))
		case tag == "bookchapter":
			addedDocType = true
			b.AddDocumentType("book chapter")
		case tag == "conferencepaper":
			addedDocType = true
			b.AddDocumentType("conference paper")
		case contains(documentTypes, tag):
			addedDocType = true
			b.AddDocumentType(tag)
		}
	}

	if !addedDocType {
		b.AddDocumentType("article")
	}
}

func contains(set map[string]struct{}, tag string) bool {
	_, ok := set[tag]
	return ok
}

// affiliationValues keeps only affiliation entries with a non-empty value.
func affiliationValues(affiliations []any) []string {
	var values []string
	for _, raw := range affiliations {
		affiliation, ok := types.AsRecord(raw)
		if !ok {
			continue
		}
		if value := affiliation.String("value"); value != "" {
			values = append(values, value)
		}
	}
	return values
}

func stringValues(list []any) []string {
	var values []string
	for _, elem := range list {
		if s := types.AsString(elem); s != "" {
			values = append(values, s)
		}
	}
	return values
}
