// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"reflect"
	"testing"

	"github.com/pdiddy/hep-ingest/pkg/types"
)

func TestNormalizeAlwaysProducedFields(t *testing.T) {
	rec := normalizeHarvestRecord(types.Record{}, "desy")

	for _, field := range []string{"titles", "abstracts", "imprints", "copyright"} {
		list := rec.List(field)
		if len(list) != 1 {
			t.Fatalf("%s = %v, want single-element list", field, rec[field])
		}
	}

	title, _ := types.AsRecord(rec.List("titles")[0])
	if title.String("title") != "" || title.String("subtitle") != "" {
		t.Errorf("titles[0] = %v, want empty title and subtitle", title)
	}
	if title.String("source") != "desy" {
		t.Errorf("titles[0].source = %q, want %q", title.String("source"), "desy")
	}

	abstract, _ := types.AsRecord(rec.List("abstracts")[0])
	if abstract.String("source") != "desy" {
		t.Errorf("abstracts[0].source = %q, want %q", abstract.String("source"), "desy")
	}
}

func TestNormalizeFlatFields(t *testing.T) {
	rec := normalizeHarvestRecord(types.Record{
		"title":               "On Things",
		"subtitle":            "A Subtitle",
		"abstract":            "We study things.",
		"date_published":      "2017-03-01",
		"copyright_holder":    "Elsevier",
		"copyright_year":      "2017",
		"copyright_statement": "All rights reserved.",
		"copyright_material":  "publication",
	}, "arXiv")

	title, _ := types.AsRecord(rec.List("titles")[0])
	if title.String("title") != "On Things" || title.String("subtitle") != "A Subtitle" {
		t.Errorf("titles[0] = %v", title)
	}
	imprint, _ := types.AsRecord(rec.List("imprints")[0])
	if imprint.String("date") != "2017-03-01" {
		t.Errorf("imprints[0].date = %q, want 2017-03-01", imprint.String("date"))
	}
	c, _ := types.AsRecord(rec.List("copyright")[0])
	want := types.Record{
		"holder":    "Elsevier",
		"year":      "2017",
		"statement": "All rights reserved.",
		"material":  "publication",
	}
	if !reflect.DeepEqual(c, want) {
		t.Errorf("copyright[0] = %v, want %v", c, want)
	}

	// The flat source keys are renamed, never duplicated.
	for _, key := range []string{"title", "subtitle", "abstract", "date_published", "copyright_holder"} {
		if _, ok := rec[key]; ok {
			t.Errorf("flat key %q still present after normalization", key)
		}
	}
}

func TestNormalizePublicationInfoPresence(t *testing.T) {
	// Each trigger field alone produces publication_info.
	for _, field := range pubInfoTriggerFields {
		t.Run(field, func(t *testing.T) {
			rec := normalizeHarvestRecord(types.Record{field: "x"}, "desy")
			if len(rec.List("publication_info")) != 1 {
				t.Errorf("publication_info missing when %s is set", field)
			}
		})
	}

	t.Run("no trigger fields", func(t *testing.T) {
		rec := normalizeHarvestRecord(types.Record{"title": "t"}, "desy")
		if _, ok := rec["publication_info"]; ok {
			t.Errorf("publication_info = %v, want no key at all", rec["publication_info"])
		}
	})
}

func TestNormalizePublicationInfoFields(t *testing.T) {
	rec := normalizeHarvestRecord(types.Record{
		"journal_title":    "Phys.Rev.D",
		"journal_volume":   "96",
		"journal_issue":    "3",
		"journal_year":     "2017",
		"journal_fpage":    "21",
		"journal_lpage":    "38",
		"journal_artid":    "032003",
		"journal_doctype":  "article",
		"pubinfo_freetext": "Phys.Rev. D96 (2017) 032003",
		"pubinfo_material": "publication",
	}, "desy")

	info, _ := types.AsRecord(rec.List("publication_info")[0])
	want := types.Record{
		"journal_title":    "Phys.Rev.D",
		"journal_volume":   "96",
		"journal_issue":    "3",
		"year":             2017,
		"page_start":       "21",
		"page_end":         "38",
		"artid":            "032003",
		"note":             "article",
		"pubinfo_freetext": "Phys.Rev. D96 (2017) 032003",
		"pubinfo_material": "publication",
	}
	if !reflect.DeepEqual(info, want) {
		t.Errorf("publication_info[0] = %v, want %v", info, want)
	}

	for _, key := range append(pubInfoTriggerFields, "pubinfo_material") {
		if _, ok := rec[key]; ok {
			t.Errorf("source key %q leaked through normalization", key)
		}
	}
}

func TestNormalizeNumericJournalFields(t *testing.T) {
	// Records decoded from JSON carry numbers where harvest sources send
	// strings; they must still trigger publication_info and keep their
	// values.
	rec := normalizeHarvestRecord(types.Record{
		"journal_year":   float64(2017),
		"journal_volume": float64(96),
	}, "desy")

	list := rec.List("publication_info")
	if len(list) != 1 {
		t.Fatalf("publication_info = %v, want single entry for numeric triggers", rec["publication_info"])
	}
	info, _ := types.AsRecord(list[0])
	if year, _ := types.AsInt(info["year"]); year != 2017 {
		t.Errorf("year = %v, want 2017", info["year"])
	}
	if info.String("journal_volume") != "96" {
		t.Errorf("journal_volume = %q, want %q", info.String("journal_volume"), "96")
	}
	if _, ok := rec["journal_year"]; ok {
		t.Error("journal_year still present after normalization")
	}
}

func TestNormalizeUnparseableYearOmitted(t *testing.T) {
	rec := normalizeHarvestRecord(types.Record{
		"journal_title": "Phys.Rev.D",
		"journal_year":  "MMXVII",
	}, "desy")

	info, _ := types.AsRecord(rec.List("publication_info")[0])
	if _, ok := info["year"]; ok {
		t.Errorf("year = %v, want omitted for unparseable input", info["year"])
	}
	if _, ok := rec["journal_year"]; ok {
		t.Error("journal_year still present after normalization")
	}
}

func TestNormalizeRelatedArticleDOIMerged(t *testing.T) {
	rec := normalizeHarvestRecord(types.Record{
		"dois":                []any{map[string]any{"value": "10.1103/PhysRevD.96.032003"}},
		"related_article_doi": []any{map[string]any{"value": "10.1103/PhysRevD.96.032004"}},
	}, "desy")

	dois := rec.List("dois")
	if len(dois) != 2 {
		t.Fatalf("dois = %v, want 2 entries after merge", dois)
	}
	if _, ok := rec["related_article_doi"]; ok {
		t.Error("related_article_doi still present after merge")
	}
}

func TestNormalizeIsPure(t *testing.T) {
	in := types.Record{"title": "Original", "journal_title": "JHEP"}
	snapshot := in.Clone()

	normalizeHarvestRecord(in, "desy")

	if !reflect.DeepEqual(in, snapshot) {
		t.Errorf("input record mutated: %v, want %v", in, snapshot)
	}
}
