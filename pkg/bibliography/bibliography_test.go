package bibliography

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innovationsinfundraising/wikisync/pkg/errors"
	"github.com/innovationsinfundraising/wikisync/pkg/records"
)

const articleBib = `@article{smith2019giving,
  author = {Smith, John and Doe, Jane},
  title = {Giving under {Pressure}},
  journal = {JOURNAL OF GIVING},
  volume = {12},
  number = {3},
  pages = {1--20},
  year = {2019}
}`

func TestParseEntryArticle(t *testing.T) {
	entry, err := ParseEntry(articleBib)
	require.NoError(t, err)

	assert.Equal(t, "article", entry.Type)
	assert.Equal(t, []string{"Smith, John", "Doe, Jane"}, entry.Authors)
	assert.Equal(t, "2019", entry.Year)
	assert.Equal(t, "Giving under Pressure", entry.Title)
	assert.Equal(t, "Journal Of Giving", entry.Journal)
	assert.Equal(t, "12", entry.Volume)
	assert.Equal(t, "3", entry.Number)
	assert.Equal(t, "1--20", entry.Pages)
}

func TestParseEntryEmpty(t *testing.T) {
	_, err := ParseEntry("")
	require.Error(t, err)
	var perr *errors.ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestParencite(t *testing.T) {
	tests := []struct {
		name    string
		authors []string
		want    string
	}{
		{"no authors", nil, ""},
		{"one author", []string{"Smith, John"}, "(Smith, '19)"},
		{"two authors", []string{"Smith, John", "Doe, Jane"}, "(Smith & Doe, '19)"},
		{"three authors", []string{"Smith, John", "Doe, Jane", "Roe, Richard"}, "(Smith ea, '19)"},
		{"plain name form", []string{"John Smith"}, "(Smith, '19)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Entry{Authors: tt.authors, Year: "2019"}
			assert.Equal(t, tt.want, e.Parencite())
		})
	}
}

func TestLinkedTitle(t *testing.T) {
	e := &Entry{Title: "Giving under Pressure"}
	assert.Equal(t, "//Giving under Pressure//", e.LinkedTitle(""))
	assert.Equal(t, "//[[https://example.org/p.pdf|Giving under Pressure]]//",
		e.LinkedTitle("https://example.org/p.pdf"))
}

func TestReference(t *testing.T) {
	tests := []struct {
		name  string
		entry *Entry
		want  string
	}{
		{
			"article",
			&Entry{
				Type: "article", Authors: []string{"Smith, John"}, Year: "2019",
				Journal: "Journal Of Giving", Volume: "12", Number: "3", Pages: "1--20",
			},
			"Smith, John, (2019). //T//. Journal Of Giving, 12, 3, 1--20.",
		},
		{
			"incollection",
			&Entry{
				Type: "incollection", Authors: []string{"Smith, John"}, Year: "2019",
				Pages: "30--45", BookTitle: "The Giving Handbook",
			},
			"Smith, John, (2019). //T//, 30--45. In: The Giving Handbook.",
		},
		{
			"techreport",
			&Entry{
				Type: "techreport", Authors: []string{"Smith, John"}, Year: "2019",
				Institution: "NBER",
			},
			"Smith, John, (2019). //T//. NBER.",
		},
		{
			"book falls back to plain form",
			&Entry{Type: "book", Authors: []string{"Smith, John"}, Year: "2019"},
			"Smith, John, (2019). //T//.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.Reference("//T//"))
		})
	}
}

func TestResolverBibTeX(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/x-bibtex", r.Header.Get("Accept"))
		assert.Equal(t, "/10.1000/giving", r.URL.Path)
		fmt.Fprint(w, articleBib+"\n")
	}))
	defer srv.Close()

	r := NewResolver(WithDOIBaseURL(srv.URL))
	bib, err := r.BibTeX(context.Background(), "10.1000/giving")
	require.NoError(t, err)
	assert.Equal(t, articleBib, bib)
}

func TestResolverCitationCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/works/")
		fmt.Fprint(w, `{"message": {"DOI": "10.1000/giving", "is-referenced-by-count": 42}}`)
	}))
	defer srv.Close()

	r := NewResolver(WithCrossrefBaseURL(srv.URL))
	count, err := r.CitationCount(context.Background(), "10.1000/giving")
	require.NoError(t, err)
	assert.Equal(t, 42, count)
}

func TestResolverSearchDOI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Giving under Pressure", r.URL.Query().Get("query.title"))
		fmt.Fprint(w, `{"message": {"items": [
			{"DOI": "10.1/wrong", "title": ["Giving under Duress"]},
			{"DOI": "10.1000/giving", "title": ["GIVING UNDER PRESSURE!"]}
		]}}`)
	}))
	defer srv.Close()

	r := NewResolver(WithCrossrefBaseURL(srv.URL))
	doi, err := r.SearchDOI(context.Background(), "Giving under Pressure")
	require.NoError(t, err)
	assert.Equal(t, "10.1000/giving", doi)
}

func TestResolverSearchDOINoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"message": {"items": []}}`)
	}))
	defer srv.Close()

	r := NewResolver(WithCrossrefBaseURL(srv.URL))
	_, err := r.SearchDOI(context.Background(), "Unknown Paper")
	assert.True(t, errors.IsNotFound(err))
}

type fakeUpdater struct {
	updates []records.Fields
}

func (f *fakeUpdater) Update(_ context.Context, _ string, fields records.Fields) (records.Record, error) {
	f.updates = append(f.updates, fields)
	return records.Record{}, nil
}

func (f *fakeUpdater) merged() records.Fields {
	merged := records.Fields{}
	for _, fields := range f.updates {
		for k, v := range fields {
			merged[k] = v
		}
	}
	return merged
}

func TestEnrichWithDOI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/works/") {
			fmt.Fprint(w, `{"message": {"is-referenced-by-count": 42}}`)
			return
		}
		fmt.Fprint(w, articleBib)
	}))
	defer srv.Close()

	updater := &fakeUpdater{}
	e := NewEnricher(NewResolver(WithDOIBaseURL(srv.URL), WithCrossrefBaseURL(srv.URL)), updater)

	err := e.Enrich(context.Background(), records.Record{
		ID:     "rec1",
		Fields: records.Fields{"doi": "10.1000/giving", "URL": "https://example.org/p.pdf"},
	})
	require.NoError(t, err)

	got := updater.merged()
	assert.Equal(t, articleBib, got["bibtexfull"])
	assert.Equal(t, 42, got["num_citations"])
	assert.Equal(t, "article", got["Publication_type"])
	assert.Equal(t, "Smith, John; Doe, Jane", got["Authors"])
	assert.Equal(t, "2019", got["Year"])
	assert.Equal(t, "//[[https://example.org/p.pdf|Giving under Pressure]]//", got["Title"])
	assert.Equal(t, "Journal Of Giving", got["Journal"])
	assert.Equal(t, "(Smith & Doe, '19)", got["parencite"])
}

func TestEnrichWithBibTeXOnly(t *testing.T) {
	updater := &fakeUpdater{}
	e := NewEnricher(NewResolver(), updater)

	err := e.Enrich(context.Background(), records.Record{
		ID:     "rec1",
		Fields: records.Fields{"bibtexfull": articleBib},
	})
	require.NoError(t, err)

	got := updater.merged()
	assert.NotContains(t, got, "num_citations")
	assert.Equal(t, "(Smith & Doe, '19)", got["parencite"])
}

func TestEnrichAllSkipsBareRecords(t *testing.T) {
	updater := &fakeUpdater{}
	e := NewEnricher(NewResolver(), updater)

	enriched, err := e.EnrichAll(context.Background(), []records.Record{
		{ID: "rec1", Fields: records.Fields{"Title": "no doi, no bibtex"}},
		{ID: "rec2", Fields: records.Fields{"bibtexfull": articleBib}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, enriched)
	require.Len(t, updater.updates, 1)
}
