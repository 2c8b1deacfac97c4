package bibliography

import (
	"context"

	"github.com/innovationsinfundraising/wikisync/pkg/logging"
	"github.com/innovationsinfundraising/wikisync/pkg/records"
)

// Updater writes fields back to the papers table.
type Updater interface {
	Update(ctx context.Context, id string, fields records.Fields) (records.Record, error)
}

// Enricher fills in the bibliographic columns of paper records. Records
// with a DOI get a fresh BibTeX record and citation count first; records
// carrying only BibTeX get the derived columns. Records with neither
// are left alone.
type Enricher struct {
	resolver *Resolver
	papers   Updater
}

// NewEnricher returns an Enricher writing through the given updater.
func NewEnricher(resolver *Resolver, papers Updater) *Enricher {
	return &Enricher{resolver: resolver, papers: papers}
}

// EnrichAll enriches every record, logging and skipping the ones that
// fail so one bad DOI does not abort the batch. Returns the number of
// records enriched.
func (e *Enricher) EnrichAll(ctx context.Context, recs []records.Record) (int, error) {
	enriched := 0
	for _, rec := range recs {
		if err := ctx.Err(); err != nil {
			return enriched, err
		}
		if !rec.Fields.Has("doi") && !rec.Fields.Has("bibtexfull") {
			logging.Debug().Str("record", rec.ID).Msg("paper has neither doi nor bibtex, skipping")
			continue
		}
		if err := e.Enrich(ctx, rec); err != nil {
			logging.Err(err).Str("record", rec.ID).Msg("enrich failed")
			continue
		}
		enriched++
	}
	return enriched, nil
}

// Enrich fills the bibliographic columns of one record.
func (e *Enricher) Enrich(ctx context.Context, rec records.Record) error {
	bib := rec.Fields.String("bibtexfull")
	if doi := rec.Fields.String("doi"); doi != "" {
		fetched, err := e.resolver.BibTeX(ctx, doi)
		if err != nil {
			return err
		}
		bib = fetched
		citations, err := e.resolver.CitationCount(ctx, doi)
		if err != nil {
			return err
		}
		if _, err := e.papers.Update(ctx, rec.ID, records.Fields{
			"bibtexfull":    bib,
			"num_citations": citations,
		}); err != nil {
			return err
		}
	}
	return e.fillBibliography(ctx, rec, bib)
}

// fillBibliography derives the reference columns from a BibTeX record.
func (e *Enricher) fillBibliography(ctx context.Context, rec records.Record, bib string) error {
	entry, err := ParseEntry(bib)
	if err != nil {
		return err
	}

	title := entry.LinkedTitle(rec.Fields.String("URL"))
	fields := records.Fields{
		"Publication_type": entry.Type,
		"Authors":          entry.AuthorList(),
		"Year":             entry.Year,
		"Title":            title,
		"Reference":        entry.Reference(title),
		"parencite":        entry.Parencite(),
	}
	switch entry.Type {
	case "article":
		fields["Journal"] = entry.Journal
		fields["Vol"] = entry.Volume
		fields["Num"] = entry.Number
		fields["Pages"] = entry.Pages
	case "incollection":
		fields["Book_title"] = entry.BookTitle
		fields["Pages"] = entry.Pages
	case "techreport":
		fields["Institution"] = entry.Institution
	}

	_, err = e.papers.Update(ctx, rec.ID, fields)
	return err
}
