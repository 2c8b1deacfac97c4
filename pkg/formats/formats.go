// Package formats turns Airtable records into DokuWiki markup. A
// formatter renders one table definition to its two targets: the wiki
// table page and, for tables with linked pages, the per-record pages.
package formats

import (
	"context"
	"strings"

	"github.com/innovationsinfundraising/wikisync/pkg/errors"
	"github.com/innovationsinfundraising/wikisync/pkg/markup"
	"github.com/innovationsinfundraising/wikisync/pkg/records"
	"github.com/innovationsinfundraising/wikisync/pkg/tabledef"
)

// Resolver fetches single records by id. Linked-record columns hold
// foreign record ids that must be resolved against the linked table.
type Resolver interface {
	Get(ctx context.Context, id string) (records.Record, error)
}

// Lookups provides a Resolver per definition key. Nil is returned for
// tables the caller has no connection to.
type Lookups interface {
	Table(key string) Resolver
}

// Formatter renders records for one table definition.
type Formatter interface {
	// Table renders the full wiki table.
	Table(ctx context.Context, recs []records.Record) (string, error)
	// Pages renders the per-record pages keyed by wiki page name.
	Pages(ctx context.Context, recs []records.Record) (map[string]string, error)
	// SetTemplate replaces the page template, used when the template
	// lives on the wiki rather than in the definition.
	SetTemplate(template string)
	// Definition returns the table definition driving the formatter.
	Definition() *tabledef.Definition
}

// New returns the formatter for a definition key. Tables without a
// specialized formatter get the generic definition-driven one.
func New(key string, defs *tabledef.Definitions, lookups Lookups) (Formatter, error) {
	def, err := defs.Get(key)
	if err != nil {
		return nil, err
	}
	switch key {
	case "Tools":
		return NewTools(def, lookups), nil
	case "Giving_companies_ftse", "Giving_companies_other":
		return NewCompanies(key, def, lookups), nil
	case "papers_mass":
		meta, err := defs.Get("Meta_analysis")
		if err != nil {
			return nil, err
		}
		return NewPapers(def, meta, lookups), nil
	case "Experiences":
		return NewExperiences(def, lookups), nil
	default:
		return NewGeneric(key, def, lookups), nil
	}
}

// lookup returns the resolver for a table or an error when none is
// wired up.
func lookup(lookups Lookups, key string) (Resolver, error) {
	if lookups == nil {
		return nil, errors.NewNotFoundError("lookup table", key)
	}
	r := lookups.Table(key)
	if r == nil {
		return nil, errors.NewNotFoundError("lookup table", key)
	}
	return r, nil
}

// linkedNames resolves linked record ids and collects the value of one
// column from each linked record.
func linkedNames(ctx context.Context, r Resolver, ids []string, column string) ([]string, error) {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		rec, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		names = append(names, rec.Fields.String(column))
	}
	return names, nil
}

// paperLabel selects which paper column labels a paper page link.
type paperLabel string

const (
	labelTitle     paperLabel = "Title"
	labelParencite paperLabel = "parencite"
)

// paperLinks renders links to paper pages for the given paper record
// ids. When fulltext is set, a link to the paper's full text is
// appended where a URL is available.
func paperLinks(ctx context.Context, papers Resolver, ids []string, label paperLabel, fulltext bool) ([]string, error) {
	links := make([]string, 0, len(ids))
	for _, id := range ids {
		rec, err := papers.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		title := rec.Fields.String("Title")
		link := markup.InternalLink("papers", title, rec.Fields.String(string(label)))
		if fulltext {
			if url := rec.Fields.String("URL"); url != "" {
				link += ", " + markup.ExternalLink(url, "Full text")
			}
		}
		links = append(links, link)
	}
	return links, nil
}

// toolLinks renders links to tool pages for the given tool record ids.
func toolLinks(ctx context.Context, tools Resolver, ids []string) ([]string, error) {
	links := make([]string, 0, len(ids))
	for _, id := range ids {
		rec, err := tools.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		name := rec.Fields.String("Tool name")
		links = append(links, markup.InternalLink("tools", name, name))
	}
	return links, nil
}

// externalLink builds an external link cell from the record. With a
// field label the target column supplies the link text and the value
// degrades to the bare label when the URL column is empty.
func externalLink(rec records.Record, target tabledef.Target) string {
	url := rec.Fields.String(target.URLColumn)
	if target.LabelType == "field" {
		label := rec.Fields.String(target.Label)
		if url == "" {
			return label
		}
		return markup.ExternalLink(url, label)
	}
	if url == "" {
		return ""
	}
	return markup.ExternalLink(url, target.Label)
}

// internalLink builds a wiki page link cell from the record. The label
// column supplies both the page name and the display text unless a
// replacement label column is set.
func internalLink(rec records.Record, target tabledef.Target) string {
	label := rec.Fields.String(target.Label)
	display := label
	if target.ReplacementLabel != "" {
		display = rec.Fields.String(target.ReplacementLabel)
	}
	return markup.InternalLink(target.Namespace, label, display)
}

// joinStrings joins non-empty items with a comma separator.
func joinStrings(items []string) string {
	kept := items[:0:0]
	for _, item := range items {
		if item != "" {
			kept = append(kept, item)
		}
	}
	return strings.Join(kept, ", ")
}
