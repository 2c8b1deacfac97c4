package formats

import (
	"context"
	"strings"

	"github.com/innovationsinfundraising/wikisync/pkg/markup"
	"github.com/innovationsinfundraising/wikisync/pkg/records"
	"github.com/innovationsinfundraising/wikisync/pkg/tabledef"
)

// Experiences formats the workplace activist interviews. The raw table
// is too wide to read, so rows are condensed: person and organisation
// details merge into shared cells and the free-text answers collapse
// into one labelled results cell.
type Experiences struct {
	*Generic
}

// NewExperiences returns the experiences formatter.
func NewExperiences(def *tabledef.Definition, lookups Lookups) *Experiences {
	return &Experiences{Generic: NewGeneric("Experiences", def, lookups)}
}

// Table renders the condensed interview table.
func (e *Experiences) Table(ctx context.Context, recs []records.Record) (string, error) {
	var b strings.Builder
	b.WriteString(markup.HeaderRow([]string{
		"Name, Role", "Organisation", "Number of employees", "Campaign type", "Experiences",
	}))
	def := e.Definition()
	for _, rec := range recs {
		if !e.Include(rec) {
			continue
		}
		row, err := e.row(ctx, rec, tabledef.ForTable)
		if err != nil {
			return "", err
		}
		cell := func(name string) string {
			return row[def.Index(name, tabledef.ForTable)]
		}
		results := "**Choice motivation**: " + cell("Choice motivation") + "\\\\ " +
			"**Communication channel**: " + cell("Communication channel") + "\\\\ " +
			"**Main arguments**: " + cell("Main arguments") + "\\\\ " +
			"**Problems faced**: " + cell("Problems faced") + "\\\\ " +
			"**Evaluation**: " + cell("Evaluation") + "\\\\ " +
			"**Additional information**: " + cell("Comments")
		b.WriteString(markup.Row([]string{
			cell("Name") + ", " + cell("Role"),
			cell("Organisation") + ", " + cell("Organisation type"),
			cell("Number of employees"),
			cell("Campaign type"),
			results,
		}))
	}
	return b.String(), nil
}
