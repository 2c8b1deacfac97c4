package formats

import (
	"context"
	"strings"

	"github.com/innovationsinfundraising/wikisync/pkg/markup"
	"github.com/innovationsinfundraising/wikisync/pkg/records"
	"github.com/innovationsinfundraising/wikisync/pkg/tabledef"
)

// Tools formats the fundraising tools table. The table links tool names
// to their pages, shows categories as hover popovers carrying the
// category description, and cites key papers. Tool pages list papers as
// bullets with full text links.
type Tools struct {
	*Generic
}

// NewTools returns the tools formatter.
func NewTools(def *tabledef.Definition, lookups Lookups) *Tools {
	t := &Tools{Generic: NewGeneric("Tools", def, lookups)}
	t.hook = t.cell
	return t
}

func (t *Tools) cell(ctx context.Context, rec records.Record, name string, col tabledef.Column, kind tabledef.TargetKind) (string, bool, error) {
	switch name {
	case "Category":
		if kind == tabledef.ForTable {
			v, err := t.categoryPopovers(ctx, rec, col.Target(kind))
			return v, true, err
		}
	case "key_papers", "secondary papers":
		ids := rec.Fields.IDs(name)
		if len(ids) == 0 {
			return "", true, nil
		}
		papers, err := lookup(t.lookups, "papers_mass")
		if err != nil {
			return "", true, err
		}
		if kind == tabledef.ForTable {
			links, err := paperLinks(ctx, papers, ids, labelParencite, false)
			return joinStrings(links), true, err
		}
		links, err := paperLinks(ctx, papers, ids, labelTitle, true)
		return markup.Bullets(links), true, err
	}
	return "", false, nil
}

// categoryPopovers renders each linked category as a popover whose
// hover content is the category description.
func (t *Tools) categoryPopovers(ctx context.Context, rec records.Record, target tabledef.Target) (string, error) {
	ids := rec.Fields.IDs("Category")
	if len(ids) == 0 {
		return "", nil
	}
	categories, err := lookup(t.lookups, target.LinkedTable)
	if err != nil {
		return "", err
	}
	popovers := make([]string, 0, len(ids))
	for _, id := range ids {
		cat, err := categories.Get(ctx, id)
		if err != nil {
			return "", err
		}
		name := cat.Fields.String(target.LinkedColumn)
		desc := strings.TrimRight(cat.Fields.String("Description"), " \t\r\n")
		popovers = append(popovers, markup.Popover(name, desc))
	}
	return joinStrings(popovers), nil
}
