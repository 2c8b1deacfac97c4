package formats

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/innovationsinfundraising/wikisync/pkg/errors"
	"github.com/innovationsinfundraising/wikisync/pkg/markup"
	"github.com/innovationsinfundraising/wikisync/pkg/records"
	"github.com/innovationsinfundraising/wikisync/pkg/tabledef"
)

// cellHook lets a specialized formatter take over rendering for
// individual columns. Returning false falls through to the generic
// rendering.
type cellHook func(ctx context.Context, rec records.Record, name string, col tabledef.Column, kind tabledef.TargetKind) (string, bool, error)

// Generic renders records purely from the table definition. Specialized
// formatters embed it and install a cell hook for the columns that need
// custom treatment.
type Generic struct {
	key      string
	def      *tabledef.Definition
	lookups  Lookups
	template string
	hook     cellHook
}

// NewGeneric returns the definition-driven formatter.
func NewGeneric(key string, def *tabledef.Definition, lookups Lookups) *Generic {
	return &Generic{
		key:      key,
		def:      def,
		lookups:  lookups,
		template: def.Template,
	}
}

// Definition returns the table definition driving the formatter.
func (g *Generic) Definition() *tabledef.Definition { return g.def }

// SetTemplate replaces the page template.
func (g *Generic) SetTemplate(template string) { g.template = template }

// Include reports whether a record produces output: the main column
// must be present, the marker checkbox ticked when the table has one,
// and the group value matched when the table is a group slice.
func (g *Generic) Include(rec records.Record) bool {
	if g.def.MainColumn != "" && !rec.Fields.Has(g.def.MainColumn) {
		return false
	}
	if g.def.MarkerColumn != "" && !rec.Fields.Bool(g.def.MarkerColumn) {
		return false
	}
	if g.def.GroupColumn != "" && rec.Fields.String(g.def.GroupColumn) != g.def.Group {
		return false
	}
	return true
}

// Table renders the header row plus one row per included record,
// wrapped for the datatables plugin when the definition sets a page
// length.
func (g *Generic) Table(ctx context.Context, recs []records.Record) (string, error) {
	if len(g.def.Columns) == 0 {
		return previewTable(recs), nil
	}
	var b strings.Builder
	b.WriteString(markup.HeaderRow(g.def.Headers()))
	for _, rec := range recs {
		if !g.Include(rec) {
			continue
		}
		row, err := g.row(ctx, rec, tabledef.ForTable)
		if err != nil {
			return "", err
		}
		b.WriteString(markup.Row(row))
	}
	if g.def.PageLength > 0 {
		return markup.Datatables(b.String(), g.def.PageLength), nil
	}
	return b.String(), nil
}

// Pages renders one page per included record by filling the page
// template. Definitions without a main column or page name column get a
// single preview page dumping the first record, so a new table can be
// inspected before its format is developed.
func (g *Generic) Pages(ctx context.Context, recs []records.Record) (map[string]string, error) {
	pages := make(map[string]string)
	if g.def.MainColumn == "" && g.def.PageNameColumn == "" {
		if len(recs) > 0 {
			pages["test:test_page"] = previewPage(recs[0])
		}
		return pages, nil
	}
	if !g.def.LinkedPages || g.def.PageNameColumn == "" {
		return pages, nil
	}
	if g.template == "" {
		return nil, errors.NewValidationError("template", g.key, "page template not set")
	}
	for _, rec := range recs {
		if !g.Include(rec) || !rec.Fields.Has(g.def.PageNameColumn) {
			continue
		}
		name := g.def.Namespace + ":" + markup.PageName(rec.Fields.String(g.def.PageNameColumn))
		page, err := g.page(ctx, rec)
		if err != nil {
			return nil, err
		}
		pages[name] = page
	}
	return pages, nil
}

// page fills the template with the record's page target values.
func (g *Generic) page(ctx context.Context, rec records.Record) (string, error) {
	refs := g.def.PublishedColumns(tabledef.ForPage)
	reps := make([]markup.Replacement, 0, len(refs))
	for _, ref := range refs {
		v, err := g.value(ctx, rec, ref.Name, ref.Column, tabledef.ForPage)
		if err != nil {
			return "", err
		}
		reps = append(reps, markup.Replacement{Token: ref.Column.Page.Placeholder, Value: v})
	}
	return markup.RenderTemplate(g.template, reps), nil
}

// row collects the published cell values for a target, in column order.
func (g *Generic) row(ctx context.Context, rec records.Record, kind tabledef.TargetKind) ([]string, error) {
	refs := g.def.PublishedColumns(kind)
	row := make([]string, len(refs))
	for i, ref := range refs {
		v, err := g.value(ctx, rec, ref.Name, ref.Column, kind)
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}

// value renders one cell according to the column's effective type.
func (g *Generic) value(ctx context.Context, rec records.Record, name string, col tabledef.Column, kind tabledef.TargetKind) (string, error) {
	if g.hook != nil {
		if v, done, err := g.hook(ctx, rec, name, col, kind); done || err != nil {
			return v, err
		}
	}
	target := col.Target(kind)
	switch col.TypeFor(kind) {
	case tabledef.TypeCheckbox:
		if rec.Fields.Bool(name) {
			return markup.Check, nil
		}
		return "", nil
	case tabledef.TypeMultipleSelect, tabledef.TypeLookup:
		return joinStrings(rec.Fields.Strings(name)), nil
	case tabledef.TypeNumber, tabledef.TypeCurrency, tabledef.TypePercent,
		tabledef.TypeDuration, tabledef.TypeRating:
		if v, ok := rec.Fields.Number(name); ok {
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		}
		return "", nil
	case tabledef.TypeSingleCollaborator:
		return rec.Fields.CollaboratorName(name), nil
	case tabledef.TypeMultipleCollaborator:
		return joinStrings(rec.Fields.CollaboratorNames(name)), nil
	case tabledef.TypeAttachment:
		var b strings.Builder
		for _, url := range rec.Fields.AttachmentURLs(name) {
			b.WriteString(markup.ImageEmbed(url, 400))
		}
		return b.String(), nil
	case tabledef.TypeExternalLink:
		return externalLink(rec, target), nil
	case tabledef.TypeInternalLink:
		return internalLink(rec, target), nil
	case tabledef.TypeLinkedRecord:
		return g.linkedValue(ctx, rec, name, target)
	case tabledef.TypeRaw:
		return rec.Fields.String(name), nil
	default:
		return markup.Cell(rec.Fields.String(name)), nil
	}
}

// linkedValue resolves a linked-record column against its linked table
// and joins the linked column values.
func (g *Generic) linkedValue(ctx context.Context, rec records.Record, name string, target tabledef.Target) (string, error) {
	ids := rec.Fields.IDs(name)
	if len(ids) == 0 {
		return "", nil
	}
	r, err := lookup(g.lookups, target.LinkedTable)
	if err != nil {
		return "", err
	}
	names, err := linkedNames(ctx, r, ids, target.LinkedColumn)
	if err != nil {
		return "", err
	}
	return joinStrings(names), nil
}

// previewTable dumps raw field values row by row so an undefined table
// can be eyeballed on the wiki before its columns are defined.
func previewTable(recs []records.Record) string {
	var b strings.Builder
	for _, rec := range recs {
		keys := make([]string, 0, len(rec.Fields))
		for k := range rec.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		cells := make([]string, len(keys))
		for i, k := range keys {
			cells[i] = markup.Cell(fmt.Sprintf("%s: %v", k, rec.Fields[k]))
		}
		b.WriteString(markup.Row(cells))
	}
	return b.String()
}

// previewPage dumps a record's fields as uppercase headings so an
// undefined table can be eyeballed on the wiki.
func previewPage(rec records.Record) string {
	keys := make([]string, 0, len(rec.Fields))
	for k := range rec.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(strings.ToUpper(k))
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "%v", rec.Fields[k])
		b.WriteString("\n\n")
	}
	return b.String()
}
