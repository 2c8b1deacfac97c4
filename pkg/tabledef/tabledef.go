// Package tabledef models the per-table formatting definitions that
// drive wiki table and page generation: which Airtable base a table
// lives in, which columns publish to which target, their order, their
// types, and the page template placeholders.
package tabledef

import (
	"sort"

	"github.com/innovationsinfundraising/wikisync/pkg/errors"
)

// ColumnType enumerates the Airtable column types the formatter
// understands, plus the three synthetic link types used by definitions.
type ColumnType string

// Column types delivered by Airtable.
const (
	TypeSingleLineText       ColumnType = "Single line text"
	TypeLongText             ColumnType = "Long text"
	TypeSingleSelect         ColumnType = "Single select"
	TypeMultipleSelect       ColumnType = "Multiple select"
	TypeNumber               ColumnType = "Number"
	TypeCurrency             ColumnType = "Currency"
	TypePercent              ColumnType = "Percent"
	TypeDuration             ColumnType = "Duration"
	TypeRating               ColumnType = "Rating"
	TypeCheckbox             ColumnType = "Checkbox"
	TypeDate                 ColumnType = "Date"
	TypePhone                ColumnType = "Phone number"
	TypeEmail                ColumnType = "Email"
	TypeURL                  ColumnType = "URL"
	TypeLookup               ColumnType = "Lookup"
	TypeSingleCollaborator   ColumnType = "Single collaborator"
	TypeMultipleCollaborator ColumnType = "Multiple collaborator"
	TypeAttachment           ColumnType = "Attachment"
	TypeLinkedRecord         ColumnType = "Link to another record"
)

// Synthetic types used by definitions to request link construction.
const (
	TypeExternalLink ColumnType = "External link"
	TypeInternalLink ColumnType = "Internal link"
	TypeRaw          ColumnType = "Raw"
)

// Target holds the settings for publishing one column to one target
// (the wiki table or the record pages).
type Target struct {
	Publish bool `yaml:"publish"`
	// Pos is the 1-based position among published columns.
	Pos int `yaml:"pos"`
	// Type overrides the column type for this target. A column can be
	// an internal link in the table but plain text on its page.
	Type ColumnType `yaml:"type,omitempty"`
	// Header labels the table column (table target only).
	Header string `yaml:"header,omitempty"`
	// Placeholder is the template token this column fills (page target).
	Placeholder string `yaml:"placeholder,omitempty"`

	// Link construction settings.
	URLColumn        string `yaml:"url_column,omitempty"`
	LabelType        string `yaml:"label_type,omitempty"` // "field" or "text"
	Label            string `yaml:"label,omitempty"`
	Namespace        string `yaml:"namespace,omitempty"`
	ReplacementLabel string `yaml:"replacement_label,omitempty"`
	LinkedTable      string `yaml:"linked_table,omitempty"`
	LinkedColumn     string `yaml:"linked_column,omitempty"`
}

// Column binds an Airtable column to its type and per-target settings.
type Column struct {
	Type  ColumnType `yaml:"type"`
	Table Target     `yaml:"table"`
	Page  Target     `yaml:"page"`
}

// Definition describes how one Airtable table maps onto the wiki.
type Definition struct {
	// Base is the Airtable base id the table lives in.
	Base string `yaml:"base"`
	// Table is the table name in Airtable when it differs from the
	// definition key (the FTSE and Other company groups share one
	// Airtable table).
	Table string `yaml:"table,omitempty"`

	// TablePage is the wiki page the full table is written to.
	TablePage string `yaml:"table_page,omitempty"`
	// IncludedIn is the public page that includes the table page.
	IncludedIn string `yaml:"included_in,omitempty"`
	// MainColumn names the column that must be present for a record
	// to produce a row or page.
	MainColumn string `yaml:"main_column,omitempty"`
	// PageLength sets the datatables page-length attribute (0 omits it).
	PageLength int `yaml:"page_length,omitempty"`

	// LinkedPages marks tables that also feed per-record wiki pages.
	LinkedPages bool `yaml:"linked_pages,omitempty"`
	// PageNameColumn names the column whose value becomes the page name.
	PageNameColumn string `yaml:"page_name_column,omitempty"`
	// Namespace is the wiki namespace the pages are created under.
	Namespace string `yaml:"namespace,omitempty"`
	// Template is the inline page template with placeholder tokens.
	Template string `yaml:"template,omitempty"`
	// TemplatePage names a wiki page holding the template instead.
	TemplatePage string `yaml:"template_page,omitempty"`

	// MarkerColumn gates records on a checkbox (e.g. the Tools table
	// only publishes records with "Wiki?" ticked).
	MarkerColumn string `yaml:"marker_column,omitempty"`
	// GroupColumn/Group restrict records to one group value (used to
	// split the giving companies into FTSE100 and Other).
	GroupColumn string `yaml:"group_column,omitempty"`
	Group       string `yaml:"group,omitempty"`

	// UpdateAll includes the table in the update-all run.
	UpdateAll bool `yaml:"update_all,omitempty"`

	Columns map[string]Column `yaml:"columns"`
}

// TableName returns the Airtable table name for the definition key.
func (d *Definition) TableName(key string) string {
	if d.Table != "" {
		return d.Table
	}
	return key
}

// TargetKind selects which Target of a Column applies.
type TargetKind int

// Target kinds.
const (
	ForTable TargetKind = iota
	ForPage
)

// Target returns the column's settings for the given target kind.
func (c Column) Target(kind TargetKind) Target {
	if kind == ForPage {
		return c.Page
	}
	return c.Table
}

// TypeFor returns the effective column type for a target, honoring the
// per-target override.
func (c Column) TypeFor(kind TargetKind) ColumnType {
	if t := c.Target(kind).Type; t != "" {
		return t
	}
	return c.Type
}

// ColumnRef pairs a column name with its definition, ordered by the
// target position.
type ColumnRef struct {
	Name   string
	Column Column
}

// PublishedColumns returns the columns published to the given target,
// sorted by position.
func (d *Definition) PublishedColumns(kind TargetKind) []ColumnRef {
	refs := make([]ColumnRef, 0, len(d.Columns))
	for name, col := range d.Columns {
		if col.Target(kind).Publish {
			refs = append(refs, ColumnRef{Name: name, Column: col})
		}
	}
	sort.Slice(refs, func(i, j int) bool {
		return refs[i].Column.Target(kind).Pos < refs[j].Column.Target(kind).Pos
	})
	return refs
}

// Headers returns the table header labels in column order.
func (d *Definition) Headers() []string {
	refs := d.PublishedColumns(ForTable)
	out := make([]string, len(refs))
	for i, ref := range refs {
		out[i] = ref.Column.Table.Header
	}
	return out
}

// Placeholders returns the page template tokens in column order.
func (d *Definition) Placeholders() []string {
	refs := d.PublishedColumns(ForPage)
	out := make([]string, len(refs))
	for i, ref := range refs {
		out[i] = ref.Column.Page.Placeholder
	}
	return out
}

// Index returns the 0-based position of a named column among the
// published columns of the target, or -1 when the column is absent.
func (d *Definition) Index(name string, kind TargetKind) int {
	for i, ref := range d.PublishedColumns(kind) {
		if ref.Name == name {
			return i
		}
	}
	return -1
}

// Definitions holds every table definition plus the base unknown tables
// default to.
type Definitions struct {
	// DefaultBase is used for tables without a definition.
	DefaultBase string `yaml:"default_base"`
	// Tables maps a definition key to its table definition.
	Tables map[string]*Definition `yaml:"tables"`
}

// Get returns the definition for a key.
func (ds *Definitions) Get(key string) (*Definition, error) {
	def, ok := ds.Tables[key]
	if !ok {
		return nil, errors.NewNotFoundError("table definition", key)
	}
	return def, nil
}

// Defined reports whether a table has a definition.
func (ds *Definitions) Defined(key string) bool {
	_, ok := ds.Tables[key]
	return ok
}

// Keys returns the definition keys in sorted order.
func (ds *Definitions) Keys() []string {
	keys := make([]string, 0, len(ds.Tables))
	for k := range ds.Tables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// UpdateAllKeys returns the keys included in the update-all run, sorted.
func (ds *Definitions) UpdateAllKeys() []string {
	keys := make([]string, 0, len(ds.Tables))
	for k, d := range ds.Tables {
		if d.UpdateAll {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Validate checks positions and page settings for every definition.
func (ds *Definitions) Validate() error {
	for key, def := range ds.Tables {
		if def.Base == "" {
			return errors.NewValidationError(key+".base", "", "missing Airtable base id")
		}
		if def.LinkedPages && def.PageNameColumn != "" && def.Namespace == "" {
			return errors.NewValidationError(key+".namespace", "", "linked pages need a namespace")
		}
		for name, col := range def.Columns {
			if col.Table.Publish && col.Table.Pos < 1 {
				return errors.NewValidationError(key+"."+name+".table.pos", col.Table.Pos, "positions are 1-based")
			}
			if col.Page.Publish && col.Page.Pos < 1 {
				return errors.NewValidationError(key+"."+name+".page.pos", col.Page.Pos, "positions are 1-based")
			}
		}
	}
	return nil
}
