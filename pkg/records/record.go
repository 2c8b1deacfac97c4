// Package records defines the record model shared by the Airtable client
// and the wiki formatters. A record is an identifier, a creation timestamp,
// and an untyped map of column name to value. Absent fields are omitted
// from the map, never null.
package records

import (
	"github.com/agentstation/utc"
)

// Record is a single row fetched from an Airtable table.
type Record struct {
	ID          string   `json:"id"`
	CreatedTime utc.Time `json:"createdTime"`
	Fields      Fields   `json:"fields"`
}

// Fields maps column names to raw cell values. Values are decoded from
// JSON, so scalars arrive as string/float64/bool, lists as []any, and
// collaborator or attachment cells as map[string]any.
type Fields map[string]any

// Has reports whether the column is present on the record.
func (f Fields) Has(name string) bool {
	_, ok := f[name]
	return ok
}

// String returns the column value as a string, or "" when the column is
// absent or not a string.
func (f Fields) String(name string) string {
	if s, ok := f[name].(string); ok {
		return s
	}
	return ""
}

// Strings returns a list-valued column as a string slice. Scalar string
// values are returned as a one-element slice so callers can treat
// single-select and multiple-select columns uniformly.
func (f Fields) Strings(name string) []string {
	switch v := f[name].(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	}
	return nil
}

// IDs returns the foreign-record identifiers held by a linked-record
// column. Airtable delivers these as a list of opaque record ids.
func (f Fields) IDs(name string) []string {
	return f.Strings(name)
}

// Number returns a numeric column value. The second return value is
// false when the column is absent or not numeric.
func (f Fields) Number(name string) (float64, bool) {
	switch v := f[name].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// Bool returns a checkbox column value. Absent checkboxes are false.
func (f Fields) Bool(name string) bool {
	if b, ok := f[name].(bool); ok {
		return b
	}
	return false
}

// CollaboratorName returns the name of a single-collaborator column.
func (f Fields) CollaboratorName(name string) string {
	if m, ok := f[name].(map[string]any); ok {
		if s, ok := m["name"].(string); ok {
			return s
		}
	}
	return ""
}

// CollaboratorNames returns the names of a multiple-collaborator column.
func (f Fields) CollaboratorNames(name string) []string {
	list, ok := f[name].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			if s, ok := m["name"].(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

// AttachmentURL returns the URL of the first attachment in an attachment
// column, or "" when the column is absent or empty.
func (f Fields) AttachmentURL(name string) string {
	urls := f.AttachmentURLs(name)
	if len(urls) == 0 {
		return ""
	}
	return urls[0]
}

// AttachmentURLs returns the urls of every attachment in the field.
func (f Fields) AttachmentURLs(name string) []string {
	list, ok := f[name].([]any)
	if !ok {
		return nil
	}
	var urls []string
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			if s, ok := m["url"].(string); ok {
				urls = append(urls, s)
			}
		}
	}
	return urls
}
