package formats

import (
	"context"
	"strings"

	"github.com/innovationsinfundraising/wikisync/pkg/markup"
	"github.com/innovationsinfundraising/wikisync/pkg/records"
	"github.com/innovationsinfundraising/wikisync/pkg/tabledef"
)

// Companies formats one group slice of the employee giving companies
// table. The FTSE100 and Other groups share the Airtable table and the
// column layout; the group column decides which slice a record falls
// into.
type Companies struct {
	*Generic
}

// NewCompanies returns the company formatter for one group slice.
func NewCompanies(key string, def *tabledef.Definition, lookups Lookups) *Companies {
	c := &Companies{Generic: NewGeneric(key, def, lookups)}
	c.hook = c.cell
	return c
}

func (c *Companies) cell(_ context.Context, rec records.Record, name string, _ tabledef.Column, kind tabledef.TargetKind) (string, bool, error) {
	if kind != tabledef.ForPage {
		return "", false, nil
	}
	switch name {
	case "Pays PG fees":
		v := ""
		if rec.Fields.Bool(name) {
			v = markup.Check
		}
		return v + " Note: This field needs more research.", true, nil
	case "Other links":
		raw := strings.TrimSpace(rec.Fields.String(name))
		if raw == "" {
			return "", true, nil
		}
		sources := strings.Split(raw, "; ")
		for i := range sources {
			sources[i] = strings.TrimSpace(sources[i])
		}
		return markup.Bullets(sources), true, nil
	}
	return "", false, nil
}
