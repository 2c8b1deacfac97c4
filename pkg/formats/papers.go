package formats

import (
	"context"
	"fmt"

	"github.com/innovationsinfundraising/wikisync/pkg/markup"
	"github.com/innovationsinfundraising/wikisync/pkg/records"
	"github.com/innovationsinfundraising/wikisync/pkg/tabledef"
)

// metaWellTemplate is the collapsed well on each paper page holding the
// quantitative meta-analysis data, laid out in three columns.
const metaWellTemplate = `<button collapse="meta">Meta-analysis data</button><collapse id="meta" collapsed="true"><well>` +
	`<WRAP third column>` +
	"**Study year**: R01\n\n" +
	"**Data link**: R02\n\n" +
	"**Peer reviewed**: R03\n\n" +
	"**Journal rating**: R04\n\n" +
	"**Citations**: R05\n\n" +
	"**Replications**: R06\n\n" +
	"**Replication success**: R07\n\n" +
	"**Pre-registered**: R08\n\n" +
	"**Verified**: R09\n\n" +
	"**Participants aware**: R10\n\n" +
	"**Demographics**: R11\n\n" +
	`</WRAP>` +
	`<WRAP third column>` +
	"**Design**: R12\n\n" +
	"**Simple comparison**: R13\n\n" +
	"**Sample size**: R14\n\n" +
	"**Share treated**: R15\n\n" +
	"**Key components**: R16\n\n" +
	"**Main treatment**: R17\n\n" +
	"**Mean donation**: R18\n\n" +
	"**SD donation**: R19\n\n" +
	"**Endowment amount**: R20\n\n" +
	"**Endowment description**: R21\n\n" +
	"**Currency**: R22\n\n" +
	`</WRAP>` +
	`<WRAP third column>` +
	"**Conversion rate**: R23\n\n" +
	"**Effect size original**: R24\n\n" +
	"**Effect size USD**: R25\n\n" +
	"**SE effect size**: R26\n\n" +
	"**SE calculation**: R27\n\n" +
	"**Effect size share**: R28\n\n" +
	"**Mean incidence**: R29\n\n" +
	"**Effect size incidence**: R30\n\n" +
	"**Headline p-val**: R31\n\n" +
	"**P-val description**: R32\n\n" +
	`</WRAP>` +
	`</well></collapse>`

// Papers formats the academic papers table. Related tools link to their
// wiki pages, and each paper page embeds the collapsed meta-analysis
// well built from the quantitative column set.
type Papers struct {
	*Generic
	meta *tabledef.Definition
}

// NewPapers returns the papers formatter. The meta definition supplies
// the quantitative columns for the per-page meta-analysis well.
func NewPapers(def, meta *tabledef.Definition, lookups Lookups) *Papers {
	p := &Papers{Generic: NewGeneric("papers_mass", def, lookups), meta: meta}
	p.hook = p.cell
	return p
}

func (p *Papers) cell(ctx context.Context, rec records.Record, name string, _ tabledef.Column, kind tabledef.TargetKind) (string, bool, error) {
	switch name {
	case "tools":
		ids := rec.Fields.IDs(name)
		if len(ids) == 0 {
			return "", true, nil
		}
		tools, err := lookup(p.lookups, "Tools")
		if err != nil {
			return "", true, err
		}
		links, err := toolLinks(ctx, tools, ids)
		return joinStrings(links), true, err
	case "meta":
		if kind == tabledef.ForPage {
			v, err := p.metaWell(ctx, rec)
			return v, true, err
		}
	}
	return "", false, nil
}

// metaWell fills the well template from the meta definition's table
// columns, skipping the leading reference column.
func (p *Papers) metaWell(ctx context.Context, rec records.Record) (string, error) {
	refs := p.meta.PublishedColumns(tabledef.ForTable)
	if len(refs) > 0 {
		refs = refs[1:]
	}
	reps := make([]markup.Replacement, 0, len(refs))
	for i, ref := range refs {
		v, err := p.value(ctx, rec, ref.Name, ref.Column, tabledef.ForTable)
		if err != nil {
			return "", err
		}
		reps = append(reps, markup.Replacement{Token: fmt.Sprintf("R%02d", i+1), Value: v})
	}
	return markup.RenderTemplate(metaWellTemplate, reps), nil
}
