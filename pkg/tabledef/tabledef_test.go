package tabledef

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innovationsinfundraising/wikisync/pkg/errors"
)

func TestDefault(t *testing.T) {
	defs, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "appBzOSifwBqSuVfH", defs.DefaultBase)
	assert.True(t, defs.Defined("Tools"))
	assert.True(t, defs.Defined("papers_mass"))
	assert.False(t, defs.Defined("No_such_table"))
}

func TestDefaultUpdateAllKeys(t *testing.T) {
	defs, err := Default()
	require.NoError(t, err)
	keys := defs.UpdateAllKeys()
	assert.Contains(t, keys, "Tools")
	assert.Contains(t, keys, "papers_mass")
	assert.Contains(t, keys, "Giving_companies_ftse")
	assert.NotContains(t, keys, "Meta_analysis")
	assert.NotContains(t, keys, "Theories")
	assert.IsIncreasing(t, keys)
}

func TestGet(t *testing.T) {
	defs, err := Default()
	require.NoError(t, err)

	def, err := defs.Get("Charity_experiments")
	require.NoError(t, err)
	assert.Equal(t, "tables:data_experiments", def.TablePage)
	assert.Equal(t, "Experiment", def.MainColumn)

	_, err = defs.Get("No_such_table")
	assert.True(t, errors.IsNotFound(err))
}

func TestTableName(t *testing.T) {
	defs, err := Default()
	require.NoError(t, err)

	ftse, err := defs.Get("Giving_companies_ftse")
	require.NoError(t, err)
	assert.Equal(t, "Giving companies", ftse.TableName("Giving_companies_ftse"))

	tools, err := defs.Get("Tools")
	require.NoError(t, err)
	assert.Equal(t, "Tools", tools.TableName("Tools"))
}

func TestCompanyGroupsShareColumns(t *testing.T) {
	defs, err := Default()
	require.NoError(t, err)

	ftse, err := defs.Get("Giving_companies_ftse")
	require.NoError(t, err)
	other, err := defs.Get("Giving_companies_other")
	require.NoError(t, err)

	assert.Equal(t, "FTSE100", ftse.Group)
	assert.Equal(t, "Other", other.Group)
	assert.Equal(t, ftse.Headers(), other.Headers())
	assert.Equal(t, ftse.Template, other.Template)
	assert.Equal(t, "apprleNrkR7dTtW60", ftse.Base)
}

func TestPublishedColumnsOrdered(t *testing.T) {
	defs, err := Default()
	require.NoError(t, err)
	def, err := defs.Get("Giving_companies_ftse")
	require.NoError(t, err)

	refs := def.PublishedColumns(ForTable)
	require.Len(t, refs, 7)
	assert.Equal(t, "Company", refs[0].Name)
	assert.Equal(t, "Reference", refs[6].Name)

	assert.Equal(t, []string{
		"Company", "Sector", "Donation matching", "Payroll giving",
		"PG provider", "Outcomes", "Reference",
	}, columnNames(refs))
}

func columnNames(refs []ColumnRef) []string {
	out := make([]string, len(refs))
	for i, ref := range refs {
		out[i] = ref.Name
	}
	return out
}

func TestPlaceholders(t *testing.T) {
	defs, err := Default()
	require.NoError(t, err)
	def, err := defs.Get("papers_mass")
	require.NoError(t, err)

	ph := def.Placeholders()
	require.NotEmpty(t, ph)
	assert.Equal(t, "PAPERTITLE", ph[0])
	assert.Equal(t, "REFERENCE", ph[1])
	assert.Contains(t, ph, "CREATORS")
}

func TestIndex(t *testing.T) {
	defs, err := Default()
	require.NoError(t, err)
	def, err := defs.Get("Experiences")
	require.NoError(t, err)

	assert.Equal(t, 0, def.Index("Name", ForTable))
	assert.Equal(t, 2, def.Index("Organisation", ForTable))
	assert.Equal(t, -1, def.Index("Organisation", ForPage))
	assert.Equal(t, -1, def.Index("No such column", ForTable))
}

func TestTypeFor(t *testing.T) {
	defs, err := Default()
	require.NoError(t, err)
	def, err := defs.Get("Tools")
	require.NoError(t, err)

	name := def.Columns["Tool name"]
	assert.Equal(t, TypeInternalLink, name.TypeFor(ForTable))
	assert.Equal(t, TypeSingleLineText, name.TypeFor(ForPage))

	cat := def.Columns["Category"]
	assert.Equal(t, TypeLinkedRecord, cat.TypeFor(ForTable))
	assert.Equal(t, TypeLinkedRecord, cat.TypeFor(ForPage))
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing base",
			yaml: `
tables:
  Broken:
    table_page: "tables:broken"
`,
		},
		{
			name: "zero position",
			yaml: `
tables:
  Broken:
    base: app123
    columns:
      Name:
        type: Single line text
        table: {publish: true, pos: 0}
`,
		},
		{
			name: "linked pages without namespace",
			yaml: `
tables:
  Broken:
    base: app123
    linked_pages: true
    page_name_column: Name
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml), "test")
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestParseBadYAML(t *testing.T) {
	_, err := Parse([]byte("tables: [not a map"), "test")
	require.Error(t, err)
	var perr *errors.ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	defs, err := Load("")
	require.NoError(t, err)
	assert.True(t, defs.Defined("Tools"))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/tabledef.yaml")
	require.Error(t, err)
	var ioerr *errors.IOError
	assert.ErrorAs(t, err, &ioerr)
}
