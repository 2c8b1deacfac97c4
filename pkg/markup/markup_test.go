package markup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innovationsinfundraising/wikisync/pkg/markup"
)

func TestPageName(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Giving calculator", "Giving calculator"},
		{"What's the point?", "Whats the point"},
		{"Donation-matching (UK)", "Donationmatching UK"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, markup.PageName(tt.label))
	}
}

func TestLinks(t *testing.T) {
	assert.Equal(t, "[[tools:Giving calculator|Giving calculator]]",
		markup.InternalLink("tools", "Giving calculator", "Giving calculator"))
	assert.Equal(t, "[[papers:Whats the point|(Smith, '19)]]",
		markup.InternalLink("papers", "What's the point?", "(Smith, '19)"))
	assert.Equal(t, "[[https://example.org|Example]]", markup.ExternalLink("https://example.org", "Example"))
	// missing URL degrades to the bare label
	assert.Equal(t, "Example", markup.ExternalLink("", "Example"))
}

func TestBullets(t *testing.T) {
	assert.Equal(t, "", markup.Bullets(nil))
	assert.Equal(t, "", markup.Bullets([]string{"", ""}))
	assert.Equal(t, "\n\n  * one\n", markup.Bullets([]string{"one"}))
	assert.Equal(t, "\n\n  * one\n\n  * two\n", markup.Bullets([]string{"one", "", "two"}))
}

func TestRows(t *testing.T) {
	assert.Equal(t, "\n^ Company ^ Sector ^\n", markup.HeaderRow([]string{"Company", "Sector"}))
	assert.Equal(t, "| BP | Energy |\n", markup.Row([]string{"BP", "Energy"}))
}

func TestCell(t *testing.T) {
	assert.Equal(t, "line one \\\\ line two", markup.Cell(" line one\r\nline two "))
	assert.Equal(t, "plain", markup.Cell("plain"))
}

func TestDatatables(t *testing.T) {
	assert.Equal(t, "<datatables>\nbody</datatables>\n", markup.Datatables("body", 0))
	assert.Equal(t, "<datatables page-length=\"50\">\nbody</datatables>\n", markup.Datatables("body", 50))
}

func TestRenderTemplate(t *testing.T) {
	template := "==== TOOLNAME ====\n**Category**: CATEGORY\n"
	got := markup.RenderTemplate(template, []markup.Replacement{
		{Token: "TOOLNAME", Value: "Giving calculator"},
		{Token: "CATEGORY", Value: "Transparency"},
	})
	assert.Equal(t, "==== Giving calculator ====\n**Category**: Transparency\n", got)
}

func TestRenderTemplateFirstOccurrenceOnly(t *testing.T) {
	got := markup.RenderTemplate("X and X", []markup.Replacement{{Token: "X", Value: "Y"}})
	assert.Equal(t, "Y and X", got)
}

func TestSpliceTable(t *testing.T) {
	page := "intro text\n<datatables page-length=\"50\">\nold table\n</datatables>\noutro"
	got, err := markup.SpliceTable(page, "\nnew table\n")
	require.NoError(t, err)
	assert.Equal(t, "intro text\n<datatables page-length=\"50\">\nnew table\n</datatables>\noutro", got)
}

func TestSpliceTableErrors(t *testing.T) {
	_, err := markup.SpliceTable("no region here", "table")
	assert.Error(t, err)

	_, err = markup.SpliceTable("<datatables>\nno close", "table")
	assert.Error(t, err)
}

func TestPopoverAndImage(t *testing.T) {
	assert.Equal(t, "<popover content=\"Signals of trust\" trigger='hover'>Transparency</popover>",
		markup.Popover("Transparency", "Signals of trust"))
	assert.Equal(t, "{{https://dl.airtable.com/x.png?400}}\n", markup.ImageEmbed("https://dl.airtable.com/x.png", 400))
}
