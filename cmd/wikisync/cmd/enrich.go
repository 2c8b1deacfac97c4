package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/innovationsinfundraising/wikisync"
	"github.com/innovationsinfundraising/wikisync/pkg/bibliography"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Fill in bibliographic data for the papers table",
	Long: `Enrich completes the papers table from public bibliographic sources:
records with a DOI get a fresh BibTeX record and Crossref citation
count, and the reference columns (authors, year, title, journal,
reference line, parenthetical citation) are derived from the BibTeX.

Run it before syncing the papers table so the generated pages carry
complete references.`,
	Args: cobra.NoArgs,
	RunE: runEnrich,
}

func init() {
	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, _ []string) error {
	// Enrichment only touches Airtable, so no wiki connection is made.
	defs, err := loadDefinitions()
	if err != nil {
		return err
	}
	at, err := newAirtable()
	if err != nil {
		return err
	}
	table, err := wikisync.NewTables(at, defs).Table("papers_mass")
	if err != nil {
		return err
	}
	recs, err := table.List(cmd.Context(), nil)
	if err != nil {
		return err
	}
	enricher := bibliography.NewEnricher(bibliography.NewResolver(), table)
	enriched, err := enricher.EnrichAll(cmd.Context(), recs)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d records enriched\n", enriched)
	return nil
}
