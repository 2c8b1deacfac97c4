package cmd

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/innovationsinfundraising/wikisync/internal/output"
	"github.com/innovationsinfundraising/wikisync/pkg/airtable"
	"github.com/innovationsinfundraising/wikisync/pkg/records"
)

var (
	fetchFields []string
	fetchView   string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <table>",
	Short: "Fetch and print the records of an Airtable table",
	Long: `Fetch lists the raw records of a table without touching the wiki,
useful for checking column names and values while writing or debugging
a table definition.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringSliceVar(&fetchFields, "fields", nil, "restrict the fetch to these columns")
	fetchCmd.Flags().StringVar(&fetchView, "view", "", "fetch records from a named Airtable view")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	defs, err := loadDefinitions()
	if err != nil {
		return err
	}
	at, err := newAirtable()
	if err != nil {
		return err
	}

	key := args[0]
	base, name := defs.DefaultBase, key
	if def, derr := defs.Get(key); derr == nil {
		base, name = def.Base, def.TableName(key)
	}

	recs, err := at.Table(base, name).List(cmd.Context(), &airtable.ListOptions{
		Fields: fetchFields,
		View:   fetchView,
	})
	if err != nil {
		return err
	}

	format := output.DetectFormat(outputFormat)
	if format != output.FormatTable {
		return output.NewFormatter(format).Format(cmd.OutOrStdout(), recs)
	}
	return output.NewFormatter(format).Format(cmd.OutOrStdout(), recordData(recs))
}

// recordData flattens records for terminal display: one row per record,
// one column per field seen across the batch.
func recordData(recs []records.Record) output.Data {
	seen := map[string]bool{}
	for _, rec := range recs {
		for name := range rec.Fields {
			seen[name] = true
		}
	}
	columns := make([]string, 0, len(seen))
	for name := range seen {
		columns = append(columns, name)
	}
	sort.Strings(columns)

	data := output.Data{Headers: append([]string{"ID"}, columns...)}
	for _, rec := range recs {
		row := []string{rec.ID}
		for _, name := range columns {
			value := rec.Fields.String(name)
			if value == "" {
				value = strings.Join(rec.Fields.Strings(name), ", ")
			}
			row = append(row, value)
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}
