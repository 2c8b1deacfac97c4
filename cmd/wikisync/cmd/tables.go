package cmd

import (
	"github.com/spf13/cobra"

	"github.com/innovationsinfundraising/wikisync/internal/output"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the defined tables",
	Long:  `Tables lists every table definition with its wiki destinations.`,
	Args:  cobra.NoArgs,
	RunE:  runTables,
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}

func runTables(cmd *cobra.Command, _ []string) error {
	defs, err := loadDefinitions()
	if err != nil {
		return err
	}

	data := output.Data{
		Headers: []string{"Table", "Airtable name", "Base", "Table page", "Pages", "Update-all"},
	}
	for _, key := range defs.Keys() {
		def, err := defs.Get(key)
		if err != nil {
			return err
		}
		pages := ""
		if def.LinkedPages {
			pages = def.Namespace + ":"
		}
		data.Rows = append(data.Rows, []string{
			key, def.TableName(key), def.Base, def.TablePage, pages, mark(def.UpdateAll),
		})
	}
	return output.NewFormatter(output.DetectFormat(outputFormat)).Format(cmd.OutOrStdout(), data)
}

func mark(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
