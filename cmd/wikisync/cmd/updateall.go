package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/innovationsinfundraising/wikisync"
)

var updateAllCmd = &cobra.Command{
	Use:   "update-all",
	Short: "Update every maintained table and its pages",
	Long: `Update-all runs the update cycle over every table definition flagged
for the maintenance run. A failing table is logged and the remaining
tables still run.`,
	Args: cobra.NoArgs,
	RunE: runUpdateAll,
}

var updateAllFull bool

func init() {
	updateAllCmd.Flags().BoolVar(&updateAllFull, "full", false, "regenerate everything, not just modified records")
	rootCmd.AddCommand(updateAllCmd)
}

func runUpdateAll(cmd *cobra.Command, _ []string) error {
	client, err := newSyncClient()
	if err != nil {
		return err
	}

	mode := wikisync.Update
	if updateAllFull {
		mode = wikisync.Create
	}
	cs, err := client.SyncAll(cmd.Context(), mode)
	fmt.Fprintln(cmd.OutOrStdout(), cs.Summary())
	return err
}
