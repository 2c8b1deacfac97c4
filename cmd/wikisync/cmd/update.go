package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/innovationsinfundraising/wikisync"
)

var updateCmd = &cobra.Command{
	Use:   "update <table> [table|pages|both]",
	Short: "Update wiki content for modified records",
	Long: `Update regenerates wiki content for records carrying the Modified flag
in Airtable, then clears the flag. The wiki table is rebuilt in full
when any record changed; pages are rewritten only for the changed
records.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	resource, err := parseResource(args)
	if err != nil {
		return err
	}
	client, err := newSyncClient()
	if err != nil {
		return err
	}

	cs, err := client.Sync(cmd.Context(), args[0], wikisync.Update, resource)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), cs.Summary())
	return nil
}
