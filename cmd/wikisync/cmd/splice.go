package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var spliceCmd = &cobra.Command{
	Use:   "splice <table> <page>",
	Short: "Refresh the table embedded in an existing wiki page",
	Long: `Splice regenerates a wiki table in place: the datatables region of the
target page is replaced with freshly formatted rows and the hand-written
content around it is preserved.`,
	Args: cobra.ExactArgs(2),
	RunE: runSplice,
}

func init() {
	rootCmd.AddCommand(spliceCmd)
}

func runSplice(cmd *cobra.Command, args []string) error {
	client, err := newSyncClient()
	if err != nil {
		return err
	}
	cs, err := client.Splice(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), cs.Summary())
	return nil
}
