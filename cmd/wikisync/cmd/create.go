package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/innovationsinfundraising/wikisync"
	"github.com/innovationsinfundraising/wikisync/pkg/logging"
)

var createCmd = &cobra.Command{
	Use:   "create <table> [table|pages|both]",
	Short: "Create wiki content from an Airtable table",
	Long: `Create regenerates the wiki table and pages for an Airtable table from
every record, regardless of modification flags.

Tables without a definition get a preview written to tables:test and
test:test_page so the format can be developed.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	resource, err := parseResource(args)
	if err != nil {
		return err
	}
	client, err := newSyncClient()
	if err != nil {
		return err
	}

	cs, err := client.Sync(cmd.Context(), args[0], wikisync.Create, resource)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), cs.Summary())
	if def, derr := client.Definitions().Get(args[0]); derr == nil && def.TablePage != "" {
		logging.Info().Str("page", def.TablePage).Msg("table page location")
	}
	return nil
}
