package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "wikisync %s (commit %s, built %s)\n", Version, Commit, Date)
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the wiki connection",
	Long:  `Verify connects to the selected wiki and prints its version string.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		wiki, err := newWiki()
		if err != nil {
			return err
		}
		version, err := wiki.Version(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(verifyCmd)
}
