// Package cmd implements the wikisync command tree.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/innovationsinfundraising/wikisync"
	"github.com/innovationsinfundraising/wikisync/internal/config"
	"github.com/innovationsinfundraising/wikisync/pkg/airtable"
	"github.com/innovationsinfundraising/wikisync/pkg/dokuwiki"
	"github.com/innovationsinfundraising/wikisync/pkg/logging"
	"github.com/innovationsinfundraising/wikisync/pkg/tabledef"
)

var (
	configFile   string
	wikiVersion  string
	tabledefFile string
	dryRun       bool
	delay        time.Duration
	verbose      bool
	quiet        bool
	outputFormat string

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "wikisync",
	Short: "Sync Airtable tables to a DokuWiki",
	Long: `Wikisync publishes Airtable tables to the Innovations in Fundraising
DokuWiki as formatted tables and per-record pages.

Each table has a definition saying which columns publish where and how
values are rendered. Records are fetched from Airtable, formatted into
DokuWiki markup, diffed against the live wiki, and only the pages that
changed are written back.

Credentials stay in the environment: AIRTABLE_API_KEY holds the
Airtable key and the config file names the variable holding each wiki's
password.`,
}

// Execute runs the command tree.
func Execute(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./config.json)")
	rootCmd.PersistentFlags().StringVarP(&wikiVersion, "wiki", "w", "test", "wiki version from the config file")
	rootCmd.PersistentFlags().StringVar(&tabledefFile, "tabledef", "", "table definitions file (default is the embedded set)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "classify pages without writing to the wiki")
	rootCmd.PersistentFlags().DurationVar(&delay, "delay", wikisync.DefaultDelay, "pause between page writes")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: table, json or yaml")

	rootCmd.SilenceUsage = true
}

// initConfig loads .env files, binds the environment and configures
// logging before any command runs.
func initConfig() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
	viper.AutomaticEnv()
	configureLogging()
}

func configureLogging() {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	if quiet {
		level = zerolog.WarnLevel
	}
	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		if parsed, err := zerolog.ParseLevel(envLevel); err == nil {
			level = parsed
		}
	}
	logging.Configure(&logging.Config{
		Level:     level.String(),
		Format:    "auto",
		Output:    "stderr",
		AddCaller: level <= zerolog.DebugLevel,
	})
}

// loadDefinitions loads the table definitions named by the flag, or the
// embedded defaults.
func loadDefinitions() (*tabledef.Definitions, error) {
	return tabledef.Load(tabledefFile)
}

// newAirtable connects to Airtable using the key from the environment.
func newAirtable() (*airtable.Client, error) {
	key, err := config.AirtableKey()
	if err != nil {
		return nil, err
	}
	return airtable.New(key)
}

// newWiki connects to the wiki version selected by the flag.
func newWiki() (*dokuwiki.Client, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	w, err := cfg.Wiki(wikiVersion)
	if err != nil {
		return nil, err
	}
	pass, err := w.Password()
	if err != nil {
		return nil, err
	}
	return dokuwiki.New(w.URL, w.Username, pass)
}

// newSyncClient assembles the full sync client from the flags.
func newSyncClient() (*wikisync.Client, error) {
	defs, err := loadDefinitions()
	if err != nil {
		return nil, err
	}
	at, err := newAirtable()
	if err != nil {
		return nil, err
	}
	wiki, err := newWiki()
	if err != nil {
		return nil, err
	}
	return wikisync.New(wiki, wikisync.NewTables(at, defs), defs,
		wikisync.WithDelay(delay),
		wikisync.WithDryRun(dryRun),
	), nil
}

// parseResource maps the positional resource argument, defaulting to
// both targets.
func parseResource(args []string) (wikisync.Resource, error) {
	if len(args) < 2 {
		return wikisync.Both, nil
	}
	switch args[1] {
	case "table":
		return wikisync.TableOnly, nil
	case "pages":
		return wikisync.PagesOnly, nil
	case "both":
		return wikisync.Both, nil
	default:
		return wikisync.Both, &unknownResourceError{resource: args[1]}
	}
}

type unknownResourceError struct {
	resource string
}

func (e *unknownResourceError) Error() string {
	return "unknown resource " + e.resource + ", choose from: table, pages, both"
}
