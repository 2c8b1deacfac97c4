// Package wikisync keeps DokuWiki pages in step with Airtable tables.
// Records are fetched from Airtable, formatted into wiki tables and
// pages per the table definitions, diffed against the live wiki, and
// only the pages that changed are written back.
package wikisync

import (
	"context"
	"sync"
	"time"

	"github.com/innovationsinfundraising/wikisync/pkg/airtable"
	"github.com/innovationsinfundraising/wikisync/pkg/formats"
	"github.com/innovationsinfundraising/wikisync/pkg/records"
	"github.com/innovationsinfundraising/wikisync/pkg/tabledef"
)

// DefaultDelay is the pause between consecutive page writes. The wiki
// runs on shared hosting and bursts of XML-RPC writes get throttled.
const DefaultDelay = 5 * time.Second

// DefaultSummary is the edit summary attached to synced pages.
const DefaultSummary = "Synced from Airtable"

// Wiki is the DokuWiki surface the syncer needs.
type Wiki interface {
	// Version returns the wiki version string, used as a liveness check.
	Version(ctx context.Context) (string, error)
	// Page returns a page's current content, empty when it does not exist.
	Page(ctx context.Context, name string) (string, error)
	// SetPage writes a page.
	SetPage(ctx context.Context, name, text, summary string) error
}

// Table is one Airtable table connection.
type Table interface {
	List(ctx context.Context, opts *airtable.ListOptions) ([]records.Record, error)
	Get(ctx context.Context, id string) (records.Record, error)
	Update(ctx context.Context, id string, fields records.Fields) (records.Record, error)
}

// Tables resolves definition keys to table connections.
type Tables interface {
	Table(key string) (Table, error)
}

// airtableTables resolves keys against the definitions: defined tables
// use their own base and Airtable name, unknown keys fall back to the
// default base under their own name. Handles are memoized per key so
// the per-handle record cache survives across linked-record lookups
// within one run.
type airtableTables struct {
	client *airtable.Client
	defs   *tabledef.Definitions

	mu      sync.Mutex
	handles map[string]Table
}

// NewTables returns a Tables resolver backed by an Airtable client.
func NewTables(client *airtable.Client, defs *tabledef.Definitions) Tables {
	return &airtableTables{
		client:  client,
		defs:    defs,
		handles: make(map[string]Table),
	}
}

func (a *airtableTables) Table(key string) (Table, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if t, ok := a.handles[key]; ok {
		return t, nil
	}
	var t Table
	if def, err := a.defs.Get(key); err == nil {
		t = a.client.Table(def.Base, def.TableName(key))
	} else {
		t = a.client.Table(a.defs.DefaultBase, key)
	}
	a.handles[key] = t
	return t, nil
}

// lookups adapts Tables to the formatter's linked-record resolution.
type lookups struct {
	tables Tables
}

func (l lookups) Table(key string) formats.Resolver {
	t, err := l.tables.Table(key)
	if err != nil {
		return nil
	}
	return t
}

// Client drives sync runs against one wiki.
type Client struct {
	wiki    Wiki
	tables  Tables
	defs    *tabledef.Definitions
	delay   time.Duration
	dryRun  bool
	summary string
}

// Option customizes a Client.
type Option func(*Client)

// WithDelay sets the pause between consecutive page writes.
func WithDelay(d time.Duration) Option {
	return func(c *Client) { c.delay = d }
}

// WithDryRun classifies pages without writing anything to the wiki.
func WithDryRun(dry bool) Option {
	return func(c *Client) { c.dryRun = dry }
}

// WithSummary sets the edit summary attached to synced pages.
func WithSummary(s string) Option {
	return func(c *Client) { c.summary = s }
}

// New returns a sync client.
func New(wiki Wiki, tables Tables, defs *tabledef.Definitions, opts ...Option) *Client {
	c := &Client{
		wiki:    wiki,
		tables:  tables,
		defs:    defs,
		delay:   DefaultDelay,
		summary: DefaultSummary,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Definitions returns the table definitions the client syncs.
func (c *Client) Definitions() *tabledef.Definitions { return c.defs }

// Verify checks the wiki connection and returns its version string.
func (c *Client) Verify(ctx context.Context) (string, error) {
	return c.wiki.Version(ctx)
}

// formatter builds the formatter for a key. Unknown keys get a bare
// generic formatter writing to the scratch table page, so a new
// Airtable table can be previewed before its definition is written.
func (c *Client) formatter(key string) (formats.Formatter, error) {
	if !c.defs.Defined(key) {
		def := &tabledef.Definition{Base: c.defs.DefaultBase, TablePage: "tables:test"}
		return formats.NewGeneric(key, def, lookups{tables: c.tables}), nil
	}
	return formats.New(key, c.defs, lookups{tables: c.tables})
}
