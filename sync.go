package wikisync

import (
	"context"
	stderrors "errors"
	"sort"
	"time"

	"github.com/innovationsinfundraising/wikisync/pkg/bibliography"
	"github.com/innovationsinfundraising/wikisync/pkg/differ"
	"github.com/innovationsinfundraising/wikisync/pkg/errors"
	"github.com/innovationsinfundraising/wikisync/pkg/formats"
	"github.com/innovationsinfundraising/wikisync/pkg/logging"
	"github.com/innovationsinfundraising/wikisync/pkg/markup"
	"github.com/innovationsinfundraising/wikisync/pkg/records"
)

// modifiedColumn is the Airtable checkbox editors tick to mark a record
// for the next update run. The syncer resets it after reading.
const modifiedColumn = "Modified"

// Mode selects which records a run covers.
type Mode int

// Modes.
const (
	// Create regenerates output from every record.
	Create Mode = iota
	// Update regenerates output only when records carry the modified
	// flag, and resets the flag.
	Update
)

// Resource selects which wiki output a run writes.
type Resource int

// Resources.
const (
	// TableOnly writes the wiki table page.
	TableOnly Resource = iota
	// PagesOnly writes the per-record pages.
	PagesOnly
	// Both writes the table page and the per-record pages.
	Both
)

func (r Resource) table() bool { return r == TableOnly || r == Both }
func (r Resource) pages() bool { return r == PagesOnly || r == Both }

// Sync runs one table through fetch, format, diff and publish. The
// returned changeset says which pages were created, updated or left
// alone.
func (c *Client) Sync(ctx context.Context, key string, mode Mode, resource Resource) (*differ.Changeset, error) {
	cs := &differ.Changeset{}

	table, err := c.tables.Table(key)
	if err != nil {
		return cs, errors.NewSyncError(key, nil, err)
	}
	recs, err := table.List(ctx, nil)
	if err != nil {
		return cs, errors.NewSyncError(key, nil, err)
	}
	logging.Info().Str("table", key).Int("records", len(recs)).Msg("fetched records")

	f, err := c.formatter(key)
	if err != nil {
		return cs, errors.NewSyncError(key, nil, err)
	}
	def := f.Definition()

	pageRecs := recs
	if mode == Update {
		modified, err := c.resetModified(ctx, table, recs)
		if err != nil {
			return cs, errors.NewSyncError(key, nil, err)
		}
		if len(modified) == 0 {
			logging.Info().Str("table", key).Msg("no modified records, nothing to do")
			return cs, nil
		}
		logging.Info().Str("table", key).Int("modified", len(modified)).Msg("updating modified records")
		// The table page shows every record, so it is rebuilt in
		// full; only the modified records get their pages redone.
		pageRecs = modified
	}

	if resource.table() && def.TablePage != "" {
		content, err := f.Table(ctx, recs)
		if err != nil {
			return cs, errors.NewSyncError(key, nil, err)
		}
		if err := c.publish(ctx, def.TablePage, content, cs); err != nil {
			return cs, errors.NewSyncError(key, []string{def.TablePage}, err)
		}
	}

	if resource.pages() {
		if err := c.syncPages(ctx, key, f, pageRecs, cs); err != nil {
			return cs, err
		}
	}

	logging.Info().Str("table", key).Str("changes", cs.Summary()).Msg("sync finished")
	return cs, nil
}

// syncPages renders and publishes the per-record pages, pausing between
// writes.
func (c *Client) syncPages(ctx context.Context, key string, f formats.Formatter, recs []records.Record, cs *differ.Changeset) error {
	def := f.Definition()
	if def.LinkedPages && def.TemplatePage != "" {
		tpl, err := c.wiki.Page(ctx, def.TemplatePage)
		if err != nil {
			return errors.NewSyncError(key, []string{def.TemplatePage}, err)
		}
		f.SetTemplate(tpl)
	}

	pages, err := f.Pages(ctx, recs)
	if err != nil {
		return errors.NewSyncError(key, nil, err)
	}

	names := make([]string, 0, len(pages))
	for name := range pages {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := c.publish(ctx, name, pages[name], cs); err != nil {
			return errors.NewSyncError(key, []string{name}, err)
		}
	}
	return nil
}

// SyncAll runs every table flagged for the update-all run. Failures are
// logged and do not stop the remaining tables.
func (c *Client) SyncAll(ctx context.Context, mode Mode) (*differ.Changeset, error) {
	total := &differ.Changeset{}
	var errs []error
	for _, key := range c.defs.UpdateAllKeys() {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		cs, err := c.Sync(ctx, key, mode, Both)
		total.Merge(*cs)
		if err != nil {
			logging.Err(err).Str("table", key).Msg("table sync failed")
			errs = append(errs, err)
		}
	}
	return total, stderrors.Join(errs...)
}

// Splice refreshes the table embedded in an existing wiki page without
// touching the content around it.
func (c *Client) Splice(ctx context.Context, key, page string) (*differ.Changeset, error) {
	cs := &differ.Changeset{}

	table, err := c.tables.Table(key)
	if err != nil {
		return cs, errors.NewSyncError(key, nil, err)
	}
	recs, err := table.List(ctx, nil)
	if err != nil {
		return cs, errors.NewSyncError(key, nil, err)
	}
	f, err := c.formatter(key)
	if err != nil {
		return cs, errors.NewSyncError(key, nil, err)
	}
	content, err := f.Table(ctx, recs)
	if err != nil {
		return cs, errors.NewSyncError(key, nil, err)
	}

	existing, err := c.wiki.Page(ctx, page)
	if err != nil {
		return cs, errors.NewSyncError(key, []string{page}, err)
	}
	spliced, err := markup.SpliceTable(existing, markup.TableBody(content))
	if err != nil {
		return cs, errors.NewSyncError(key, []string{page}, err)
	}
	if err := c.publish(ctx, page, spliced, cs); err != nil {
		return cs, errors.NewSyncError(key, []string{page}, err)
	}
	return cs, nil
}

// EnrichPapers fills the bibliographic columns of the papers table from
// DOI and Crossref lookups. Returns the number of records enriched.
func (c *Client) EnrichPapers(ctx context.Context, resolver *bibliography.Resolver) (int, error) {
	table, err := c.tables.Table("papers_mass")
	if err != nil {
		return 0, err
	}
	recs, err := table.List(ctx, nil)
	if err != nil {
		return 0, err
	}
	return bibliography.NewEnricher(resolver, table).EnrichAll(ctx, recs)
}

// resetModified collects the records carrying the modified flag and
// clears the flag on each.
func (c *Client) resetModified(ctx context.Context, table Table, recs []records.Record) ([]records.Record, error) {
	var modified []records.Record
	for _, rec := range recs {
		if !rec.Fields.Bool(modifiedColumn) {
			continue
		}
		modified = append(modified, rec)
		if c.dryRun {
			continue
		}
		if _, err := table.Update(ctx, rec.ID, records.Fields{modifiedColumn: false}); err != nil {
			return nil, err
		}
	}
	return modified, nil
}

// publish classifies one page against the wiki and writes it when it
// changed, pausing afterwards so write bursts stay under the host's
// rate limit.
func (c *Client) publish(ctx context.Context, name, content string, cs *differ.Changeset) error {
	existing, err := c.wiki.Page(ctx, name)
	if err != nil {
		return err
	}
	action := differ.Classify(existing, content)
	cs.Add(name, action)

	log := logging.Default().With().Str("page", name).Str("action", action.String()).Logger()
	if action == differ.Skip {
		log.Debug().Msg("page unchanged")
		return nil
	}
	if c.dryRun {
		log.Info().Msg("dry run, not writing")
		return nil
	}
	if err := c.wiki.SetPage(ctx, name, content, c.summary); err != nil {
		return err
	}
	log.Info().Msg("page written")
	return c.pause(ctx)
}

// pause waits the configured delay, returning early when the context
// ends.
func (c *Client) pause(ctx context.Context) error {
	if c.delay <= 0 {
		return nil
	}
	t := time.NewTimer(c.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
