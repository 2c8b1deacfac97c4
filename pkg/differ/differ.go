// Package differ compares freshly formatted wiki content against what
// the wiki currently holds, so the publisher only writes pages that
// actually changed.
package differ

import (
	"fmt"
	"sort"
	"strings"
)

// Action says what the publisher should do with a page.
type Action int

// Actions.
const (
	// Skip means the page already holds the new content.
	Skip Action = iota
	// Create means the page does not exist yet.
	Create
	// Update means the page exists with different content.
	Update
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case Create:
		return "create"
	case Update:
		return "update"
	default:
		return "skip"
	}
}

// Classify decides the action for one page. Existing content is
// compared after trimming trailing whitespace, which the wiki strips on
// save.
func Classify(existing, updated string) Action {
	if existing == "" {
		return Create
	}
	if strings.TrimRight(existing, "\n ") == strings.TrimRight(updated, "\n ") {
		return Skip
	}
	return Update
}

// Changeset accumulates the classified pages of one sync run.
type Changeset struct {
	Created   []string
	Updated   []string
	Unchanged []string
}

// Add records a page under its action.
func (c *Changeset) Add(page string, action Action) {
	switch action {
	case Create:
		c.Created = append(c.Created, page)
	case Update:
		c.Updated = append(c.Updated, page)
	default:
		c.Unchanged = append(c.Unchanged, page)
	}
}

// Merge folds another changeset into this one.
func (c *Changeset) Merge(other Changeset) {
	c.Created = append(c.Created, other.Created...)
	c.Updated = append(c.Updated, other.Updated...)
	c.Unchanged = append(c.Unchanged, other.Unchanged...)
}

// Len returns the total number of classified pages.
func (c *Changeset) Len() int {
	return len(c.Created) + len(c.Updated) + len(c.Unchanged)
}

// Changed returns the pages that were written, sorted.
func (c *Changeset) Changed() []string {
	pages := make([]string, 0, len(c.Created)+len(c.Updated))
	pages = append(pages, c.Created...)
	pages = append(pages, c.Updated...)
	sort.Strings(pages)
	return pages
}

// Summary returns a one-line account of the run.
func (c *Changeset) Summary() string {
	return fmt.Sprintf("%d created, %d updated, %d unchanged",
		len(c.Created), len(c.Updated), len(c.Unchanged))
}
