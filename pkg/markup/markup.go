// Package markup builds DokuWiki syntax: links, table rows, bullet
// lists, and the datatables plugin wrapper the wiki uses for sortable
// tables. Everything here is a pure string transformation.
package markup

import (
	"fmt"
	"strings"
)

// Check is the mark rendered for ticked checkbox columns.
const Check = "✓"

// punctuationStripper removes ASCII punctuation. Page names become part
// of wiki URLs, which DokuWiki does not allow punctuation in.
var punctuationStripper = strings.NewReplacer(func() []string {
	const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
	pairs := make([]string, 0, len(punctuation)*2)
	for _, r := range punctuation {
		pairs = append(pairs, string(r), "")
	}
	return pairs
}()...)

// PageName strips punctuation from a label so it can serve as a
// DokuWiki page name.
func PageName(label string) string {
	return punctuationStripper.Replace(label)
}

// InternalLink renders a link to a wiki page in the given namespace,
// displayed with the given label. The page name is derived from the
// label unless a replacement label is wanted by the caller.
func InternalLink(namespace, page, label string) string {
	return fmt.Sprintf("[[%s:%s|%s]]", namespace, PageName(page), label)
}

// ExternalLink renders a link to an external URL. An empty URL renders
// as just the label so rows without sources stay readable.
func ExternalLink(url, label string) string {
	if url == "" {
		return label
	}
	return fmt.Sprintf("[[%s|%s]]", url, label)
}

// ImageEmbed renders an image embed resized to the given width.
func ImageEmbed(url string, width int) string {
	return fmt.Sprintf("{{%s?%d}}\n", url, width)
}

// Popover renders a hover popover span (DokuWiki popover plugin).
func Popover(label, content string) string {
	return fmt.Sprintf("<popover content=\"%s\" trigger='hover'>%s</popover>", content, label)
}

// Bullets renders the non-empty items as a DokuWiki bullet list.
// Returns "" when there is nothing to list.
func Bullets(items []string) string {
	kept := items[:0:0]
	for _, item := range items {
		if item != "" {
			kept = append(kept, item)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return "\n\n  * " + strings.Join(kept, "\n\n  * ") + "\n"
}

// HeaderRow renders a table header row: ^ a ^ b ^.
func HeaderRow(cells []string) string {
	return "\n^ " + strings.Join(cells, " ^ ") + " ^\n"
}

// Row renders a table data row: | a | b |.
func Row(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |\n"
}

// Cell normalizes a free-text value for use inside a table cell:
// whitespace trimmed, carriage returns dropped, and newlines replaced
// with DokuWiki forced line breaks so the row stays on one line.
func Cell(value string) string {
	v := strings.TrimSpace(value)
	v = strings.ReplaceAll(v, "\r", "")
	return strings.ReplaceAll(v, "\n", " \\\\ ")
}

// Datatables wraps table content in the datatables plugin tags. A
// pageLength of 0 omits the attribute.
func Datatables(content string, pageLength int) string {
	if pageLength > 0 {
		return fmt.Sprintf("<datatables page-length=\"%d\">\n%s</datatables>\n", pageLength, content)
	}
	return "<datatables>\n" + content + "</datatables>\n"
}
