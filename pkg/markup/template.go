package markup

import (
	"strings"

	"github.com/innovationsinfundraising/wikisync/pkg/errors"
)

// Replacement pairs an uppercase placeholder token with the formatted
// value that replaces it.
type Replacement struct {
	Token string
	Value string
}

// RenderTemplate substitutes each replacement into the template. Only
// the first occurrence of each token is replaced, matching how the page
// templates are written (one slot per token).
func RenderTemplate(template string, replacements []Replacement) string {
	out := template
	for _, r := range replacements {
		out = strings.Replace(out, r.Token, r.Value, 1)
	}
	return out
}

const (
	datatablesOpen  = "<datatables"
	datatablesClose = "</datatables>"
)

// TableBody returns the table content between the datatables tags, or
// the input unchanged when it carries no wrapper.
func TableBody(table string) string {
	start := strings.Index(table, datatablesOpen)
	if start < 0 {
		return table
	}
	openEnd := strings.Index(table[start:], ">")
	if openEnd < 0 {
		return table
	}
	contentStart := start + openEnd + 1
	end := strings.Index(table[contentStart:], datatablesClose)
	if end < 0 {
		return table
	}
	return table[contentStart : contentStart+end]
}

// SpliceTable replaces the table between the datatables tags of an
// existing page, preserving everything around it. Pages carry one table
// each. Returns an error when the page has no datatables region.
func SpliceTable(page, table string) (string, error) {
	start := strings.Index(page, datatablesOpen)
	if start < 0 {
		return "", errors.NewValidationError("page", page, "no <datatables> region to splice into")
	}
	openEnd := strings.Index(page[start:], ">")
	if openEnd < 0 {
		return "", errors.NewValidationError("page", page, "unterminated <datatables> tag")
	}
	contentStart := start + openEnd + 1

	end := strings.Index(page[contentStart:], datatablesClose)
	if end < 0 {
		return "", errors.NewValidationError("page", page, "missing </datatables> tag")
	}
	contentEnd := contentStart + end

	return page[:contentStart] + table + page[contentEnd:], nil
}
