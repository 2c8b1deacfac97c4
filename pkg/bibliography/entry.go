package bibliography

import (
	"fmt"
	"strings"

	"github.com/nickng/bibtex"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/innovationsinfundraising/wikisync/pkg/errors"
)

// titleCaser recases journal and book titles, which BibTeX records
// deliver in inconsistent casings.
var titleCaser = cases.Title(language.English)

// texStripper drops the TeX markup characters left in BibTeX field
// values.
var texStripper = strings.NewReplacer("\\", "", "{", "", "}", "")

// Entry is the bibliographic data of one paper, parsed from BibTeX.
type Entry struct {
	// Type is the BibTeX entry type: article, incollection, techreport,
	// book or misc.
	Type string
	// Authors holds names as written in the record, "Last, First" or
	// "First Last".
	Authors []string
	Year    string
	Title   string

	Journal     string
	Volume      string
	Number      string
	Pages       string
	BookTitle   string
	Institution string
}

// ParseEntry parses the first entry of a BibTeX string.
func ParseEntry(bib string) (*Entry, error) {
	parsed, err := bibtex.Parse(strings.NewReader(bib))
	if err != nil {
		return nil, errors.WrapParse("bibtex", "record", err)
	}
	if len(parsed.Entries) == 0 {
		return nil, &errors.ParseError{Format: "bibtex", Source: "record", Message: "no entries", Err: errors.ErrInvalidInput}
	}
	e := parsed.Entries[0]
	field := func(name string) string {
		if v, ok := e.Fields[name]; ok {
			return strings.TrimSpace(v.String())
		}
		return ""
	}
	entry := &Entry{
		Type:        e.Type,
		Year:        field("year"),
		Title:       texStripper.Replace(field("title")),
		Journal:     recase(field("journal")),
		Volume:      field("volume"),
		Number:      field("number"),
		Pages:       field("pages"),
		BookTitle:   recase(field("booktitle")),
		Institution: field("institution"),
	}
	if authors := field("author"); authors != "" {
		for _, a := range strings.Split(authors, " and ") {
			if a = strings.TrimSpace(a); a != "" {
				entry.Authors = append(entry.Authors, a)
			}
		}
	}
	return entry, nil
}

// recase strips TeX markup and normalizes a title to title case.
func recase(s string) string {
	if s == "" {
		return ""
	}
	return titleCaser.String(strings.ToLower(texStripper.Replace(s)))
}

// lastName extracts an author's last name from either "Last, First" or
// "First Last" form.
func lastName(author string) string {
	if last, _, ok := strings.Cut(author, ","); ok {
		return strings.TrimSpace(last)
	}
	parts := strings.Fields(author)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// AuthorList returns the authors joined for the papers table.
func (e *Entry) AuthorList() string {
	return strings.Join(e.Authors, "; ")
}

// shortYear returns the two-digit year used in parenthetical citations.
func (e *Entry) shortYear() string {
	if len(e.Year) < 2 {
		return e.Year
	}
	return e.Year[len(e.Year)-2:]
}

// Parencite builds the short parenthetical citation: one author cited
// alone, two by both last names, more by the first last name plus "ea".
func (e *Entry) Parencite() string {
	switch len(e.Authors) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("(%s, '%s)", lastName(e.Authors[0]), e.shortYear())
	case 2:
		return fmt.Sprintf("(%s & %s, '%s)", lastName(e.Authors[0]), lastName(e.Authors[1]), e.shortYear())
	default:
		return fmt.Sprintf("(%s ea, '%s)", lastName(e.Authors[0]), e.shortYear())
	}
}

// LinkedTitle renders the italicized title, linked to the full text
// when a URL is known.
func (e *Entry) LinkedTitle(url string) string {
	if url == "" {
		return fmt.Sprintf("//%s//", e.Title)
	}
	return fmt.Sprintf("//[[%s|%s]]//", url, e.Title)
}

// Reference builds the full reference line for the entry type. The
// title argument is the rendered title, usually from LinkedTitle.
func (e *Entry) Reference(title string) string {
	authors := e.AuthorList()
	switch e.Type {
	case "article":
		return fmt.Sprintf("%s, (%s). %s. %s, %s, %s, %s.",
			authors, e.Year, title, e.Journal, e.Volume, e.Number, e.Pages)
	case "incollection":
		return fmt.Sprintf("%s, (%s). %s, %s. In: %s.",
			authors, e.Year, title, e.Pages, e.BookTitle)
	case "techreport":
		return fmt.Sprintf("%s, (%s). %s. %s.",
			authors, e.Year, title, e.Institution)
	default:
		return fmt.Sprintf("%s, (%s). %s.", authors, e.Year, title)
	}
}
