// Package bibliography resolves DOIs to bibliographic data and formats
// it for the papers table: full BibTeX records, reference strings,
// parenthetical citations, and Crossref citation counts.
package bibliography

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"unicode"

	"github.com/innovationsinfundraising/wikisync/internal/transport"
	"github.com/innovationsinfundraising/wikisync/pkg/errors"
)

// Endpoints for DOI content negotiation and the Crossref REST API.
const (
	DefaultDOIBaseURL      = "https://doi.org"
	DefaultCrossrefBaseURL = "https://api.crossref.org"
)

// Resolver looks up bibliographic data for papers. BibTeX records come
// from doi.org content negotiation, citation counts and DOI searches
// from Crossref.
type Resolver struct {
	client       *transport.Client
	doiBase      string
	crossrefBase string
}

// ResolverOption customizes a Resolver.
type ResolverOption func(*Resolver)

// WithDOIBaseURL overrides the doi.org endpoint.
func WithDOIBaseURL(u string) ResolverOption {
	return func(r *Resolver) { r.doiBase = strings.TrimRight(u, "/") }
}

// WithCrossrefBaseURL overrides the Crossref endpoint.
func WithCrossrefBaseURL(u string) ResolverOption {
	return func(r *Resolver) { r.crossrefBase = strings.TrimRight(u, "/") }
}

// NewResolver returns a Resolver. Neither service needs credentials.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		client:       transport.New("crossref", nil),
		doiBase:      DefaultDOIBaseURL,
		crossrefBase: DefaultCrossrefBaseURL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BibTeX returns the BibTeX record for a DOI via content negotiation.
func (r *Resolver) BibTeX(ctx context.Context, doi string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.doiBase+"/"+doi, nil)
	if err != nil {
		return "", errors.WrapAPI("doi.org", 0, err)
	}
	req.Header.Set("Accept", "application/x-bibtex")
	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	body, err := r.client.ReadBody(resp)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(body), nil
}

// crossrefWork is the part of a Crossref work we read.
type crossrefWork struct {
	DOI       string   `json:"DOI"`
	Title     []string `json:"title"`
	Citations int      `json:"is-referenced-by-count"`
}

// CitationCount returns the number of works citing the DOI.
func (r *Resolver) CitationCount(ctx context.Context, doi string) (int, error) {
	resp, err := r.client.Get(ctx, r.crossrefBase+"/works/"+url.PathEscape(doi))
	if err != nil {
		return 0, err
	}
	var payload struct {
		Message crossrefWork `json:"message"`
	}
	if err := r.client.DecodeResponse(resp, &payload); err != nil {
		return 0, err
	}
	return payload.Message.Citations, nil
}

// SearchDOI finds the DOI for an exact paper title. Crossref title
// search is fuzzy, so candidates are compared on their alphanumeric
// characters alone and only an exact match is returned.
func (r *Resolver) SearchDOI(ctx context.Context, title string) (string, error) {
	q := url.Values{}
	q.Set("query.title", title)
	q.Set("select", "title,DOI")
	q.Set("rows", "5")
	resp, err := r.client.Get(ctx, r.crossrefBase+"/works?"+q.Encode())
	if err != nil {
		return "", err
	}
	var payload struct {
		Message struct {
			Items []crossrefWork `json:"items"`
		} `json:"message"`
	}
	if err := r.client.DecodeResponse(resp, &payload); err != nil {
		return "", err
	}
	want := normalizeTitle(title)
	for _, item := range payload.Message.Items {
		if len(item.Title) == 0 {
			continue
		}
		if normalizeTitle(item.Title[0]) == want {
			return item.DOI, nil
		}
	}
	return "", errors.NewNotFoundError("doi for title", title)
}

// normalizeTitle lowercases a title and keeps only letters and digits.
func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
