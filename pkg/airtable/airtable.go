// Package airtable implements a read-mostly client for the Airtable REST
// API: list records with pagination, fetch single records, and update
// record fields (used to reset Modified flags and to write bibliographic
// data back to the papers table).
package airtable

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/innovationsinfundraising/wikisync/internal/transport"
	"github.com/innovationsinfundraising/wikisync/pkg/errors"
	"github.com/innovationsinfundraising/wikisync/pkg/records"
)

// DefaultBaseURL is the Airtable REST endpoint.
const DefaultBaseURL = "https://api.airtable.com/v0"

// Client talks to the Airtable REST API for a single account.
type Client struct {
	transport *transport.Client
	baseURL   string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Used in tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// New creates a client authenticated with the given API key.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, &errors.AuthenticationError{
			Service: "airtable",
			Method:  "api_key",
			Message: "API key is empty",
		}
	}
	c := &Client{
		transport: transport.New("airtable", &transport.BearerAuth{Token: apiKey}),
		baseURL:   DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Table returns a handle on one table within a base.
func (c *Client) Table(baseID, name string) *Table {
	return &Table{
		client: c,
		baseID: baseID,
		name:   name,
		cache:  make(map[string]records.Record),
	}
}

// Table is a handle on a single Airtable table. Single-record fetches
// are memoized for the lifetime of the handle; linked-record resolution
// hits the same foreign rows repeatedly within one run.
type Table struct {
	client *Client
	baseID string
	name   string

	mu    sync.Mutex
	cache map[string]records.Record
}

// Name returns the table name in the Airtable base.
func (t *Table) Name() string { return t.name }

// BaseID returns the id of the base the table lives in.
func (t *Table) BaseID() string { return t.baseID }

// ListOptions narrows a List call.
type ListOptions struct {
	// Fields restricts the columns returned for each record.
	Fields []string
	// View names an Airtable view to list from.
	View string
	// PageSize caps records per request (Airtable max is 100).
	PageSize int
}

type listResponse struct {
	Records []records.Record `json:"records"`
	Offset  string           `json:"offset"`
}

// List fetches all records from the table, following pagination offsets
// until the table is exhausted.
func (t *Table) List(ctx context.Context, opts *ListOptions) ([]records.Record, error) {
	var all []records.Record
	offset := ""
	for {
		page, next, err := t.listPage(ctx, opts, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if next == "" {
			return all, nil
		}
		offset = next
	}
}

func (t *Table) listPage(ctx context.Context, opts *ListOptions, offset string) ([]records.Record, string, error) {
	query := url.Values{}
	if opts != nil {
		for _, f := range opts.Fields {
			query.Add("fields[]", f)
		}
		if opts.View != "" {
			query.Set("view", opts.View)
		}
		if opts.PageSize > 0 {
			query.Set("pageSize", strconv.Itoa(opts.PageSize))
		}
	}
	if offset != "" {
		query.Set("offset", offset)
	}

	u := t.url("")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	resp, err := t.client.transport.Get(ctx, u)
	if err != nil {
		return nil, "", err
	}
	var result listResponse
	if err := t.client.transport.DecodeResponse(resp, &result); err != nil {
		return nil, "", err
	}
	return result.Records, result.Offset, nil
}

// Get fetches a single record by id.
func (t *Table) Get(ctx context.Context, id string) (records.Record, error) {
	t.mu.Lock()
	if rec, ok := t.cache[id]; ok {
		t.mu.Unlock()
		return rec, nil
	}
	t.mu.Unlock()

	resp, err := t.client.transport.Get(ctx, t.url(id))
	if err != nil {
		return records.Record{}, err
	}
	var rec records.Record
	if err := t.client.transport.DecodeResponse(resp, &rec); err != nil {
		return records.Record{}, err
	}

	t.mu.Lock()
	t.cache[id] = rec
	t.mu.Unlock()
	return rec, nil
}

// Update patches the given fields on a record and returns the updated
// record. Fields not named are left untouched.
func (t *Table) Update(ctx context.Context, id string, fields records.Fields) (records.Record, error) {
	resp, err := t.client.transport.Patch(ctx, t.url(id), map[string]any{"fields": fields})
	if err != nil {
		return records.Record{}, err
	}
	var rec records.Record
	if err := t.client.transport.DecodeResponse(resp, &rec); err != nil {
		return records.Record{}, err
	}

	t.mu.Lock()
	t.cache[id] = rec
	t.mu.Unlock()
	return rec, nil
}

func (t *Table) url(recordID string) string {
	u := fmt.Sprintf("%s/%s/%s", t.client.baseURL, t.baseID, url.PathEscape(t.name))
	if recordID != "" {
		u += "/" + recordID
	}
	return u
}
