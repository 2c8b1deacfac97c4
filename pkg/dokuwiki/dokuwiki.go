// Package dokuwiki implements the subset of the DokuWiki XML-RPC API
// that wikisync publishes through: reading and writing page content plus
// a version probe used as a connectivity check.
//
// Credentials travel as u/p query parameters on the xmlrpc.php endpoint,
// which is the remote-API authentication mode DokuWiki supports without
// a cookie session.
package dokuwiki

import (
	"context"
	"net/http"
	"strings"

	"github.com/kolo/xmlrpc"

	"github.com/innovationsinfundraising/wikisync/internal/transport"
	"github.com/innovationsinfundraising/wikisync/pkg/errors"
)

// caller abstracts the underlying XML-RPC client so tests can stub it.
type caller interface {
	Call(serviceMethod string, args any, reply any) error
}

// Client talks to one DokuWiki installation.
type Client struct {
	rpc      caller
	endpoint string
}

// Option configures a Client.
type Option func(*options)

type options struct {
	transport http.RoundTripper
	rpc       caller
}

// WithTransport sets the HTTP transport used for XML-RPC requests.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// withCaller replaces the XML-RPC client entirely. Test hook.
func withCaller(c caller) Option {
	return func(o *options) { o.rpc = c }
}

// New creates a client for the wiki at wikiURL, authenticating as the
// given user. wikiURL may be the site root or the xmlrpc.php endpoint.
func New(wikiURL, username, password string, opts ...Option) (*Client, error) {
	if wikiURL == "" {
		return nil, errors.NewConfigError("dokuwiki", "wiki URL is empty", nil)
	}
	if password == "" {
		return nil, &errors.AuthenticationError{
			Service: "dokuwiki",
			Method:  "query",
			Message: "password is empty",
		}
	}

	endpoint := strings.TrimRight(wikiURL, "/")
	if !strings.HasSuffix(endpoint, "xmlrpc.php") {
		endpoint += "/lib/exe/xmlrpc.php"
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	client := &Client{endpoint: endpoint}
	if o.rpc != nil {
		client.rpc = o.rpc
		return client, nil
	}

	// Credentials ride as query parameters on every request, keeping
	// them out of the endpoint string that ends up in logs.
	rt := &transport.AuthTransport{
		Base: o.transport,
		Auths: []transport.Authenticator{
			&transport.QueryAuth{Param: "u", Value: username},
			&transport.QueryAuth{Param: "p", Value: password},
		},
	}
	rpc, err := xmlrpc.NewClient(endpoint, rt)
	if err != nil {
		return nil, errors.WrapAPI("dokuwiki", 0, err)
	}
	client.rpc = rpc
	return client, nil
}

// Version returns the DokuWiki version string. Useful as a cheap check
// that the URL and credentials work before a long sync run.
func (c *Client) Version(ctx context.Context) (string, error) {
	var version string
	if err := c.call(ctx, "dokuwiki.getVersion", nil, &version); err != nil {
		return "", err
	}
	return version, nil
}

// Page returns the raw wikitext of a page. DokuWiki returns an empty
// string for pages that do not exist yet.
func (c *Client) Page(ctx context.Context, name string) (string, error) {
	var content string
	if err := c.call(ctx, "wiki.getPage", []any{name}, &content); err != nil {
		return "", err
	}
	return content, nil
}

// SetPage writes the wikitext of a page, creating it if necessary.
// An empty text deletes the page on the DokuWiki side.
func (c *Client) SetPage(ctx context.Context, name, text, summary string) error {
	attrs := map[string]any{"sum": summary, "minor": false}
	var ok bool
	if err := c.call(ctx, "wiki.putPage", []any{name, text, attrs}, &ok); err != nil {
		return err
	}
	return nil
}

// call runs one XML-RPC method honoring context cancellation. The
// underlying client has no context support, so the call is shipped off
// to a goroutine and abandoned on cancellation.
func (c *Client) call(ctx context.Context, method string, args []any, reply any) error {
	if err := ctx.Err(); err != nil {
		return errors.ErrCanceled
	}

	done := make(chan error, 1)
	go func() {
		done <- c.rpc.Call(method, args, reply)
	}()

	select {
	case <-ctx.Done():
		return errors.ErrCanceled
	case err := <-done:
		if err != nil {
			return &errors.APIError{
				Service:  "dokuwiki",
				Endpoint: method,
				Message:  "call failed",
				Err:      err,
			}
		}
		return nil
	}
}
