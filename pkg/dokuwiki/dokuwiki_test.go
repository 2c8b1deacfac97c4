package dokuwiki

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innovationsinfundraising/wikisync/pkg/errors"
)

// fakeRPC records calls and plays back canned replies per method.
type fakeRPC struct {
	calls   []string
	args    map[string][]any
	replies map[string]any
	err     error
}

func (f *fakeRPC) Call(method string, args any, reply any) error {
	f.calls = append(f.calls, method)
	if f.args == nil {
		f.args = make(map[string][]any)
	}
	if list, ok := args.([]any); ok {
		f.args[method] = list
	}
	if f.err != nil {
		return f.err
	}
	switch r := reply.(type) {
	case *string:
		if v, ok := f.replies[method].(string); ok {
			*r = v
		}
	case *bool:
		if v, ok := f.replies[method].(bool); ok {
			*r = v
		}
	}
	return nil
}

func newTestClient(t *testing.T, rpc caller) *Client {
	t.Helper()
	client, err := New("https://wiki.example.org", "katja", "secret", withCaller(rpc))
	require.NoError(t, err)
	return client
}

func TestNewValidation(t *testing.T) {
	_, err := New("", "katja", "secret")
	assert.Error(t, err)

	_, err = New("https://wiki.example.org", "katja", "")
	assert.ErrorIs(t, err, errors.ErrAPIKeyRequired)
}

func TestEndpointConstruction(t *testing.T) {
	tests := []struct {
		name    string
		wikiURL string
		want    string
	}{
		{"site root", "https://wiki.example.org", "https://wiki.example.org/lib/exe/xmlrpc.php"},
		{"trailing slash", "https://wiki.example.org/", "https://wiki.example.org/lib/exe/xmlrpc.php"},
		{"explicit endpoint", "https://wiki.example.org/lib/exe/xmlrpc.php", "https://wiki.example.org/lib/exe/xmlrpc.php"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.wikiURL, "katja", "secret", withCaller(&fakeRPC{}))
			require.NoError(t, err)
			assert.Equal(t, tt.want, client.endpoint)
		})
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestQueryCredentials(t *testing.T) {
	var got *url.URL
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		got = r.URL
		body := `<?xml version="1.0"?><methodResponse><params><param><value><string>Release 2024-02-06a</string></value></param></params></methodResponse>`
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"text/xml"}},
			Body:       io.NopCloser(strings.NewReader(body)),
		}, nil
	})

	client, err := New("https://wiki.example.org", "katja", "secret", WithTransport(rt))
	require.NoError(t, err)

	version, err := client.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Release 2024-02-06a", version)

	require.NotNil(t, got)
	assert.Equal(t, "/lib/exe/xmlrpc.php", got.Path)
	assert.Equal(t, "katja", got.Query().Get("u"))
	assert.Equal(t, "secret", got.Query().Get("p"))
}

func TestVersion(t *testing.T) {
	rpc := &fakeRPC{replies: map[string]any{"dokuwiki.getVersion": "Release 2024-02-06a"}}
	client := newTestClient(t, rpc)

	version, err := client.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Release 2024-02-06a", version)
	assert.Equal(t, []string{"dokuwiki.getVersion"}, rpc.calls)
}

func TestPage(t *testing.T) {
	rpc := &fakeRPC{replies: map[string]any{"wiki.getPage": "^ Tool name ^\n| calculator |\n"}}
	client := newTestClient(t, rpc)

	content, err := client.Page(context.Background(), "tables:tools")
	require.NoError(t, err)
	assert.Contains(t, content, "Tool name")
	assert.Equal(t, []any{"tables:tools"}, rpc.args["wiki.getPage"])
}

func TestPageMissingIsEmpty(t *testing.T) {
	client := newTestClient(t, &fakeRPC{replies: map[string]any{}})

	content, err := client.Page(context.Background(), "tables:nothing")
	require.NoError(t, err)
	assert.Equal(t, "", content)
}

func TestSetPage(t *testing.T) {
	rpc := &fakeRPC{replies: map[string]any{"wiki.putPage": true}}
	client := newTestClient(t, rpc)

	err := client.SetPage(context.Background(), "tools:gwwc", "==== GWWC ====\n", "airtable sync")
	require.NoError(t, err)

	args := rpc.args["wiki.putPage"]
	require.Len(t, args, 3)
	assert.Equal(t, "tools:gwwc", args[0])
	attrs, ok := args[2].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "airtable sync", attrs["sum"])
	assert.Equal(t, false, attrs["minor"])
}

func TestCallError(t *testing.T) {
	rpc := &fakeRPC{err: fmt.Errorf("fault 111: user unauthorized")}
	client := newTestClient(t, rpc)

	_, err := client.Page(context.Background(), "tables:tools")
	require.Error(t, err)
	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "dokuwiki", apiErr.Service)
}

func TestCallCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(t, &fakeRPC{})
	_, err := client.Page(ctx, "tables:tools")
	assert.ErrorIs(t, err, errors.ErrCanceled)
}
