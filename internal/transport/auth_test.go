package transport

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerAuth(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "https://api.example.org/records", nil)
	require.NoError(t, err)

	(&BearerAuth{Token: "keyTEST"}).Apply(req)
	assert.Equal(t, "Bearer keyTEST", req.Header.Get("Authorization"))

	req.Header.Del("Authorization")
	(&BearerAuth{}).Apply(req)
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestQueryAuth(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "https://wiki.example.org/lib/exe/xmlrpc.php", nil)
	require.NoError(t, err)

	(&QueryAuth{Param: "u", Value: "katja"}).Apply(req)
	assert.Equal(t, "katja", req.URL.Query().Get("u"))

	(&QueryAuth{Param: "p", Value: ""}).Apply(req)
	assert.False(t, req.URL.Query().Has("p"))
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestAuthTransport(t *testing.T) {
	var got *http.Request
	rt := &AuthTransport{
		Base: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			got = r
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader("")),
			}, nil
		}),
		Auths: []Authenticator{
			&QueryAuth{Param: "u", Value: "katja"},
			&QueryAuth{Param: "p", Value: "secret"},
		},
	}

	req, err := http.NewRequest(http.MethodGet, "https://wiki.example.org/lib/exe/xmlrpc.php", nil)
	require.NoError(t, err)

	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.NotNil(t, got)
	assert.Equal(t, "katja", got.URL.Query().Get("u"))
	assert.Equal(t, "secret", got.URL.Query().Get("p"))
	// The caller's request stays untouched.
	assert.Empty(t, req.URL.RawQuery)
}
