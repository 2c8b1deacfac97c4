package transport

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/innovationsinfundraising/wikisync/pkg/errors"
)

// DecodeResponse decodes a JSON response into the target structure. The
// response body is always closed. Non-200 statuses become APIErrors
// carrying the body text for the operator.
func (c *Client) DecodeResponse(resp *http.Response, target any) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &errors.APIError{
			Service:    c.service,
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", c.service+" response", err)
	}

	return nil
}

// ReadBody reads and returns the response body as a string, closing it.
// Used for the doi.org BibTeX endpoint, which returns text, not JSON.
func (c *Client) ReadBody(resp *http.Response) (string, error) {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.WrapIO("read", "response body", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &errors.APIError{
			Service:    c.service,
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}
	return string(body), nil
}
