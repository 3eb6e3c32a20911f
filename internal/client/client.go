// Package client holds the JSON-over-HTTP plumbing shared by the clients of
// the entity store and the push server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"uk.co.dudmesh.napbook/internal/model"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Path joins escaped segments under the base URL.
func (c *Client) Path(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return c.BaseURL + "/" + strings.Join(escaped, "/")
}

// Do sends body as JSON and returns the response once its status has been
// checked. The caller closes the body.
func (c *Client) Do(ctx context.Context, method string, target string, body interface{}, header http.Header) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %v: %w", method, req.URL.Path, err, model.ErrorUnavailable)
	}
	if err := CheckStatus(res); err != nil {
		res.Body.Close()
		return nil, fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	return res, nil
}

// DoJSON is Do followed by decoding the response body into out.
func (c *Client) DoJSON(ctx context.Context, method string, target string, body interface{}, header http.Header, out interface{}) (*http.Response, error) {
	res, err := c.Do(ctx, method, target, body, header)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("decoding response from %s: %w", target, err)
	}
	return res, nil
}

// CheckStatus maps an unsuccessful status onto the model sentinels.
func CheckStatus(res *http.Response) error {
	switch {
	case res.StatusCode >= 200 && res.StatusCode < 300:
		return nil
	case res.StatusCode == http.StatusBadRequest:
		return model.ErrorBadRequest
	case res.StatusCode == http.StatusForbidden:
		return model.ErrorForbidden
	case res.StatusCode == http.StatusNotFound:
		return model.ErrorNotFound
	case res.StatusCode == http.StatusConflict, res.StatusCode == http.StatusPreconditionFailed:
		return model.ErrorConflict
	default:
		return &model.StoreError{StatusCode: res.StatusCode}
	}
}
