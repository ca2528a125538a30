// Package nasa talks to the NASA Open API. Every call is a single GET with
// the api key injected; nothing is retried or cached.
package nasa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"lunarwatch/pkg/consts"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	PathApod        = "/planetary/apod"
	PathRoverPhotos = "/mars-photos/api/v1/rovers/%s/photos"
	PathFeed        = "/neo/rest/v1/feed"
	PathLookup      = "/neo/rest/v1/neo/%s"
	PathBrowse      = "/neo/rest/v1/neo/browse"

	redacted = "REDACTED"
)

var ErrMalformedBody = errors.New("upstream body is not valid json")

// UpstreamError is returned for any non-2xx answer from NASA.
type UpstreamError struct {
	StatusCode int
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("nasa api responded %d", e.StatusCode)
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue) && ue.StatusCode == http.StatusNotFound
}

type Response struct {
	StatusCode int
	Body       []byte
	URL        string // api key redacted
	Path       string // upstream path only, no host or query
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) HasKey() bool {
	return c.apiKey != ""
}

// Get sends one GET to path. Params with empty values are left out of the
// query string. The returned Response is non-nil whenever NASA answered,
// including non-2xx answers that come back together with an *UpstreamError.
func (c *Client) Get(ctx context.Context, path string, params map[string]string) (*Response, error) {

	q := make(map[string]string, len(params)+1)
	for k, v := range params {
		q[k] = v
	}
	q[consts.ApiKey] = c.apiKey

	u, err := makeRequest(c.baseURL+path, q)
	if err != nil {
		return nil, err
	}

	safe := redact(u)
	logrus.WithField("url", safe).Info("nasa request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error carries the full url, key included
		return &Response{URL: safe, Path: path}, fmt.Errorf("get %s: %w", safe, unwrapURLError(err))
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Response{StatusCode: resp.StatusCode, URL: safe, Path: path}, fmt.Errorf("read body: %w", err)
	}

	out := &Response{StatusCode: resp.StatusCode, Body: body, URL: safe, Path: path}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, &UpstreamError{StatusCode: resp.StatusCode, Body: body}
	}

	if !json.Valid(body) {
		return out, ErrMalformedBody
	}

	return out, nil
}

// makeRequest builds the upstream url, skipping empty params
func makeRequest(baseUrl string, params map[string]string) (string, error) {
	ur, err := url.Parse(baseUrl)
	if err != nil {
		return "", err
	}

	q := ur.Query()
	for k, v := range params {
		if v == "" {
			continue
		}
		q.Set(k, v)
	}

	ur.RawQuery = q.Encode()
	return ur.String(), nil
}

func redact(u string) string {
	ur, err := url.Parse(u)
	if err != nil {
		return ""
	}

	q := ur.Query()
	if q.Has(consts.ApiKey) {
		q.Set(consts.ApiKey, redacted)
		ur.RawQuery = q.Encode()
	}

	return ur.String()
}

func unwrapURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}
