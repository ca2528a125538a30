package nasa

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeRequest(t *testing.T) {
	tests := []struct {
		name     string
		baseUrl  string
		params   map[string]string
		expected string
	}{
		{
			name:     "Get url with no params",
			baseUrl:  "https://hehe.org/hehe",
			expected: "https://hehe.org/hehe",
		}, {
			name:     "Get url with one param",
			baseUrl:  "https://hehe.org/hehe",
			params:   map[string]string{"count": "1"},
			expected: "https://hehe.org/hehe?count=1",
		}, {
			name:     "Get url with several params",
			baseUrl:  "https://hehe.org/hehe",
			params:   map[string]string{"count": "1", "not": "hehe"},
			expected: "https://hehe.org/hehe?count=1&not=hehe",
		}, {
			name:     "Empty params are dropped",
			baseUrl:  "https://hehe.org/hehe",
			params:   map[string]string{"camera": "", "sol": "1000"},
			expected: "https://hehe.org/hehe?sol=1000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {

			actual, err := makeRequest(tt.baseUrl, tt.params)

			require.NoError(t, err)
			require.Equal(t, tt.expected, actual)
		})
	}
}

func TestRedact(t *testing.T) {
	require.Equal(t, "https://api.nasa.gov/planetary/apod?api_key=REDACTED&date=2024-01-01",
		redact("https://api.nasa.gov/planetary/apod?api_key=secret&date=2024-01-01"))
	require.Equal(t, "https://api.nasa.gov/neo/rest/v1/feed", redact("https://api.nasa.gov/neo/rest/v1/feed"))
}

func TestGet(t *testing.T) {

	tests := []struct {
		name          string
		status        int
		body          string
		params        map[string]string
		expectedQuery url.Values
		expectedError func(t *testing.T, err error)
	}{
		{
			name:          "ok passthrough",
			status:        http.StatusOK,
			body:          `{"foo":"bar"}`,
			params:        map[string]string{"date": "2024-01-01"},
			expectedQuery: url.Values{"api_key": {"secret"}, "date": {"2024-01-01"}},
		}, {
			name:          "optional param left out",
			status:        http.StatusOK,
			body:          `[]`,
			params:        map[string]string{"date": ""},
			expectedQuery: url.Values{"api_key": {"secret"}},
		}, {
			name:          "not found",
			status:        http.StatusNotFound,
			body:          `{"error":"nope"}`,
			expectedQuery: url.Values{"api_key": {"secret"}},
			expectedError: func(t *testing.T, err error) {
				require.True(t, IsNotFound(err))
				var ue *UpstreamError
				require.True(t, errors.As(err, &ue))
				require.Equal(t, `{"error":"nope"}`, string(ue.Body))
			},
		}, {
			name:          "rate limited",
			status:        http.StatusTooManyRequests,
			body:          `{"error":{"code":"OVER_RATE_LIMIT"}}`,
			expectedQuery: url.Values{"api_key": {"secret"}},
			expectedError: func(t *testing.T, err error) {
				require.False(t, IsNotFound(err))
				require.EqualError(t, err, "nasa api responded 429")
			},
		}, {
			name:          "html instead of json",
			status:        http.StatusOK,
			body:          `<html></html>`,
			expectedQuery: url.Values{"api_key": {"secret"}},
			expectedError: func(t *testing.T, err error) {
				require.ErrorIs(t, err, ErrMalformedBody)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {

			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				assert.Equal(t, PathApod, r.URL.Path)
				assert.Equal(t, tt.expectedQuery, r.URL.Query())
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL+"/", "secret", time.Second)
			resp, err := c.Get(context.Background(), PathApod, tt.params)

			require.Equal(t, int32(1), atomic.LoadInt32(&calls))
			require.NotNil(t, resp)
			require.Equal(t, tt.status, resp.StatusCode)
			require.NotContains(t, resp.URL, "secret")
			require.Equal(t, PathApod, resp.Path)

			if tt.expectedError == nil {
				require.NoError(t, err)
				require.Equal(t, tt.body, string(resp.Body))
				return
			}

			tt.expectedError(t, err)
		})
	}
}

func TestGetTransportErrorHidesKey(t *testing.T) {

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", 10*time.Millisecond)
	resp, err := c.Get(context.Background(), PathBrowse, nil)

	require.Error(t, err)
	require.False(t, IsNotFound(err))
	require.False(t, strings.Contains(err.Error(), "secret"))
	require.NotNil(t, resp)
	require.Zero(t, resp.StatusCode)
	require.Equal(t, PathBrowse, resp.Path)
}

func TestGetCanceledContext(t *testing.T) {

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.URL, "secret", time.Second).Get(ctx, PathFeed, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestHasKey(t *testing.T) {
	require.True(t, NewClient("http://x", "k", time.Second).HasKey())
	require.False(t, NewClient("http://x", "", time.Second).HasKey())
}
