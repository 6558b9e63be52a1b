package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ZaguanLabs/gotext"
)

// DefaultHost is the public text API host.
const DefaultHost = "https://www.sefaria.org"

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 32 << 20

// SefariaClient implements Fetcher against the v3 texts API.
type SefariaClient struct {
	client *http.Client
	host   string
}

// SefariaConfig holds configuration for the text API client.
type SefariaConfig struct {
	Host       string        // API host (default: DefaultHost)
	Timeout    time.Duration // Per-request timeout (default: 30s)
	HTTPClient *http.Client  // Custom client (optional, overrides Timeout)
}

// NewSefariaClient creates a new text API client.
func NewSefariaClient(cfg SefariaConfig) *SefariaClient {
	host := strings.TrimRight(cfg.Host, "/")
	if host == "" {
		host = DefaultHost
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	return &SefariaClient{
		client: client,
		host:   host,
	}
}

// textResponse is the subset of the v3 texts response we read.
type textResponse struct {
	Ref      string            `json:"ref"`
	HeRef    string            `json:"heRef"`
	Versions []*gotext.Version `json:"versions"`
	Warnings []json.RawMessage `json:"warnings"`
}

// URL returns the request URL for key.
func (c *SefariaClient) URL(key VersionKey) string {
	q := url.Values{}
	q.Set("version", gotext.VersionParam(key.Language, key.VersionTitle))
	return c.host + "/api/v3/text/" + url.PathEscape(key.Ref) + "?" + q.Encode()
}

// FetchVersion fetches a single version of key.Ref.
func (c *SefariaClient) FetchVersion(ctx context.Context, key VersionKey) (*Version, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(key), nil)
	if err != nil {
		return nil, &gotext.ProviderError{Message: "building request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", gotext.UserAgent())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &gotext.ProviderError{
			Message:   "text API call failed",
			Cause:     err,
			Retryable: ctx.Err() == nil && isRetryableError(err),
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &gotext.ProviderError{
			Message:    "reading response body",
			Cause:      err,
			StatusCode: resp.StatusCode,
			Retryable:  true,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &gotext.ProviderError{
			Message:    fmt.Sprintf("text API returned %s: %s", resp.Status, snippet(body)),
			StatusCode: resp.StatusCode,
			Retryable:  isRetryableStatus(resp.StatusCode),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
		}
	}

	return parseResponse(body, resp.StatusCode)
}

func parseResponse(body []byte, status int) (*Version, error) {
	var tr textResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, &gotext.ProviderError{
			Message:    "invalid response format from text API",
			Cause:      err,
			StatusCode: status,
		}
	}

	if len(tr.Versions) == 0 || tr.Versions[0] == nil {
		msg := "no version in response"
		if len(tr.Warnings) > 0 {
			msg += ": " + snippet(tr.Warnings[0])
		}
		return nil, &gotext.ProviderError{Message: msg, StatusCode: status}
	}

	v := tr.Versions[0]
	v.Ref = tr.Ref
	v.HeRef = tr.HeRef
	return v, nil
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// parseRetryAfter reads a Retry-After header given in seconds or as an HTTP date.
// Missing, malformed, and past values yield 0.
func parseRetryAfter(header string, now time.Time) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(header); err == nil && at.After(now) {
		return at.Sub(now)
	}
	return 0
}

func isRetryableError(err error) bool {
	// Check for common retryable conditions
	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"timeout",
		"connection refused",
		"connection reset",
		"temporary",
		"eof",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		s = s[:197] + "..."
	}
	return s
}

// Verify SefariaClient implements Fetcher
var _ Fetcher = (*SefariaClient)(nil)
