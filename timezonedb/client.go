// timezonedb/client.go
package timezonedb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	endpointListTimeZone = "list-time-zone"
	endpointGetTimeZone  = "get-time-zone"
)

// Client issues requests against the TimeZoneDB v2.1 API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a Client. A zero timeout falls back to 30 seconds.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("timezonedb"),
	}
}

// FetchZoneList requests the list of every zone.
func (c *Client) FetchZoneList(ctx context.Context) (*Response, error) {
	return c.get(ctx, endpointListTimeZone, nil)
}

// FetchZoneDetails requests the current DST interval of one zone.
func (c *Client) FetchZoneDetails(ctx context.Context, zoneName string) (*Response, error) {
	return c.get(ctx, endpointGetTimeZone, url.Values{
		"by":   {"zone"},
		"zone": {zoneName},
	})
}

// get returns a Response for every HTTP answer regardless of status. The error is
// non-nil only when no answer was obtained.
func (c *Client) get(ctx context.Context, endpoint string, extra url.Values) (*Response, error) {
	params := url.Values{
		"key":    {c.apiKey},
		"format": {"json"},
	}
	for k, v := range extra {
		params[k] = v
	}
	requestURL := c.baseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", endpoint, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make GET request to %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response body: %w", endpoint, err)
	}

	c.logger.Debug("api response",
		zap.String("endpoint", endpoint),
		zap.Int("status_code", resp.StatusCode),
		zap.Int("bytes", len(body)),
	)
	return &Response{
		StatusCode:  resp.StatusCode,
		Reason:      reasonPhrase(resp),
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

func reasonPhrase(resp *http.Response) string {
	// resp.Status is "404 Not Found"; keep the phrase only.
	if _, phrase, ok := strings.Cut(resp.Status, " "); ok && phrase != "" {
		return phrase
	}
	return http.StatusText(resp.StatusCode)
}
