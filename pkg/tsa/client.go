package tsa

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultAuthorityURL is used when no authority endpoint is configured.
const DefaultAuthorityURL = "https://freetsa.org/tsr"

const maxResponseBytes = 1 << 20

type Client struct {
	HTTPClient *http.Client
	URL        string
}

func NewClient(tsaURL string, httpClient *http.Client) *Client {
	if strings.TrimSpace(tsaURL) == "" {
		tsaURL = DefaultAuthorityURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{HTTPClient: httpClient, URL: tsaURL}
}

// Sign requests a timestamp token over the digest from the configured
// authority. Any transport failure, non-granted status, or missing token is
// returned as an error; the caller must not store anything in that case.
func (c *Client) Sign(ctx context.Context, digest []byte) ([]byte, error) {
	reqDER, err := CreateRequest(digest)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(reqDER))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/timestamp-query")
	httpReq.Header.Set("Accept", "application/timestamp-reply")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tsa_http_status_%d", resp.StatusCode)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("tsa_empty_response")
	}
	return ParseResponse(body)
}
