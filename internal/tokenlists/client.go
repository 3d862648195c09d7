package tokenlists

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// ClientConfig controls list fetching.
type ClientConfig struct {
	Timeout time.Duration
	Retry   int
}

// Client fetches token-list documents over HTTP.
type Client struct {
	client *http.Client
	retry  int
}

// NewClient builds a fetch client with sane pooling defaults.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Retry == 0 {
		cfg.Retry = 2
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		retry: cfg.Retry,
	}
}

// Fetch downloads and decodes one token-list document.
func (c *Client) Fetch(ctx context.Context, url string) (*TokenList, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retry; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		list, err := c.fetchOnce(ctx, url)
		if err == nil {
			return list, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("fetch token list %s: %w", url, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, url string) (*TokenList, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var list TokenList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode token list: %w", err)
	}
	return &list, nil
}
