package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// maxFeedSize caps how much of a supplier document is read.
const maxFeedSize = 10 << 20 // 10 MiB

// Client fetches catalog feed documents from supplier-supplied URLs.
type Client struct {
	httpClient *http.Client
}

// NewClient constructs a feed client with sane defaults.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch retrieves and parses a feed document. A non-200 response fails
// before any parsing.
func (c *Client) Fetch(ctx context.Context, url string) (*Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid feed url: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed fetch returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read feed body: %w", err)
	}

	log.Debug().
		Str("url", url).
		Int("bytes", len(raw)).
		Dur("elapsed", time.Since(start)).
		Msg("feed fetched")

	return Parse(raw)
}
