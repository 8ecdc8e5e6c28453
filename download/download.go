// Package download fetches remote media resources to local files.
package download

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// Client downloads resources with a per-fetch timeout.
type Client struct {
	http    *http.Client
	timeout time.Duration
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		http:    &http.Client{},
		timeout: timeout,
	}
}

// Fetch writes the resource at url to dest. A non-2xx response or any
// transport error is a failure; partial output is removed so dest either
// holds the complete resource or does not exist.
func (c *Client) Fetch(ctx context.Context, url, dest string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", url, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("failed to download %s: status %d", url, resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		if rmErr := os.Remove(dest); rmErr != nil {
			log.Printf("failed to remove partial download %s: %v", dest, rmErr)
		}
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return out.Close()
}
