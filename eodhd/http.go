package eodhd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

var errMissingKey = errors.New("no EODHD api key configured")

// jwget performs an HTTP GET request to the given address and unmarshals the
// JSON response body into data.
func (c *Client) jwget(ctx context.Context, client *http.Client, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	// never log the query, it holds the api key.
	c.logger.Debug("eodhd request", zap.String("path", req.URL.Path), zap.Int("status", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, data); err != nil {
		// do not serve this response again from the daily cache.
		if cache, ok := client.Transport.(*diskCache); ok {
			cache.forget(req)
		}
		return fmt.Errorf("invalid response from %v%v: %w", req.URL.Host, req.URL.Path, err)
	}
	return nil
}
