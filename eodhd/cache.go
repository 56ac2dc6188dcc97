package eodhd

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/etnz/stocksim/date"
)

// diskCache is an http.RoundTripper caching successful JSON responses on disk
// for the current day.
type diskCache struct {
	base   http.RoundTripper // nil is http.DefaultTransport
	dir    string            // empty is os.TempDir()
	logger *zap.Logger
	today  func() date.Date
}

// RoundTrip implements the http.RoundTripper interface. It checks for a cached
// response on disk first. If a fresh cached response is not found, it proceeds
// with the actual HTTP request and caches the new response if it's successful.
func (c *diskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	key := c.key(req)
	if cached, err := c.get(key, req); err == nil {
		c.log().Debug("eodhd cache hit", zap.String("path", req.URL.Path))
		return cached, nil
	}

	base := c.base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}
	if err := c.put(key, resp); err != nil {
		c.log().Warn("eodhd cache write failed (ignored)", zap.Error(err))
	}
	return resp, nil
}

// key is the cache entry of req. There is one key per day, so that entries
// expire every day.
func (c *diskCache) key(req *http.Request) string {
	key := fmt.Sprintf("%s %s %s", c.day(), req.Method, req.URL.String())
	return fmt.Sprintf("eodhd-%x", sha1.Sum([]byte(key)))
}

// forget removes the entry of req, if any.
func (c *diskCache) forget(req *http.Request) {
	if err := os.Remove(c.file(c.key(req))); err != nil && !os.IsNotExist(err) {
		c.log().Warn("eodhd cache eviction failed (ignored)", zap.Error(err))
	}
}

func (c *diskCache) day() date.Date {
	if c.today == nil {
		return date.Today()
	}
	return c.today()
}

func (c *diskCache) log() *zap.Logger {
	if c.logger == nil {
		return zap.NewNop()
	}
	return c.logger
}

func (c *diskCache) file(key string) string {
	dir := c.dir
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, key)
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(c.file(key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
}

// put stores a response to disk cache, unless its body is not JSON. resp.Body
// stays readable.
func (c *diskCache) put(key string, resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return err
	}
	if !json.Valid(body) {
		return errors.New("body is not JSON")
	}
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	return os.WriteFile(c.file(key), content, 0o600)
}
