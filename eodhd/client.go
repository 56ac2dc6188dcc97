// Package eodhd implements a stocksim.PriceOracle on top of the EOD Historical Data API.
package eodhd

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/etnz/stocksim"
	"github.com/etnz/stocksim/date"
)

// DefaultBaseURL is the EODHD API root.
const DefaultBaseURL = "https://eodhd.com/api"

// DefaultExchange is appended to tickers that have no exchange suffix.
const DefaultExchange = "US"

// Client fetches quotes and daily prices from EODHD.
//
// Prices are assumed to be in Currency, the currency of the ledger it serves.
type Client struct {
	BaseURL  string
	APIKey   string
	Currency string
	Exchange string // exchange code appended to bare tickers

	quotes   *http.Client // never cached
	history  *http.Client
	cache    bool
	cacheDir string
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for all requests.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.quotes = c }
}

// WithDailyCache caches history responses in dir for the rest of the day. An
// empty dir is the system temporary directory.
func WithDailyCache(dir string) Option {
	return func(cl *Client) { cl.cache, cl.cacheDir = true, dir }
}

// WithLogger sets the logger for HTTP round trips.
func WithLogger(l *zap.Logger) Option {
	return func(cl *Client) { cl.logger = l }
}

// NewClient creates a client for apiKey pricing in currency.
func NewClient(apiKey, currency string, opts ...Option) *Client {
	c := &Client{
		BaseURL:  DefaultBaseURL,
		APIKey:   apiKey,
		Currency: currency,
		Exchange: DefaultExchange,
		quotes:   new(http.Client),
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.history = c.quotes
	if c.cache {
		c.history = &http.Client{Transport: &diskCache{base: c.quotes.Transport, dir: c.cacheDir, logger: c.logger}}
	}
	return c
}

// symbol returns the EODHD symbol for a normalized ticker, e.g. AAPL.US.
func (c *Client) symbol(ticker string) string {
	if strings.Contains(ticker, ".") || c.Exchange == "" {
		return ticker
	}
	return ticker + "." + c.Exchange
}

func (c *Client) endpoint(path string, query url.Values) string {
	query.Set("api_token", c.APIKey)
	query.Set("fmt", "json")
	return strings.TrimSuffix(c.BaseURL, "/") + path + "?" + query.Encode()
}

func unavailable(ticker string, err error) error {
	return fmt.Errorf("%w: %s: %w", stocksim.ErrQuoteUnavailable, ticker, err)
}

// FetchQuote implements stocksim.PriceOracle with the real-time endpoint.
func (c *Client) FetchQuote(ctx context.Context, ticker string) (stocksim.Quote, error) {
	t, err := stocksim.NormalizeTicker(ticker)
	if err != nil {
		return stocksim.Quote{}, err
	}
	if c.APIKey == "" {
		return stocksim.Quote{}, unavailable(t, errMissingKey)
	}
	// https://eodhd.com/api/real-time/AAPL.US?api_token=demo&fmt=json
	// {"code":"AAPL.US","timestamp":1722456000,"gmtoffset":0,"open":224.37,
	//  "high":224.48,"low":217.02,"close":218.36,"volume":62501000,"previousClose":218.8,...}
	addr := c.endpoint("/real-time/"+url.PathEscape(c.symbol(t)), url.Values{})

	var jobj any
	if err := c.jwget(ctx, c.quotes, addr, &jobj); err != nil {
		return stocksim.Quote{}, unavailable(t, err)
	}
	price, err := pathDecimal("$.close", jobj)
	if err != nil {
		return stocksim.Quote{}, unavailable(t, err)
	}
	if !price.IsPositive() {
		return stocksim.Quote{}, unavailable(t, fmt.Errorf("invalid price %v", price))
	}
	asOf := c.now()
	if ts, err := pathDecimal("$.timestamp", jobj); err == nil && ts.IsPositive() {
		asOf = time.Unix(ts.IntPart(), 0).UTC()
	}
	return stocksim.NewQuote(t, stocksim.M(price, c.Currency), asOf), nil
}

// FetchHistory implements stocksim.PriceOracle with the end of day endpoint.
func (c *Client) FetchHistory(ctx context.Context, ticker string, period date.Period) (stocksim.PriceHistory, error) {
	t, err := stocksim.NormalizeTicker(ticker)
	if err != nil {
		return stocksim.PriceHistory{}, err
	}
	if c.APIKey == "" {
		return stocksim.PriceHistory{}, unavailable(t, errMissingKey)
	}
	// https://eodhd.com/api/eod/MCD.US?api_token=demo&fmt=json&from=2024-01-05&to=2024-02-10
	// [{"date":"2024-02-13","open":675.066,"high":684.219,"low":648.659,"close":668.445,"adjusted_close":67.705,"volume":0}, ...]
	// bounds are included in the response.
	r, err := period.Lookback(date.FromTime(c.now()))
	if err != nil {
		return stocksim.PriceHistory{}, fmt.Errorf("%w: %w", stocksim.ErrInvalidInput, err)
	}
	addr := c.endpoint("/eod/"+url.PathEscape(c.symbol(t)), url.Values{
		"from": {r.From.String()},
		"to":   {r.To.String()},
	})
	type Info struct {
		Date  date.Date       `json:"date"`
		Close decimal.Decimal `json:"close"`
	}
	content := make([]Info, 0)
	if err := c.jwget(ctx, c.history, addr, &content); err != nil {
		return stocksim.PriceHistory{}, unavailable(t, err)
	}
	if len(content) == 0 {
		return stocksim.PriceHistory{}, unavailable(t, fmt.Errorf("no prices in %s", r))
	}
	h := stocksim.PriceHistory{Ticker: t}
	for _, info := range content {
		if !info.Close.IsPositive() {
			return stocksim.PriceHistory{}, unavailable(t, fmt.Errorf("invalid close %v on %s", info.Close, info.Date))
		}
		h.Prices.Append(info.Date, stocksim.M(info.Close, c.Currency))
	}
	return h, nil
}

// pathDecimal reads a number at path in a decoded JSON document.
func pathDecimal(path string, jobj any) (decimal.Decimal, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("error parsing %q: %w", path, err)
	}
	// jsonpath may return a list of one answer or the answer itself.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	switch v := jval.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		// the API reports missing values as "NA"
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("value at %q is not a number: %q", path, v)
		}
		return d, nil
	default:
		return decimal.Decimal{}, fmt.Errorf("value at %q is not a number: %v", path, jval)
	}
}
