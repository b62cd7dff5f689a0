// Package apiclient is a Go client for the lockdeal HTTP API
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lockdeal/api/types"
	"github.com/openalpha/lockdeal/app"
	buildertypes "github.com/openalpha/lockdeal/x/builder/types"
)

// Config holds client configuration
type Config struct {
	BaseURL       string
	Timeout       time.Duration // Request timeout
	RetryAttempts int           // Retries for reads on transport errors and 5xx
	RetryBackoff  time.Duration
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:       "http://localhost:8080",
		Timeout:       5 * time.Second,
		RetryAttempts: 3,
		RetryBackoff:  100 * time.Millisecond,
	}
}

// APIError is a non-2xx response
type APIError struct {
	Status  int
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

// Client talks to one lockdeal API endpoint
type Client struct {
	config *Config
	http   *http.Client

	// Metrics
	txCount      uint64
	successCount uint64
	failCount    uint64
	totalLatency int64
}

// NewClient creates a new client. httpClient may be nil.
func NewClient(config *Config, httpClient *http.Client) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	return &Client{config: config, http: httpClient}
}

// Submit wraps msg in its envelope and executes it
func (c *Client) Submit(ctx context.Context, msg sdk.Msg) (*types.TxResponse, error) {
	bz, err := app.EncodeMsg(msg)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	atomic.AddUint64(&c.txCount, 1)
	var resp types.TxResponse
	if err := c.do(ctx, http.MethodPost, "/v1/tx", bytes.NewReader(bz), &resp); err != nil {
		atomic.AddUint64(&c.failCount, 1)
		return nil, err
	}
	atomic.AddUint64(&c.successCount, 1)
	atomic.AddInt64(&c.totalLatency, int64(time.Since(start)))
	return &resp, nil
}

// GetPool fetches one pool
func (c *Client) GetPool(ctx context.Context, poolID uint64) (*types.Pool, error) {
	var resp struct {
		Pool *types.Pool `json:"pool"`
	}
	if err := c.get(ctx, "/v1/pools/"+strconv.FormatUint(poolID, 10), &resp); err != nil {
		return nil, err
	}
	return resp.Pool, nil
}

// ListPools fetches a page of pools
func (c *Client) ListPools(ctx context.Context, start uint64, limit int) (*types.ListPoolsResponse, error) {
	q := url.Values{}
	q.Set("start", strconv.FormatUint(start, 10))
	q.Set("limit", strconv.Itoa(limit))
	var resp types.ListPoolsResponse
	if err := c.get(ctx, "/v1/pools?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Releasable fetches the amount withdrawable from a pool now
func (c *Client) Releasable(ctx context.Context, poolID uint64) (*types.ReleasableResponse, error) {
	var resp types.ReleasableResponse
	if err := c.get(ctx, "/v1/pools/"+strconv.FormatUint(poolID, 10)+"/releasable", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PoolsByOwner fetches the pools held by owner
func (c *Client) PoolsByOwner(ctx context.Context, owner string) ([]types.Pool, error) {
	var resp struct {
		Pools []types.Pool `json:"pools"`
	}
	if err := c.get(ctx, "/v1/owners/"+url.PathEscape(owner)+"/pools", &resp); err != nil {
		return nil, err
	}
	return resp.Pools, nil
}

// Unlocks fetches open pools finishing before the given time
func (c *Client) Unlocks(ctx context.Context, before time.Time, limit int) ([]types.Unlock, error) {
	q := url.Values{}
	q.Set("before", strconv.FormatInt(before.Unix(), 10))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var resp struct {
		Unlocks []types.Unlock `json:"unlocks"`
	}
	if err := c.get(ctx, "/v1/unlocks?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp.Unlocks, nil
}

// GetCollateral fetches a collateral pool with its refund pools
func (c *Client) GetCollateral(ctx context.Context, poolID uint64) (*types.Collateral, error) {
	var resp types.Collateral
	if err := c.get(ctx, "/v1/collateral/"+strconv.FormatUint(poolID, 10), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetBalance fetches a vault balance
func (c *Client) GetBalance(ctx context.Context, addr, token string) (*types.Balance, error) {
	var resp types.Balance
	if err := c.get(ctx, "/v1/balances/"+url.PathEscape(addr)+"/"+url.PathEscape(token), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EncodeRebuild asks the server to encode a rebuild payload
func (c *Client) EncodeRebuild(ctx context.Context, req buildertypes.RebuildRequest) (string, error) {
	bz, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	var resp types.EncodeRebuildResponse
	if err := c.do(ctx, http.MethodPost, "/v1/rebuild/encode", bytes.NewReader(bz), &resp); err != nil {
		return "", err
	}
	return resp.Payload, nil
}

// get retries transport failures and server errors
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	var err error
	for attempt := 0; attempt <= c.config.RetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.config.RetryBackoff * time.Duration(attempt)):
			}
		}
		err = c.do(ctx, http.MethodGet, path, nil, out)
		if !retryable(err) {
			return err
		}
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func retryable(err error) bool {
	if err == nil {
		return false
	}
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.Status >= 500
	}
	return true
}

// GetMetrics returns submission counters and the mean latency of successes
func (c *Client) GetMetrics() (txCount, successCount, failCount uint64, avgLatency time.Duration) {
	txCount = atomic.LoadUint64(&c.txCount)
	successCount = atomic.LoadUint64(&c.successCount)
	failCount = atomic.LoadUint64(&c.failCount)

	if successCount > 0 {
		avgLatency = time.Duration(atomic.LoadInt64(&c.totalLatency) / int64(successCount))
	}
	return
}

// ResetMetrics resets all metrics
func (c *Client) ResetMetrics() {
	atomic.StoreUint64(&c.txCount, 0)
	atomic.StoreUint64(&c.successCount, 0)
	atomic.StoreUint64(&c.failCount, 0)
	atomic.StoreInt64(&c.totalLatency, 0)
}
