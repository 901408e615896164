package utils

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"
)

var HTTPClient = &http.Client{
	Timeout: 30 * time.Second,
}

// RetryingClient retries idempotent GET requests with bounded exponential
// backoff and jitter. Mutating requests must not go through this client:
// they are only safe to retry when the caller attaches an idempotency key
// and resubmits deliberately.
type RetryingClient struct {
	Client      *http.Client
	MaxAttempts int
	BaseDelay   time.Duration
}

func NewRetryingClient() *RetryingClient {
	return &RetryingClient{
		Client:      HTTPClient,
		MaxAttempts: 3,
		BaseDelay:   1 * time.Second,
	}
}

// Get performs a GET, retrying transport errors and 5xx responses. 4xx
// responses are terminal and returned as-is.
func (rc *RetryingClient) Get(ctx context.Context, url string, header http.Header) (*http.Response, error) {
	var lastErr error
	delay := rc.BaseDelay
	for attempt := 1; attempt <= rc.MaxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}

		resp, err := rc.Client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}
		if err != nil {
			lastErr = err
		} else {
			resp.Body.Close()
			lastErr = fmt.Errorf("GET %s returned status %d", url, resp.StatusCode)
		}

		if attempt == rc.MaxAttempts {
			break
		}
		jitter := time.Duration(rand.Int63n(int64(delay) / 4))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay + jitter):
		}
		delay *= 2
	}
	return nil, fmt.Errorf("giving up after %d attempts: %w", rc.MaxAttempts, lastErr)
}
