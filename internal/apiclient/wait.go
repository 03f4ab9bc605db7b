package apiclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"
)

const (
	readyInitialInterval = 200 * time.Millisecond
	readyMaxInterval     = 5 * time.Second
)

// WaitReady polls an unauthenticated path on the base URL until it answers 2xx, backing
// off exponentially. maxWait of zero retries until ctx is done.
func (c *Client) WaitReady(ctx context.Context, path string, maxWait time.Duration) error {
	if path == "" {
		path = "/health/ready"
	}
	if path[0] != '/' {
		path = "/" + path
	}
	target := c.baseURL + path

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = readyInitialInterval
	bo.MaxInterval = readyMaxInterval
	bo.MaxElapsedTime = maxWait

	attempts := 0
	err := backoff.RetryNotify(func() error {
		attempts++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("%s answered %d", path, resp.StatusCode)
		}
		return nil
	}, backoff.WithContext(bo, ctx), func(err error, next time.Duration) {
		c.logger.Debug("backend not ready", zap.String("path", path), zap.Duration("retry_in", next), zap.Error(err))
	})
	if err != nil {
		return fmt.Errorf("wait ready after %d attempts: %w", attempts, err)
	}
	c.logger.Info("backend ready", zap.String("path", path), zap.Int("attempts", attempts))
	return nil
}
