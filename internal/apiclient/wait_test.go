package apiclient

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitReadyRetriesUntilHealthy(t *testing.T) {
	var calls atomic.Int32
	h, _ := newServerHarness(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health/ready", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, h.client.WaitReady(context.Background(), "", 10*time.Second))
	assert.Equal(t, int32(3), calls.Load())
	assert.Empty(t, h.notifier.all())
}

func TestWaitReadyStopsOnContext(t *testing.T) {
	h, _ := newServerHarness(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	err := h.client.WaitReady(ctx, "health/ready", 0)
	assert.Error(t, err)
}
