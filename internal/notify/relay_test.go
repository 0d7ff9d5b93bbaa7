package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"superoutine/pkg/circuitbreaker"
	"superoutine/pkg/util"
)

func TestRelayPostsShowNotification(t *testing.T) {
	var got Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	relay := NewRelay(srv.URL, time.Second, zap.NewNop())
	err := relay.Send(context.Background(), "reminder", NewMessage("u1", "", "Time for your habits", "reminder"))
	require.NoError(t, err)

	assert.Equal(t, "show-notification", got.Type)
	assert.Equal(t, DefaultTitle, got.Title)
	assert.Equal(t, "Time for your habits", got.Options.Body)
}

func TestRelayErrorsAreClassified(t *testing.T) {
	code := int32(http.StatusServiceUnavailable)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(atomic.LoadInt32(&code)))
	}))
	defer srv.Close()

	relay := NewRelay(srv.URL, time.Second, zap.NewNop())
	err := relay.Send(context.Background(), "level_up", NewMessage("u1", "t", "b", ""))
	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	retryable, kind := util.IsRetryableError(err)
	assert.True(t, retryable)
	assert.Equal(t, "upstream_unavailable", kind)

	atomic.StoreInt32(&code, http.StatusBadRequest)
	err = relay.Send(context.Background(), "level_up", NewMessage("u1", "t", "b", ""))
	retryable, _ = util.IsRetryableError(err)
	assert.False(t, retryable)
}

func TestRelayOpensBreaker(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	relay := NewRelay(srv.URL, time.Second, zap.NewNop())
	threshold := circuitbreaker.DefaultConfig("x").FailureThreshold
	for range threshold {
		_ = relay.Send(context.Background(), "reminder", NewMessage("u1", "t", "b", ""))
	}
	err := relay.Send(context.Background(), "reminder", NewMessage("u1", "t", "b", ""))
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitBreakerOpen)
	assert.Equal(t, int32(threshold), atomic.LoadInt32(&calls))
}
