package fetchx_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seb7887/fetchx"
	"github.com/seb7887/fetchx/backoff"
	"github.com/seb7887/fetchx/fetchxtest"
)

func retryClient(transport *fetchxtest.MockTransport, config fetchx.RetryConfig) *fetchx.Client {
	if config.Backoff == nil {
		config.Backoff = backoff.NewConstantBackoff(time.Millisecond)
	}
	client := fetchx.NewClient(
		fetchx.WithTransport(transport),
		fetchx.WithBaseURL("http://example.com"),
	)
	client.Use(fetchx.NewRetryMiddleware(config))
	return client
}

func TestRetry_SuccessOnFirstAttempt(t *testing.T) {
	attempts := 0
	mockTransport := &fetchxtest.MockTransport{
		Func: func(ctx context.Context, req *http.Request) (*http.Response, error) {
			attempts++
			return fetchxtest.NewResponse(http.StatusOK, "", ""), nil
		},
	}

	client := retryClient(mockTransport, fetchx.RetryConfig{MaxAttempts: 3})

	resp, err := client.Get(context.Background(), "/x")
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, 1, attempts)
}

func TestRetry_RetriesRetryableStatus(t *testing.T) {
	attempts := 0
	mockTransport := &fetchxtest.MockTransport{
		Func: func(ctx context.Context, req *http.Request) (*http.Response, error) {
			attempts++
			if attempts < 3 {
				return fetchxtest.NewResponse(http.StatusServiceUnavailable, "", ""), nil
			}
			return fetchxtest.NewResponse(http.StatusOK, "", ""), nil
		},
	}

	client := retryClient(mockTransport, fetchx.RetryConfig{MaxAttempts: 3})

	resp, err := client.Get(context.Background(), "/x")
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, 3, attempts)
}

func TestRetry_RetriesNetworkFailures(t *testing.T) {
	attempts := 0
	mockTransport := &fetchxtest.MockTransport{
		Func: func(ctx context.Context, req *http.Request) (*http.Response, error) {
			attempts++
			return nil, &url.Error{Op: "Get", URL: req.URL.String(), Err: errors.New("connection refused")}
		},
	}

	client := retryClient(mockTransport, fetchx.RetryConfig{MaxAttempts: 3})

	resp, err := client.Get(context.Background(), "/x")
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, fetchx.StatusTextNetworkError, resp.StatusText)

	// the final envelope aggregates every attempt's failure
	require.NotNil(t, resp.Err)
	aggregate, ok := resp.Err.Body.(error)
	require.True(t, ok)
	assert.Contains(t, aggregate.Error(), "attempt 1")
	assert.Contains(t, aggregate.Error(), "attempt 3")
}

func TestRetry_DoesNotRetryAbort(t *testing.T) {
	attempts := 0
	mockTransport := &fetchxtest.MockTransport{
		Func: func(ctx context.Context, req *http.Request) (*http.Response, error) {
			attempts++
			return nil, context.Canceled
		},
	}

	client := retryClient(mockTransport, fetchx.RetryConfig{MaxAttempts: 3})

	resp, err := client.Get(context.Background(), "/x")
	require.NoError(t, err)
	assert.Equal(t, fetchx.StatusTextAborted, resp.StatusText)
	assert.Equal(t, 1, attempts, "aborted requests must not be retried")
}

func TestRetry_DoesNotRetryOrdinaryFailures(t *testing.T) {
	attempts := 0
	mockTransport := &fetchxtest.MockTransport{
		Func: func(ctx context.Context, req *http.Request) (*http.Response, error) {
			attempts++
			return fetchxtest.NewResponse(http.StatusNotFound, "", ""), nil
		},
	}

	client := retryClient(mockTransport, fetchx.RetryConfig{MaxAttempts: 3})

	resp, err := client.Get(context.Background(), "/x")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.Equal(t, 1, attempts)
}

func TestRetry_OnlyIdempotentSkipsPost(t *testing.T) {
	attempts := 0
	mockTransport := &fetchxtest.MockTransport{
		Func: func(ctx context.Context, req *http.Request) (*http.Response, error) {
			attempts++
			return fetchxtest.NewResponse(http.StatusServiceUnavailable, "", ""), nil
		},
	}

	client := retryClient(mockTransport, fetchx.RetryConfig{
		MaxAttempts:    3,
		OnlyIdempotent: true,
	})

	resp, err := client.Post(context.Background(), "/x", map[string]any{"a": 1})
	require.NoError(t, err)
	assert.False(t, resp.OK)
	assert.Equal(t, 1, attempts, "POST must not be retried in idempotent-only mode")
}

func TestRetry_CustomShouldRetry(t *testing.T) {
	attempts := 0
	mockTransport := &fetchxtest.MockTransport{
		Func: func(ctx context.Context, req *http.Request) (*http.Response, error) {
			attempts++
			return fetchxtest.NewResponse(http.StatusTeapot, "", ""), nil
		},
	}

	client := retryClient(mockTransport, fetchx.RetryConfig{
		MaxAttempts: 2,
		ShouldRetry: func(resp *fetchx.Response) bool {
			return resp.Status == http.StatusTeapot
		},
	})

	_, err := client.Get(context.Background(), "/x")
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}
