package fetchx_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seb7887/fetchx"
	"github.com/seb7887/fetchx/fetchxtest"
)

func newCachedClient(t *testing.T, transport *fetchxtest.MockTransport, now *time.Time) *fetchx.Client {
	t.Helper()

	client := fetchx.NewClient(
		fetchx.WithTransport(transport),
		fetchx.WithBaseURL("http://example.com"),
	)
	client.Use(fetchx.NewCacheMiddleware(fetchx.CacheConfig{
		TTL: time.Minute,
		Now: func() time.Time { return *now },
	}))
	return client
}

func TestCache_HitShortCircuits(t *testing.T) {
	mockTransport := &fetchxtest.MockTransport{
		Func: func(ctx context.Context, req *http.Request) (*http.Response, error) {
			return fetchxtest.NewJSONResponse(http.StatusOK, `{"v":1}`), nil
		},
	}
	now := time.Now()
	client := newCachedClient(t, mockTransport, &now)

	ctx := context.Background()
	first, err := client.Get(ctx, "/data")
	require.NoError(t, err)
	require.True(t, first.OK)
	assert.Equal(t, 1, mockTransport.Calls())

	second, err := client.Get(ctx, "/data")
	require.NoError(t, err)
	assert.Equal(t, 1, mockTransport.Calls(), "cache hit must not reach the transport")
	assert.Equal(t, first.Data, second.Data)
	assert.NotSame(t, first, second, "hits are rewrapped snapshots, not the stored value")
}

func TestCache_ExpiryRefetches(t *testing.T) {
	mockTransport := &fetchxtest.MockTransport{
		Func: func(ctx context.Context, req *http.Request) (*http.Response, error) {
			return fetchxtest.NewJSONResponse(http.StatusOK, `{"v":1}`), nil
		},
	}
	now := time.Now()
	client := newCachedClient(t, mockTransport, &now)

	ctx := context.Background()
	_, err := client.Get(ctx, "/data")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)

	_, err = client.Get(ctx, "/data")
	require.NoError(t, err)
	assert.Equal(t, 2, mockTransport.Calls(), "expired entries must be refetched")
}

func TestCache_OnlyCachesOKResponses(t *testing.T) {
	mockTransport := &fetchxtest.MockTransport{
		Func: func(ctx context.Context, req *http.Request) (*http.Response, error) {
			return fetchxtest.NewResponse(http.StatusInternalServerError, "", ""), nil
		},
	}
	now := time.Now()
	client := newCachedClient(t, mockTransport, &now)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		resp, err := client.Get(ctx, "/flaky")
		require.NoError(t, err)
		assert.False(t, resp.OK)
	}
	assert.Equal(t, 2, mockTransport.Calls(), "failures must not be cached")
}

func TestCache_SkipsMutatingMethods(t *testing.T) {
	mockTransport := &fetchxtest.MockTransport{
		Func: func(ctx context.Context, req *http.Request) (*http.Response, error) {
			return fetchxtest.NewResponse(http.StatusOK, "", ""), nil
		},
	}
	now := time.Now()
	client := newCachedClient(t, mockTransport, &now)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := client.Post(ctx, "/data", map[string]any{"v": i})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, mockTransport.Calls())
}

func TestCache_SeparateKeySpaces(t *testing.T) {
	callCount := 0
	mockTransport := &fetchxtest.MockTransport{
		Func: func(ctx context.Context, req *http.Request) (*http.Response, error) {
			callCount++
			return fetchxtest.NewResponse(http.StatusOK, "text/plain", "v"), nil
		},
	}
	now := time.Now()

	client := fetchx.NewClient(
		fetchx.WithTransport(mockTransport),
		fetchx.WithBaseURL("http://example.com"),
	)
	// two independently-configured caches never share entries
	client.Use(fetchx.NewCacheMiddleware(fetchx.CacheConfig{
		Store: fetchx.NewMemoryCacheStore(),
		Now:   func() time.Time { return now },
	}))
	other := fetchx.NewCacheMiddleware(fetchx.CacheConfig{
		Store: fetchx.NewMemoryCacheStore(),
		Now:   func() time.Time { return now },
	})

	_, err := client.Get(context.Background(), "/data")
	require.NoError(t, err)

	resp, err := other.Execute(context.Background(),
		&fetchx.Request{Method: http.MethodGet, URL: "http://example.com/data", Header: http.Header{}},
		func(ctx context.Context, req *fetchx.Request) (*fetchx.Response, error) {
			callCount++
			return &fetchx.Response{Status: http.StatusOK, StatusText: "OK", Headers: http.Header{}, URL: req.URL, OK: true}, nil
		},
	)
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, 2, callCount, "the second cache instance must miss")
}
