package fetchx_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seb7887/fetchx"
	"github.com/seb7887/fetchx/fetchxtest"
)

func TestNewDefaultClient_PrewiresCSRFAndRedirect(t *testing.T) {
	mockTransport := &fetchxtest.MockTransport{
		Response: fetchxtest.NewResponse(http.StatusUnauthorized, "", ""),
	}

	store := fetchx.NewMemoryKeyValueStore()
	store.Set("XSRF-TOKEN", "tok")

	var redirected string
	client := fetchx.NewDefaultClient(fetchx.DefaultClientConfig{
		CSRF: fetchx.CSRFConfig{Store: store},
		Redirect: fetchx.AuthRedirectConfig{
			LoginURL: "/login",
			Redirect: func(target string) { redirected = target },
		},
	},
		fetchx.WithTransport(mockTransport),
		fetchx.WithBaseURL("http://example.com"),
	)

	resp, err := client.Post(context.Background(), "/orders", map[string]any{"sku": "X"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
	assert.Equal(t, "tok", mockTransport.LastRequest().Header.Get("X-XSRF-TOKEN"))
	assert.Equal(t, "/login", redirected)
}

func TestNewDefaultClient_IndependentInstances(t *testing.T) {
	a := fetchx.NewDefaultClient(fetchx.DefaultClientConfig{})
	b := fetchx.NewDefaultClient(fetchx.DefaultClientConfig{})
	assert.NotSame(t, a, b)
}
