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

func getWithResponse(t *testing.T, resp *http.Response) *fetchx.Response {
	t.Helper()

	mockTransport := &fetchxtest.MockTransport{Response: resp}
	client := fetchx.NewClient(
		fetchx.WithTransport(mockTransport),
		fetchx.WithBaseURL("http://example.com"),
	)

	envelope, err := client.Get(context.Background(), "/x")
	require.NoError(t, err)
	return envelope
}

func TestNegotiation_JSON(t *testing.T) {
	resp := getWithResponse(t, fetchxtest.NewJSONResponse(http.StatusOK, `{"a":1}`))
	assert.Equal(t, map[string]any{"a": float64(1)}, resp.Data)
}

func TestNegotiation_JSONSuffixMediaType(t *testing.T) {
	resp := getWithResponse(t, fetchxtest.NewResponse(http.StatusOK, "application/problem+json", `{"title":"oops"}`))
	assert.Equal(t, map[string]any{"title": "oops"}, resp.Data)
}

func TestNegotiation_Text(t *testing.T) {
	resp := getWithResponse(t, fetchxtest.NewResponse(http.StatusOK, "text/plain; charset=utf-8", "hello"))
	assert.Equal(t, "hello", resp.Data)
}

func TestNegotiation_Binary(t *testing.T) {
	resp := getWithResponse(t, fetchxtest.NewResponse(http.StatusOK, "application/octet-stream", "\x00\x01\x02"))
	assert.Equal(t, []byte{0, 1, 2}, resp.Data)
}

func TestNegotiation_ImageIsBinary(t *testing.T) {
	resp := getWithResponse(t, fetchxtest.NewResponse(http.StatusOK, "image/png", "png-bytes"))
	assert.Equal(t, []byte("png-bytes"), resp.Data)
}

func TestNegotiation_EmptyBodyIsNil(t *testing.T) {
	resp := getWithResponse(t, fetchxtest.NewResponse(http.StatusOK, "", ""))
	assert.Nil(t, resp.Data)
}

func TestNegotiation_UnknownTypeFallsBackToText(t *testing.T) {
	resp := getWithResponse(t, fetchxtest.NewResponse(http.StatusOK, "application/x-custom", "payload"))
	assert.Equal(t, "payload", resp.Data)
}

func TestNegotiation_MalformedJSONDegradesToText(t *testing.T) {
	resp := getWithResponse(t, fetchxtest.NewJSONResponse(http.StatusOK, `{"broken`))
	assert.Equal(t, `{"broken`, resp.Data)
}

func TestNegotiation_ErrorBodyBestEffort(t *testing.T) {
	resp := getWithResponse(t, fetchxtest.NewJSONResponse(http.StatusBadRequest, `{"error":"bad input"}`))

	assert.False(t, resp.OK)
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Err)
	assert.Equal(t, map[string]any{"error": "bad input"}, resp.Err.Body)
}

func TestResponse_CopyIsIndependent(t *testing.T) {
	resp := getWithResponse(t, fetchxtest.NewResponse(http.StatusNotFound, "text/plain", "gone"))

	cp := resp.Copy()
	cp.Headers.Set("X-Mutated", "yes")

	assert.Empty(t, resp.Headers.Get("X-Mutated"))
	require.NotNil(t, cp.Err)
	assert.NotSame(t, resp.Err, cp.Err)
	assert.Equal(t, resp.Err.Message, cp.Err.Message)
}
