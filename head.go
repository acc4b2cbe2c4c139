package fetchx

import (
	"context"
	"net/http"
	"strconv"
	"time"
)

// HeadMetadata summarizes a resource from a HEAD response's headers. No new
// network semantics are involved; it is a convenience view over Head.
type HeadMetadata struct {
	// Exists reports whether the HEAD request completed with an OK status.
	Exists bool

	ContentType   string
	ContentLength int64
	LastModified  time.Time
	ETag          string
	CacheControl  string
}

// HeadMetadata issues a HEAD request and derives the metadata summary from
// the response headers.
func (c *Client) HeadMetadata(ctx context.Context, path string, opts ...RequestOption) (*HeadMetadata, error) {
	resp, err := c.Head(ctx, path, opts...)
	if err != nil {
		return nil, err
	}

	md := &HeadMetadata{
		Exists:       resp.OK,
		ContentType:  resp.Headers.Get("Content-Type"),
		ETag:         resp.Headers.Get("ETag"),
		CacheControl: resp.Headers.Get("Cache-Control"),
	}

	if v := resp.Headers.Get("Content-Length"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			md.ContentLength = n
		}
	}
	if v := resp.Headers.Get("Last-Modified"); v != "" {
		if t, err := http.ParseTime(v); err == nil {
			md.LastModified = t
		}
	}

	return md, nil
}
