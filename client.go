package fetchx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Client is the public surface of the pipeline: verb methods layered on the
// request executor, plus client-wide defaults and the middleware
// registration list.
//
// Registration happens during setup, before traffic begins; after that the
// client is safe for concurrent use and each request runs as an independent
// chain.
type Client struct {
	transport   Transport
	baseURL     string
	timeout     time.Duration
	credentials CredentialsPolicy
	jar         http.CookieJar
	middlewares []Middleware
}

// NewClient creates a client with the provided options.
//
// Example:
//
//	client := fetchx.NewClient(
//	    fetchx.WithBaseURL("https://api.example.com"),
//	    fetchx.WithTimeout(10*time.Second),
//	    fetchx.WithMiddleware(fetchx.NewRetryMiddleware(fetchx.RetryConfig{})),
//	)
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		transport:   NewDefaultTransport(),
		credentials: CredentialsSameOrigin,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.jar == nil && c.credentials != CredentialsOmit {
		// cookiejar.New never fails with a nil options struct
		c.jar, _ = cookiejar.New(nil)
	}

	return c
}

// Use appends middleware to the registration list. Insertion order is the
// request-processing order; responses unwind in reverse. Call before the
// client starts serving traffic.
func (c *Client) Use(middlewares ...Middleware) {
	c.middlewares = append(c.middlewares, middlewares...)
}

// Get executes a GET request against the given path.
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	req, err := newRequest(http.MethodGet, path, nil, opts)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// Post executes a POST request. A non-nil body is serialized as JSON unless
// it is already a []byte or string, and Content-Type defaults to
// application/json.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	req, err := newRequest(http.MethodPost, path, body, opts)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// Put executes a PUT request with the same body handling as Post.
func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	req, err := newRequest(http.MethodPut, path, body, opts)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// Patch executes a PATCH request with the same body handling as Post.
func (c *Client) Patch(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	req, err := newRequest(http.MethodPatch, path, body, opts)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// Delete executes a DELETE request against the given path.
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	req, err := newRequest(http.MethodDelete, path, nil, opts)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// Head executes a HEAD request against the given path.
func (c *Client) Head(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	req, err := newRequest(http.MethodHead, path, nil, opts)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// Do threads a request through the registered middleware chain and the
// terminal transport step, producing exactly one Response.
//
// Ordinary HTTP failures and recognized transport failures (abort, network
// unreachable) never surface as errors; they are encoded in the envelope.
// The returned error is reserved for unexpected host-level failures, which
// propagate unhandled rather than being masked as HTTP results.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	r := req.Clone()
	if r.Method == "" {
		r.Method = http.MethodGet
	}
	if r.Header == nil {
		r.Header = http.Header{}
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.URL = c.resolveTarget(r.URL, r.Query)
	r.Query = nil

	timeout := c.timeout
	if r.Timeout > 0 {
		timeout = r.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		// Releases the timer on every exit path, including short-circuits
		// and re-thrown errors.
		defer cancel()
	}

	return Chain(c.middlewares, c.send)(ctx, r)
}

// send is the terminal transport step: it issues the actual network call
// with the final descriptor, negotiates the body and builds the envelope.
func (c *Client) send(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, err
	}
	for k, vs := range req.Header {
		httpReq.Header[k] = append([]string(nil), vs...)
	}
	if req.ID != "" {
		httpReq.Header.Set("X-Request-Id", req.ID)
	}
	c.attachCookies(httpReq)

	httpResp, err := c.transport.Do(ctx, httpReq)
	if err != nil {
		switch {
		case isAbortError(err):
			return abortedResponse(req.URL), nil
		case isNetworkError(err):
			return networkFailureResponse(req.URL, err), nil
		default:
			return nil, err
		}
	}

	c.storeCookies(httpResp)

	var raw []byte
	if httpResp.Body != nil {
		raw, err = io.ReadAll(httpResp.Body)
		httpResp.Body.Close()
		if err != nil {
			// best-effort: a truncated body still yields an envelope
			raw = nil
		}
	}

	finalURL := req.URL
	if httpResp.Request != nil && httpResp.Request.URL != nil {
		finalURL = httpResp.Request.URL.String()
	}

	data := negotiateBody(httpResp.Header, raw)
	return newResponse(httpResp.StatusCode, http.StatusText(httpResp.StatusCode), httpResp.Header, finalURL, data), nil
}

// resolveTarget merges query parameters into the target and resolves it
// against the base URL. Absolute targets pass through unchanged; bare
// relative targets without a base URL are kept as-is and left for the
// transport to reject.
func (c *Client) resolveTarget(target string, params Params) string {
	if len(params) > 0 {
		target = AppendQueryParams(target, params)
	}

	if u, err := url.Parse(target); err == nil && u.IsAbs() {
		return target
	}
	if c.baseURL == "" {
		return target
	}

	base, err := url.Parse(c.baseURL)
	if err != nil {
		return target
	}
	ref, err := url.Parse(target)
	if err != nil {
		return target
	}
	return base.ResolveReference(ref).String()
}

// attachCookies adds stored cookies to the outgoing request according to
// the credentials policy.
func (c *Client) attachCookies(req *http.Request) {
	if !c.cookiesAllowed(req.URL) {
		return
	}
	for _, cookie := range c.jar.Cookies(req.URL) {
		req.AddCookie(cookie)
	}
}

// storeCookies persists Set-Cookie headers from the response according to
// the credentials policy.
func (c *Client) storeCookies(resp *http.Response) {
	if resp.Request == nil || resp.Request.URL == nil || !c.cookiesAllowed(resp.Request.URL) {
		return
	}
	if cookies := resp.Cookies(); len(cookies) > 0 {
		c.jar.SetCookies(resp.Request.URL, cookies)
	}
}

func (c *Client) cookiesAllowed(u *url.URL) bool {
	if c.jar == nil || u == nil {
		return false
	}
	switch c.credentials {
	case CredentialsInclude:
		return true
	case CredentialsSameOrigin:
		base, err := url.Parse(c.baseURL)
		if err != nil || c.baseURL == "" {
			return false
		}
		return base.Scheme == u.Scheme && base.Host == u.Host
	default:
		return false
	}
}

// newRequest builds the base descriptor for a verb method. Body values are
// serialized as JSON with a default application/json content type; []byte
// and string bodies are sent verbatim.
func newRequest(method, path string, body any, opts []RequestOption) (*Request, error) {
	req := &Request{
		Method: method,
		URL:    path,
		Header: http.Header{},
	}

	if body != nil {
		switch b := body.(type) {
		case []byte:
			req.Body = append([]byte(nil), b...)
		case string:
			req.Body = []byte(b)
		case io.Reader:
			data, err := io.ReadAll(b)
			if err != nil {
				return nil, fmt.Errorf("read request body: %w", err)
			}
			req.Body = data
		default:
			data, err := json.Marshal(b)
			if err != nil {
				return nil, fmt.Errorf("encode request body: %w", err)
			}
			req.Body = data
			req.Header.Set("Content-Type", "application/json")
		}
	}

	for _, opt := range opts {
		opt.apply(req)
	}

	return req, nil
}
