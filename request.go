package fetchx

import (
	"net/http"
	"time"
)

// Headers is a convenience type for setting HTTP headers on a request.
// Keys are canonicalized, so lookups stay case-insensitive.
type Headers map[string]string

// Request describes one in-flight request attempt.
//
// A Request flows through the middleware chain by replacement: middleware
// must never mutate the Request it receives, but may pass a modified Clone
// to its continuation. The descriptor the terminal transport step sees is
// whichever variant the last middleware in the chain supplied.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, PATCH, DELETE, HEAD).
	Method string

	// URL is the request target. It may be relative; the pipeline resolves
	// it against the client's base URL before the first middleware runs.
	URL string

	// Header holds the request headers. http.Header canonicalizes keys, so
	// lookups are case-insensitive regardless of how callers spell them.
	Header http.Header

	// Query holds query parameters merged into the URL at resolution time.
	Query Params

	// Body is the serialized request body, nil for body-less requests.
	Body []byte

	// Timeout overrides the client's default timeout for this request.
	// Zero means "use the client default".
	Timeout time.Duration

	// ID is an opaque correlation id. The pipeline assigns a UUID when
	// empty and sends it as the X-Request-Id header.
	ID string
}

// Clone returns a deep copy of the request. Middleware that wants to modify
// a request must clone it and hand the copy to its continuation.
func (r *Request) Clone() *Request {
	cp := *r
	cp.Header = r.Header.Clone()
	if r.Query != nil {
		q := make(Params, len(r.Query))
		for k, v := range r.Query {
			q[k] = v
		}
		cp.Query = q
	}
	if r.Body != nil {
		cp.Body = append([]byte(nil), r.Body...)
	}
	return &cp
}

// RequestOption configures a single request built by one of the verb
// methods.
type RequestOption interface {
	apply(*Request)
}

// funcOption wraps a function to implement RequestOption.
type funcOption struct {
	f func(*Request)
}

func (fo *funcOption) apply(r *Request) {
	fo.f(r)
}

// WithHeader sets a single header on the request.
func WithHeader(key, value string) RequestOption {
	return &funcOption{
		f: func(r *Request) {
			r.Header.Set(key, value)
		},
	}
}

// WithHeaders sets every header in the given map on the request.
func WithHeaders(headers Headers) RequestOption {
	return &funcOption{
		f: func(r *Request) {
			for k, v := range headers {
				r.Header.Set(k, v)
			}
		},
	}
}

// WithQuery merges query parameters into the request URL. Nil values are
// skipped and slice values expand to repeated keys.
func WithQuery(params Params) RequestOption {
	return &funcOption{
		f: func(r *Request) {
			if r.Query == nil {
				r.Query = Params{}
			}
			for k, v := range params {
				r.Query[k] = v
			}
		},
	}
}

// WithRequestTimeout overrides the client's default timeout for this
// specific request.
func WithRequestTimeout(d time.Duration) RequestOption {
	return &funcOption{
		f: func(r *Request) {
			r.Timeout = d
		},
	}
}

// WithRequestID sets an explicit correlation id instead of the generated
// one.
func WithRequestID(id string) RequestOption {
	return &funcOption{
		f: func(r *Request) {
			r.ID = id
		},
	}
}

// WithRawBody sets a pre-serialized body and its content type, bypassing
// the default JSON serialization of the body-bearing verbs.
func WithRawBody(body []byte, contentType string) RequestOption {
	return &funcOption{
		f: func(r *Request) {
			r.Body = append([]byte(nil), body...)
			if contentType != "" {
				r.Header.Set("Content-Type", contentType)
			}
		},
	}
}
