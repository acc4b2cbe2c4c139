package fetchx

import (
	"encoding/json"
	"mime"
	"net/http"
	"strings"
)

// Synthetic status texts used when no HTTP exchange completed. Status 0 is
// reserved for these two cases and never represents a real HTTP status.
const (
	StatusTextNetworkError = "Network Error"
	StatusTextAborted      = "Request Aborted"
)

// Messages carried by the synthetic failure envelopes.
const (
	networkErrorMessage = "Failed to fetch"
	abortedMessage      = "Request was aborted"
)

// ResponseError describes why a response is not OK.
type ResponseError struct {
	// Message is a short human-readable description of the failure.
	Message string

	// Body is the best-effort parsed response body for HTTP-status
	// failures, or the underlying error for transport failures.
	Body any
}

// Response is the uniform result value produced for every request.
//
// A Response is immutable after construction. Middleware that wants to
// return a modified response must build a new one (see Copy), never rewrite
// the one it received.
//
// Invariants: OK is true iff Status is in [200,300); Err is non-nil iff OK
// is false; Data is nil whenever OK is false.
type Response struct {
	// Data is the negotiated response body: decoded JSON, a string for
	// textual bodies, a []byte for binary bodies, or nil.
	Data any

	// Status is the HTTP status code, or 0 for transport-level failures.
	Status int

	// StatusText is the status phrase, or one of the synthetic texts
	// ("Network Error", "Request Aborted") when Status is 0.
	StatusText string

	// Headers are the response headers.
	Headers http.Header

	// URL is the final resolved URL, which may differ from the request URL
	// after redirects.
	URL string

	// OK reports whether Status is in [200,300).
	OK bool

	// Err is set iff OK is false.
	Err *ResponseError
}

// Copy returns a structurally-equal response with its own header map and
// error value. Data is shared; negotiated bodies are treated as read-only.
func (r *Response) Copy() *Response {
	cp := *r
	cp.Headers = r.Headers.Clone()
	if r.Err != nil {
		e := *r.Err
		cp.Err = &e
	}
	return &cp
}

// newResponse builds an envelope from a completed HTTP exchange, enforcing
// the OK/Err/Data invariants. For non-OK statuses the negotiated body moves
// into Err.Body and Data is nil.
func newResponse(status int, statusText string, headers http.Header, url string, data any) *Response {
	if statusText == "" {
		statusText = http.StatusText(status)
	}
	if headers == nil {
		headers = http.Header{}
	}

	resp := &Response{
		Status:     status,
		StatusText: statusText,
		Headers:    headers,
		URL:        url,
		OK:         status >= 200 && status < 300,
	}

	if resp.OK {
		resp.Data = data
		return resp
	}

	resp.Err = &ResponseError{
		Message: statusText,
		Body:    data,
	}
	return resp
}

// networkFailureResponse synthesizes the envelope for a send that could not
// complete (DNS failure, connection refused, offline).
func networkFailureResponse(url string, cause error) *Response {
	return &Response{
		Status:     0,
		StatusText: StatusTextNetworkError,
		Headers:    http.Header{},
		URL:        url,
		Err: &ResponseError{
			Message: networkErrorMessage,
			Body:    cause,
		},
	}
}

// abortedResponse synthesizes the envelope for a caller abort or timeout.
func abortedResponse(url string) *Response {
	return &Response{
		Status:     0,
		StatusText: StatusTextAborted,
		Headers:    http.Header{},
		URL:        url,
		Err: &ResponseError{
			Message: abortedMessage,
		},
	}
}

// negotiateBody materializes a raw body according to the declared content
// type: JSON media types decode to structured data, text/* stays a string,
// binary categories become a byte slice, anything else falls back to text.
// An empty body is nil. Negotiation never fails; a body that does not parse
// as its declared type degrades to text.
func negotiateBody(headers http.Header, body []byte) any {
	if len(body) == 0 {
		return nil
	}

	mediaType, _, err := mime.ParseMediaType(headers.Get("Content-Type"))
	if err != nil {
		mediaType = ""
	}

	switch {
	case isJSONType(mediaType):
		var v any
		if err := json.Unmarshal(body, &v); err != nil {
			return string(body)
		}
		return v

	case strings.HasPrefix(mediaType, "text/"):
		return string(body)

	case isBinaryType(mediaType):
		return append([]byte(nil), body...)

	default:
		return string(body)
	}
}

func isJSONType(mediaType string) bool {
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func isBinaryType(mediaType string) bool {
	if mediaType == "application/octet-stream" {
		return true
	}
	for _, prefix := range []string{"image/", "audio/", "video/"} {
		if strings.HasPrefix(mediaType, prefix) {
			return true
		}
	}
	return false
}
