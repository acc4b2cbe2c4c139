package fetchx

import (
	"net/http"
	"time"
)

// CredentialsPolicy controls when stored cookies accompany a request,
// mirroring the omit / same-origin / include cookie-sending policies.
type CredentialsPolicy int

const (
	// CredentialsSameOrigin sends cookies only when the request host
	// matches the base URL host. This is the default; with no base URL
	// configured there is no origin to match, so no cookies are sent.
	CredentialsSameOrigin CredentialsPolicy = iota

	// CredentialsOmit never sends or stores cookies.
	CredentialsOmit

	// CredentialsInclude sends and stores cookies for every host.
	CredentialsInclude
)

// String returns the policy name as used in configuration files.
func (p CredentialsPolicy) String() string {
	switch p {
	case CredentialsOmit:
		return "omit"
	case CredentialsInclude:
		return "include"
	default:
		return "same-origin"
	}
}

// ClientOption configures a Client during construction.
type ClientOption func(*Client)

// WithBaseURL sets the absolute prefix resolved against relative request
// paths.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the default per-request cancellation budget. Zero means
// unlimited. A per-request override takes precedence.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithCredentials sets the cookie-sending policy.
func WithCredentials(policy CredentialsPolicy) ClientOption {
	return func(c *Client) {
		c.credentials = policy
	}
}

// WithTransport replaces the terminal transport. Mainly useful for tests
// and for callers who need a custom http.Client underneath.
func WithTransport(transport Transport) ClientOption {
	return func(c *Client) {
		c.transport = transport
	}
}

// WithCookieJar replaces the cookie store consulted by the credentials
// policy.
func WithCookieJar(jar http.CookieJar) ClientOption {
	return func(c *Client) {
		c.jar = jar
	}
}

// WithMiddleware registers middleware at construction time, in the given
// order.
func WithMiddleware(middlewares ...Middleware) ClientOption {
	return func(c *Client) {
		c.middlewares = append(c.middlewares, middlewares...)
	}
}
