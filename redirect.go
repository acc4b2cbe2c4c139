package fetchx

import (
	"context"
	"log/slog"
	"net/http"
)

// RedirectFunc is the page-redirect sink invoked when an unauthorized
// response comes back: a settable "navigate to URL" side effect owned by
// the embedding application.
type RedirectFunc func(target string)

// AuthRedirectConfig configures the authorization-redirect middleware.
type AuthRedirectConfig struct {
	// LoginURL is the target handed to the redirect sink.
	LoginURL string

	// Statuses lists the response statuses that trigger the redirect.
	// Default: 401 and 403.
	Statuses []int

	// Redirect is the sink. A nil sink disables the side effect.
	Redirect RedirectFunc

	// Logger receives sink failures. Defaults to slog.Default().
	Logger *slog.Logger
}

// AuthRedirectMiddleware watches envelopes on the way out and fires the
// redirect sink on unauthorized statuses. A misbehaving sink is recovered
// and logged; the envelope is always delivered to the caller intact.
type AuthRedirectMiddleware struct {
	config AuthRedirectConfig
}

// NewAuthRedirectMiddleware creates an authorization-redirect middleware
// with the given configuration.
func NewAuthRedirectMiddleware(config AuthRedirectConfig) *AuthRedirectMiddleware {
	if len(config.Statuses) == 0 {
		config.Statuses = []int{http.StatusUnauthorized, http.StatusForbidden}
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &AuthRedirectMiddleware{
		config: config,
	}
}

// Execute implements the Middleware interface.
func (m *AuthRedirectMiddleware) Execute(ctx context.Context, req *Request, next Next) (*Response, error) {
	resp, err := next(ctx, req)
	if err != nil || resp == nil {
		return resp, err
	}

	for _, status := range m.config.Statuses {
		if resp.Status == status {
			m.fire(req)
			break
		}
	}

	return resp, nil
}

func (m *AuthRedirectMiddleware) fire(req *Request) {
	if m.config.Redirect == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			m.config.Logger.Error("redirect sink panicked",
				"url", req.URL,
				"request_id", req.ID,
				"panic", r,
			)
		}
	}()

	m.config.Redirect(m.config.LoginURL)
}
