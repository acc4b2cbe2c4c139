package fetchx

import (
	"context"
	"log/slog"
	"net/http"
)

// TokenProvider supplies the bearer token attached by the auth middleware.
// Providers may perform their own asynchronous lookups; the request context
// bounds them.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// TokenProviderFunc adapts a function to the TokenProvider interface.
type TokenProviderFunc func(ctx context.Context) (string, error)

// Token implements the TokenProvider interface.
func (f TokenProviderFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// StaticToken returns a provider that always yields the given token.
func StaticToken(token string) TokenProvider {
	return TokenProviderFunc(func(context.Context) (string, error) {
		return token, nil
	})
}

// AuthConfig configures the bearer authentication middleware.
type AuthConfig struct {
	// Provider yields the token for each request.
	Provider TokenProvider

	// Scheme is the Authorization scheme. Default: "Bearer".
	Scheme string

	// RequireToken controls the no-token policy. When true, a missing
	// token short-circuits with a synthetic 401 envelope. When false (the
	// default) the request proceeds unauthenticated, typically producing a
	// real 401 round-trip later.
	RequireToken bool

	// Logger receives provider failures. Defaults to slog.Default().
	Logger *slog.Logger
}

// AuthMiddleware attaches an Authorization header from a token provider.
type AuthMiddleware struct {
	config AuthConfig
}

// NewAuthMiddleware creates an auth middleware with the given
// configuration.
func NewAuthMiddleware(config AuthConfig) *AuthMiddleware {
	if config.Scheme == "" {
		config.Scheme = "Bearer"
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &AuthMiddleware{
		config: config,
	}
}

// Execute implements the Middleware interface.
func (m *AuthMiddleware) Execute(ctx context.Context, req *Request, next Next) (*Response, error) {
	var token string
	if m.config.Provider != nil {
		var err error
		token, err = m.config.Provider.Token(ctx)
		if err != nil {
			m.config.Logger.Warn("token provider failed",
				"url", req.URL,
				"request_id", req.ID,
				"error", err,
			)
			token = ""
		}
	}

	if token == "" {
		if m.config.RequireToken {
			return m.unauthorized(req), nil
		}
		return next(ctx, req)
	}

	r := req.Clone()
	r.Header.Set("Authorization", m.config.Scheme+" "+token)
	return next(ctx, r)
}

// unauthorized builds the synthetic 401 envelope for the fail-fast policy.
// The terminal transport step is never reached.
func (m *AuthMiddleware) unauthorized(req *Request) *Response {
	return &Response{
		Status:     http.StatusUnauthorized,
		StatusText: http.StatusText(http.StatusUnauthorized),
		Headers:    http.Header{},
		URL:        req.URL,
		Err: &ResponseError{
			Message: "authentication token unavailable",
		},
	}
}
