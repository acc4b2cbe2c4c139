package fetchx

// DefaultClientConfig configures NewDefaultClient.
type DefaultClientConfig struct {
	// CSRF configures the CSRF middleware. Zero value uses the defaults.
	CSRF CSRFConfig

	// Redirect configures the authorization-redirect middleware. Zero
	// value watches 401/403 with no sink attached.
	Redirect AuthRedirectConfig
}

// NewDefaultClient returns a freshly constructed client preconfigured with
// CSRF token attachment and authorization-redirect handling, the setup most
// embedding applications want. It is an explicit factory: callers who want
// a shared instance construct one and hold it themselves.
func NewDefaultClient(config DefaultClientConfig, opts ...ClientOption) *Client {
	c := NewClient(opts...)
	c.Use(
		NewCSRFMiddleware(config.CSRF),
		NewAuthRedirectMiddleware(config.Redirect),
	)
	return c
}
