package fetchx

import (
	"context"
	"log/slog"
	"time"
)

// LoggingMiddleware logs one structured line per completed request.
type LoggingMiddleware struct {
	logger *slog.Logger
}

// NewLoggingMiddleware creates a logging middleware. A nil logger falls
// back to slog.Default().
func NewLoggingMiddleware(logger *slog.Logger) *LoggingMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingMiddleware{
		logger: logger,
	}
}

// Execute implements the Middleware interface.
func (m *LoggingMiddleware) Execute(ctx context.Context, req *Request, next Next) (*Response, error) {
	start := time.Now()

	resp, err := next(ctx, req)

	if err != nil {
		m.logger.Error("request failed",
			"method", req.Method,
			"url", req.URL,
			"request_id", req.ID,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return resp, err
	}

	m.logger.Info("request",
		"method", req.Method,
		"url", req.URL,
		"request_id", req.ID,
		"status", resp.Status,
		"status_text", resp.StatusText,
		"ok", resp.OK,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return resp, nil
}
