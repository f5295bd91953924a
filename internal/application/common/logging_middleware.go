package common

import (
	"context"
	"fmt"
	"time"
)

// LoggingMiddleware logs every dispatched request with its duration and
// outcome through the context logger.
func LoggingMiddleware() Middleware {
	return func(ctx context.Context, request Request, next HandlerFunc) (Response, error) {
		start := time.Now()
		response, err := next(ctx, request)

		logger := LoggerFromContext(ctx)
		fields := map[string]interface{}{
			"request":     fmt.Sprintf("%T", request),
			"duration_ms": time.Since(start).Milliseconds(),
		}

		if err != nil {
			fields["error"] = err.Error()
			logger.Log("ERROR", "request failed", fields)
			return response, err
		}

		logger.Log("DEBUG", "request handled", fields)
		return response, nil
	}
}
