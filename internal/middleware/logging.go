package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor returns a Connect interceptor that logs one line per
// RPC: procedure, calling user, duration, and the Connect code on failure.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()

			resp, err := next(ctx, req)

			attrs := []any{
				"procedure", req.Spec().Procedure,
				"user_id", GetUserID(ctx), // empty if pre-auth
				"duration_ms", time.Since(start).Milliseconds(),
			}
			switch {
			case err == nil:
				slog.Info("RPC ok", attrs...)
			default:
				var connectErr *connect.Error
				if errors.As(err, &connectErr) {
					attrs = append(attrs, "code", connectErr.Code().String(), "error", connectErr.Message())
					slog.Warn("RPC error", attrs...)
				} else {
					attrs = append(attrs, "error", err)
					slog.Error("RPC error", attrs...)
				}
			}

			return resp, err
		}
	}
}
