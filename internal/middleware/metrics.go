package middleware

import (
	"context"
	"errors"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rpcTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wongshare",
		Name:      "rpc_requests_total",
		Help:      "RPC calls by procedure and Connect code.",
	}, []string{"procedure", "code"})

	rpcDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wongshare",
		Name:      "rpc_duration_seconds",
		Help:      "RPC handler latency by procedure.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"procedure"})
)

// MetricsInterceptor returns a Connect interceptor that records a request
// counter and a latency histogram per procedure.
func MetricsInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = "unknown"
				var connectErr *connect.Error
				if errors.As(err, &connectErr) {
					code = connectErr.Code().String()
				}
			}
			rpcTotal.WithLabelValues(procedure, code).Inc()
			rpcDuration.WithLabelValues(procedure).Observe(time.Since(start).Seconds())

			return resp, err
		}
	}
}
