package clog

import (
	"context"
	"errors"
	"time"

	"connectrpc.com/connect"
)

type connectConfig struct {
	Filter func(spec connect.Spec) bool
}

type ConnectOption func(*connectConfig)

func WithConnectFilter(filter func(connect.Spec) bool) ConnectOption {
	return func(cfg *connectConfig) {
		cfg.Filter = filter
	}
}

func DefaultConnectHealthCheckUnaryFilter(spec connect.Spec) bool {
	return spec.Procedure != "/grpc.health.v1.Health/Check"
}

// NewSlogConnectInterceptor writes one access log line per unary RPC. It must
// be the outermost interceptor so that the attributes added by inner ones
// are part of the line.
func NewSlogConnectInterceptor(opts ...ConnectOption) connect.Interceptor {
	cfg := connectConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	return connect.UnaryInterceptorFunc(func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			startTime := time.Now()
			ctx = ContextWithSlog(ctx)
			AddAttributes(ctx, map[string]any{
				"method":            req.HTTPMethod(),
				"procedure":         req.Spec().Procedure,
				"idempotency_level": req.Spec().IdempotencyLevel.String(),
			})
			resp, err := next(ctx, req)
			if cfg.Filter != nil && !cfg.Filter(req.Spec()) {
				return resp, err
			}
			if err == nil {
				AddAttributes(ctx, map[string]any{"code": "ok", "duration": time.Since(startTime)})
				logAt(ctx, LevelInfo, "Finished")
				return resp, nil
			}
			var connectErr *connect.Error
			if !errors.As(err, &connectErr) {
				connectErr = connect.NewError(connect.CodeUnknown, err)
			}
			AddAttributes(ctx, map[string]any{
				"code":     connectErr.Code().String(),
				"duration": time.Since(startTime),
			})
			logAt(ctx, ConnectCodeToLevel(connectErr.Code()), connectErr.Message())
			return resp, err
		}
	})
}
