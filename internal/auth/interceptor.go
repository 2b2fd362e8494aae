package auth

import (
	"context"

	"connectrpc.com/connect"

	"github.com/taskroster/taskroster/internal/identity"
	"github.com/taskroster/taskroster/pkg/clog"
)

// NewConnectInterceptor authenticates every unary RPC and hands the actor to
// the handler through the context.
func NewConnectInterceptor(a *Authenticator) connect.Interceptor {
	return connect.UnaryInterceptorFunc(func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			actor, err := a.Authenticate(ctx, req.Header().Get("Authorization"))
			if err != nil {
				return nil, err
			}
			clog.AddUser(ctx, actor.UserID)
			return next(identity.WithActor(ctx, actor), req)
		}
	})
}
