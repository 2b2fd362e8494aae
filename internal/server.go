package internal

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"connectrpc.com/grpchealth"
	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"gorm.io/gorm"

	"github.com/taskroster/taskroster/internal/activity"
	"github.com/taskroster/taskroster/internal/api/taskroster/v1/taskrosterv1connect"
	"github.com/taskroster/taskroster/internal/assignment"
	"github.com/taskroster/taskroster/internal/auth"
	"github.com/taskroster/taskroster/internal/config"
	"github.com/taskroster/taskroster/internal/database"
	"github.com/taskroster/taskroster/internal/permission"
	"github.com/taskroster/taskroster/internal/task"
	"github.com/taskroster/taskroster/internal/user"
	"github.com/taskroster/taskroster/pkg/cerr"
	"github.com/taskroster/taskroster/pkg/clog"
	"github.com/taskroster/taskroster/pkg/connectjson"
	"github.com/taskroster/taskroster/pkg/ratelimit"
)

type Server struct {
	server           *http.Server
	env              *config.Env
	db               *gorm.DB
	authenticator    *auth.Authenticator
	authServer       *auth.Server
	taskServer       *task.Server
	assignmentServer *assignment.Server
	userServer       *user.Server
	permissionServer *permission.Server
	activityServer   *activity.Server
	limiter          *ratelimit.Limiter
}

func NewServer(
	env *config.Env,
	db *gorm.DB,
	authenticator *auth.Authenticator,
	authServer *auth.Server,
	taskServer *task.Server,
	assignmentServer *assignment.Server,
	userServer *user.Server,
	permissionServer *permission.Server,
	activityServer *activity.Server,
) *Server {
	return &Server{
		env:              env,
		db:               db,
		authenticator:    authenticator,
		authServer:       authServer,
		taskServer:       taskServer,
		assignmentServer: assignmentServer,
		userServer:       userServer,
		permissionServer: permissionServer,
		activityServer:   activityServer,
		limiter:          ratelimit.New(env.RateLimitEnv.PerMinute, env.RateLimitEnv.Burst),
	}
}

// Handler returns the complete HTTP handler without CORS and h2c.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(
			clog.SlogChiMiddleware(),
			cerr.NewConvertConnectErrorChiMiddleware(),
			s.limiter.Middleware,
		)
		s.authServer.Routes(r)
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			cerr.SetNewJSONError(r.Context(), cerr.NotFound, "not found", nil)
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			cerr.SetNewJSONError(r.Context(), cerr.Unimplemented, "method not allowed", nil)
		})
	})

	mux := http.NewServeMux()

	mux.Handle("/health", &HealthChecker{db: s.db})
	mux.Handle("/api/", r)
	mux.Handle(grpchealth.NewHandler(grpchealth.NewStaticChecker(
		taskrosterv1connect.TaskServiceName,
		taskrosterv1connect.AssignmentServiceName,
		taskrosterv1connect.UserServiceName,
		taskrosterv1connect.PermissionServiceName,
		taskrosterv1connect.ActivityServiceName,
	)))

	handlerOpts := []connect.HandlerOption{
		connect.WithInterceptors(s.interceptors()...),
		connectjson.WithCodec(),
	}

	mux.Handle(taskrosterv1connect.NewTaskServiceHandler(s.taskServer, handlerOpts...))
	mux.Handle(taskrosterv1connect.NewAssignmentServiceHandler(s.assignmentServer, handlerOpts...))
	mux.Handle(taskrosterv1connect.NewUserServiceHandler(s.userServer, handlerOpts...))
	mux.Handle(taskrosterv1connect.NewPermissionServiceHandler(s.permissionServer, handlerOpts...))
	mux.Handle(taskrosterv1connect.NewActivityServiceHandler(s.activityServer, handlerOpts...))

	return mux
}

// ListenAndServe starts the HTTP server. ctx becomes the base context of
// every request.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := net.JoinHostPort(s.env.HTTPHost, s.env.HTTPPort)
	slog.Info("starting server", "addr", addr)

	s.server = &http.Server{
		Addr: addr,
		Handler: h2c.NewHandler(cors.New(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
		}).Handler(s.Handler()), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// HealthChecker answers 200 while the database is reachable.
type HealthChecker struct {
	db *gorm.DB
}

func (hc *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := database.Ping(ctx, hc.db); err != nil {
		slog.ErrorContext(ctx, "health check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// interceptors run outermost first: the access log sees the converted error
// and the user id added by authentication.
func (s *Server) interceptors() []connect.Interceptor {
	return []connect.Interceptor{
		clog.NewSlogConnectInterceptor(clog.WithConnectFilter(clog.DefaultConnectHealthCheckUnaryFilter)),
		cerr.NewConvertConnectErrorInterceptor(),
		auth.NewConnectInterceptor(s.authenticator),
	}
}
