package user

import (
	"context"

	"connectrpc.com/connect"

	taskrosterv1 "github.com/taskroster/taskroster/internal/api/taskroster/v1"
	"github.com/taskroster/taskroster/internal/api/taskroster/v1/taskrosterv1connect"
	"github.com/taskroster/taskroster/internal/authz"
	"github.com/taskroster/taskroster/internal/identity"
	"github.com/taskroster/taskroster/pkg/cerr"
)

var _ taskrosterv1connect.UserServiceHandler = (*Server)(nil)

type Server struct {
	repo Repository
}

func NewServer(repo Repository) *Server {
	return &Server{repo: repo}
}

// ListUsers returns every active user except the caller.
func (s *Server) ListUsers(ctx context.Context, _ *connect.Request[taskrosterv1.ListUsersRequest]) (*connect.Response[taskrosterv1.ListUsersResponse], error) {
	actor := identity.ActorFromContext(ctx)
	if err := authz.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	users, err := s.repo.ListExcept(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, cerr.NewError(cerr.NotFound, "no users found", nil)
	}
	protos := make([]*taskrosterv1.User, len(users))
	for i, u := range users {
		protos[i] = ToProto(u)
	}
	return connect.NewResponse(&taskrosterv1.ListUsersResponse{
		Users: protos,
	}), nil
}

func (s *Server) GetCurrentUser(ctx context.Context, _ *connect.Request[taskrosterv1.GetCurrentUserRequest]) (*connect.Response[taskrosterv1.GetCurrentUserResponse], error) {
	actor := identity.ActorFromContext(ctx)
	if err := authz.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	u, err := s.repo.Get(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&taskrosterv1.GetCurrentUserResponse{
		User:        ToProto(u),
		Permissions: actor.Codenames(),
	}), nil
}

func ToProto(u *User) *taskrosterv1.User {
	return &taskrosterv1.User{
		Id:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		Name:     u.Name,
		Mobile:   u.Mobile,
	}
}
