package permission

import (
	"context"

	"connectrpc.com/connect"

	taskrosterv1 "github.com/taskroster/taskroster/internal/api/taskroster/v1"
	"github.com/taskroster/taskroster/internal/api/taskroster/v1/taskrosterv1connect"
	"github.com/taskroster/taskroster/internal/identity"
)

var _ taskrosterv1connect.PermissionServiceHandler = (*Server)(nil)

type Server struct {
	service *Service
}

func NewServer(service *Service) *Server {
	return &Server{service: service}
}

func (s *Server) ListPermissions(ctx context.Context, _ *connect.Request[taskrosterv1.ListPermissionsRequest]) (*connect.Response[taskrosterv1.ListPermissionsResponse], error) {
	perms, err := s.service.ListPermissions(ctx, identity.ActorFromContext(ctx))
	if err != nil {
		return nil, err
	}
	protos := make([]*taskrosterv1.Permission, len(perms))
	for i, p := range perms {
		protos[i] = &taskrosterv1.Permission{
			Id:          p.ID,
			Codename:    p.Codename,
			Name:        p.Name,
			Description: p.Description,
		}
	}
	return connect.NewResponse(&taskrosterv1.ListPermissionsResponse{
		Permissions: protos,
	}), nil
}

func (s *Server) GrantPermission(ctx context.Context, req *connect.Request[taskrosterv1.GrantPermissionRequest]) (*connect.Response[taskrosterv1.GrantPermissionResponse], error) {
	if err := s.service.GrantPermission(ctx, identity.ActorFromContext(ctx), req.Msg.UserId, req.Msg.Codename); err != nil {
		return nil, err
	}
	return connect.NewResponse(&taskrosterv1.GrantPermissionResponse{}), nil
}

func (s *Server) RevokePermission(ctx context.Context, req *connect.Request[taskrosterv1.RevokePermissionRequest]) (*connect.Response[taskrosterv1.RevokePermissionResponse], error) {
	if err := s.service.RevokePermission(ctx, identity.ActorFromContext(ctx), req.Msg.UserId, req.Msg.Codename); err != nil {
		return nil, err
	}
	return connect.NewResponse(&taskrosterv1.RevokePermissionResponse{}), nil
}
