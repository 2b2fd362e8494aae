package activity

import (
	"context"

	"connectrpc.com/connect"

	taskrosterv1 "github.com/taskroster/taskroster/internal/api/taskroster/v1"
	"github.com/taskroster/taskroster/internal/api/taskroster/v1/taskrosterv1connect"
	"github.com/taskroster/taskroster/internal/authz"
	"github.com/taskroster/taskroster/internal/identity"
	"github.com/taskroster/taskroster/internal/permission"
	"github.com/taskroster/taskroster/pkg/cerr"
)

var _ taskrosterv1connect.ActivityServiceHandler = (*Server)(nil)

type Server struct {
	repo Repository
}

func NewServer(repo Repository) *Server {
	return &Server{repo: repo}
}

func (s *Server) ListTaskActivity(ctx context.Context, req *connect.Request[taskrosterv1.ListTaskActivityRequest]) (*connect.Response[taskrosterv1.ListTaskActivityResponse], error) {
	if err := authz.Require(identity.ActorFromContext(ctx), permission.FetchTask); err != nil {
		return nil, err
	}
	if req.Msg.TaskId == "" {
		return nil, cerr.NewValidationError("invalid request", "task_id is required")
	}
	limit, offset := int32(50), int32(0)
	if req.Msg.Pagination != nil {
		if req.Msg.Pagination.Limit > 0 {
			limit = req.Msg.Pagination.Limit
		}
		if req.Msg.Pagination.Offset > 0 {
			offset = req.Msg.Pagination.Offset
		}
	}
	records, total, err := s.repo.ListByTask(ctx, req.Msg.TaskId, int(limit), int(offset))
	if err != nil {
		return nil, err
	}
	protos := make([]*taskrosterv1.ActivityRecord, len(records))
	for i, r := range records {
		protos[i] = &taskrosterv1.ActivityRecord{
			Id:        r.ID,
			TaskId:    r.TaskID,
			EventType: r.EventType,
			ActorId:   r.ActorID,
			Metadata:  r.Metadata,
			CreatedAt: r.CreatedAt,
		}
	}
	return connect.NewResponse(&taskrosterv1.ListTaskActivityResponse{
		Records: protos,
		Pagination: &taskrosterv1.PaginationResponse{
			Total:  int32(total),
			Limit:  limit,
			Offset: offset,
		},
	}), nil
}
