package task

import (
	"context"

	"connectrpc.com/connect"

	taskrosterv1 "github.com/taskroster/taskroster/internal/api/taskroster/v1"
	"github.com/taskroster/taskroster/internal/api/taskroster/v1/taskrosterv1connect"
	"github.com/taskroster/taskroster/internal/identity"
)

var _ taskrosterv1connect.TaskServiceHandler = (*Server)(nil)

type Server struct {
	service *Service
}

func NewServer(service *Service) *Server {
	return &Server{service: service}
}

func (s *Server) CreateTask(ctx context.Context, req *connect.Request[taskrosterv1.CreateTaskRequest]) (*connect.Response[taskrosterv1.CreateTaskResponse], error) {
	t, err := s.service.CreateTask(ctx, identity.ActorFromContext(ctx), CreateInput{
		Name:        req.Msg.Name,
		Description: req.Msg.Description,
		Type:        req.Msg.Type,
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&taskrosterv1.CreateTaskResponse{
		Task: ToProto(t),
	}), nil
}

func (s *Server) GetTask(ctx context.Context, req *connect.Request[taskrosterv1.GetTaskRequest]) (*connect.Response[taskrosterv1.GetTaskResponse], error) {
	t, err := s.service.FetchTask(ctx, identity.ActorFromContext(ctx), req.Msg.Id)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&taskrosterv1.GetTaskResponse{
		Task: ToProto(t),
	}), nil
}

func (s *Server) UpdateTask(ctx context.Context, req *connect.Request[taskrosterv1.UpdateTaskRequest]) (*connect.Response[taskrosterv1.UpdateTaskResponse], error) {
	t, err := s.service.UpdateTask(ctx, identity.ActorFromContext(ctx), req.Msg.Id, UpdateInput{
		Name:        req.Msg.Name,
		Description: req.Msg.Description,
		Type:        req.Msg.Type,
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&taskrosterv1.UpdateTaskResponse{
		Task: ToProto(t),
	}), nil
}

func (s *Server) DeleteTask(ctx context.Context, req *connect.Request[taskrosterv1.DeleteTaskRequest]) (*connect.Response[taskrosterv1.DeleteTaskResponse], error) {
	if err := s.service.SoftDeleteTask(ctx, identity.ActorFromContext(ctx), req.Msg.Id); err != nil {
		return nil, err
	}
	return connect.NewResponse(&taskrosterv1.DeleteTaskResponse{}), nil
}

func (s *Server) ListActiveTasksForUser(ctx context.Context, req *connect.Request[taskrosterv1.ListActiveTasksForUserRequest]) (*connect.Response[taskrosterv1.ListActiveTasksForUserResponse], error) {
	limit, offset := int32(50), int32(0)
	if req.Msg.Pagination != nil {
		if req.Msg.Pagination.Limit > 0 {
			limit = req.Msg.Pagination.Limit
		}
		if req.Msg.Pagination.Offset > 0 {
			offset = req.Msg.Pagination.Offset
		}
	}
	tasks, total, err := s.service.FetchAllActiveTasksForUser(ctx, identity.ActorFromContext(ctx), req.Msg.UserId, int(limit), int(offset))
	if err != nil {
		return nil, err
	}
	protos := make([]*taskrosterv1.Task, len(tasks))
	for i, t := range tasks {
		protos[i] = ToProto(t)
	}
	return connect.NewResponse(&taskrosterv1.ListActiveTasksForUserResponse{
		Tasks: protos,
		Pagination: &taskrosterv1.PaginationResponse{
			Total:  int32(total),
			Limit:  limit,
			Offset: offset,
		},
	}), nil
}

func ToProto(t *Task) *taskrosterv1.Task {
	return &taskrosterv1.Task{
		Id:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Type:        string(t.Type),
		Active:      t.Active,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
