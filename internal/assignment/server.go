package assignment

import (
	"context"

	"connectrpc.com/connect"

	taskrosterv1 "github.com/taskroster/taskroster/internal/api/taskroster/v1"
	"github.com/taskroster/taskroster/internal/api/taskroster/v1/taskrosterv1connect"
	"github.com/taskroster/taskroster/internal/identity"
)

var _ taskrosterv1connect.AssignmentServiceHandler = (*Server)(nil)

type Server struct {
	service *Service
}

func NewServer(service *Service) *Server {
	return &Server{service: service}
}

func (s *Server) AssignTask(ctx context.Context, req *connect.Request[taskrosterv1.AssignTaskRequest]) (*connect.Response[taskrosterv1.AssignTaskResponse], error) {
	res, err := s.service.AssignTask(ctx, identity.ActorFromContext(ctx), req.Msg.TaskId, req.Msg.UserIds)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&taskrosterv1.AssignTaskResponse{
		TaskId:          res.TaskID,
		TaskName:        res.TaskName,
		AssignedUserIds: res.UserIDs,
	}), nil
}

func (s *Server) ListAssignments(ctx context.Context, req *connect.Request[taskrosterv1.ListAssignmentsRequest]) (*connect.Response[taskrosterv1.ListAssignmentsResponse], error) {
	entries, err := s.service.ListAssignmentsForUser(ctx, identity.ActorFromContext(ctx), req.Msg.UserId)
	if err != nil {
		return nil, err
	}
	protos := make([]*taskrosterv1.AssignmentEntry, len(entries))
	for i, e := range entries {
		protos[i] = &taskrosterv1.AssignmentEntry{
			Assignment:      *toProto(&e.Assignment),
			TaskName:        e.TaskName,
			TaskDescription: e.TaskDescription,
			TaskType:        e.TaskType,
			TaskActive:      e.TaskActive,
		}
	}
	return connect.NewResponse(&taskrosterv1.ListAssignmentsResponse{
		Assignments: protos,
	}), nil
}

func (s *Server) UpdateAssignmentStatus(ctx context.Context, req *connect.Request[taskrosterv1.UpdateAssignmentStatusRequest]) (*connect.Response[taskrosterv1.UpdateAssignmentStatusResponse], error) {
	a, err := s.service.UpdateStatus(ctx, identity.ActorFromContext(ctx), req.Msg.TaskId, req.Msg.Status)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&taskrosterv1.UpdateAssignmentStatusResponse{
		Assignment: toProto(a),
	}), nil
}

func toProto(a *Assignment) *taskrosterv1.Assignment {
	return &taskrosterv1.Assignment{
		Id:          a.ID,
		TaskId:      a.TaskID,
		UserId:      a.UserID,
		Status:      string(a.Status),
		AssignedAt:  a.AssignedAt,
		CompletedAt: a.CompletedAt,
	}
}
