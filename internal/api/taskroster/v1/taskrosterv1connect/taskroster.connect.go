// Package taskrosterv1connect binds the taskroster.v1 services to connect
// handlers and clients.
package taskrosterv1connect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	v1 "github.com/taskroster/taskroster/internal/api/taskroster/v1"
)

const (
	TaskServiceName       = "taskroster.v1.TaskService"
	AssignmentServiceName = "taskroster.v1.AssignmentService"
	UserServiceName       = "taskroster.v1.UserService"
	PermissionServiceName = "taskroster.v1.PermissionService"
	ActivityServiceName   = "taskroster.v1.ActivityService"
)

const (
	TaskServiceCreateTaskProcedure                   = "/taskroster.v1.TaskService/CreateTask"
	TaskServiceGetTaskProcedure                      = "/taskroster.v1.TaskService/GetTask"
	TaskServiceUpdateTaskProcedure                   = "/taskroster.v1.TaskService/UpdateTask"
	TaskServiceDeleteTaskProcedure                   = "/taskroster.v1.TaskService/DeleteTask"
	TaskServiceListActiveTasksForUserProcedure       = "/taskroster.v1.TaskService/ListActiveTasksForUser"
	AssignmentServiceAssignTaskProcedure             = "/taskroster.v1.AssignmentService/AssignTask"
	AssignmentServiceListAssignmentsProcedure        = "/taskroster.v1.AssignmentService/ListAssignments"
	AssignmentServiceUpdateAssignmentStatusProcedure = "/taskroster.v1.AssignmentService/UpdateAssignmentStatus"
	UserServiceListUsersProcedure                    = "/taskroster.v1.UserService/ListUsers"
	UserServiceGetCurrentUserProcedure               = "/taskroster.v1.UserService/GetCurrentUser"
	PermissionServiceListPermissionsProcedure        = "/taskroster.v1.PermissionService/ListPermissions"
	PermissionServiceGrantPermissionProcedure        = "/taskroster.v1.PermissionService/GrantPermission"
	PermissionServiceRevokePermissionProcedure       = "/taskroster.v1.PermissionService/RevokePermission"
	ActivityServiceListTaskActivityProcedure         = "/taskroster.v1.ActivityService/ListTaskActivity"
)

type TaskServiceHandler interface {
	CreateTask(context.Context, *connect.Request[v1.CreateTaskRequest]) (*connect.Response[v1.CreateTaskResponse], error)
	GetTask(context.Context, *connect.Request[v1.GetTaskRequest]) (*connect.Response[v1.GetTaskResponse], error)
	UpdateTask(context.Context, *connect.Request[v1.UpdateTaskRequest]) (*connect.Response[v1.UpdateTaskResponse], error)
	DeleteTask(context.Context, *connect.Request[v1.DeleteTaskRequest]) (*connect.Response[v1.DeleteTaskResponse], error)
	ListActiveTasksForUser(context.Context, *connect.Request[v1.ListActiveTasksForUserRequest]) (*connect.Response[v1.ListActiveTasksForUserResponse], error)
}

type AssignmentServiceHandler interface {
	AssignTask(context.Context, *connect.Request[v1.AssignTaskRequest]) (*connect.Response[v1.AssignTaskResponse], error)
	ListAssignments(context.Context, *connect.Request[v1.ListAssignmentsRequest]) (*connect.Response[v1.ListAssignmentsResponse], error)
	UpdateAssignmentStatus(context.Context, *connect.Request[v1.UpdateAssignmentStatusRequest]) (*connect.Response[v1.UpdateAssignmentStatusResponse], error)
}

type UserServiceHandler interface {
	ListUsers(context.Context, *connect.Request[v1.ListUsersRequest]) (*connect.Response[v1.ListUsersResponse], error)
	GetCurrentUser(context.Context, *connect.Request[v1.GetCurrentUserRequest]) (*connect.Response[v1.GetCurrentUserResponse], error)
}

type PermissionServiceHandler interface {
	ListPermissions(context.Context, *connect.Request[v1.ListPermissionsRequest]) (*connect.Response[v1.ListPermissionsResponse], error)
	GrantPermission(context.Context, *connect.Request[v1.GrantPermissionRequest]) (*connect.Response[v1.GrantPermissionResponse], error)
	RevokePermission(context.Context, *connect.Request[v1.RevokePermissionRequest]) (*connect.Response[v1.RevokePermissionResponse], error)
}

type ActivityServiceHandler interface {
	ListTaskActivity(context.Context, *connect.Request[v1.ListTaskActivityRequest]) (*connect.Response[v1.ListTaskActivityResponse], error)
}

// mux routes the procedures of one service.
func mux(service string, handlers map[string]http.Handler) (string, http.Handler) {
	prefix := "/" + service + "/"
	return prefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok && strings.HasPrefix(r.URL.Path, prefix) {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

func NewTaskServiceHandler(svc TaskServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return mux(TaskServiceName, map[string]http.Handler{
		TaskServiceCreateTaskProcedure:             connect.NewUnaryHandler(TaskServiceCreateTaskProcedure, svc.CreateTask, opts...),
		TaskServiceGetTaskProcedure:                connect.NewUnaryHandler(TaskServiceGetTaskProcedure, svc.GetTask, opts...),
		TaskServiceUpdateTaskProcedure:             connect.NewUnaryHandler(TaskServiceUpdateTaskProcedure, svc.UpdateTask, opts...),
		TaskServiceDeleteTaskProcedure:             connect.NewUnaryHandler(TaskServiceDeleteTaskProcedure, svc.DeleteTask, opts...),
		TaskServiceListActiveTasksForUserProcedure: connect.NewUnaryHandler(TaskServiceListActiveTasksForUserProcedure, svc.ListActiveTasksForUser, opts...),
	})
}

func NewAssignmentServiceHandler(svc AssignmentServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return mux(AssignmentServiceName, map[string]http.Handler{
		AssignmentServiceAssignTaskProcedure:             connect.NewUnaryHandler(AssignmentServiceAssignTaskProcedure, svc.AssignTask, opts...),
		AssignmentServiceListAssignmentsProcedure:        connect.NewUnaryHandler(AssignmentServiceListAssignmentsProcedure, svc.ListAssignments, opts...),
		AssignmentServiceUpdateAssignmentStatusProcedure: connect.NewUnaryHandler(AssignmentServiceUpdateAssignmentStatusProcedure, svc.UpdateAssignmentStatus, opts...),
	})
}

func NewUserServiceHandler(svc UserServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return mux(UserServiceName, map[string]http.Handler{
		UserServiceListUsersProcedure:      connect.NewUnaryHandler(UserServiceListUsersProcedure, svc.ListUsers, opts...),
		UserServiceGetCurrentUserProcedure: connect.NewUnaryHandler(UserServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...),
	})
}

func NewPermissionServiceHandler(svc PermissionServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return mux(PermissionServiceName, map[string]http.Handler{
		PermissionServiceListPermissionsProcedure:  connect.NewUnaryHandler(PermissionServiceListPermissionsProcedure, svc.ListPermissions, opts...),
		PermissionServiceGrantPermissionProcedure:  connect.NewUnaryHandler(PermissionServiceGrantPermissionProcedure, svc.GrantPermission, opts...),
		PermissionServiceRevokePermissionProcedure: connect.NewUnaryHandler(PermissionServiceRevokePermissionProcedure, svc.RevokePermission, opts...),
	})
}

func NewActivityServiceHandler(svc ActivityServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return mux(ActivityServiceName, map[string]http.Handler{
		ActivityServiceListTaskActivityProcedure: connect.NewUnaryHandler(ActivityServiceListTaskActivityProcedure, svc.ListTaskActivity, opts...),
	})
}
