package taskrosterv1connect

import (
	"connectrpc.com/connect"

	v1 "github.com/taskroster/taskroster/internal/api/taskroster/v1"
)

// Client calls every taskroster.v1 procedure. Callers must pass the
// connectjson codec option.
type Client struct {
	CreateTask             *connect.Client[v1.CreateTaskRequest, v1.CreateTaskResponse]
	GetTask                *connect.Client[v1.GetTaskRequest, v1.GetTaskResponse]
	UpdateTask             *connect.Client[v1.UpdateTaskRequest, v1.UpdateTaskResponse]
	DeleteTask             *connect.Client[v1.DeleteTaskRequest, v1.DeleteTaskResponse]
	ListActiveTasksForUser *connect.Client[v1.ListActiveTasksForUserRequest, v1.ListActiveTasksForUserResponse]
	AssignTask             *connect.Client[v1.AssignTaskRequest, v1.AssignTaskResponse]
	ListAssignments        *connect.Client[v1.ListAssignmentsRequest, v1.ListAssignmentsResponse]
	UpdateAssignmentStatus *connect.Client[v1.UpdateAssignmentStatusRequest, v1.UpdateAssignmentStatusResponse]
	ListUsers              *connect.Client[v1.ListUsersRequest, v1.ListUsersResponse]
	GetCurrentUser         *connect.Client[v1.GetCurrentUserRequest, v1.GetCurrentUserResponse]
	ListPermissions        *connect.Client[v1.ListPermissionsRequest, v1.ListPermissionsResponse]
	GrantPermission        *connect.Client[v1.GrantPermissionRequest, v1.GrantPermissionResponse]
	RevokePermission       *connect.Client[v1.RevokePermissionRequest, v1.RevokePermissionResponse]
	ListTaskActivity       *connect.Client[v1.ListTaskActivityRequest, v1.ListTaskActivityResponse]
}

func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	return &Client{
		CreateTask:             connect.NewClient[v1.CreateTaskRequest, v1.CreateTaskResponse](httpClient, baseURL+TaskServiceCreateTaskProcedure, opts...),
		GetTask:                connect.NewClient[v1.GetTaskRequest, v1.GetTaskResponse](httpClient, baseURL+TaskServiceGetTaskProcedure, opts...),
		UpdateTask:             connect.NewClient[v1.UpdateTaskRequest, v1.UpdateTaskResponse](httpClient, baseURL+TaskServiceUpdateTaskProcedure, opts...),
		DeleteTask:             connect.NewClient[v1.DeleteTaskRequest, v1.DeleteTaskResponse](httpClient, baseURL+TaskServiceDeleteTaskProcedure, opts...),
		ListActiveTasksForUser: connect.NewClient[v1.ListActiveTasksForUserRequest, v1.ListActiveTasksForUserResponse](httpClient, baseURL+TaskServiceListActiveTasksForUserProcedure, opts...),
		AssignTask:             connect.NewClient[v1.AssignTaskRequest, v1.AssignTaskResponse](httpClient, baseURL+AssignmentServiceAssignTaskProcedure, opts...),
		ListAssignments:        connect.NewClient[v1.ListAssignmentsRequest, v1.ListAssignmentsResponse](httpClient, baseURL+AssignmentServiceListAssignmentsProcedure, opts...),
		UpdateAssignmentStatus: connect.NewClient[v1.UpdateAssignmentStatusRequest, v1.UpdateAssignmentStatusResponse](httpClient, baseURL+AssignmentServiceUpdateAssignmentStatusProcedure, opts...),
		ListUsers:              connect.NewClient[v1.ListUsersRequest, v1.ListUsersResponse](httpClient, baseURL+UserServiceListUsersProcedure, opts...),
		GetCurrentUser:         connect.NewClient[v1.GetCurrentUserRequest, v1.GetCurrentUserResponse](httpClient, baseURL+UserServiceGetCurrentUserProcedure, opts...),
		ListPermissions:        connect.NewClient[v1.ListPermissionsRequest, v1.ListPermissionsResponse](httpClient, baseURL+PermissionServiceListPermissionsProcedure, opts...),
		GrantPermission:        connect.NewClient[v1.GrantPermissionRequest, v1.GrantPermissionResponse](httpClient, baseURL+PermissionServiceGrantPermissionProcedure, opts...),
		RevokePermission:       connect.NewClient[v1.RevokePermissionRequest, v1.RevokePermissionResponse](httpClient, baseURL+PermissionServiceRevokePermissionProcedure, opts...),
		ListTaskActivity:       connect.NewClient[v1.ListTaskActivityRequest, v1.ListTaskActivityResponse](httpClient, baseURL+ActivityServiceListTaskActivityProcedure, opts...),
	}
}
