// Package taskrosterv1 declares the RPC messages of the taskroster.v1
// services. They travel as JSON through the connectjson codec.
package taskrosterv1

import "time"

type PaginationRequest struct {
	Limit  int32 `json:"limit,omitempty"`
	Offset int32 `json:"offset,omitempty"`
}

type PaginationResponse struct {
	Total  int32 `json:"total"`
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

type Task struct {
	Id          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Type        string    `json:"type,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateTaskRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type,omitempty"`
}

type CreateTaskResponse struct {
	Task *Task `json:"task"`
}

type GetTaskRequest struct {
	Id string `json:"id"`
}

type GetTaskResponse struct {
	Task *Task `json:"task"`
}

// UpdateTaskRequest changes only the fields that are set. An empty Type
// clears the task type.
type UpdateTaskRequest struct {
	Id          string  `json:"id"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Type        *string `json:"type,omitempty"`
}

type UpdateTaskResponse struct {
	Task *Task `json:"task"`
}

type DeleteTaskRequest struct {
	Id string `json:"id"`
}

type DeleteTaskResponse struct{}

// ListActiveTasksForUserRequest lists the caller's tasks when UserId is empty.
type ListActiveTasksForUserRequest struct {
	UserId     string             `json:"userId,omitempty"`
	Pagination *PaginationRequest `json:"pagination,omitempty"`
}

type ListActiveTasksForUserResponse struct {
	Tasks      []*Task             `json:"tasks"`
	Pagination *PaginationResponse `json:"pagination"`
}

type AssignTaskRequest struct {
	TaskId  string   `json:"taskId"`
	UserIds []string `json:"userIds"`
}

type AssignTaskResponse struct {
	TaskId          string   `json:"taskId"`
	TaskName        string   `json:"taskName"`
	AssignedUserIds []string `json:"assignedUserIds"`
}

type Assignment struct {
	Id          string     `json:"id"`
	TaskId      string     `json:"taskId"`
	UserId      string     `json:"userId"`
	Status      string     `json:"status"`
	AssignedAt  time.Time  `json:"assignedAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

// AssignmentEntry is an assignment with the task fields denormalized for
// display.
type AssignmentEntry struct {
	Assignment
	TaskName        string `json:"taskName"`
	TaskDescription string `json:"taskDescription"`
	TaskType        string `json:"taskType,omitempty"`
	TaskActive      bool   `json:"taskActive"`
}

// ListAssignmentsRequest lists the caller's assignments when UserId is empty.
type ListAssignmentsRequest struct {
	UserId string `json:"userId,omitempty"`
}

type ListAssignmentsResponse struct {
	Assignments []*AssignmentEntry `json:"assignments"`
}

type UpdateAssignmentStatusRequest struct {
	TaskId string `json:"taskId"`
	Status string `json:"status"`
}

type UpdateAssignmentStatusResponse struct {
	Assignment *Assignment `json:"assignment"`
}

type User struct {
	Id       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Mobile   string `json:"mobile,omitempty"`
}

type ListUsersRequest struct{}

type ListUsersResponse struct {
	Users []*User `json:"users"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User        *User    `json:"user"`
	Permissions []string `json:"permissions"`
}

type Permission struct {
	Id          string `json:"id"`
	Codename    string `json:"codename"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ListPermissionsRequest struct{}

type ListPermissionsResponse struct {
	Permissions []*Permission `json:"permissions"`
}

type GrantPermissionRequest struct {
	UserId   string `json:"userId"`
	Codename string `json:"codename"`
}

type GrantPermissionResponse struct{}

type RevokePermissionRequest struct {
	UserId   string `json:"userId"`
	Codename string `json:"codename"`
}

type RevokePermissionResponse struct{}

type ActivityRecord struct {
	Id        string            `json:"id"`
	TaskId    string            `json:"taskId"`
	EventType string            `json:"eventType"`
	ActorId   string            `json:"actorId,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

type ListTaskActivityRequest struct {
	TaskId     string             `json:"taskId"`
	Pagination *PaginationRequest `json:"pagination,omitempty"`
}

type ListTaskActivityResponse struct {
	Records    []*ActivityRecord   `json:"records"`
	Pagination *PaginationResponse `json:"pagination"`
}
