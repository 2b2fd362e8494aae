package permission

import "time"

// Codenames checked by the services.
const (
	CreateTask           = "create_task"
	AssignTask           = "assign_task"
	UpdateTask           = "update_task"
	DeleteTask           = "delete_task"
	FetchTask            = "fetch_task"
	UpdateUserTaskStatus = "update_user_task_status"
	ManagePermissions    = "manage_permissions"
)

// Permission is one grantable codename.
type Permission struct {
	ID          string    `gorm:"primaryKey;size:26" json:"id"`
	Codename    string    `gorm:"size:100;not null;uniqueIndex" json:"codename"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"size:1000;not null;default:''" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Grant is the membership of a permission in a user's granted set.
type Grant struct {
	UserID       string `gorm:"primaryKey;size:26"`
	PermissionID string `gorm:"primaryKey;size:26;index"`
	CreatedAt    time.Time
}

func (Grant) TableName() string { return "user_permissions" }

// Defaults is the registry seeded at startup. UpdateUserTaskStatus is
// registered but status updates only require authentication.
var Defaults = []Permission{
	{Codename: CreateTask, Name: "Can create task", Description: "Create new tasks in the catalog."},
	{Codename: AssignTask, Name: "Can assign task", Description: "Assign active tasks to users."},
	{Codename: UpdateTask, Name: "Can update task", Description: "Edit the fields of an active task."},
	{Codename: DeleteTask, Name: "Can delete task", Description: "Deactivate a task."},
	{Codename: FetchTask, Name: "Can fetch task", Description: "Read tasks, assignments and activity."},
	{Codename: UpdateUserTaskStatus, Name: "Can update user task status", Description: "Change the status of an assignment."},
	{Codename: ManagePermissions, Name: "Can manage permissions", Description: "Grant and revoke permissions."},
}
