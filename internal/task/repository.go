package task

import "context"

type Repository interface {
	Create(ctx context.Context, t *Task) error
	// GetActive returns NotFound when the task is missing or inactive.
	GetActive(ctx context.Context, id string) (*Task, error)
	// UpdateActive applies p only while the task is still active and returns
	// NotFound otherwise.
	UpdateActive(ctx context.Context, id string, p Patch) error
	// ListActiveForUser returns active tasks the user holds any assignment
	// for, newest first, and the total count before paging.
	ListActiveForUser(ctx context.Context, userID string, limit, offset int) ([]*Task, int, error)
}
