package activity

import "context"

type Repository interface {
	Create(ctx context.Context, r *Record) error
	// ListByTask returns the task's records oldest first and the total count.
	ListByTask(ctx context.Context, taskID string, limit, offset int) ([]*Record, int, error)
}
