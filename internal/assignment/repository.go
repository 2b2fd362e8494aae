package assignment

import "context"

type Repository interface {
	CreateBatch(ctx context.Context, as []*Assignment) error
	// FindOpen returns the non-completed assignment of the pair, or NotFound.
	FindOpen(ctx context.Context, userID, taskID string) (*Assignment, error)
	HasCompleted(ctx context.Context, userID, taskID string) (bool, error)
	// OpenUserIDs returns which of userIDs hold a non-completed assignment
	// for taskID.
	OpenUserIDs(ctx context.Context, taskID string, userIDs []string) (map[string]bool, error)
	// Transition stores a.Status and a.CompletedAt if the row is still in
	// status from. It returns Aborted when the row changed in between.
	Transition(ctx context.Context, a *Assignment, from Status) error
	ListForUser(ctx context.Context, userID string) ([]*Entry, error)
}
