package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	Get(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// FindByIDs returns the users that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]*User, error)
	// ListExcept returns every active user other than userID, ordered by email.
	ListExcept(ctx context.Context, userID string) ([]*User, error)
}
