package permission

import "context"

type Repository interface {
	List(ctx context.Context) ([]*Permission, error)
	GetByCodename(ctx context.Context, codename string) (*Permission, error)
	// CreateIfMissing inserts p unless its codename is already registered.
	CreateIfMissing(ctx context.Context, p *Permission) error
	// Grant adds the permission to the user's set. Granting twice is a no-op.
	Grant(ctx context.Context, userID, permissionID string) error
	// Revoke removes the permission from the user's set. Revoking an absent
	// grant is a no-op.
	Revoke(ctx context.Context, userID, permissionID string) error
	CodenamesForUser(ctx context.Context, userID string) ([]string, error)
}
