package permission

import (
	"context"
	"strings"

	"github.com/taskroster/taskroster/internal/authz"
	"github.com/taskroster/taskroster/internal/identity"
	"github.com/taskroster/taskroster/internal/user"
	"github.com/taskroster/taskroster/pkg/cerr"
)

type UserFinder interface {
	Get(ctx context.Context, id string) (*user.User, error)
}

// Service manages the registry and the per-user granted sets.
type Service struct {
	repo  Repository
	users UserFinder
}

func NewService(repo Repository, users UserFinder) *Service {
	return &Service{repo: repo, users: users}
}

func (s *Service) ListPermissions(ctx context.Context, actor *identity.Actor) ([]*Permission, error) {
	if err := authz.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *Service) GrantPermission(ctx context.Context, actor *identity.Actor, userID, codename string) error {
	if err := authz.Require(actor, ManagePermissions); err != nil {
		return err
	}
	u, p, err := s.resolve(ctx, userID, codename)
	if err != nil {
		return err
	}
	return s.repo.Grant(ctx, u.ID, p.ID)
}

func (s *Service) RevokePermission(ctx context.Context, actor *identity.Actor, userID, codename string) error {
	if err := authz.Require(actor, ManagePermissions); err != nil {
		return err
	}
	u, p, err := s.resolve(ctx, userID, codename)
	if err != nil {
		return err
	}
	return s.repo.Revoke(ctx, u.ID, p.ID)
}

// PermissionsOf returns the codenames granted to userID.
func (s *Service) PermissionsOf(ctx context.Context, userID string) ([]string, error) {
	return s.repo.CodenamesForUser(ctx, userID)
}

func (s *Service) resolve(ctx context.Context, userID, codename string) (*user.User, *Permission, error) {
	userID = strings.TrimSpace(userID)
	codename = strings.TrimSpace(codename)
	var violations []string
	if userID == "" {
		violations = append(violations, "user_id is required")
	}
	if codename == "" {
		violations = append(violations, "codename is required")
	}
	if len(violations) > 0 {
		return nil, nil, cerr.NewValidationError("invalid permission grant", violations...)
	}
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.repo.GetByCodename(ctx, codename)
	if err != nil {
		return nil, nil, err
	}
	return u, p, nil
}
