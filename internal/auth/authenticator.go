package auth

import (
	"context"
	"strings"

	"github.com/taskroster/taskroster/internal/identity"
	"github.com/taskroster/taskroster/internal/user"
	"github.com/taskroster/taskroster/pkg/cerr"
)

type PermissionLookup interface {
	PermissionsOf(ctx context.Context, userID string) ([]string, error)
}

// Authenticator resolves a bearer token to the acting user and the
// codenames granted to them.
type Authenticator struct {
	issuer *TokenIssuer
	users  user.Repository
	perms  PermissionLookup
}

func NewAuthenticator(issuer *TokenIssuer, users user.Repository, perms PermissionLookup) *Authenticator {
	return &Authenticator{issuer: issuer, users: users, perms: perms}
}

// Authenticate accepts the value of an Authorization header.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (*identity.Actor, error) {
	token, ok := bearerToken(header)
	if !ok {
		return nil, cerr.NewError(cerr.Unauthenticated, "authentication required", nil)
	}
	claims, err := a.issuer.Parse(token, TokenTypeAccess)
	if err != nil {
		return nil, cerr.NewError(cerr.Unauthenticated, "invalid access token", err)
	}
	u, err := a.users.Get(ctx, claims.Subject)
	if err != nil {
		if cerr.IsCode(err, cerr.NotFound) {
			return nil, cerr.NewError(cerr.Unauthenticated, "invalid access token", err)
		}
		return nil, err
	}
	if !u.Active {
		return nil, cerr.NewError(cerr.Unauthenticated, "user is inactive", nil)
	}
	codenames, err := a.perms.PermissionsOf(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return identity.NewActor(u.ID, u.Email, codenames), nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
