// Package identity carries the acting user through a request.
package identity

import (
	"context"
	"sort"
)

// Actor is the authenticated user on whose behalf an operation runs.
type Actor struct {
	UserID      string
	Email       string
	Permissions map[string]struct{}
}

func NewActor(userID, email string, codenames []string) *Actor {
	perms := make(map[string]struct{}, len(codenames))
	for _, c := range codenames {
		perms[c] = struct{}{}
	}
	return &Actor{UserID: userID, Email: email, Permissions: perms}
}

// Has reports whether codename is in the actor's granted set.
func (a *Actor) Has(codename string) bool {
	if a == nil {
		return false
	}
	_, ok := a.Permissions[codename]
	return ok
}

// Codenames returns the granted codenames in sorted order.
func (a *Actor) Codenames() []string {
	out := make([]string, 0, len(a.Permissions))
	for c := range a.Permissions {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

type actorKey struct{}

// WithActor stores a in ctx for handlers to pick up. Services receive the
// actor as an argument and never read it from the context.
func WithActor(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

func ActorFromContext(ctx context.Context) *Actor {
	a, _ := ctx.Value(actorKey{}).(*Actor)
	return a
}
