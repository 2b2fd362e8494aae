// Package authz decides whether an actor may perform an operation.
package authz

import (
	"fmt"

	"github.com/taskroster/taskroster/internal/identity"
	"github.com/taskroster/taskroster/pkg/cerr"
)

// Authorize reports whether actor holds codename.
func Authorize(actor *identity.Actor, codename string) bool {
	return actor.Has(codename)
}

// Require fails with Unauthenticated when there is no actor and with
// PermissionDenied when the actor lacks codename.
func Require(actor *identity.Actor, codename string) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	if !Authorize(actor, codename) {
		return cerr.NewError(cerr.PermissionDenied,
			fmt.Sprintf("permission %q is required", codename), nil)
	}
	return nil
}

func RequireAuthenticated(actor *identity.Actor) error {
	if actor == nil || actor.UserID == "" {
		return cerr.NewError(cerr.Unauthenticated, "authentication required", nil)
	}
	return nil
}
