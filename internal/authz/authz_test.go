package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taskroster/taskroster/internal/identity"
	"github.com/taskroster/taskroster/pkg/cerr"
)

func TestAuthorize(t *testing.T) {
	actor := identity.NewActor("u1", "a@example.com", []string{"create_task", "fetch_task"})

	assert.True(t, Authorize(actor, "create_task"))
	assert.True(t, Authorize(actor, "fetch_task"))
	assert.False(t, Authorize(actor, "delete_task"))
	assert.False(t, Authorize(nil, "create_task"))
}

func TestRequire(t *testing.T) {
	tests := []struct {
		name     string
		actor    *identity.Actor
		codename string
		wantCode cerr.Code
	}{
		{name: "granted", actor: identity.NewActor("u1", "", []string{"assign_task"}), codename: "assign_task", wantCode: cerr.OK},
		{name: "missing codename", actor: identity.NewActor("u1", "", []string{"fetch_task"}), codename: "assign_task", wantCode: cerr.PermissionDenied},
		{name: "no actor", actor: nil, codename: "assign_task", wantCode: cerr.Unauthenticated},
		{name: "empty user id", actor: &identity.Actor{}, codename: "assign_task", wantCode: cerr.Unauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Require(tt.actor, tt.codename)
			if tt.wantCode == cerr.OK {
				assert.NoError(t, err)
				return
			}
			assert.True(t, cerr.IsCode(err, tt.wantCode), "got %v", err)
		})
	}
}
