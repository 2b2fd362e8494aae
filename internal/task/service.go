package task

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"github.com/taskroster/taskroster/internal/authz"
	"github.com/taskroster/taskroster/internal/eventbus"
	"github.com/taskroster/taskroster/internal/identity"
	"github.com/taskroster/taskroster/internal/permission"
	"github.com/taskroster/taskroster/pkg/cerr"
)

const maxNameLength = 200

type CreateInput struct {
	Name        string
	Description string
	Type        string
}

// UpdateInput holds the fields to change. Nil fields are left as they are.
type UpdateInput struct {
	Name        *string
	Description *string
	Type        *string
}

type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service is the task catalog.
type Service struct {
	repo     Repository
	tx       Transactor
	eventBus *eventbus.Bus
	now      func() time.Time
}

func NewService(repo Repository, tx Transactor, eventBus *eventbus.Bus) *Service {
	return &Service{
		repo:     repo,
		tx:       tx,
		eventBus: eventBus,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) CreateTask(ctx context.Context, actor *identity.Actor, in CreateInput) (*Task, error) {
	if err := authz.Require(actor, permission.CreateTask); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	description := strings.TrimSpace(in.Description)
	typ := Type(strings.TrimSpace(in.Type))
	if err := validate(name, description, typ); err != nil {
		return nil, err
	}

	now := s.now()
	t := &Task{
		ID:          ulid.Make().String(),
		Name:        name,
		Description: description,
		Type:        typ,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.eventBus.PublishNew(eventbus.TaskCreated, t.ID, actor.UserID, map[string]string{"name": t.Name})
	return t, nil
}

func (s *Service) UpdateTask(ctx context.Context, actor *identity.Actor, id string, in UpdateInput) (*Task, error) {
	if err := authz.Require(actor, permission.UpdateTask); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, cerr.NewValidationError("invalid task", "id is required")
	}
	var (
		t       *Task
		changed []string
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		t, err = s.repo.GetActive(ctx, id)
		if err != nil {
			return err
		}

		patch := Patch{UpdatedAt: s.now()}
		changed = make([]string, 0, 3)
		if in.Name != nil {
			t.Name = strings.TrimSpace(*in.Name)
			patch.Name = &t.Name
			changed = append(changed, "name")
		}
		if in.Description != nil {
			t.Description = strings.TrimSpace(*in.Description)
			patch.Description = &t.Description
			changed = append(changed, "description")
		}
		if in.Type != nil {
			t.Type = Type(strings.TrimSpace(*in.Type))
			patch.Type = &t.Type
			changed = append(changed, "type")
		}
		if err := validate(t.Name, t.Description, t.Type); err != nil {
			return err
		}
		t.UpdatedAt = patch.UpdatedAt
		return s.repo.UpdateActive(ctx, t.ID, patch)
	})
	if err != nil {
		return nil, err
	}

	s.eventBus.PublishNew(eventbus.TaskUpdated, t.ID, actor.UserID, map[string]string{
		"fields": strings.Join(changed, ","),
	})
	return t, nil
}

// SoftDeleteTask deactivates an active task. A second call fails with
// NotFound since the task is no longer active.
func (s *Service) SoftDeleteTask(ctx context.Context, actor *identity.Actor, id string) error {
	if err := authz.Require(actor, permission.DeleteTask); err != nil {
		return err
	}
	var t *Task
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		t, err = s.repo.GetActive(ctx, id)
		if err != nil {
			return err
		}
		t.Active = false
		t.UpdatedAt = s.now()
		return s.repo.UpdateActive(ctx, t.ID, Patch{Active: &t.Active, UpdatedAt: t.UpdatedAt})
	})
	if err != nil {
		return err
	}

	s.eventBus.PublishNew(eventbus.TaskDeleted, t.ID, actor.UserID, map[string]string{"name": t.Name})
	return nil
}

func (s *Service) FetchTask(ctx context.Context, actor *identity.Actor, id string) (*Task, error) {
	if err := authz.Require(actor, permission.FetchTask); err != nil {
		return nil, err
	}
	return s.repo.GetActive(ctx, id)
}

// FetchAllActiveTasksForUser lists the active tasks userID has been assigned.
// An empty userID means the actor.
func (s *Service) FetchAllActiveTasksForUser(ctx context.Context, actor *identity.Actor, userID string, limit, offset int) ([]*Task, int, error) {
	if err := authz.Require(actor, permission.FetchTask); err != nil {
		return nil, 0, err
	}
	if userID == "" {
		userID = actor.UserID
	}
	return s.repo.ListActiveForUser(ctx, userID, limit, offset)
}

func validate(name, description string, typ Type) error {
	var violations []string
	switch {
	case name == "":
		violations = append(violations, "name is required")
	case utf8.RuneCountInString(name) > maxNameLength:
		violations = append(violations, fmt.Sprintf("name must be at most %d characters", maxNameLength))
	}
	if description == "" {
		violations = append(violations, "description is required")
	}
	if typ != "" && !typ.Valid() {
		violations = append(violations, fmt.Sprintf("type must be one of %s", typeList()))
	}
	if len(violations) > 0 {
		return cerr.NewValidationError("invalid task", violations...)
	}
	return nil
}

func (t Type) Valid() bool {
	for _, v := range validTypes {
		if t == v {
			return true
		}
	}
	return false
}

func typeList() string {
	names := make([]string, len(validTypes))
	for i, v := range validTypes {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}
