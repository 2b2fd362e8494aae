package assignment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/taskroster/taskroster/internal/authz"
	"github.com/taskroster/taskroster/internal/eventbus"
	"github.com/taskroster/taskroster/internal/identity"
	"github.com/taskroster/taskroster/internal/permission"
	"github.com/taskroster/taskroster/internal/task"
	"github.com/taskroster/taskroster/internal/user"
	"github.com/taskroster/taskroster/pkg/cerr"
)

// Transactor runs fn inside one database transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type TaskFinder interface {
	GetActive(ctx context.Context, id string) (*task.Task, error)
}

type UserFinder interface {
	Get(ctx context.Context, id string) (*user.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]*user.User, error)
}

// Service is the assignment ledger and the status transition engine.
type Service struct {
	repo     Repository
	tasks    TaskFinder
	users    UserFinder
	tx       Transactor
	eventBus *eventbus.Bus
	now      func() time.Time
}

func NewService(repo Repository, tasks TaskFinder, users UserFinder, tx Transactor, eventBus *eventbus.Bus) *Service {
	return &Service{
		repo:     repo,
		tasks:    tasks,
		users:    users,
		tx:       tx,
		eventBus: eventBus,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// AssignTask opens one assignment per user. Either every user is assigned or
// none is: unknown users and users that already hold an open assignment for
// the task fail the whole call.
func (s *Service) AssignTask(ctx context.Context, actor *identity.Actor, taskID string, userIDs []string) (*AssignResult, error) {
	if err := authz.Require(actor, permission.AssignTask); err != nil {
		return nil, err
	}
	ids, err := normalizeUserIDs(taskID, userIDs)
	if err != nil {
		return nil, err
	}

	var result *AssignResult
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := s.tasks.GetActive(ctx, taskID)
		if err != nil {
			return err
		}

		found, err := s.users.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if missing := missingIDs(ids, found); len(missing) > 0 {
			violations := make([]string, len(missing))
			for i, id := range missing {
				violations[i] = fmt.Sprintf("user %s not found", id)
			}
			return cerr.NewValidationError("one or more users not found", violations...)
		}

		open, err := s.repo.OpenUserIDs(ctx, t.ID, ids)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if open[id] {
				return cerr.NewError(cerr.AlreadyExists,
					fmt.Sprintf("user %s is already assigned to task %s", id, t.ID), nil)
			}
		}

		now := s.now()
		as := make([]*Assignment, len(ids))
		for i, id := range ids {
			as[i] = &Assignment{
				ID:         ulid.Make().String(),
				UserID:     id,
				TaskID:     t.ID,
				Status:     StatusOpen,
				AssignedAt: now,
			}
		}
		if err := s.repo.CreateBatch(ctx, as); err != nil {
			return err
		}
		result = &AssignResult{TaskID: t.ID, TaskName: t.Name, UserIDs: ids}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, id := range result.UserIDs {
		s.eventBus.PublishNew(eventbus.TaskAssigned, result.TaskID, actor.UserID, map[string]string{"user_id": id})
	}
	return result, nil
}

// ListAssignmentsForUser returns every assignment of userID regardless of
// status or task activity. An empty userID means the actor.
func (s *Service) ListAssignmentsForUser(ctx context.Context, actor *identity.Actor, userID string) ([]*Entry, error) {
	if err := authz.Require(actor, permission.FetchTask); err != nil {
		return nil, err
	}
	if userID == "" {
		userID = actor.UserID
	}
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListForUser(ctx, userID)
}

// UpdateStatus moves the actor's own assignment for taskID to requested.
// Only authentication is required.
func (s *Service) UpdateStatus(ctx context.Context, actor *identity.Actor, taskID, requested string) (*Assignment, error) {
	if err := authz.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	next, ok := ParseStatus(requested)
	if !ok {
		return nil, cerr.NewValidationError(
			fmt.Sprintf("invalid status %q", requested),
			fmt.Sprintf("status must be one of %s", joinStatuses(allStatuses)),
		)
	}
	if taskID == "" {
		return nil, cerr.NewValidationError("invalid assignment", "task_id is required")
	}

	var updated *Assignment
	var prev Status
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		a, err := s.resolve(ctx, actor.UserID, taskID)
		if err != nil {
			return err
		}
		if a.Status.Terminal() {
			return cerr.NewError(cerr.FailedPrecondition, "cannot change status of a completed task", nil)
		}
		if !CanTransition(a.Status, next) {
			return cerr.NewValidationError(
				fmt.Sprintf("cannot change status from %s to %s", a.Status, next),
				fmt.Sprintf("allowed next statuses from %s: %s", a.Status, joinStatuses(a.Status.Next())),
			)
		}

		prev = a.Status
		a.Status = next
		if next == StatusCompleted {
			now := s.now()
			a.CompletedAt = &now
		}
		if err := s.repo.Transition(ctx, a, prev); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.eventBus.PublishNew(eventbus.AssignmentStatusChanged, updated.TaskID, actor.UserID, map[string]string{
		"assignment_id": updated.ID,
		"from":          string(prev),
		"to":            string(updated.Status),
	})
	return updated, nil
}

// resolve finds the assignment the actor may transition: the open one when
// present, otherwise the latest completed one, which is terminal.
func (s *Service) resolve(ctx context.Context, userID, taskID string) (*Assignment, error) {
	a, err := s.repo.FindOpen(ctx, userID, taskID)
	if err == nil {
		return a, nil
	}
	if !cerr.IsCode(err, cerr.NotFound) {
		return nil, err
	}
	completed, cErr := s.repo.HasCompleted(ctx, userID, taskID)
	if cErr != nil {
		return nil, cErr
	}
	if completed {
		return &Assignment{UserID: userID, TaskID: taskID, Status: StatusCompleted}, nil
	}
	return nil, cerr.NewError(cerr.NotFound, "assignment not found", err)
}

func normalizeUserIDs(taskID string, userIDs []string) ([]string, error) {
	var violations []string
	if strings.TrimSpace(taskID) == "" {
		violations = append(violations, "task_id is required")
	}
	if len(userIDs) == 0 {
		violations = append(violations, "user_ids must not be empty")
	}
	seen := make(map[string]bool, len(userIDs))
	ids := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			violations = append(violations, "user_ids must not contain empty ids")
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(violations) > 0 {
		return nil, cerr.NewValidationError("invalid assignment", violations...)
	}
	return ids, nil
}

func missingIDs(ids []string, found []*user.User) []string {
	present := make(map[string]bool, len(found))
	for _, u := range found {
		present[u.ID] = true
	}
	var missing []string
	for _, id := range ids {
		if !present[id] {
			missing = append(missing, id)
		}
	}
	return missing
}
