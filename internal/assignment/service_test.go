package assignment_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taskroster/taskroster/internal/assignment"
	assignmentimpl "github.com/taskroster/taskroster/internal/assignment/repositoryimpl"
	"github.com/taskroster/taskroster/internal/database"
	"github.com/taskroster/taskroster/internal/database/databasetest"
	"github.com/taskroster/taskroster/internal/eventbus"
	"github.com/taskroster/taskroster/internal/identity"
	"github.com/taskroster/taskroster/internal/permission"
	"github.com/taskroster/taskroster/internal/task"
	taskimpl "github.com/taskroster/taskroster/internal/task/repositoryimpl"
	"github.com/taskroster/taskroster/internal/user"
	userimpl "github.com/taskroster/taskroster/internal/user/repositoryimpl"
	"github.com/taskroster/taskroster/pkg/cerr"
)

type fixture struct {
	db       *gorm.DB
	bus      *eventbus.Bus
	tasks    *task.Service
	service  *assignment.Service
	admin    *identity.Actor
	alice    *identity.Actor
	bob      *identity.Actor
	carol    *identity.Actor
	taskRepo *taskimpl.GormRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := databasetest.Open(t)
	bus := eventbus.New()
	taskRepo := taskimpl.NewGormRepository(db)
	userRepo := userimpl.NewGormRepository(db)

	f := &fixture{
		db:       db,
		bus:      bus,
		taskRepo: taskRepo,
		tasks:    task.NewService(taskRepo, database.NewTransactor(db), bus),
		service: assignment.NewService(
			assignmentimpl.NewGormRepository(db),
			taskRepo,
			userRepo,
			database.NewTransactor(db),
			bus,
		),
	}
	all := []string{
		permission.CreateTask, permission.AssignTask, permission.UpdateTask,
		permission.DeleteTask, permission.FetchTask,
	}
	f.admin = createUser(t, userRepo, "admin@example.com", all)
	f.alice = createUser(t, userRepo, "alice@example.com", []string{permission.FetchTask})
	f.bob = createUser(t, userRepo, "bob@example.com", nil)
	f.carol = createUser(t, userRepo, "carol@example.com", nil)
	return f
}

func createUser(t *testing.T, repo user.Repository, email string, codenames []string) *identity.Actor {
	t.Helper()
	u := &user.User{
		ID:           ulid.Make().String(),
		Email:        email,
		Username:     email,
		PasswordHash: "x",
		Active:       true,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return identity.NewActor(u.ID, u.Email, codenames)
}

func (f *fixture) createTask(t *testing.T, name string) *task.Task {
	t.Helper()
	tk, err := f.tasks.CreateTask(context.Background(), f.admin, task.CreateInput{
		Name:        name,
		Description: name + " description",
		Type:        "work",
	})
	require.NoError(t, err)
	return tk
}

func (f *fixture) assignments(t *testing.T, userID, taskID string) []assignment.Assignment {
	t.Helper()
	var as []assignment.Assignment
	require.NoError(t, f.db.Where("user_id = ? AND task_id = ?", userID, taskID).Order("assigned_at, id").Find(&as).Error)
	return as
}

func (f *fixture) insert(t *testing.T, userID, taskID string, status assignment.Status) *assignment.Assignment {
	t.Helper()
	a := &assignment.Assignment{
		ID:         ulid.Make().String(),
		UserID:     userID,
		TaskID:     taskID,
		Status:     status,
		AssignedAt: time.Now().UTC(),
	}
	if status == assignment.StatusCompleted {
		now := time.Now().UTC()
		a.CompletedAt = &now
	}
	require.NoError(t, f.db.Create(a).Error)
	return a
}

func TestAssignTask_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tk := f.createTask(t, "Laundry")

	res, err := f.service.AssignTask(ctx, f.admin, tk.ID, []string{f.alice.UserID, f.bob.UserID})
	require.NoError(t, err)
	assert.Equal(t, tk.ID, res.TaskID)
	assert.Equal(t, "Laundry", res.TaskName)
	assert.Equal(t, []string{f.alice.UserID, f.bob.UserID}, res.UserIDs)

	for _, uid := range []string{f.alice.UserID, f.bob.UserID} {
		as := f.assignments(t, uid, tk.ID)
		require.Len(t, as, 1)
		assert.Equal(t, assignment.StatusOpen, as[0].Status)
		assert.False(t, as[0].AssignedAt.IsZero())
		assert.Nil(t, as[0].CompletedAt)
	}

	a, err := f.service.UpdateStatus(ctx, f.alice, tk.ID, "in_progress")
	require.NoError(t, err)
	assert.Equal(t, assignment.StatusInProgress, a.Status)
	assert.Nil(t, a.CompletedAt)

	_, err = f.service.UpdateStatus(ctx, f.alice, tk.ID, "open")
	require.Error(t, err)
	assert.True(t, cerr.IsCode(err, cerr.InvalidArgument), "got %v", err)

	a, err = f.service.UpdateStatus(ctx, f.alice, tk.ID, "completed")
	require.NoError(t, err)
	assert.Equal(t, assignment.StatusCompleted, a.Status)
	require.NotNil(t, a.CompletedAt)
	completedAt := *a.CompletedAt

	_, err = f.service.UpdateStatus(ctx, f.alice, tk.ID, "blocked")
	require.Error(t, err)
	assert.True(t, cerr.IsCode(err, cerr.FailedPrecondition), "got %v", err)
	assert.True(t, cerr.IsConflict(err))

	as := f.assignments(t, f.alice.UserID, tk.ID)
	require.Len(t, as, 1)
	assert.Equal(t, assignment.StatusCompleted, as[0].Status)
	require.NotNil(t, as[0].CompletedAt)
	assert.WithinDuration(t, completedAt, *as[0].CompletedAt, time.Millisecond)

	bobs := f.assignments(t, f.bob.UserID, tk.ID)
	require.Len(t, bobs, 1)
	assert.Equal(t, assignment.StatusOpen, bobs[0].Status)
}

func TestAssignTask_DuplicateRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tk := f.createTask(t, "Dishes")

	_, err := f.service.AssignTask(ctx, f.admin, tk.ID, []string{f.alice.UserID})
	require.NoError(t, err)

	_, err = f.service.AssignTask(ctx, f.admin, tk.ID, []string{f.alice.UserID})
	require.Error(t, err)
	assert.True(t, cerr.IsCode(err, cerr.AlreadyExists), "got %v", err)
	assert.Contains(t, err.Error(), f.alice.UserID)

	assert.Len(t, f.assignments(t, f.alice.UserID, tk.ID), 1)
}

func TestAssignTask_BatchIsAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tk := f.createTask(t, "Groceries")

	_, err := f.service.AssignTask(ctx, f.admin, tk.ID, []string{f.alice.UserID})
	require.NoError(t, err)

	_, err = f.service.AssignTask(ctx, f.admin, tk.ID, []string{f.carol.UserID, f.alice.UserID, f.bob.UserID})
	require.Error(t, err)
	assert.True(t, cerr.IsCode(err, cerr.AlreadyExists), "got %v", err)

	assert.Empty(t, f.assignments(t, f.carol.UserID, tk.ID))
	assert.Empty(t, f.assignments(t, f.bob.UserID, tk.ID))
	assert.Len(t, f.assignments(t, f.alice.UserID, tk.ID), 1)
}

func TestAssignTask_FirstOffenderNamed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tk := f.createTask(t, "Garden")

	_, err := f.service.AssignTask(ctx, f.admin, tk.ID, []string{f.alice.UserID, f.bob.UserID})
	require.NoError(t, err)

	_, err = f.service.AssignTask(ctx, f.admin, tk.ID, []string{f.carol.UserID, f.bob.UserID, f.alice.UserID})
	require.Error(t, err)
	assert.Contains(t, err.Error(), f.bob.UserID)
	assert.NotContains(t, err.Error(), f.alice.UserID)
}

func TestAssignTask_UnknownUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tk := f.createTask(t, "Taxes")
	ghost := ulid.Make().String()

	_, err := f.service.AssignTask(ctx, f.admin, tk.ID, []string{f.alice.UserID, ghost})
	require.Error(t, err)
	assert.True(t, cerr.IsCode(err, cerr.InvalidArgument), "got %v", err)

	var cErr *cerr.Error
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, "one or more users not found", cErr.Msg)
	assert.Equal(t, []string{fmt.Sprintf("user %s not found", ghost)}, cErr.Violations())

	assert.Empty(t, f.assignments(t, f.alice.UserID, tk.ID))
}

func TestAssignTask_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tk := f.createTask(t, "Painting")

	tests := []struct {
		name     string
		actor    *identity.Actor
		taskID   string
		userIDs  []string
		wantCode cerr.Code
	}{
		{name: "no permission", actor: f.alice, taskID: tk.ID, userIDs: []string{f.bob.UserID}, wantCode: cerr.PermissionDenied},
		{name: "unauthenticated", actor: nil, taskID: tk.ID, userIDs: []string{f.bob.UserID}, wantCode: cerr.Unauthenticated},
		{name: "empty users", actor: f.admin, taskID: tk.ID, userIDs: nil, wantCode: cerr.InvalidArgument},
		{name: "blank user id", actor: f.admin, taskID: tk.ID, userIDs: []string{" "}, wantCode: cerr.InvalidArgument},
		{name: "missing task id", actor: f.admin, taskID: "", userIDs: []string{f.bob.UserID}, wantCode: cerr.InvalidArgument},
		{name: "unknown task", actor: f.admin, taskID: ulid.Make().String(), userIDs: []string{f.bob.UserID}, wantCode: cerr.NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.AssignTask(ctx, tt.actor, tt.taskID, tt.userIDs)
			require.Error(t, err)
			assert.True(t, cerr.IsCode(err, tt.wantCode), "got %v", err)
		})
	}
	assert.Empty(t, f.assignments(t, f.bob.UserID, tk.ID))
}

func TestAssignTask_DeduplicatesUsers(t *testing.T) {
	f := newFixture(t)
	tk := f.createTask(t, "Walk the dog")

	res, err := f.service.AssignTask(context.Background(), f.admin, tk.ID, []string{f.bob.UserID, f.bob.UserID})
	require.NoError(t, err)
	assert.Equal(t, []string{f.bob.UserID}, res.UserIDs)
	assert.Len(t, f.assignments(t, f.bob.UserID, tk.ID), 1)
}

func TestAssignTask_InactiveTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tk := f.createTask(t, "Old chore")
	require.NoError(t, f.tasks.SoftDeleteTask(ctx, f.admin, tk.ID))

	_, err := f.service.AssignTask(ctx, f.admin, tk.ID, []string{f.bob.UserID})
	require.Error(t, err)
	assert.True(t, cerr.IsCode(err, cerr.NotFound), "got %v", err)
}

func TestAssignTask_ReassignAfterCompletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tk := f.createTask(t, "Vacuum")

	_, err := f.service.AssignTask(ctx, f.admin, tk.ID, []string{f.bob.UserID})
	require.NoError(t, err)
	_, err = f.service.UpdateStatus(ctx, f.bob, tk.ID, "in_progress")
	require.NoError(t, err)
	_, err = f.service.UpdateStatus(ctx, f.bob, tk.ID, "completed")
	require.NoError(t, err)

	_, err = f.service.AssignTask(ctx, f.admin, tk.ID, []string{f.bob.UserID})
	require.NoError(t, err)

	as := f.assignments(t, f.bob.UserID, tk.ID)
	require.Len(t, as, 2)
	statuses := []assignment.Status{as[0].Status, as[1].Status}
	assert.ElementsMatch(t, []assignment.Status{assignment.StatusCompleted, assignment.StatusOpen}, statuses)

	a, err := f.service.UpdateStatus(ctx, f.bob, tk.ID, "blocked")
	require.NoError(t, err)
	assert.Equal(t, assignment.StatusBlocked, a.Status)
}

func TestUpdateStatus_TransitionTable(t *testing.T) {
	statuses := []assignment.Status{
		assignment.StatusOpen, assignment.StatusInProgress,
		assignment.StatusBlocked, assignment.StatusCompleted,
	}
	allowed := map[assignment.Status][]assignment.Status{
		assignment.StatusOpen:       {assignment.StatusInProgress, assignment.StatusBlocked},
		assignment.StatusInProgress: {assignment.StatusCompleted, assignment.StatusBlocked},
		assignment.StatusBlocked:    {assignment.StatusInProgress, assignment.StatusOpen},
	}

	for _, from := range statuses {
		for _, to := range statuses {
			t.Run(fmt.Sprintf("%s to %s", from, to), func(t *testing.T) {
				f := newFixture(t)
				ctx := context.Background()
				tk := f.createTask(t, "Chore")
				before := f.insert(t, f.bob.UserID, tk.ID, from)
				snapshot := f.assignments(t, f.bob.UserID, tk.ID)

				a, err := f.service.UpdateStatus(ctx, f.bob, tk.ID, string(to))

				legal := false
				for _, s := range allowed[from] {
					if s == to {
						legal = true
					}
				}
				if !legal {
					require.Error(t, err)
					if from == assignment.StatusCompleted {
						assert.True(t, cerr.IsCode(err, cerr.FailedPrecondition), "got %v", err)
					} else {
						assert.True(t, cerr.IsCode(err, cerr.InvalidArgument), "got %v", err)
					}
					assert.Equal(t, snapshot, f.assignments(t, f.bob.UserID, tk.ID))
					return
				}

				require.NoError(t, err)
				assert.Equal(t, before.ID, a.ID)
				assert.Equal(t, to, a.Status)
				if to == assignment.StatusCompleted {
					assert.NotNil(t, a.CompletedAt)
				} else {
					assert.Nil(t, a.CompletedAt)
				}
				stored := f.assignments(t, f.bob.UserID, tk.ID)
				require.Len(t, stored, 1)
				assert.Equal(t, to, stored[0].Status)
				assert.WithinDuration(t, before.AssignedAt, stored[0].AssignedAt, time.Millisecond)
			})
		}
	}
}

func TestUpdateStatus_IllegalTransitionDetails(t *testing.T) {
	f := newFixture(t)
	tk := f.createTask(t, "Mow")
	f.insert(t, f.bob.UserID, tk.ID, assignment.StatusInProgress)

	_, err := f.service.UpdateStatus(context.Background(), f.bob, tk.ID, "open")
	var cErr *cerr.Error
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, []string{"allowed next statuses from in_progress: completed, blocked"}, cErr.Violations())
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	f := newFixture(t)
	tk := f.createTask(t, "Cook")
	f.insert(t, f.bob.UserID, tk.ID, assignment.StatusOpen)

	_, err := f.service.UpdateStatus(context.Background(), f.bob, tk.ID, "done")
	var cErr *cerr.Error
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, cerr.InvalidArgument, cErr.Code)
	assert.Equal(t, []string{"status must be one of open, in_progress, blocked, completed"}, cErr.Violations())
}

func TestUpdateStatus_OnlyOwnAssignment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tk := f.createTask(t, "Fix sink")
	f.insert(t, f.bob.UserID, tk.ID, assignment.StatusOpen)

	_, err := f.service.UpdateStatus(ctx, f.carol, tk.ID, "in_progress")
	require.Error(t, err)
	assert.True(t, cerr.IsCode(err, cerr.NotFound), "got %v", err)

	_, err = f.service.UpdateStatus(ctx, nil, tk.ID, "in_progress")
	require.Error(t, err)
	assert.True(t, cerr.IsCode(err, cerr.Unauthenticated), "got %v", err)

	// No codename is needed, only authentication.
	a, err := f.service.UpdateStatus(ctx, f.bob, tk.ID, "in_progress")
	require.NoError(t, err)
	assert.Equal(t, assignment.StatusInProgress, a.Status)
}

func TestUpdateStatus_PublishesEvent(t *testing.T) {
	f := newFixture(t)
	tk := f.createTask(t, "Shop")
	a := f.insert(t, f.bob.UserID, tk.ID, assignment.StatusOpen)
	id, ch := f.bus.Subscribe(4)
	defer f.bus.Unsubscribe(id)

	_, err := f.service.UpdateStatus(context.Background(), f.bob, tk.ID, "blocked")
	require.NoError(t, err)

	ev := <-ch
	assert.Equal(t, eventbus.AssignmentStatusChanged, ev.Type)
	assert.Equal(t, tk.ID, ev.ResourceID)
	assert.Equal(t, f.bob.UserID, ev.ActorID)
	assert.Equal(t, map[string]string{"assignment_id": a.ID, "from": "open", "to": "blocked"}, ev.Metadata)
}

func TestListAssignmentsForUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	active := f.createTask(t, "Active chore")
	retired := f.createTask(t, "Retired chore")

	_, err := f.service.AssignTask(ctx, f.admin, active.ID, []string{f.alice.UserID})
	require.NoError(t, err)
	_, err = f.service.AssignTask(ctx, f.admin, retired.ID, []string{f.alice.UserID})
	require.NoError(t, err)
	require.NoError(t, f.tasks.SoftDeleteTask(ctx, f.admin, retired.ID))

	_, err = f.tasks.FetchTask(ctx, f.admin, retired.ID)
	assert.True(t, cerr.IsCode(err, cerr.NotFound), "got %v", err)

	tasks, total, err := f.tasks.FetchAllActiveTasksForUser(ctx, f.alice, "", 50, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, tasks, 1)
	assert.Equal(t, active.ID, tasks[0].ID)

	entries, err := f.service.ListAssignmentsForUser(ctx, f.alice, "")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	byTask := map[string]*assignment.Entry{}
	for _, e := range entries {
		byTask[e.TaskID] = e
	}
	require.Contains(t, byTask, retired.ID)
	assert.False(t, byTask[retired.ID].TaskActive)
	assert.Equal(t, "Retired chore", byTask[retired.ID].TaskName)
	assert.Equal(t, "Retired chore description", byTask[retired.ID].TaskDescription)
	assert.Equal(t, "work", byTask[retired.ID].TaskType)
	require.Contains(t, byTask, active.ID)
	assert.True(t, byTask[active.ID].TaskActive)
	assert.Equal(t, assignment.StatusOpen, byTask[active.ID].Status)
}

func TestListAssignmentsForUser_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.ListAssignmentsForUser(ctx, f.bob, "")
	assert.True(t, cerr.IsCode(err, cerr.PermissionDenied), "got %v", err)

	_, err = f.service.ListAssignmentsForUser(ctx, f.alice, ulid.Make().String())
	assert.True(t, cerr.IsCode(err, cerr.NotFound), "got %v", err)

	entries, err := f.service.ListAssignmentsForUser(ctx, f.alice, f.bob.UserID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
