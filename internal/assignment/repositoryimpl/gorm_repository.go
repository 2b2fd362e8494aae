package repositoryimpl

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/taskroster/taskroster/internal/assignment"
	"github.com/taskroster/taskroster/internal/database"
	"github.com/taskroster/taskroster/pkg/cerr"
)

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) CreateBatch(ctx context.Context, as []*assignment.Assignment) error {
	if len(as) == 0 {
		return nil
	}
	if err := database.Conn(ctx, r.db).Create(as).Error; err != nil {
		return cerr.WrapDBWriteError("assignment", err)
	}
	return nil
}

func (r *GormRepository) FindOpen(ctx context.Context, userID, taskID string) (*assignment.Assignment, error) {
	var a assignment.Assignment
	err := database.Conn(ctx, r.db).
		Where("user_id = ? AND task_id = ? AND status <> ?", userID, taskID, assignment.StatusCompleted).
		First(&a).Error
	if err != nil {
		return nil, cerr.WrapDBReadError("assignment", err)
	}
	return &a, nil
}

func (r *GormRepository) HasCompleted(ctx context.Context, userID, taskID string) (bool, error) {
	var n int64
	err := database.Conn(ctx, r.db).
		Model(&assignment.Assignment{}).
		Where("user_id = ? AND task_id = ? AND status = ?", userID, taskID, assignment.StatusCompleted).
		Count(&n).Error
	if err != nil {
		return false, cerr.WrapDBReadError("assignment", err)
	}
	return n > 0, nil
}

func (r *GormRepository) OpenUserIDs(ctx context.Context, taskID string, userIDs []string) (map[string]bool, error) {
	open := make(map[string]bool)
	if len(userIDs) == 0 {
		return open, nil
	}
	var ids []string
	err := database.Conn(ctx, r.db).
		Model(&assignment.Assignment{}).
		Where("task_id = ? AND user_id IN ? AND status <> ?", taskID, userIDs, assignment.StatusCompleted).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, cerr.WrapDBReadError("assignments", err)
	}
	for _, id := range ids {
		open[id] = true
	}
	return open, nil
}

func (r *GormRepository) Transition(ctx context.Context, a *assignment.Assignment, from assignment.Status) error {
	res := database.Conn(ctx, r.db).
		Model(&assignment.Assignment{}).
		Where("id = ? AND status = ?", a.ID, from).
		Updates(map[string]any{
			"status":       a.Status,
			"completed_at": a.CompletedAt,
		})
	if res.Error != nil {
		return cerr.WrapDBWriteError("assignment", res.Error)
	}
	if res.RowsAffected == 0 {
		return cerr.NewError(cerr.Aborted, "assignment was modified concurrently", nil)
	}
	return nil
}

type entryRow struct {
	ID              string
	UserID          string
	TaskID          string
	Status          string
	AssignedAt      time.Time
	CompletedAt     *time.Time
	TaskName        string
	TaskDescription string
	TaskType        string
	TaskActive      bool
}

func (r *GormRepository) ListForUser(ctx context.Context, userID string) ([]*assignment.Entry, error) {
	var rows []entryRow
	err := database.Conn(ctx, r.db).
		Table("assignments").
		Select(`assignments.id, assignments.user_id, assignments.task_id, assignments.status,
			assignments.assigned_at, assignments.completed_at,
			tasks.name AS task_name, tasks.description AS task_description,
			tasks.type AS task_type, tasks.active AS task_active`).
		Joins("JOIN tasks ON tasks.id = assignments.task_id").
		Where("assignments.user_id = ?", userID).
		Order("assignments.assigned_at DESC, assignments.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, cerr.WrapDBReadError("assignments", err)
	}

	entries := make([]*assignment.Entry, len(rows))
	for i, row := range rows {
		entries[i] = &assignment.Entry{
			Assignment: assignment.Assignment{
				ID:          row.ID,
				UserID:      row.UserID,
				TaskID:      row.TaskID,
				Status:      assignment.Status(row.Status),
				AssignedAt:  row.AssignedAt,
				CompletedAt: row.CompletedAt,
			},
			TaskName:        row.TaskName,
			TaskDescription: row.TaskDescription,
			TaskType:        row.TaskType,
			TaskActive:      row.TaskActive,
		}
	}
	return entries, nil
}
