package repositoryimpl

import (
	"context"

	"gorm.io/gorm"

	"github.com/taskroster/taskroster/internal/database"
	"github.com/taskroster/taskroster/internal/task"
	"github.com/taskroster/taskroster/pkg/cerr"
)

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, t *task.Task) error {
	if err := database.Conn(ctx, r.db).Create(t).Error; err != nil {
		return cerr.WrapDBWriteError("task", err)
	}
	return nil
}

func (r *GormRepository) GetActive(ctx context.Context, id string) (*task.Task, error) {
	var t task.Task
	err := database.Conn(ctx, r.db).Where("id = ? AND active = ?", id, true).First(&t).Error
	if err != nil {
		return nil, cerr.WrapDBReadError("task", err)
	}
	return &t, nil
}

func (r *GormRepository) UpdateActive(ctx context.Context, id string, p task.Patch) error {
	columns := map[string]any{"updated_at": p.UpdatedAt}
	if p.Name != nil {
		columns["name"] = *p.Name
	}
	if p.Description != nil {
		columns["description"] = *p.Description
	}
	if p.Type != nil {
		columns["type"] = string(*p.Type)
	}
	if p.Active != nil {
		columns["active"] = *p.Active
	}
	res := database.Conn(ctx, r.db).
		Model(&task.Task{}).
		Where("id = ? AND active = ?", id, true).
		Updates(columns)
	if res.Error != nil {
		return cerr.WrapDBWriteError("task", res.Error)
	}
	if res.RowsAffected == 0 {
		return cerr.NewError(cerr.NotFound, "task not found", nil)
	}
	return nil
}

func (r *GormRepository) ListActiveForUser(ctx context.Context, userID string, limit, offset int) ([]*task.Task, int, error) {
	db := database.Conn(ctx, r.db)
	scope := func() *gorm.DB {
		assigned := db.Session(&gorm.Session{NewDB: true}).
			Table("assignments").
			Select("task_id").
			Where("user_id = ?", userID)
		return db.Model(&task.Task{}).
			Where("active = ?", true).
			Where("id IN (?)", assigned)
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, cerr.WrapDBReadError("tasks", err)
	}

	var tasks []*task.Task
	err := scope().Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&tasks).Error
	if err != nil {
		return nil, 0, cerr.WrapDBReadError("tasks", err)
	}
	return tasks, int(total), nil
}
