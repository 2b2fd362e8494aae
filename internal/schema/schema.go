// Package schema creates the tables every repository works on.
package schema

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/taskroster/taskroster/internal/assignment"
	"github.com/taskroster/taskroster/internal/permission"
	"github.com/taskroster/taskroster/internal/task"
	"github.com/taskroster/taskroster/internal/user"
)

// openAssignmentIndex allows at most one non-completed assignment per user
// and task. Both SQLite and PostgreSQL accept partial indexes.
const openAssignmentIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_assignments_open_pair
	ON assignments (user_id, task_id) WHERE status <> 'completed'`

func Migrate(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)
	if err := db.AutoMigrate(
		&user.User{},
		&permission.Permission{},
		&permission.Grant{},
		&task.Task{},
		&assignment.Assignment{},
	); err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}
	if err := db.Exec(openAssignmentIndex).Error; err != nil {
		return fmt.Errorf("failed to create open assignment index: %w", err)
	}
	return nil
}
