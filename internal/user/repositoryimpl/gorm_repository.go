package repositoryimpl

import (
	"context"

	"gorm.io/gorm"

	"github.com/taskroster/taskroster/internal/database"
	"github.com/taskroster/taskroster/internal/user"
	"github.com/taskroster/taskroster/pkg/cerr"
)

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, u *user.User) error {
	if err := database.Conn(ctx, r.db).Create(u).Error; err != nil {
		return cerr.WrapDBWriteError("user", err)
	}
	return nil
}

func (r *GormRepository) Get(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, cerr.WrapDBReadError("user", err)
	}
	return &u, nil
}

func (r *GormRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	if err := database.Conn(ctx, r.db).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, cerr.WrapDBReadError("user", err)
	}
	return &u, nil
}

func (r *GormRepository) FindByIDs(ctx context.Context, ids []string) ([]*user.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []*user.User
	if err := database.Conn(ctx, r.db).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, cerr.WrapDBReadError("users", err)
	}
	return users, nil
}

func (r *GormRepository) ListExcept(ctx context.Context, userID string) ([]*user.User, error) {
	var users []*user.User
	err := database.Conn(ctx, r.db).
		Where("id <> ? AND active = ?", userID, true).
		Order("email").
		Find(&users).Error
	if err != nil {
		return nil, cerr.WrapDBReadError("users", err)
	}
	return users, nil
}
