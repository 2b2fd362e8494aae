package repositoryimpl

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/taskroster/taskroster/internal/database"
	"github.com/taskroster/taskroster/internal/permission"
	"github.com/taskroster/taskroster/pkg/cerr"
)

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) List(ctx context.Context) ([]*permission.Permission, error) {
	var perms []*permission.Permission
	if err := database.Conn(ctx, r.db).Order("codename").Find(&perms).Error; err != nil {
		return nil, cerr.WrapDBReadError("permissions", err)
	}
	return perms, nil
}

func (r *GormRepository) GetByCodename(ctx context.Context, codename string) (*permission.Permission, error) {
	var p permission.Permission
	if err := database.Conn(ctx, r.db).Where("codename = ?", codename).First(&p).Error; err != nil {
		return nil, cerr.WrapDBReadError("permission", err)
	}
	return &p, nil
}

func (r *GormRepository) CreateIfMissing(ctx context.Context, p *permission.Permission) error {
	err := database.Conn(ctx, r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "codename"}}, DoNothing: true}).
		Create(p).Error
	if err != nil {
		return cerr.WrapDBWriteError("permission", err)
	}
	return nil
}

func (r *GormRepository) Grant(ctx context.Context, userID, permissionID string) error {
	g := &permission.Grant{UserID: userID, PermissionID: permissionID}
	err := database.Conn(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(g).Error
	if err != nil {
		return cerr.WrapDBWriteError("grant", err)
	}
	return nil
}

func (r *GormRepository) Revoke(ctx context.Context, userID, permissionID string) error {
	err := database.Conn(ctx, r.db).
		Where("user_id = ? AND permission_id = ?", userID, permissionID).
		Delete(&permission.Grant{}).Error
	if err != nil {
		return cerr.WrapDBWriteError("grant", err)
	}
	return nil
}

func (r *GormRepository) CodenamesForUser(ctx context.Context, userID string) ([]string, error) {
	var codenames []string
	err := database.Conn(ctx, r.db).
		Model(&permission.Permission{}).
		Joins("JOIN user_permissions ON user_permissions.permission_id = permissions.id").
		Where("user_permissions.user_id = ?", userID).
		Order("permissions.codename").
		Pluck("permissions.codename", &codenames).Error
	if err != nil {
		return nil, cerr.WrapDBReadError("permissions", err)
	}
	return codenames, nil
}
