package repo

import (
	"context"
	"time"

	"github.com/dushixiang/papertrade/internal/models"
	"github.com/go-orz/orz"
	"gorm.io/gorm"
)

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{
		Repository: orz.NewRepository[models.User, string](db),
	}
}

type UserRepo struct {
	orz.Repository[models.User, string]
}

// FindByEmail 根据邮箱查找用户
func (r UserRepo) FindByEmail(ctx context.Context, email string) (m models.User, err error) {
	db := r.GetDB(ctx)
	err = db.Table(r.GetTableName()).
		Where("email = ?", email).
		First(&m).Error
	return m, err
}

// FindByUsername 根据用户名查找用户
func (r UserRepo) FindByUsername(ctx context.Context, username string) (m models.User, err error) {
	db := r.GetDB(ctx)
	err = db.Table(r.GetTableName()).
		Where("username = ?", username).
		First(&m).Error
	return m, err
}

// UpdateLastLogin 更新最后登录时间与IP
func (r UserRepo) UpdateLastLogin(ctx context.Context, id, ip string) error {
	db := r.GetDB(ctx)
	return db.Table(r.GetTableName()).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_login_at": time.Now(),
			"last_login_ip": ip,
		}).Error
}
