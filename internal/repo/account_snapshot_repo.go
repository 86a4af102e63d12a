package repo

import (
	"context"

	"github.com/dushixiang/papertrade/internal/models"
	"github.com/go-orz/orz"
	"gorm.io/gorm"
)

func NewAccountSnapshotRepo(db *gorm.DB) *AccountSnapshotRepo {
	return &AccountSnapshotRepo{
		Repository: orz.NewRepository[models.AccountSnapshot, string](db),
	}
}

type AccountSnapshotRepo struct {
	orz.Repository[models.AccountSnapshot, string]
}

// FindByUserOrderByRecordedAt 获取某个用户的全部快照（按时间从旧到新）
func (r AccountSnapshotRepo) FindByUserOrderByRecordedAt(ctx context.Context, userID string) ([]models.AccountSnapshot, error) {
	var snapshots []models.AccountSnapshot
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Where("user_id = ?", userID).
		Order("recorded_at ASC").
		Find(&snapshots).Error
	return snapshots, err
}

// FindRecentByUser 获取某个用户最近的limit条快照（按时间从新到旧）
func (r AccountSnapshotRepo) FindRecentByUser(ctx context.Context, userID string, limit int) ([]models.AccountSnapshot, error) {
	var snapshots []models.AccountSnapshot
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Where("user_id = ?", userID).
		Order("recorded_at DESC").
		Limit(limit).
		Find(&snapshots).Error
	return snapshots, err
}
