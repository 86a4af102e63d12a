package repo

import (
	"context"

	"github.com/dushixiang/papertrade/internal/models"
	"github.com/go-orz/orz"
	"gorm.io/gorm"
)

func NewPortfolioRepo(db *gorm.DB) *PortfolioRepo {
	return &PortfolioRepo{
		Repository: orz.NewRepository[models.Portfolio, string](db),
	}
}

type PortfolioRepo struct {
	orz.Repository[models.Portfolio, string]
}

// FindAllIDs 获取所有模拟账户的用户ID（按创建顺序）
func (r PortfolioRepo) FindAllIDs(ctx context.Context) ([]string, error) {
	var ids []string
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Order("created_at ASC").
		Pluck("id", &ids).Error
	return ids, err
}
