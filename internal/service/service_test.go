package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dushixiang/papertrade/internal/config"
	"github.com/dushixiang/papertrade/internal/models"
	"github.com/dushixiang/papertrade/internal/notify"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// newTestDB 打开一个临时sqlite库并迁移表结构
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.User{}, models.Portfolio{}, models.AccountSnapshot{}))
	return db
}

func newTestPortfolioService(t *testing.T, initialBalance float64) *PortfolioService {
	t.Helper()

	conf := &config.Config{
		Trading: config.TradingConf{InitialBalance: initialBalance},
	}
	return NewPortfolioService(newTestDB(t), conf, zap.NewNop())
}

// fakePrices 固定价格源
type fakePrices struct {
	price float64
}

func (f fakePrices) LastPrice() float64 {
	return f.price
}

// captureNotifier 把事件收集到内存，用于断言
type captureNotifier struct {
	events []notify.Event
}

func (c *captureNotifier) Notify(_ context.Context, event notify.Event) {
	c.events = append(c.events, event)
}
