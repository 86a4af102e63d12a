package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dushixiang/papertrade/internal/config"
	"github.com/dushixiang/papertrade/internal/models"
	"github.com/dushixiang/papertrade/internal/repo"
	"github.com/go-orz/orz"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PortfolioService 模拟账户仓库：负责加载、保存，并保证同一账户的变更串行执行
type PortfolioService struct {
	logger *zap.Logger

	*orz.Service
	*repo.PortfolioRepo

	initialBalance float64

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewPortfolioService 创建模拟账户服务
func NewPortfolioService(db *gorm.DB, conf *config.Config, logger *zap.Logger) *PortfolioService {
	initialBalance := conf.Trading.InitialBalance
	if initialBalance <= 0 {
		initialBalance = models.DefaultInitialBalance
	}

	return &PortfolioService{
		logger:         logger,
		Service:        orz.NewService(db),
		PortfolioRepo:  repo.NewPortfolioRepo(db),
		initialBalance: initialBalance,
		locks:          make(map[string]*sync.Mutex),
	}
}

// lockFor 获取某个用户的账户互斥锁，锁只增不减
func (s *PortfolioService) lockFor(userID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	mu, ok := s.locks[userID]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[userID] = mu
	}
	return mu
}

// Load 加载用户的模拟账户，首次访问时创建默认账户并落库
func (s *PortfolioService) Load(ctx context.Context, userID string) (*models.Portfolio, error) {
	portfolio, err := s.PortfolioRepo.FindById(ctx, userID)
	if err == nil {
		return &portfolio, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}

	created := models.NewPortfolio(userID, s.initialBalance, time.Now())
	if err := s.PortfolioRepo.Create(ctx, created); err != nil {
		return nil, fmt.Errorf("failed to create default portfolio: %w", err)
	}

	s.logger.Info("created default portfolio",
		zap.String("user_id", userID),
		zap.Float64("initial_balance", s.initialBalance))

	return created, nil
}

// WithPortfolio 在用户级互斥锁内加载、变更并保存账户
// fn 返回错误时账户不保存，任何变更都不会对外可见
func (s *PortfolioService) WithPortfolio(ctx context.Context, userID string, fn func(p *models.Portfolio) error) error {
	mu := s.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()

	portfolio, err := s.Load(ctx, userID)
	if err != nil {
		return err
	}

	if err := fn(portfolio); err != nil {
		return err
	}

	if err := s.PortfolioRepo.Save(ctx, portfolio); err != nil {
		return fmt.Errorf("failed to save portfolio: %w", err)
	}
	return nil
}

// UserIDs 枚举所有已有模拟账户的用户
func (s *PortfolioService) UserIDs(ctx context.Context) ([]string, error) {
	return s.PortfolioRepo.FindAllIDs(ctx)
}

// InitialBalance 配置的初始资金
func (s *PortfolioService) InitialBalance() float64 {
	return s.initialBalance
}
