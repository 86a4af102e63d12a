package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dushixiang/papertrade/internal/models"
	"github.com/dushixiang/papertrade/internal/repo"
	"github.com/oklog/ulid/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SnapshotService 定时为所有账户记录快照，供绩效页面展示长周期指标
type SnapshotService struct {
	logger           *zap.Logger
	portfolioService *PortfolioService
	snapshotRepo     *repo.AccountSnapshotRepo
	prices           PriceSource
	intervalMinutes  int

	cron *cron.Cron
}

// NewSnapshotService 创建账户快照服务
func NewSnapshotService(
	logger *zap.Logger,
	portfolioService *PortfolioService,
	snapshotRepo *repo.AccountSnapshotRepo,
	prices PriceSource,
	intervalMinutes int,
) *SnapshotService {
	if intervalMinutes <= 0 {
		intervalMinutes = 10
	}
	return &SnapshotService{
		logger:           logger,
		portfolioService: portfolioService,
		snapshotRepo:     snapshotRepo,
		prices:           prices,
		intervalMinutes:  intervalMinutes,
	}
}

// Start 启动定时快照
func (s *SnapshotService) Start() error {
	// 生成 cron 表达式：每 N 分钟的整点执行
	cronExpr := fmt.Sprintf("*/%d * * * *", s.intervalMinutes)

	s.cron = cron.New()
	_, err := s.cron.AddFunc(cronExpr, func() {
		if err := s.CaptureAll(context.Background()); err != nil {
			s.logger.Error("account snapshot cycle failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("account snapshot scheduler started",
		zap.Int("interval_minutes", s.intervalMinutes),
		zap.String("cron_expression", cronExpr))
	return nil
}

// Stop 停止定时快照并等待进行中的任务结束
func (s *SnapshotService) Stop() {
	if s.cron == nil {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("account snapshot scheduler stopped")
}

// CaptureAll 为全部账户记录一次快照，单个账户失败不影响其余账户
func (s *SnapshotService) CaptureAll(ctx context.Context) error {
	userIDs, err := s.portfolioService.UserIDs(ctx)
	if err != nil {
		return err
	}

	price := s.prices.LastPrice()
	for _, userID := range userIDs {
		if err := s.Capture(ctx, userID, price); err != nil {
			s.logger.Error("failed to capture account snapshot",
				zap.String("user_id", userID),
				zap.Error(err))
		}
	}
	return nil
}

// Capture 为单个账户记录快照
func (s *SnapshotService) Capture(ctx context.Context, userID string, price float64) error {
	portfolio, err := s.portfolioService.Load(ctx, userID)
	if err != nil {
		return err
	}

	initialBalance := s.portfolioService.InitialBalance()
	stats := ComputeStats(portfolio, price, initialBalance)

	peak := portfolio.PeakBalance
	if stats.Equity > peak {
		peak = stats.Equity
	}
	drawdownFromPeak := 0.0
	if peak > 0 {
		drawdownFromPeak = (peak - stats.Equity) / peak * 100
	}

	snapshot := models.AccountSnapshot{
		ID:               ulid.Make().String(),
		UserID:           userID,
		Balance:          portfolio.Balance,
		Equity:           stats.Equity,
		UnrealizedPnl:    stats.UnrealizedPnl,
		PeakBalance:      peak,
		ReturnPercent:    stats.TotalPnlPercent,
		DrawdownFromPeak: drawdownFromPeak,
		SharpeRatio:      s.calculateSharpeRatio(ctx, userID),
		OpenPositions:    len(portfolio.Positions),
		RecordedAt:       time.Now(),
	}
	return s.snapshotRepo.Create(ctx, &snapshot)
}

// History 获取某个用户的快照历史（按时间从旧到新）
func (s *SnapshotService) History(ctx context.Context, userID string) ([]models.AccountSnapshot, error) {
	return s.snapshotRepo.FindByUserOrderByRecordedAt(ctx, userID)
}

// calculateSharpeRatio 基于历史快照的净值序列计算夏普比率
func (s *SnapshotService) calculateSharpeRatio(ctx context.Context, userID string) float64 {
	snapshots, err := s.snapshotRepo.FindByUserOrderByRecordedAt(ctx, userID)
	if err != nil || len(snapshots) < 2 {
		return 0.0
	}

	// 计算每次的收益率
	returns := make([]float64, 0, len(snapshots)-1)
	for i := 1; i < len(snapshots); i++ {
		if snapshots[i-1].Equity > 0 {
			ret := (snapshots[i].Equity - snapshots[i-1].Equity) / snapshots[i-1].Equity
			returns = append(returns, ret)
		}
	}

	if len(returns) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, r := range returns {
		sum += r
	}
	avgReturn := sum / float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += math.Pow(r-avgReturn, 2)
	}
	variance /= float64(len(returns))
	stdDev := math.Sqrt(variance)

	// 假设无风险利率为0
	if stdDev == 0 {
		return 0.0
	}
	return avgReturn / stdDev
}
