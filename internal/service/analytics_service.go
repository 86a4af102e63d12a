package service

import (
	"context"

	"github.com/dushixiang/papertrade/internal/models"
	"go.uber.org/zap"
)

// PerformanceStats 绩效统计，由账户快照与当前价格派生
type PerformanceStats struct {
	TotalTrades     int     `json:"total_trades"`
	WinRate         float64 `json:"win_rate"`
	TotalPnl        float64 `json:"total_pnl"`
	TotalPnlPercent float64 `json:"total_pnl_percent"`
	MaxDrawdown     float64 `json:"max_drawdown"`
	AvgWin          float64 `json:"avg_win"`
	AvgLoss         float64 `json:"avg_loss"`
	UnrealizedPnl   float64 `json:"unrealized_pnl"`
	Equity          float64 `json:"equity"`
}

// ComputeStats 计算绩效统计，只读，不修改账户
// currentPrice<=0 时（行情尚未就绪）未实现盈亏按0计
func ComputeStats(p *models.Portfolio, currentPrice, startingCapital float64) *PerformanceStats {
	stats := &PerformanceStats{
		TotalTrades: len(p.Trades),
	}

	wins := 0
	var winSum, lossSum float64
	losses := 0
	for i := range p.Trades {
		pnl := p.Trades[i].Pnl
		stats.TotalPnl += pnl
		if pnl > 0 {
			wins++
			winSum += pnl
		} else {
			losses++
			lossSum += pnl
		}
	}

	if stats.TotalTrades > 0 {
		stats.WinRate = float64(wins) / float64(stats.TotalTrades) * 100
	}
	if wins > 0 {
		stats.AvgWin = winSum / float64(wins)
	}
	if losses > 0 {
		stats.AvgLoss = lossSum / float64(losses)
	}

	if currentPrice > 0 {
		for i := range p.Positions {
			stats.UnrealizedPnl += p.Positions[i].UnrealizedPnl(currentPrice)
		}
	}
	stats.Equity = p.Balance + stats.UnrealizedPnl

	// 最大回撤：沿资金曲线维护运行峰值，峰值以初始资金起步
	peak := startingCapital
	for _, point := range p.EquityCurve {
		if point.Balance > peak {
			peak = point.Balance
		}
		if peak > 0 {
			if dd := (peak - point.Balance) / peak * 100; dd > stats.MaxDrawdown {
				stats.MaxDrawdown = dd
			}
		}
	}

	if startingCapital > 0 {
		stats.TotalPnlPercent = (stats.Equity - startingCapital) / startingCapital * 100
	}

	return stats
}

// AnalyticsService 绩效统计服务
type AnalyticsService struct {
	logger           *zap.Logger
	portfolioService *PortfolioService
	prices           PriceSource
}

// NewAnalyticsService 创建绩效统计服务
func NewAnalyticsService(portfolioService *PortfolioService, prices PriceSource, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		logger:           logger,
		portfolioService: portfolioService,
		prices:           prices,
	}
}

// GetStats 获取某个用户的绩效统计
func (s *AnalyticsService) GetStats(ctx context.Context, userID string) (*PerformanceStats, error) {
	portfolio, err := s.portfolioService.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	return ComputeStats(portfolio, s.prices.LastPrice(), s.portfolioService.InitialBalance()), nil
}
