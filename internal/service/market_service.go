package service

import (
	"context"
	"sort"
	"time"

	"github.com/dushixiang/papertrade/pkg/exchange"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// timeframeLimits 行情指标使用的时间框架及对应K线数量
var timeframeLimits = map[string]int{
	"15m": 96,
	"1h":  120,
	"4h":  180,
}

// MarketService 行情数据服务
type MarketService struct {
	logger     *zap.Logger
	client     *exchange.MarketClient
	indicators *IndicatorService
	symbol     string
}

// NewMarketService 创建行情数据服务
func NewMarketService(logger *zap.Logger, client *exchange.MarketClient, indicators *IndicatorService, symbol string) *MarketService {
	if symbol == "" {
		symbol = "BTCUSDT"
	}
	return &MarketService{
		logger:     logger,
		client:     client,
		indicators: indicators,
		symbol:     symbol,
	}
}

// Symbol 返回交易对
func (s *MarketService) Symbol() string {
	return s.symbol
}

// GetKlines 获取K线
func (s *MarketService) GetKlines(ctx context.Context, interval string, limit int) ([]*exchange.Kline, error) {
	if interval == "" {
		interval = "1h"
	}
	if limit <= 0 || limit > 1000 {
		limit = 200
	}
	return s.client.GetKlines(ctx, s.symbol, interval, limit, time.Time{})
}

// GetTicker24h 获取24小时行情统计
func (s *MarketService) GetTicker24h(ctx context.Context) (*exchange.Ticker24h, error) {
	return s.client.GetTicker24h(ctx, s.symbol)
}

// GetCurrentPrice 获取最新成交价
func (s *MarketService) GetCurrentPrice(ctx context.Context) (float64, error) {
	return s.client.GetCurrentPrice(ctx, s.symbol)
}

// GetIndicators 并发拉取多个周期K线并计算指标快照
func (s *MarketService) GetIndicators(ctx context.Context) ([]*TimeframeIndicators, error) {
	var (
		g, gctx = errgroup.WithContext(ctx)
		results = make([]*TimeframeIndicators, 0, len(timeframeLimits))
		ch      = make(chan *TimeframeIndicators, len(timeframeLimits))
	)

	for timeframe, limit := range timeframeLimits {
		g.Go(func() error {
			klines, err := s.client.GetKlines(gctx, s.symbol, timeframe, limit, time.Time{})
			if err != nil {
				return err
			}
			snapshot := s.indicators.Snapshot(klines)
			if snapshot == nil {
				s.logger.Warn("not enough klines for indicators",
					zap.String("symbol", s.symbol),
					zap.String("timeframe", timeframe),
					zap.Int("count", len(klines)),
				)
				return nil
			}
			snapshot.Timeframe = timeframe
			ch <- snapshot
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(ch)

	for snapshot := range ch {
		results = append(results, snapshot)
	}
	sort.Slice(results, func(i, j int) bool {
		return timeframeLimits[results[i].Timeframe] < timeframeLimits[results[j].Timeframe]
	})
	return results, nil
}
