package exchange

import (
	"context"
	"math"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/adshao/go-binance/v2"
	"go.uber.org/zap"
)

// Feed 行情源，持续推送 (price, timestamp) 序列
// 消费方对行情的处理不区分来源，真实流和合成流完全等价
type Feed interface {
	Start(ctx context.Context) error
	Stop()
	LastPrice() float64
}

const wsReconnectDelay = 4 * time.Second

// BinanceFeed 基于币安现货成交流的行情源，断线后自动重连
type BinanceFeed struct {
	symbol  string
	handler TickHandler
	logger  *zap.Logger

	mu        sync.RWMutex
	lastPrice float64

	cancel context.CancelFunc
}

// NewBinanceFeed 创建币安行情源
func NewBinanceFeed(symbol string, handler TickHandler, logger *zap.Logger) *BinanceFeed {
	return &BinanceFeed{
		symbol:  symbol,
		handler: handler,
		logger:  logger,
	}
}

// Start 启动行情流，连接断开后以固定间隔重连，直到context取消
func (f *BinanceFeed) Start(ctx context.Context) error {
	ctx, f.cancel = context.WithCancel(ctx)

	go func() {
		for {
			if ctx.Err() != nil {
				return
			}

			doneC, stopC, err := binance.WsTradeServe(f.symbol, f.onTrade, func(err error) {
				f.logger.Warn("trade stream error", zap.String("symbol", f.symbol), zap.Error(err))
			})
			if err != nil {
				f.logger.Warn("failed to connect trade stream, retrying",
					zap.String("symbol", f.symbol),
					zap.Duration("delay", wsReconnectDelay),
					zap.Error(err))
				select {
				case <-time.After(wsReconnectDelay):
					continue
				case <-ctx.Done():
					return
				}
			}

			f.logger.Info("trade stream connected", zap.String("symbol", f.symbol))

			select {
			case <-doneC:
				f.logger.Warn("trade stream closed, reconnecting",
					zap.String("symbol", f.symbol),
					zap.Duration("delay", wsReconnectDelay))
				select {
				case <-time.After(wsReconnectDelay):
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				close(stopC)
				return
			}
		}
	}()

	return nil
}

// Stop 停止行情流
func (f *BinanceFeed) Stop() {
	if f.cancel != nil {
		f.cancel()
	}
}

// LastPrice 最近一笔成交价，尚未收到行情时返回0
func (f *BinanceFeed) LastPrice() float64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.lastPrice
}

func (f *BinanceFeed) onTrade(event *binance.WsTradeEvent) {
	price, err := strconv.ParseFloat(event.Price, 64)
	if err != nil || price <= 0 {
		return
	}

	f.mu.Lock()
	f.lastPrice = price
	f.mu.Unlock()

	if f.handler != nil {
		f.handler(Tick{Price: price, Time: time.Unix(0, event.TradeTime*int64(time.Millisecond))})
	}
}

// SyntheticFeed 合成行情源，在无法连接真实行情时用随机游走模拟价格
type SyntheticFeed struct {
	handler  TickHandler
	logger   *zap.Logger
	interval time.Duration
	rand     *rand.Rand

	mu        sync.RWMutex
	lastPrice float64

	cancel context.CancelFunc
}

const (
	syntheticBasePrice  = 43500.0
	syntheticFloorPrice = 35000.0
	syntheticInterval   = 1200 * time.Millisecond
)

// NewSyntheticFeed 创建合成行情源
func NewSyntheticFeed(handler TickHandler, logger *zap.Logger) *SyntheticFeed {
	return &SyntheticFeed{
		handler:  handler,
		logger:   logger,
		interval: syntheticInterval,
		rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start 启动合成行情，按固定间隔产生带轻微上涨偏置的随机游走价格
func (f *SyntheticFeed) Start(ctx context.Context) error {
	ctx, f.cancel = context.WithCancel(ctx)

	f.mu.Lock()
	f.lastPrice = syntheticBasePrice + f.rand.Float64()*2000
	f.mu.Unlock()

	f.logger.Info("synthetic price feed started",
		zap.Float64("initial_price", f.LastPrice()),
		zap.Duration("interval", f.interval))

	go func() {
		ticker := time.NewTicker(f.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				f.step(time.Now())
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop 停止合成行情
func (f *SyntheticFeed) Stop() {
	if f.cancel != nil {
		f.cancel()
	}
}

// LastPrice 最近一次生成的价格
func (f *SyntheticFeed) LastPrice() float64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.lastPrice
}

func (f *SyntheticFeed) step(now time.Time) {
	f.mu.Lock()
	change := (f.rand.Float64() - 0.49) * 80
	price := math.Max(syntheticFloorPrice, f.lastPrice+change)
	f.lastPrice = price
	f.mu.Unlock()

	if f.handler != nil {
		f.handler(Tick{Price: price, Time: now})
	}
}
