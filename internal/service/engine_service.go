package service

import (
	"context"
	"time"

	"github.com/dushixiang/papertrade/internal/models"
	"github.com/dushixiang/papertrade/internal/notify"
	"github.com/dushixiang/papertrade/internal/xe"
	"go.uber.org/zap"
)

// PriceSource 当前价格来源，由行情源实现
type PriceSource interface {
	LastPrice() float64
}

// EngineService 订单执行引擎：把用户的交易意图应用到模拟账户
// 所有变更都经过 PortfolioService 的用户级锁串行执行，提交后整体持久化
type EngineService struct {
	logger           *zap.Logger
	portfolioService *PortfolioService
	prices           PriceSource
	notifier         notify.Notifier
}

// NewEngineService 创建订单执行引擎
func NewEngineService(portfolioService *PortfolioService, prices PriceSource, notifier notify.Notifier, logger *zap.Logger) *EngineService {
	return &EngineService{
		logger:           logger,
		portfolioService: portfolioService,
		prices:           prices,
		notifier:         notifier,
	}
}

// PlaceMarketOrder 以当前行情价立即成交一笔市价单
func (s *EngineService) PlaceMarketOrder(ctx context.Context, userID string, side models.OrderSide, quantity, stopLoss, takeProfit float64) (*MarketOrderResult, error) {
	if side != models.OrderSideBuy && side != models.OrderSideSell {
		return nil, xe.ErrInvalidParams
	}

	price := s.prices.LastPrice()
	if price <= 0 {
		return nil, xe.ErrInvalidPrice
	}

	var result *MarketOrderResult
	err := s.portfolioService.WithPortfolio(ctx, userID, func(p *models.Portfolio) error {
		var err error
		result, err = executeMarketOrder(p, side, quantity, price, stopLoss, takeProfit, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("market order filled",
		zap.String("user_id", userID),
		zap.String("side", side.String()),
		zap.Float64("quantity", quantity),
		zap.Float64("price", result.Price),
		zap.Float64("fee", result.Fee))

	s.notifier.Notify(ctx, notify.Event{
		Kind:      notify.EventOrderFilled,
		UserID:    userID,
		OrderType: string(models.OrderTypeMarket),
		Side:      side.String(),
		Quantity:  quantity,
		Price:     result.Price,
	})

	return result, nil
}

// PlaceLimitOrder 挂一笔限价单，等待行情触发成交
func (s *EngineService) PlaceLimitOrder(ctx context.Context, userID string, side models.OrderSide, quantity, limitPrice, stopLoss, takeProfit float64) (*models.Order, error) {
	if side != models.OrderSideBuy && side != models.OrderSideSell {
		return nil, xe.ErrInvalidParams
	}

	var order models.Order
	err := s.portfolioService.WithPortfolio(ctx, userID, func(p *models.Portfolio) error {
		created, err := executeLimitOrder(p, side, quantity, limitPrice, stopLoss, takeProfit, time.Now())
		if err != nil {
			return err
		}
		order = *created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("limit order placed",
		zap.String("user_id", userID),
		zap.String("order_id", order.ID),
		zap.String("side", side.String()),
		zap.Float64("quantity", quantity),
		zap.Float64("limit_price", limitPrice))

	return &order, nil
}

// ClosePosition 用户手动平仓
func (s *EngineService) ClosePosition(ctx context.Context, userID, positionID string) (*CloseResult, error) {
	price := s.prices.LastPrice()
	if price <= 0 {
		return nil, xe.ErrInvalidPrice
	}

	var result *CloseResult
	err := s.portfolioService.WithPortfolio(ctx, userID, func(p *models.Portfolio) error {
		var err error
		result, err = executeClose(p, positionID, price, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("position closed",
		zap.String("user_id", userID),
		zap.String("position_id", positionID),
		zap.Float64("price", result.Price),
		zap.Float64("pnl", result.Pnl))

	s.notifier.Notify(ctx, notify.Event{
		Kind:       notify.EventPositionClosed,
		UserID:     userID,
		Side:       result.Trade.Side.String(),
		Quantity:   result.Trade.Quantity,
		Price:      result.Price,
		Pnl:        result.Pnl,
		PnlPercent: result.PnlPercent,
		Reason:     notify.ReasonManual,
	})

	return result, nil
}

// CancelOrder 撤销一笔挂单
func (s *EngineService) CancelOrder(ctx context.Context, userID, orderID string) (*models.Order, error) {
	var order models.Order
	err := s.portfolioService.WithPortfolio(ctx, userID, func(p *models.Portfolio) error {
		cancelled, err := executeCancel(p, orderID)
		if err != nil {
			return err
		}
		order = *cancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order cancelled",
		zap.String("user_id", userID),
		zap.String("order_id", orderID))

	s.notifier.Notify(ctx, notify.Event{
		Kind:     notify.EventOrderCancelled,
		UserID:   userID,
		Side:     order.Side.String(),
		Quantity: order.Quantity,
	})

	return &order, nil
}
