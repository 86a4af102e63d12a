package service

import (
	"context"
	"time"

	"github.com/dushixiang/papertrade/internal/models"
	"github.com/dushixiang/papertrade/internal/notify"
	"github.com/dushixiang/papertrade/pkg/exchange"
	"go.uber.org/zap"
)

// TriggerService 行情触发器：每收到一个tick，检查所有账户的挂单成交与止损止盈
// 两个阶段（先挂单、后止损止盈）在同一次加锁内完成后才算处理完这个tick
type TriggerService struct {
	logger           *zap.Logger
	portfolioService *PortfolioService
	notifier         notify.Notifier
}

// NewTriggerService 创建行情触发器
func NewTriggerService(portfolioService *PortfolioService, notifier notify.Notifier, logger *zap.Logger) *TriggerService {
	return &TriggerService{
		logger:           logger,
		portfolioService: portfolioService,
		notifier:         notifier,
	}
}

// HandleTick 处理一个行情tick，逐个账户评估；单个账户失败不影响其他账户
func (s *TriggerService) HandleTick(ctx context.Context, tick exchange.Tick) {
	if tick.Price <= 0 {
		return
	}

	userIDs, err := s.portfolioService.UserIDs(ctx)
	if err != nil {
		s.logger.Error("failed to list portfolios for trigger evaluation", zap.Error(err))
		return
	}

	for _, userID := range userIDs {
		if err := s.evaluatePortfolio(ctx, userID, tick); err != nil {
			s.logger.Error("failed to evaluate portfolio triggers",
				zap.String("user_id", userID),
				zap.Error(err))
		}
	}
}

func (s *TriggerService) evaluatePortfolio(ctx context.Context, userID string, tick exchange.Tick) error {
	var events []notify.Event

	err := s.portfolioService.WithPortfolio(ctx, userID, func(p *models.Portfolio) error {
		events = s.evaluateTick(p, tick.Price, tick.Time)
		return nil
	})
	if err != nil {
		return err
	}

	for _, event := range events {
		event.UserID = userID
		s.notifier.Notify(ctx, event)
	}
	return nil
}

// evaluateTick 在已加锁的账户上执行两个触发阶段，返回产生的事件
func (s *TriggerService) evaluateTick(p *models.Portfolio, price float64, now time.Time) []notify.Event {
	var events []notify.Event

	// 阶段一：挂单成交。同一tick内所有满足条件的挂单各自独立成交，
	// 成交价取tick价格而非限价（触发即成交，无滑点模型）
	for i := range p.Orders {
		order := &p.Orders[i]
		if order.Type != models.OrderTypeLimit || !order.IsPending() || !order.ShouldFill(price) {
			continue
		}

		result, err := fillLimitOrder(p, order.ID, price, now)
		if err != nil {
			s.logger.Warn("failed to fill limit order",
				zap.String("order_id", order.ID),
				zap.Float64("price", price),
				zap.Error(err))
			continue
		}

		events = append(events, notify.Event{
			Kind:      notify.EventOrderFilled,
			OrderType: string(models.OrderTypeLimit),
			Side:      result.Order.Side.String(),
			Quantity:  result.Order.Quantity,
			Price:     price,
		})
	}

	// 阶段二：止损止盈。对持仓集合先做快照再逐个平仓，避免边遍历边删除；
	// 同一tick同时越过止损和止盈时（跳空行情），止损优先
	snapshot := make([]models.Position, len(p.Positions))
	copy(snapshot, p.Positions)

	for i := range snapshot {
		pos := &snapshot[i]

		var reason notify.CloseReason
		switch {
		case pos.StopLossHit(price):
			reason = notify.ReasonStopLoss
		case pos.TakeProfitHit(price):
			reason = notify.ReasonTakeProfit
		default:
			continue
		}

		result, err := executeClose(p, pos.ID, price, now)
		if err != nil {
			// 单个持仓平仓失败不中止同一tick内其余持仓的评估
			s.logger.Warn("failed to auto close position",
				zap.String("position_id", pos.ID),
				zap.String("reason", string(reason)),
				zap.Error(err))
			continue
		}

		events = append(events, notify.Event{
			Kind:       notify.EventPositionClosed,
			Side:       result.Trade.Side.String(),
			Quantity:   result.Trade.Quantity,
			Price:      price,
			Pnl:        result.Pnl,
			PnlPercent: result.PnlPercent,
			Reason:     reason,
		})
	}

	return events
}
