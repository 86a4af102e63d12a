package service

import (
	"context"
	"testing"
	"time"

	"github.com/dushixiang/papertrade/internal/models"
	"github.com/dushixiang/papertrade/internal/notify"
	"github.com/dushixiang/papertrade/pkg/exchange"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func tick(price float64) exchange.Tick {
	return exchange.Tick{Price: price, Time: time.Now()}
}

func TestTriggerFillsLimitBuyOnlyBelowLimit(t *testing.T) {
	ctx := context.Background()
	ps := newTestPortfolioService(t, 10000)
	capture := &captureNotifier{}
	engine := NewEngineService(ps, fakePrices{price: 41000}, &captureNotifier{}, zap.NewNop())
	trigger := NewTriggerService(ps, capture, zap.NewNop())

	order, err := engine.PlaceLimitOrder(ctx, "u1", models.OrderSideBuy, 0.1, 40000, 0, 0)
	require.NoError(t, err)

	// 高于限价的tick不触发买入
	trigger.HandleTick(ctx, tick(41000))
	portfolio, err := ps.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, portfolio.FindOrder(order.ID).Status)
	assert.Empty(t, portfolio.Positions)

	// 低于限价的tick按tick价成交
	trigger.HandleTick(ctx, tick(39500))
	portfolio, err = ps.Load(ctx, "u1")
	require.NoError(t, err)

	filled := portfolio.FindOrder(order.ID)
	assert.Equal(t, models.OrderStatusFilled, filled.Status)
	assert.InDelta(t, 39500.0, filled.FilledPrice, 1e-9)
	require.Len(t, portfolio.Positions, 1)
	assert.InDelta(t, 39500.0, portfolio.Positions[0].EntryPrice, 1e-9)

	require.Len(t, capture.events, 1)
	assert.Equal(t, notify.EventOrderFilled, capture.events[0].Kind)
	assert.Equal(t, "u1", capture.events[0].UserID)
}

func TestTriggerStopLossTakesPrecedence(t *testing.T) {
	ctx := context.Background()
	ps := newTestPortfolioService(t, 10000)
	capture := &captureNotifier{}
	engine := NewEngineService(ps, fakePrices{price: 50000}, &captureNotifier{}, zap.NewNop())
	trigger := NewTriggerService(ps, capture, zap.NewNop())

	// 止损49500、止盈49000，价格49200同时满足两者
	_, err := engine.PlaceMarketOrder(ctx, "u1", models.OrderSideBuy, 0.1, 49500, 49000)
	require.NoError(t, err)

	trigger.HandleTick(ctx, tick(49200))

	portfolio, err := ps.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, portfolio.Positions)
	require.Len(t, portfolio.Trades, 1)

	require.Len(t, capture.events, 1)
	assert.Equal(t, notify.EventPositionClosed, capture.events[0].Kind)
	assert.Equal(t, notify.ReasonStopLoss, capture.events[0].Reason)
}

func TestTriggerTakeProfitClosesPosition(t *testing.T) {
	ctx := context.Background()
	ps := newTestPortfolioService(t, 10000)
	capture := &captureNotifier{}
	engine := NewEngineService(ps, fakePrices{price: 50000}, &captureNotifier{}, zap.NewNop())
	trigger := NewTriggerService(ps, capture, zap.NewNop())

	_, err := engine.PlaceMarketOrder(ctx, "u1", models.OrderSideBuy, 0.1, 48000, 51000)
	require.NoError(t, err)

	// 未触及止盈
	trigger.HandleTick(ctx, tick(50500))
	portfolio, err := ps.Load(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, portfolio.Positions, 1)

	trigger.HandleTick(ctx, tick(51500))
	portfolio, err = ps.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, portfolio.Positions)

	require.Len(t, capture.events, 1)
	assert.Equal(t, notify.ReasonTakeProfit, capture.events[0].Reason)
	assert.Positive(t, capture.events[0].Pnl)
}

func TestTriggerIgnoresCancelledOrders(t *testing.T) {
	ctx := context.Background()
	ps := newTestPortfolioService(t, 10000)
	engine := NewEngineService(ps, fakePrices{price: 41000}, &captureNotifier{}, zap.NewNop())
	trigger := NewTriggerService(ps, &captureNotifier{}, zap.NewNop())

	order, err := engine.PlaceLimitOrder(ctx, "u1", models.OrderSideBuy, 0.1, 40000, 0, 0)
	require.NoError(t, err)
	_, err = engine.CancelOrder(ctx, "u1", order.ID)
	require.NoError(t, err)

	trigger.HandleTick(ctx, tick(39000))

	portfolio, err := ps.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, portfolio.FindOrder(order.ID).Status)
	assert.Empty(t, portfolio.Positions)
}

func TestTriggerInsufficientBalanceDoesNotBlockOthers(t *testing.T) {
	ctx := context.Background()
	ps := newTestPortfolioService(t, 1000)
	capture := &captureNotifier{}
	engine := NewEngineService(ps, fakePrices{price: 41000}, &captureNotifier{}, zap.NewNop())
	trigger := NewTriggerService(ps, capture, zap.NewNop())

	// 第一单买不起，第二单买得起
	big, err := engine.PlaceLimitOrder(ctx, "u1", models.OrderSideBuy, 0.1, 40000, 0, 0)
	require.NoError(t, err)
	small, err := engine.PlaceLimitOrder(ctx, "u1", models.OrderSideBuy, 0.01, 40000, 0, 0)
	require.NoError(t, err)

	trigger.HandleTick(ctx, tick(39000))

	portfolio, err := ps.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, portfolio.FindOrder(big.ID).Status)
	assert.Equal(t, models.OrderStatusFilled, portfolio.FindOrder(small.ID).Status)
	require.Len(t, portfolio.Positions, 1)
	assert.InDelta(t, 0.01, portfolio.Positions[0].Quantity, 1e-9)
}

func TestTriggerIgnoresInvalidTick(t *testing.T) {
	ctx := context.Background()
	ps := newTestPortfolioService(t, 10000)
	engine := NewEngineService(ps, fakePrices{price: 41000}, &captureNotifier{}, zap.NewNop())
	trigger := NewTriggerService(ps, &captureNotifier{}, zap.NewNop())

	order, err := engine.PlaceLimitOrder(ctx, "u1", models.OrderSideBuy, 0.1, 40000, 0, 0)
	require.NoError(t, err)

	trigger.HandleTick(ctx, tick(0))

	portfolio, err := ps.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, portfolio.FindOrder(order.ID).Status)
}

func TestTriggerEvaluatesMultiplePortfolios(t *testing.T) {
	ctx := context.Background()
	ps := newTestPortfolioService(t, 10000)
	engine := NewEngineService(ps, fakePrices{price: 41000}, &captureNotifier{}, zap.NewNop())
	trigger := NewTriggerService(ps, &captureNotifier{}, zap.NewNop())

	_, err := engine.PlaceLimitOrder(ctx, "u1", models.OrderSideBuy, 0.01, 40000, 0, 0)
	require.NoError(t, err)
	_, err = engine.PlaceLimitOrder(ctx, "u2", models.OrderSideBuy, 0.02, 40000, 0, 0)
	require.NoError(t, err)

	trigger.HandleTick(ctx, tick(39000))

	for _, userID := range []string{"u1", "u2"} {
		portfolio, err := ps.Load(ctx, userID)
		require.NoError(t, err)
		require.Len(t, portfolio.Positions, 1, "user %s", userID)
	}
}
