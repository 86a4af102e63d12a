package service

import (
	"testing"
	"time"

	"github.com/dushixiang/papertrade/internal/models"
	"github.com/dushixiang/papertrade/internal/xe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPortfolio(balance float64) *models.Portfolio {
	return models.NewPortfolio("u1", balance, time.Now())
}

func TestExecuteMarketOrderBuy(t *testing.T) {
	p := newPortfolio(10000)
	now := time.Now()

	result, err := executeMarketOrder(p, models.OrderSideBuy, 0.1, 50000, 49000, 52000, now)
	require.NoError(t, err)

	// 成本 5000 + 手续费 5
	assert.InDelta(t, 5.0, result.Fee, 1e-9)
	assert.InDelta(t, 4995.0, p.Balance, 1e-9)

	require.Len(t, p.Positions, 1)
	pos := p.Positions[0]
	assert.Equal(t, models.PositionSideLong, pos.Side)
	assert.InDelta(t, 50000.0, pos.EntryPrice, 1e-9)
	assert.InDelta(t, 0.1, pos.Quantity, 1e-9)
	assert.InDelta(t, 49000.0, pos.StopLoss, 1e-9)
	assert.InDelta(t, 52000.0, pos.TakeProfit, 1e-9)

	require.Len(t, p.Orders, 1)
	order := p.Orders[0]
	assert.Equal(t, models.OrderTypeMarket, order.Type)
	assert.Equal(t, models.OrderStatusFilled, order.Status)
	assert.Equal(t, pos.ID, order.PositionID)
	assert.InDelta(t, 50000.0, order.FilledPrice, 1e-9)
	require.NotNil(t, order.FilledAt)
}

func TestExecuteMarketOrderShortDoesNotDebit(t *testing.T) {
	p := newPortfolio(10000)

	result, err := executeMarketOrder(p, models.OrderSideSell, 0.1, 50000, 0, 0, time.Now())
	require.NoError(t, err)

	// 做空不预扣资金，手续费在平仓时结算
	assert.InDelta(t, 10000.0, p.Balance, 1e-9)
	assert.Equal(t, models.PositionSideShort, result.Position.Side)
	assert.InDelta(t, 5.0, result.Position.Fee, 1e-9)
}

func TestExecuteMarketOrderInsufficientBalance(t *testing.T) {
	p := newPortfolio(10000)

	_, err := executeMarketOrder(p, models.OrderSideBuy, 1, 50000, 0, 0, time.Now())
	require.ErrorIs(t, err, xe.ErrInsufficientBalance)

	// 失败的下单不留下任何痕迹
	assert.InDelta(t, 10000.0, p.Balance, 1e-9)
	assert.Empty(t, p.Positions)
	assert.Empty(t, p.Orders)
}

func TestExecuteMarketOrderValidation(t *testing.T) {
	p := newPortfolio(10000)

	_, err := executeMarketOrder(p, models.OrderSideBuy, 0, 50000, 0, 0, time.Now())
	assert.ErrorIs(t, err, xe.ErrInvalidQuantity)

	_, err = executeMarketOrder(p, models.OrderSideBuy, 0.1, 0, 0, 0, time.Now())
	assert.ErrorIs(t, err, xe.ErrInvalidPrice)
}

func TestExecuteLimitOrderStaysPending(t *testing.T) {
	p := newPortfolio(10000)

	order, err := executeLimitOrder(p, models.OrderSideBuy, 0.1, 40000, 0, 0, time.Now())
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.InDelta(t, 40000.0, order.Price, 1e-9)
	// 挂单不冻结资金
	assert.InDelta(t, 10000.0, p.Balance, 1e-9)
	assert.Empty(t, p.Positions)
}

func TestFillLimitOrderUsesTickPrice(t *testing.T) {
	p := newPortfolio(10000)
	order, err := executeLimitOrder(p, models.OrderSideBuy, 0.1, 40000, 0, 0, time.Now())
	require.NoError(t, err)

	result, err := fillLimitOrder(p, order.ID, 39500, time.Now())
	require.NoError(t, err)

	// 成交价取tick价格，手续费按成交价重算
	assert.InDelta(t, 39500.0, result.Position.EntryPrice, 1e-9)
	assert.InDelta(t, 3.95, result.Fee, 1e-9)
	assert.InDelta(t, 10000.0-3950.0-3.95, p.Balance, 1e-9)

	assert.Equal(t, models.OrderStatusFilled, result.Order.Status)
	assert.InDelta(t, 39500.0, result.Order.FilledPrice, 1e-9)
	assert.Equal(t, result.Position.ID, result.Order.PositionID)
}

func TestFillLimitOrderInsufficientBalanceKeepsPending(t *testing.T) {
	p := newPortfolio(100)
	order, err := executeLimitOrder(p, models.OrderSideBuy, 0.1, 40000, 0, 0, time.Now())
	require.NoError(t, err)

	_, err = fillLimitOrder(p, order.ID, 39500, time.Now())
	require.ErrorIs(t, err, xe.ErrInsufficientBalance)

	// 订单保持pending，等待后续tick重试
	assert.Equal(t, models.OrderStatusPending, p.Orders[0].Status)
	assert.Empty(t, p.Positions)
	assert.InDelta(t, 100.0, p.Balance, 1e-9)
}

func TestExecuteCloseLong(t *testing.T) {
	p := newPortfolio(10000)
	opened := time.Now().Add(-90 * time.Second)
	result, err := executeMarketOrder(p, models.OrderSideBuy, 0.1, 50000, 0, 0, opened)
	require.NoError(t, err)

	closeResult, err := executeClose(p, result.Position.ID, 48000, time.Now())
	require.NoError(t, err)

	// pnl = (48000-50000)*0.1 - 5 - 4.8
	assert.InDelta(t, -209.8, closeResult.Pnl, 1e-9)
	assert.InDelta(t, -209.8/5000*100, closeResult.PnlPercent, 1e-9)
	// 返还 48000*0.1 - 4.8
	assert.InDelta(t, 4995.0+4795.2, p.Balance, 1e-9)

	assert.Empty(t, p.Positions)
	require.Len(t, p.Trades, 1)
	trade := p.Trades[0]
	assert.Equal(t, models.PositionSideLong, trade.Side)
	assert.InDelta(t, 50000.0, trade.EntryPrice, 1e-9)
	assert.InDelta(t, 48000.0, trade.ExitPrice, 1e-9)
	assert.InDelta(t, 9.8, trade.Fee, 1e-9)
	assert.GreaterOrEqual(t, trade.Duration, int64(90))

	// 平仓追加资金曲线点并尝试抬升峰值
	require.Len(t, p.EquityCurve, 2)
	assert.InDelta(t, p.Balance, p.EquityCurve[1].Balance, 1e-9)
}

func TestExecuteCloseShort(t *testing.T) {
	p := newPortfolio(10000)
	result, err := executeMarketOrder(p, models.OrderSideSell, 0.1, 50000, 0, 0, time.Now())
	require.NoError(t, err)

	closeResult, err := executeClose(p, result.Position.ID, 48000, time.Now())
	require.NoError(t, err)

	// pnl = (50000-48000)*0.1 - 5 - 4.8
	assert.InDelta(t, 190.2, closeResult.Pnl, 1e-9)
	// 做空平仓返还 entryValue + pnl
	assert.InDelta(t, 10000.0+5000.0+190.2, p.Balance, 1e-9)
}

func TestExecuteCloseSamePriceLosesFees(t *testing.T) {
	p := newPortfolio(10000)
	result, err := executeMarketOrder(p, models.OrderSideBuy, 0.1, 50000, 0, 0, time.Now())
	require.NoError(t, err)

	closeResult, err := executeClose(p, result.Position.ID, 50000, time.Now())
	require.NoError(t, err)

	// 开平各收一次手续费
	assert.InDelta(t, -10.0, closeResult.Pnl, 1e-9)
	assert.InDelta(t, 9990.0, p.Balance, 1e-9)
}

func TestExecuteClosePositionNotFound(t *testing.T) {
	p := newPortfolio(10000)

	_, err := executeClose(p, "missing", 50000, time.Now())
	assert.ErrorIs(t, err, xe.ErrPositionNotFound)
}

func TestExecuteCancel(t *testing.T) {
	p := newPortfolio(10000)
	order, err := executeLimitOrder(p, models.OrderSideBuy, 0.1, 40000, 0, 0, time.Now())
	require.NoError(t, err)

	cancelled, err := executeCancel(p, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)

	// 已撤销的订单不允许再次撤销
	_, err = executeCancel(p, order.ID)
	assert.ErrorIs(t, err, xe.ErrOrderNotCancellable)

	_, err = executeCancel(p, "missing")
	assert.ErrorIs(t, err, xe.ErrOrderNotFound)
}

func TestExecuteCancelFilledOrder(t *testing.T) {
	p := newPortfolio(10000)
	result, err := executeMarketOrder(p, models.OrderSideBuy, 0.1, 50000, 0, 0, time.Now())
	require.NoError(t, err)

	_, err = executeCancel(p, result.Order.ID)
	assert.ErrorIs(t, err, xe.ErrOrderNotCancellable)
}
