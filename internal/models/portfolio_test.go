package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPortfolioDefaults(t *testing.T) {
	now := time.Now()
	p := NewPortfolio("u1", DefaultInitialBalance, now)

	assert.Equal(t, "u1", p.ID)
	assert.InDelta(t, 10000.0, p.Balance, 1e-9)
	assert.InDelta(t, 10000.0, p.PeakBalance, 1e-9)
	assert.Empty(t, p.Positions)
	assert.Empty(t, p.Orders)
	assert.Empty(t, p.Trades)

	// 创建时写入第一个资金曲线点
	require.Len(t, p.EquityCurve, 1)
	assert.InDelta(t, 10000.0, p.EquityCurve[0].Balance, 1e-9)
	assert.Equal(t, now, p.EquityCurve[0].Timestamp)
}

func TestAppendEquityPointCapsOldestFirst(t *testing.T) {
	p := NewPortfolio("u1", 10000, time.Now())

	for i := 0; i < 600; i++ {
		p.Balance = float64(i)
		p.AppendEquityPoint(time.Now())
	}

	require.Len(t, p.EquityCurve, EquityCurveMaxPoints)
	// 淘汰最旧的点：601个点中保留最后500个，曲线首位是第101次追加
	assert.InDelta(t, 100.0, p.EquityCurve[0].Balance, 1e-9)
	assert.InDelta(t, 599.0, p.EquityCurve[EquityCurveMaxPoints-1].Balance, 1e-9)
}

func TestRaisePeakOnlyIncreases(t *testing.T) {
	p := NewPortfolio("u1", 10000, time.Now())

	p.Balance = 12000
	p.RaisePeak()
	assert.InDelta(t, 12000.0, p.PeakBalance, 1e-9)

	p.Balance = 8000
	p.RaisePeak()
	assert.InDelta(t, 12000.0, p.PeakBalance, 1e-9)
}

func TestFindAndRemovePosition(t *testing.T) {
	p := NewPortfolio("u1", 10000, time.Now())
	p.Positions = append(p.Positions,
		Position{ID: "p1", Side: PositionSideLong},
		Position{ID: "p2", Side: PositionSideShort},
	)

	require.NotNil(t, p.FindPosition("p1"))
	assert.Nil(t, p.FindPosition("missing"))

	assert.True(t, p.RemovePosition("p1"))
	assert.False(t, p.RemovePosition("p1"))
	require.Len(t, p.Positions, 1)
	assert.Equal(t, "p2", p.Positions[0].ID)
}

func TestStopLossAndTakeProfit(t *testing.T) {
	long := Position{Side: PositionSideLong, EntryPrice: 50000, StopLoss: 49000, TakeProfit: 52000}
	assert.True(t, long.StopLossHit(48500))
	assert.False(t, long.StopLossHit(49500))
	assert.True(t, long.TakeProfitHit(52500))
	assert.False(t, long.TakeProfitHit(51000))

	short := Position{Side: PositionSideShort, EntryPrice: 50000, StopLoss: 51000, TakeProfit: 48000}
	assert.True(t, short.StopLossHit(51500))
	assert.False(t, short.StopLossHit(50500))
	assert.True(t, short.TakeProfitHit(47500))
	assert.False(t, short.TakeProfitHit(49000))

	// 0 表示未设置
	unset := Position{Side: PositionSideLong, EntryPrice: 50000}
	assert.False(t, unset.StopLossHit(1))
	assert.False(t, unset.TakeProfitHit(1e9))
}

func TestOrderShouldFill(t *testing.T) {
	buy := Order{Side: OrderSideBuy, Price: 40000, Status: OrderStatusPending}
	assert.True(t, buy.ShouldFill(40000))
	assert.True(t, buy.ShouldFill(39000))
	assert.False(t, buy.ShouldFill(41000))

	sell := Order{Side: OrderSideSell, Price: 60000, Status: OrderStatusPending}
	assert.True(t, sell.ShouldFill(60000))
	assert.True(t, sell.ShouldFill(61000))
	assert.False(t, sell.ShouldFill(59000))
}

func TestUnrealizedPnl(t *testing.T) {
	long := Position{Side: PositionSideLong, EntryPrice: 50000, Quantity: 0.1, Fee: 5}
	assert.InDelta(t, 195.0, long.UnrealizedPnl(52000), 1e-9)

	short := Position{Side: PositionSideShort, EntryPrice: 50000, Quantity: 0.1, Fee: 5}
	assert.InDelta(t, 195.0, short.UnrealizedPnl(48000), 1e-9)
}
