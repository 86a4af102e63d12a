package models

import "time"

// PositionSide 持仓方向
type PositionSide string

const (
	PositionSideLong  PositionSide = "long"
	PositionSideShort PositionSide = "short"
)

func (s PositionSide) String() string {
	return string(s)
}

// PositionStatus 持仓状态，持仓只以 open 状态存在于集合中，平仓即整体移除
type PositionStatus string

const (
	PositionStatusOpen PositionStatus = "open"
)

// Position 未平仓的模拟持仓
type Position struct {
	ID         string         `json:"id"`
	Side       PositionSide   `json:"side"`
	EntryPrice float64        `json:"entry_price"`           // 开仓价格
	Quantity   float64        `json:"quantity"`              // 持仓数量（BTC）
	StopLoss   float64        `json:"stop_loss,omitempty"`   // 止损价，0表示未设置
	TakeProfit float64        `json:"take_profit,omitempty"` // 止盈价，0表示未设置
	Fee        float64        `json:"fee"`                   // 已支付的开仓手续费
	Status     PositionStatus `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
}

// EntryValue 开仓名义价值
func (p *Position) EntryValue() float64 {
	return p.EntryPrice * p.Quantity
}

// UnrealizedPnl 按当前价格计算的未实现盈亏（已扣除开仓手续费）
func (p *Position) UnrealizedPnl(price float64) float64 {
	if p.Side == PositionSideLong {
		return (price-p.EntryPrice)*p.Quantity - p.Fee
	}
	return (p.EntryPrice-price)*p.Quantity - p.Fee
}

// StopLossHit 止损条件是否被触发
func (p *Position) StopLossHit(price float64) bool {
	if p.StopLoss <= 0 {
		return false
	}
	if p.Side == PositionSideLong {
		return price <= p.StopLoss
	}
	return price >= p.StopLoss
}

// TakeProfitHit 止盈条件是否被触发
func (p *Position) TakeProfitHit(price float64) bool {
	if p.TakeProfit <= 0 {
		return false
	}
	if p.Side == PositionSideLong {
		return price >= p.TakeProfit
	}
	return price <= p.TakeProfit
}
