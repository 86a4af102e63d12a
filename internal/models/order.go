package models

import "time"

// OrderType 订单类型
type OrderType string

const (
	OrderTypeMarket OrderType = "market" // 市价单
	OrderTypeLimit  OrderType = "limit"  // 限价单
)

// OrderSide 订单方向
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

func (s OrderSide) String() string {
	return string(s)
}

// PositionSide 订单方向对应的持仓方向
func (s OrderSide) PositionSide() PositionSide {
	if s == OrderSideBuy {
		return PositionSideLong
	}
	return PositionSideShort
}

// OrderStatus 订单状态，filled 和 cancelled 是终态，只有 pending 允许迁移
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusFilled    OrderStatus = "filled"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order 用户下单意图及其执行记录，只追加，仅状态与成交字段原地更新
type Order struct {
	ID          string      `json:"id"`
	PositionID  string      `json:"position_id,omitempty"` // 成交后开出的持仓ID
	Type        OrderType   `json:"type"`
	Side        OrderSide   `json:"side"`
	Quantity    float64     `json:"quantity"`
	Price       float64     `json:"price,omitempty"` // 限价单的触发价格
	FilledPrice float64     `json:"filled_price,omitempty"`
	StopLoss    float64     `json:"stop_loss,omitempty"`
	TakeProfit  float64     `json:"take_profit,omitempty"`
	Fee         float64     `json:"fee"` // 限价单挂单时按限价预估，成交时按成交价重算
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	FilledAt    *time.Time  `json:"filled_at,omitempty"`
}

// IsPending 是否处于待成交状态
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

// ShouldFill 当前价格是否满足限价单的成交条件
func (o *Order) ShouldFill(price float64) bool {
	if o.Side == OrderSideBuy {
		return price <= o.Price
	}
	return price >= o.Price
}
