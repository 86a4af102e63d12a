package notify

import "context"

// EventKind 引擎事件类型
type EventKind string

const (
	EventOrderFilled    EventKind = "order_filled"
	EventPositionClosed EventKind = "position_closed"
	EventOrderCancelled EventKind = "order_cancelled"
)

// CloseReason 平仓原因
type CloseReason string

const (
	ReasonManual     CloseReason = "manual"
	ReasonStopLoss   CloseReason = "stop_loss"
	ReasonTakeProfit CloseReason = "take_profit"
)

// Event 引擎产生的结构化事件，由各通知实现自行渲染文案
type Event struct {
	Kind       EventKind   `json:"kind"`
	UserID     string      `json:"user_id"`
	OrderType  string      `json:"order_type,omitempty"`
	Side       string      `json:"side,omitempty"`
	Quantity   float64     `json:"quantity,omitempty"`
	Price      float64     `json:"price,omitempty"`
	Pnl        float64     `json:"pnl,omitempty"`
	PnlPercent float64     `json:"pnl_percent,omitempty"`
	Reason     CloseReason `json:"reason,omitempty"`
}

// Notifier 事件通知接口
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

// Multi 把事件广播给多个通知实现
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, event Event) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, event)
		}
	}
}
