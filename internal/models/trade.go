package models

import "time"

// Trade 已平仓交易记录，创建后不再修改
type Trade struct {
	ID         string       `json:"id"`
	PositionID string       `json:"position_id"`
	Side       PositionSide `json:"side"`
	EntryPrice float64      `json:"entry_price"`
	ExitPrice  float64      `json:"exit_price"`
	Quantity   float64      `json:"quantity"`
	Pnl        float64      `json:"pnl"`
	PnlPercent float64      `json:"pnl_percent"`
	Fee        float64      `json:"fee"`      // 开仓+平仓手续费合计
	Duration   int64        `json:"duration"` // 持仓时长（秒）
	CreatedAt  time.Time    `json:"created_at"`
}
