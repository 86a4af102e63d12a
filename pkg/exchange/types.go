package exchange

import "time"

// Kline K线数据
type Kline struct {
	OpenTime  time.Time `json:"open_time"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
	CloseTime time.Time `json:"close_time"`
}

// Ticker24h 24小时行情统计
type Ticker24h struct {
	LastPrice     float64 `json:"last_price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Volume        float64 `json:"volume"`
	QuoteVolume   float64 `json:"quote_volume"`
}

// Tick 实时成交价
type Tick struct {
	Price float64   `json:"price"`
	Time  time.Time `json:"time"`
}

// TickHandler 行情回调，行情源每收到一笔成交调用一次
type TickHandler func(Tick)
