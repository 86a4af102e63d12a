package service

import (
	"github.com/dushixiang/papertrade/pkg/exchange"
	"github.com/dushixiang/papertrade/pkg/ta"
)

// IndicatorService 技术指标计算，仅用于行情展示
type IndicatorService struct{}

// NewIndicatorService 创建技术指标服务
func NewIndicatorService() *IndicatorService {
	return &IndicatorService{}
}

// TimeframeIndicators 单个时间框架的指标快照
type TimeframeIndicators struct {
	Timeframe  string  `json:"timeframe"`
	Price      float64 `json:"price"`
	EMA20      float64 `json:"ema20"`
	EMA50      float64 `json:"ema50"`
	MACD       float64 `json:"macd"`
	MACDSignal float64 `json:"macd_signal"`
	MACDHist   float64 `json:"macd_hist"`
	RSI14      float64 `json:"rsi14"`
	ATR14      float64 `json:"atr14"`
	Volume     float64 `json:"volume"`
	AvgVolume  float64 `json:"avg_volume"`
}

// Snapshot 计算一组K线的指标快照，数据不足50根时返回nil
func (s *IndicatorService) Snapshot(klines []*exchange.Kline) *TimeframeIndicators {
	if len(klines) < 50 {
		return nil
	}

	closes := make([]float64, len(klines))
	highs := make([]float64, len(klines))
	lows := make([]float64, len(klines))
	volumes := make([]float64, len(klines))

	for i, k := range klines {
		closes[i] = k.Close
		highs[i] = k.High
		lows[i] = k.Low
		volumes[i] = k.Volume
	}

	ema20 := ta.EMA(closes, 20)
	ema50 := ta.EMA(closes, 50)
	macd, signal, hist := ta.MACD(closes, 12, 26, 9)
	rsi14 := ta.RSI(closes, 14)
	atr14 := ta.ATR(highs, lows, closes, 14)

	avgVolume := 0.0
	for _, v := range volumes {
		avgVolume += v
	}
	avgVolume /= float64(len(volumes))

	return &TimeframeIndicators{
		Price:      ta.Last(closes, 0),
		EMA20:      ta.Last(ema20, 0),
		EMA50:      ta.Last(ema50, 0),
		MACD:       ta.Last(macd, 0),
		MACDSignal: ta.Last(signal, 0),
		MACDHist:   ta.Last(hist, 0),
		RSI14:      ta.Last(rsi14, 0),
		ATR14:      ta.Last(atr14, 0),
		Volume:     ta.Last(volumes, 0),
		AvgVolume:  avgVolume,
	}
}
