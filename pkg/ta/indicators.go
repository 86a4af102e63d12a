package ta

import "github.com/markcheno/go-talib"

// EMA 指数移动平均
func EMA(closes []float64, period int) []float64 {
	return talib.Ema(closes, period)
}

// RSI 相对强弱指数
func RSI(closes []float64, period int) []float64 {
	return talib.Rsi(closes, period)
}

// MACD 返回 macd线、信号线、柱状图
func MACD(closes []float64, fast, slow, signal int) ([]float64, []float64, []float64) {
	return talib.Macd(closes, fast, slow, signal)
}

// ATR 平均真实波幅
func ATR(highs, lows, closes []float64, period int) []float64 {
	return talib.Atr(highs, lows, closes, period)
}

// SMA 简单移动平均
func SMA(closes []float64, period int) []float64 {
	return talib.Sma(closes, period)
}
