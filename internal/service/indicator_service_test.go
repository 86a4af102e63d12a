package service

import (
	"testing"

	"github.com/dushixiang/papertrade/pkg/exchange"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeKlines(n int) []*exchange.Kline {
	klines := make([]*exchange.Kline, n)
	for i := 0; i < n; i++ {
		price := 50000 + float64(i)*10
		klines[i] = &exchange.Kline{
			Open:   price - 5,
			High:   price + 20,
			Low:    price - 20,
			Close:  price,
			Volume: 100 + float64(i),
		}
	}
	return klines
}

func TestIndicatorSnapshotRequiresEnoughKlines(t *testing.T) {
	svc := NewIndicatorService()

	assert.Nil(t, svc.Snapshot(makeKlines(49)))
	assert.NotNil(t, svc.Snapshot(makeKlines(50)))
}

func TestIndicatorSnapshotValues(t *testing.T) {
	svc := NewIndicatorService()
	klines := makeKlines(120)

	snapshot := svc.Snapshot(klines)
	require.NotNil(t, snapshot)

	last := klines[len(klines)-1]
	assert.InDelta(t, last.Close, snapshot.Price, 1e-9)
	assert.InDelta(t, last.Volume, snapshot.Volume, 1e-9)

	// 持续上行的序列中短期均线在长期均线上方，RSI偏强
	assert.Greater(t, snapshot.EMA20, snapshot.EMA50)
	assert.Greater(t, snapshot.RSI14, 50.0)
	assert.Positive(t, snapshot.ATR14)
	assert.Positive(t, snapshot.AvgVolume)
}
