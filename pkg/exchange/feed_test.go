package exchange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSyntheticFeedStepStaysAboveFloor(t *testing.T) {
	var ticks []Tick
	feed := NewSyntheticFeed(func(tick Tick) {
		ticks = append(ticks, tick)
	}, zap.NewNop())

	feed.lastPrice = syntheticFloorPrice + 10

	for i := 0; i < 1000; i++ {
		feed.step(time.Now())
	}

	require.Len(t, ticks, 1000)
	for _, tick := range ticks {
		assert.GreaterOrEqual(t, tick.Price, syntheticFloorPrice)
		assert.False(t, tick.Time.IsZero())
	}
	assert.InDelta(t, ticks[len(ticks)-1].Price, feed.LastPrice(), 1e-9)
}

func TestSyntheticFeedStartStop(t *testing.T) {
	feed := NewSyntheticFeed(nil, zap.NewNop())

	require.NoError(t, feed.Start(t.Context()))
	defer feed.Stop()

	price := feed.LastPrice()
	assert.GreaterOrEqual(t, price, syntheticBasePrice)
	assert.LessOrEqual(t, price, syntheticBasePrice+2000)
}
