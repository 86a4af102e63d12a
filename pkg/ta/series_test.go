package ta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLast(t *testing.T) {
	s := []float64{1, 2, 3, 4}
	assert.InDelta(t, 4.0, Last(s, 0), 1e-9)
	assert.InDelta(t, 3.0, Last(s, 1), 1e-9)
}

func TestLastValues(t *testing.T) {
	s := []float64{1, 2, 3, 4}
	assert.Equal(t, []float64{3, 4}, LastValues(s, 2))
	assert.Equal(t, s, LastValues(s, 10))
}

func TestLowestHighest(t *testing.T) {
	s := []float64{5, 1, 9, 3, 7}
	assert.InDelta(t, 1.0, Lowest(s, 5), 1e-9)
	assert.InDelta(t, 3.0, Lowest(s, 2), 1e-9)
	assert.InDelta(t, 9.0, Highest(s, 5), 1e-9)
	assert.InDelta(t, 7.0, Highest(s, 2), 1e-9)
}
