package calculate

import (
	"math"
	"testing"

	"github.com/Alias1177/riskscan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6}

	got := SMA(values, 3)
	require.Len(t, got, len(values))

	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.InDelta(t, 2.0, got[2], 1e-12)
	assert.InDelta(t, 3.0, got[3], 1e-12)
	assert.InDelta(t, 4.0, got[4], 1e-12)
	assert.InDelta(t, 5.0, got[5], 1e-12)
}

func TestSMA_EdgeCases(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		window int
	}{
		{"window larger than data", []float64{1, 2, 3}, 5},
		{"zero window", []float64{1, 2, 3}, 0},
		{"negative window", []float64{1, 2, 3}, -2},
		{"empty input", nil, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SMA(tt.values, tt.window)
			require.Len(t, got, len(tt.values))
			for _, v := range got {
				assert.True(t, math.IsNaN(v))
			}
		})
	}
}

func TestSMA_WindowOne(t *testing.T) {
	values := []float64{3.5, 1.25, 8}
	assert.Equal(t, values, SMA(values, 1))
}

func TestMovingAverages(t *testing.T) {
	candles := make([]model.Candle, 250)
	for i := range candles {
		candles[i] = model.Candle{Close: float64(i + 1)}
	}

	series := MovingAverages(candles)
	require.Contains(t, series, 50)
	require.Contains(t, series, 200)

	ma50 := series[50]
	assert.True(t, math.IsNaN(ma50[48]))
	assert.InDelta(t, 25.5, ma50[49], 1e-9)
	assert.InDelta(t, 225.5, ma50[249], 1e-9)

	ma200 := series[200]
	assert.True(t, math.IsNaN(ma200[198]))
	assert.InDelta(t, 100.5, ma200[199], 1e-9)
}

func TestMovingAverages_CustomWindows(t *testing.T) {
	candles := []model.Candle{{Close: 2}, {Close: 4}, {Close: 6}}

	series := MovingAverages(candles, 2)
	require.Len(t, series, 1)
	assert.InDelta(t, 5.0, series[2][2], 1e-12)
}
