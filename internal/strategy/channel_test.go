package strategy

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breakout_bot/internal/models"
)

func candle(high, low float64) models.Candle {
	return models.Candle{High: high, Low: low, Open: low, Close: high}
}

func TestBounds_InsufficientHistory(t *testing.T) {
	for _, length := range []int{1, 3, 20} {
		s := NewChannel(length)
		for n := 0; n <= length; n++ {
			cs := make([]models.Candle, n)
			for i := range cs {
				cs[i] = candle(100, 90)
			}
			assert.False(t, s.Bounds(cs).Ready, "length=%d n=%d", length, n)
			assert.Equal(t, models.SignalInsufficientData, s.Classify(cs), "length=%d n=%d", length, n)
		}
	}
}

func TestBounds_ExcludesCurrentCandle(t *testing.T) {
	s := NewChannel(2)
	cs := []models.Candle{
		candle(50050, 49950),
		candle(50100, 49900),
		candle(50080, 49920),
		candle(99999, 1), // текущая, в окно не входит
	}

	b := s.Bounds(cs)

	require.True(t, b.Ready)
	assert.Equal(t, 50100.0, b.Up)
	assert.Equal(t, 49900.0, b.Down)
}

func TestBounds_LengthOneUsesPreviousCandle(t *testing.T) {
	s := NewChannel(1)
	cs := []models.Candle{candle(50100, 49900), candle(50000, 49950)}

	b := s.Bounds(cs)

	require.True(t, b.Ready)
	assert.Equal(t, 50100.0, b.Up)
	assert.Equal(t, 49900.0, b.Down)
}

func TestClassify(t *testing.T) {
	s := NewChannel(1)
	prev := candle(100, 90)

	tests := []struct {
		name string
		last models.Candle
		want models.Signal
	}{
		{"breakout up", candle(101, 95), models.SignalBuy},
		{"breakout down", candle(99, 89), models.SignalSell},
		{"inside", candle(100, 90), models.SignalHold},
		{"both sides, buy wins", candle(105, 85), models.SignalBuy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Classify([]models.Candle{prev, tt.last}))
		})
	}
}

func TestSeries_UpNeverBelowDown(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for _, length := range []int{1, 2, 5, 14} {
		s := NewChannel(length)
		cs := make([]models.Candle, 200)
		px := 50000.0
		for i := range cs {
			px += (r.Float64() - 0.5) * 100
			lo := px - r.Float64()*50
			hi := px + r.Float64()*50
			cs[i] = models.Candle{OpenTime: time.Unix(int64(i*60), 0), High: hi, Low: lo}
		}

		series := s.Series(cs)

		require.Len(t, series, len(cs))
		for i, b := range series {
			if i < length {
				assert.False(t, b.Ready)
				continue
			}
			require.True(t, b.Ready)
			assert.GreaterOrEqual(t, b.Up, b.Down, "length=%d i=%d", length, i)
		}
	}
}

func TestDump(t *testing.T) {
	s := NewChannel(1)
	assert.Contains(t, s.Dump(nil), "warmup")
	assert.Contains(t, s.Dump([]models.Candle{candle(50100, 49900), candle(1, 1)}), "up=50100.00")
}
