package models

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVolatility(t *testing.T) {
	tests := map[string]Volatility{
		"low":    VolatilityLow,
		"LOW":    VolatilityLow,
		" High ": VolatilityHigh,
		"Medium": VolatilityMedium,
		"低":      VolatilityLow,
		"中":      VolatilityMedium,
		"高":      VolatilityHigh,
		"wild":   Volatility("wild"),
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseVolatility(in), in)
	}

	assert.Equal(t, 3.0, VolatilityHigh.Weight())
	assert.Equal(t, 2.0, VolatilityMedium.Weight())
	assert.Equal(t, 1.0, VolatilityLow.Weight())
	assert.Equal(t, 1.0, Volatility("wild").Weight())
}

func TestDecodeSnapshot(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(`{
		"watchlist": [{"symbol": "AAPL", "changePercent": 0.73, "volatility": "中", "sector": "Tech"}],
		"headlines": [{"title": "Fed", "detail": "hold", "tone": "neutral"}]
	}`))
	require.NoError(t, err)

	require.Len(t, snap.Watchlist, 1)
	assert.Equal(t, VolatilityMedium, snap.Watchlist[0].Volatility)
	assert.Len(t, snap.Headlines, 1)
	assert.NotNil(t, snap.Insights)
	assert.NotNil(t, snap.Community)
	assert.NotNil(t, snap.Sessions)
	assert.Equal(t, DefaultSparklineLabel, snap.Sparkline.Label)
	assert.Empty(t, snap.Sparkline.Series)
}

func TestDecodeSnapshotMalformed(t *testing.T) {
	for name, body := range map[string]string{
		"empty":       ``,
		"array":       `[]`,
		"string":      `"dashboard"`,
		"bad json":    `{"watchlist":`,
		"wrong types": `{"watchlist": {"symbol": "AAPL"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeSnapshot([]byte(body))
			assert.True(t, errors.Is(err, ErrMalformedSnapshot))
		})
	}
}

func TestSparklineLenientDecode(t *testing.T) {
	var s Sparkline
	require.NoError(t, json.Unmarshal([]byte(`{"label": "", "series": [1, null, "x", 4]}`), &s))

	assert.Equal(t, DefaultSparklineLabel, s.Label)
	require.Len(t, s.Series, 4)
	assert.Equal(t, 1.0, s.Series[0])
	assert.True(t, math.IsNaN(s.Series[1]))
	assert.True(t, math.IsNaN(s.Series[2]))
	assert.Equal(t, 4.0, s.Series[3])

	require.NoError(t, json.Unmarshal([]byte(`{"label": "X", "series": "oops"}`), &s))
	assert.Equal(t, "X", s.Label)
	assert.Empty(t, s.Series)

	b, err := json.Marshal(Sparkline{Label: "L", Series: []float64{1, math.NaN()}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"label":"L","series":[1,null]}`, string(b))
}
