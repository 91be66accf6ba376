package domain

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorForDepth(t *testing.T) {
	tests := []struct {
		name     string
		depth    float64
		expected string
	}{
		{"deep", 300, ColorRed},
		{"just above 90", 90.0001, ColorRed},
		{"exactly 90", 90, ColorOrange},
		{"between 70 and 90", 80, ColorOrange},
		{"exactly 70", 70, ColorYellow},
		{"between 50 and 70", 55.5, ColorYellow},
		{"exactly 50", 50, ColorLightGreen},
		{"between 30 and 50", 31, ColorLightGreen},
		{"exactly 30", 30, ColorGreen},
		{"shallow", 12.3, ColorGreen},
		{"zero", 0, ColorGreen},
		{"above sea level", -5, ColorGreen},
		{"very negative", -1e9, ColorGreen},
		{"positive infinity", math.Inf(1), ColorRed},
		{"negative infinity", math.Inf(-1), ColorGreen},
		{"NaN", math.NaN(), ColorGreen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ColorForDepth(tt.depth))
		})
	}
}

func TestColorForDepth_MonotoneInDepth(t *testing.T) {
	rank := map[string]int{}
	for i, b := range DepthBands() {
		rank[b.Color] = i
	}

	prev := -1
	for d := -50.0; d <= 150; d += 0.25 {
		c := ColorForDepth(d)
		r, ok := rank[c]
		require.True(t, ok, "unexpected color %s at depth %v", c, d)
		assert.GreaterOrEqual(t, r, prev, "warmth decreased at depth %v", d)
		prev = r
	}
}

func TestRadiusForMagnitude(t *testing.T) {
	tests := []struct {
		name      string
		magnitude float64
		expected  float64
	}{
		{"zero uses minimum", 0, 1},
		{"negative zero uses minimum", math.Copysign(0, -1), 1},
		{"small", 2.5, 10},
		{"large", 6.1, 24.4},
		{"tiny", 0.1, 0.4},
		{"negative passes through", -1, -4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RadiusForMagnitude(tt.magnitude))
		})
	}
}

func TestNonPositiveRadius(t *testing.T) {
	assert.True(t, NonPositiveRadius(Resolve(10, -1)))
	assert.False(t, NonPositiveRadius(Resolve(10, 0)))
	assert.False(t, NonPositiveRadius(Resolve(10, 3.2)))
}

func TestLegendBands(t *testing.T) {
	bands := LegendBands()
	require.Len(t, bands, 5)

	colors := make([]string, len(bands))
	labels := make([]string, len(bands))
	for i, b := range bands {
		colors[i] = b.Color
		labels[i] = b.Label
		if i > 0 {
			assert.Greater(t, b.Lower, bands[i-1].Lower, "bands must ascend")
			assert.Equal(t, bands[i-1].Upper, b.Lower, "bands must be contiguous")
		}
	}

	assert.Equal(t, []string{"#00ff00", "#7fff00", "#ffff00", "#ff7f00", "#ff0000"}, colors)
	assert.Equal(t, []string{"0–30", "30–50", "50–70", "70–90", "90+"}, labels)
	assert.True(t, bands[4].OpenEnded)
	for _, b := range bands[:4] {
		assert.False(t, b.OpenEnded)
	}
}

func TestLegendBands_MatchColorForDepth(t *testing.T) {
	for _, b := range LegendBands() {
		// Any depth strictly inside a legend row must be colored with that row's color.
		depth := b.Lower + 1
		assert.Equal(t, b.Color, ColorForDepth(depth), "legend row %s", b.Label)
		assert.Equal(t, b.Label, DepthBandLabel(depth))
	}
}

func TestDepthBandLabel(t *testing.T) {
	assert.Equal(t, "0–30", DepthBandLabel(-5))
	assert.Equal(t, "0–30", DepthBandLabel(30))
	assert.Equal(t, "70–90", DepthBandLabel(90))
	assert.Equal(t, "90+", DepthBandLabel(650))
}

func TestDepthBands_ReturnsCopy(t *testing.T) {
	bands := DepthBands()
	bands[0].Color = "#123456"
	assert.Equal(t, ColorGreen, ColorForDepth(0))
}

func TestResolve_EndToEnd(t *testing.T) {
	// mag=6.1 at [-122.4, 37.8, 12.3]
	assert.Equal(t, StyleResult{FillColor: "#00ff00", Radius: 24.4}, Resolve(12.3, 6.1))
}

func TestResolve_Idempotent(t *testing.T) {
	first := Resolve(88.8, 4.7)

	var wg sync.WaitGroup
	results := make([]StyleResult, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Resolve(88.8, 4.7)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, first, r)
		assert.Equal(t, math.Float64bits(first.Radius), math.Float64bits(r.Radius))
	}
}
