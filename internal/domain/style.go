package domain

import "strconv"

// Depth band colors, shallowest to deepest.
const (
	ColorGreen      = "#00ff00"
	ColorLightGreen = "#7fff00"
	ColorYellow     = "#ffff00"
	ColorOrange     = "#ff7f00"
	ColorRed        = "#ff0000"
)

// MinRadius is the radius used for events reported with magnitude exactly 0.
const MinRadius = 1.0

// radiusScale converts magnitude to marker radius.
const radiusScale = 4.0

// Fixed marker stroke settings applied to every quake marker.
const (
	StrokeColor  = "#000000"
	StrokeWeight = 0.5
	Opacity      = 1.0
	FillOpacity  = 0.6
)

// DepthBand is one entry of the depth color table. A depth belongs to the band
// with the greatest Lower strictly below it; the first band also takes every
// depth at or below the second band's threshold, negative depths included.
type DepthBand struct {
	Lower float64 `json:"lower"`
	Color string  `json:"color"`
}

// depthBands is the single ordered table behind both ColorForDepth and
// LegendBands. Thresholds are in kilometers, ascending.
var depthBands = [...]DepthBand{
	{Lower: 0, Color: ColorGreen},
	{Lower: 30, Color: ColorLightGreen},
	{Lower: 50, Color: ColorYellow},
	{Lower: 70, Color: ColorOrange},
	{Lower: 90, Color: ColorRed},
}

// DepthBands returns a copy of the depth color table in ascending order.
func DepthBands() []DepthBand {
	out := make([]DepthBand, len(depthBands))
	copy(out, depthBands[:])
	return out
}

// StyleResult is the presentation derived from a single feature.
type StyleResult struct {
	FillColor string  `json:"fill_color"`
	Radius    float64 `json:"radius"`
}

// LegendEntry is one row of the map legend.
type LegendEntry struct {
	Lower     float64 `json:"lower"`
	Upper     float64 `json:"upper,omitempty"`
	OpenEnded bool    `json:"open_ended"`
	Color     string  `json:"color"`
	Label     string  `json:"label"`
}

// ColorForDepth maps a depth in kilometers to its band color. Thresholds are
// strict: a depth of exactly 90 is orange, not red.
func ColorForDepth(depth float64) string {
	return depthBands[bandIndex(depth)].Color
}

// bandIndex walks the table from the deepest band down. NaN matches no
// threshold and lands in the first band.
func bandIndex(depth float64) int {
	for i := len(depthBands) - 1; i > 0; i-- {
		if depth > depthBands[i].Lower {
			return i
		}
	}
	return 0
}

// RadiusForMagnitude scales magnitude to a marker radius. Magnitude 0 gets
// MinRadius. Negative magnitudes are passed through unclamped and produce a
// negative radius; see NonPositiveRadius.
func RadiusForMagnitude(magnitude float64) float64 {
	if magnitude == 0 {
		return MinRadius
	}
	return magnitude * radiusScale
}

// Resolve computes the fill color and radius for a depth and magnitude.
func Resolve(depth, magnitude float64) StyleResult {
	return StyleResult{
		FillColor: ColorForDepth(depth),
		Radius:    RadiusForMagnitude(magnitude),
	}
}

// NonPositiveRadius reports whether the style would draw an invisible marker.
// This only happens for negative magnitudes.
func NonPositiveRadius(s StyleResult) bool {
	return s.Radius <= 0
}

// LegendBands renders the depth table as legend rows, ascending. A row covers
// depths above Lower up to and including Upper; the last row is open-ended
// and labeled "90+".
func LegendBands() []LegendEntry {
	entries := make([]LegendEntry, len(depthBands))
	for i, b := range depthBands {
		e := LegendEntry{Lower: b.Lower, Color: b.Color}
		if i < len(depthBands)-1 {
			e.Upper = depthBands[i+1].Lower
			e.Label = formatKm(e.Lower) + "–" + formatKm(e.Upper)
		} else {
			e.OpenEnded = true
			e.Label = formatKm(e.Lower) + "+"
		}
		entries[i] = e
	}
	return entries
}

// DepthBandLabel returns the legend label of the band a depth falls into.
func DepthBandLabel(depth float64) string {
	i := bandIndex(depth)
	if i == len(depthBands)-1 {
		return formatKm(depthBands[i].Lower) + "+"
	}
	return formatKm(depthBands[i].Lower) + "–" + formatKm(depthBands[i+1].Lower)
}

func formatKm(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
