// Package domain models USGS earthquake feed data and the styling rules used
// to draw it on a map.
//
// # Data Source
//
// Events come from the USGS Earthquake Hazards Program GeoJSON summary feeds,
// e.g. https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_week.geojson.
// Each feature carries:
//
//	properties.mag          magnitude, may be null for some event types
//	properties.place        text label, e.g. "10 km NE of Ridgecrest, CA"
//	properties.time         origin time, epoch milliseconds
//	geometry.coordinates    [longitude, latitude, depth]
//
// Depth is in kilometers and can be negative for events located above sea
// level (e.g. shallow volcanic or quarry events reported relative to the geoid).
//
// # Styling
//
// Marker fill color is chosen from a five-band depth table:
//
//	depth > 90        #ff0000  red
//	70 < depth <= 90  #ff7f00  orange
//	50 < depth <= 70  #ffff00  yellow
//	30 < depth <= 50  #7fff00  light green
//	depth <= 30       #00ff00  green
//
// Thresholds are strict, so a boundary depth belongs to the shallower band.
// The same table renders the legend ("0–30" through "90+"), see [LegendBands].
//
// Marker radius is magnitude × 4, except magnitude 0 which is drawn at
// [MinRadius]. Negative magnitudes are not clamped; they produce a negative
// radius that map widgets do not draw. [NonPositiveRadius] identifies them so
// callers can report them.
//
// # Validation
//
// The feed is trusted. [ParseFeature] only rejects features that are missing
// the numbers the styling needs (null magnitude, fewer than three coordinates).
package domain
