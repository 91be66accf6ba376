package domain

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"time"
)

var (
	// ErrMissingMagnitude is returned for features published with a null mag.
	ErrMissingMagnitude = errors.New("feature has no magnitude")

	// ErrMissingCoordinates is returned when the geometry lacks lon, lat and depth.
	ErrMissingCoordinates = errors.New("feature geometry needs [lon, lat, depth]")
)

// ParseFeature converts a raw feed feature into a Quake. Only presence of the
// numeric fields is checked; values are taken as published.
func ParseFeature(raw RawFeature) (Quake, error) {
	if raw.Properties.Mag == nil {
		return Quake{}, fmt.Errorf("parse feature %q: %w", raw.ID, ErrMissingMagnitude)
	}
	if len(raw.Geometry.Coordinates) < 3 {
		return Quake{}, fmt.Errorf("parse feature %q: %w", raw.ID, ErrMissingCoordinates)
	}

	c := raw.Geometry.Coordinates
	q := Quake{
		ID:        raw.ID,
		Magnitude: *raw.Properties.Mag,
		MagType:   raw.Properties.MagType,
		Depth:     c[2],
		Geo:       Geo{Lat: c[1], Lon: c[0]},
		Place:     raw.Properties.Place,
		Time:      fromEpochMillis(raw.Properties.Time),
		Updated:   fromEpochMillis(raw.Properties.Updated),
		URL:       raw.Properties.URL,
		Title:     raw.Properties.Title,
	}
	if q.Place != "" {
		q.PlaceSource = "feed"
	}
	return q, nil
}

// BuildMarker styles a quake for drawing: fill color by depth, radius by
// magnitude, and the fixed black half-pixel outline.
func BuildMarker(q Quake) Marker {
	s := Resolve(q.Depth, q.Magnitude)
	return Marker{
		Quake: q,
		Style: MarkerStyle{
			FillColor:   s.FillColor,
			Radius:      s.Radius,
			Color:       StrokeColor,
			Weight:      StrokeWeight,
			Opacity:     Opacity,
			FillOpacity: FillOpacity,
		},
		Popup:     FormatPopup(q.Magnitude, q.Place),
		DepthBand: DepthBandLabel(q.Depth),
		StyledAt:  clock.Now().UTC(),
	}
}

// FormatPopup builds the marker popup body. The place is escaped since the
// popup is inserted as HTML.
func FormatPopup(magnitude float64, place string) string {
	return "Magnitude: " + strconv.FormatFloat(magnitude, 'f', -1, 64) +
		"<br>Location: " + html.EscapeString(place)
}

// fromEpochMillis returns the zero time for 0 so absent timestamps stay empty.
func fromEpochMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
