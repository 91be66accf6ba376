package http

import (
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
)

// featureCollection is the map-ready GeoJSON served by /api/quakes. Each
// feature carries its precomputed circle marker options and popup so the
// page does no styling of its own.
type featureCollection struct {
	Type     string          `json:"type"`
	Metadata collectionMeta  `json:"metadata"`
	Features []markerFeature `json:"features"`
}

type collectionMeta struct {
	Generated int64 `json:"generated"` // epoch milliseconds of the refresh, 0 before the first
	Count     int   `json:"count"`
}

type markerFeature struct {
	Type       string           `json:"type"`
	ID         string           `json:"id"`
	Geometry   pointGeometry    `json:"geometry"`
	Properties markerProperties `json:"properties"`
}

type pointGeometry struct {
	Type        string     `json:"type"`
	Coordinates [3]float64 `json:"coordinates"`
}

type markerProperties struct {
	Mag         float64            `json:"mag"`
	Place       string             `json:"place"`
	Time        int64              `json:"time,omitempty"`
	URL         string             `json:"url,omitempty"`
	Title       string             `json:"title,omitempty"`
	PlaceSource string             `json:"place_source,omitempty"`
	Style       domain.MarkerStyle `json:"style"`
	Popup       string             `json:"popup"`
	DepthBand   string             `json:"depth_band"`
}

func newFeatureCollection(markers []domain.Marker, refreshedAt time.Time) featureCollection {
	fc := featureCollection{
		Type:     "FeatureCollection",
		Metadata: collectionMeta{Count: len(markers)},
		Features: make([]markerFeature, 0, len(markers)),
	}
	if !refreshedAt.IsZero() {
		fc.Metadata.Generated = refreshedAt.UnixMilli()
	}
	for _, m := range markers {
		q := m.Quake
		f := markerFeature{
			Type: "Feature",
			ID:   q.ID,
			Geometry: pointGeometry{
				Type:        "Point",
				Coordinates: [3]float64{q.Geo.Lon, q.Geo.Lat, q.Depth},
			},
			Properties: markerProperties{
				Mag:         q.Magnitude,
				Place:       q.Place,
				URL:         q.URL,
				Title:       q.Title,
				PlaceSource: q.PlaceSource,
				Style:       m.Style,
				Popup:       m.Popup,
				DepthBand:   m.DepthBand,
			},
		}
		if !q.Time.IsZero() {
			f.Properties.Time = q.Time.UnixMilli()
		}
		fc.Features = append(fc.Features, f)
	}
	return fc
}
