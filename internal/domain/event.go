package domain

import "time"

// FeatureCollection is the top-level GeoJSON document served by the USGS
// summary feeds.
type FeatureCollection struct {
	Type     string       `json:"type"`
	Metadata FeedMetadata `json:"metadata"`
	Features []RawFeature `json:"features"`
	BBox     []float64    `json:"bbox,omitempty"`
}

// FeedMetadata describes the feed snapshot. Generated is epoch milliseconds.
type FeedMetadata struct {
	Generated int64  `json:"generated"`
	URL       string `json:"url"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	API       string `json:"api"`
	Count     int    `json:"count"`
}

// RawFeature is one earthquake record as it appears on the wire.
type RawFeature struct {
	Type       string        `json:"type"`
	ID         string        `json:"id"`
	Properties RawProperties `json:"properties"`
	Geometry   RawGeometry   `json:"geometry"`
}

// RawProperties holds the subset of USGS properties the map uses. Mag is a
// pointer because the feed publishes null for events without a magnitude.
type RawProperties struct {
	Mag     *float64 `json:"mag"`
	Place   string   `json:"place"`
	Time    int64    `json:"time"`    // epoch milliseconds
	Updated int64    `json:"updated"` // epoch milliseconds
	URL     string   `json:"url"`
	Title   string   `json:"title"`
	MagType string   `json:"magType"`
	Type    string   `json:"type"` // "earthquake", "quarry blast", ...
}

// RawGeometry is a GeoJSON Point in [lon, lat, depth] order.
type RawGeometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Quake is a validated feature ready for styling.
type Quake struct {
	ID        string    `json:"id"`
	Magnitude float64   `json:"magnitude"`
	MagType   string    `json:"mag_type,omitempty"`
	Depth     float64   `json:"depth"` // kilometers, negative above sea level
	Geo       Geo       `json:"geo"`
	Place     string    `json:"place"`
	Time      time.Time `json:"time"`
	Updated   time.Time `json:"updated"`
	URL       string    `json:"url,omitempty"`
	Title     string    `json:"title,omitempty"`

	PlaceSource string `json:"place_source,omitempty"` // "feed", "reverse", "original", "failed"
}

// MarkerStyle carries every option of a circle marker draw call.
type MarkerStyle struct {
	FillColor   string  `json:"fillColor"`
	Radius      float64 `json:"radius"`
	Color       string  `json:"color"`
	Weight      float64 `json:"weight"`
	Opacity     float64 `json:"opacity"`
	FillOpacity float64 `json:"fillOpacity"`
}

// Marker is a styled quake handed to the rendering side.
type Marker struct {
	Quake     Quake       `json:"quake"`
	Style     MarkerStyle `json:"style"`
	Popup     string      `json:"popup"`
	DepthBand string      `json:"depth_band"`
	StyledAt  time.Time   `json:"styled_at"`
}
