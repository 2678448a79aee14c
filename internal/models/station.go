package models

import (
	"time"

	"stationgroups.onebusaway.org/internal/utils"
)

// StationRecord is a raw station entry as delivered by a station source.
// Coordinates may arrive as JSON numbers or strings and may be malformed;
// they are validated before a record becomes a Station.
type StationRecord struct {
	Name      string          `json:"name"`
	Latitude  utils.FlexFloat `json:"lat"`
	Longitude utils.FlexFloat `json:"lon"`
	Country   string          `json:"country,omitempty"`
}

// Station is one loaded station. Malformed source coordinates are carried
// as NaN; the clustering engine drops such stations. Stations are read-only
// once loaded.
type Station struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Country   string  `json:"country,omitempty"`
}

// StationGroup is one logical place made of one or more stations.
//
// IsGroup is true iff the group has at least two members. Stations are
// sorted by display name. Latitude and Longitude hold the arithmetic mean
// of the member coordinates.
type StationGroup struct {
	GroupName   string    `json:"group_name"`
	DisplayName string    `json:"display_name"`
	IsGroup     bool      `json:"is_group"`
	Stations    []Station `json:"stations"`
	Latitude    float64   `json:"lat"`
	Longitude   float64   `json:"lon"`
	Country     string    `json:"country,omitempty"`
	Geohash     string    `json:"geohash"`
}

// Bounds is the lat/lon box covering every station of an artifact.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// Artifact is the output of one engine run. Consumers must treat it as
// read-only; a new run replaces it as a whole.
type Artifact struct {
	RunID        string         `json:"run_id"`
	BuiltAt      time.Time      `json:"built_at"`
	ThresholdKm  float64        `json:"threshold_km"`
	SourceHash   string         `json:"source_hash"`
	StationCount int            `json:"station_count"`
	DroppedCount int            `json:"dropped_count"`
	Bounds       *Bounds        `json:"bounds,omitempty"`
	Groups       []StationGroup `json:"groups"`
}
