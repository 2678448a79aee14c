package geo

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"
	"stationgroups.onebusaway.org/internal/models"
)

// earthRadiusInKm represents the mean radius of the Earth in kilometers.
//
// This value (6,371 km) is the Earth's volumetric mean radius, which is
// commonly used for general geospatial calculations and spherical approximations.
//
// Reference: NASA Planetary Fact Sheet – Earth
// https://nssdc.gsfc.nasa.gov/planetary/factsheet/earthfact.html
const earthRadiusInKm = 6371.0

// KmPerDegree is the length of one degree of arc on a great circle.
const KmPerDegree = 2 * math.Pi * earthRadiusInKm / 360

// HaversineDistance returns the great-circle distance in kilometers between
// two points given in degrees. s2.LatLng.Distance uses the haversine formula,
// so the result is deterministic.
//
// The points are put in a fixed order first: s2 multiplies the cosines of
// both latitudes, and swapping the arguments can change the last bit.
//
// Callers must filter invalid coordinates with IsValidLatLon first.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	if lat1 > lat2 || (lat1 == lat2 && lon1 > lon2) {
		lat1, lon1, lat2, lon2 = lat2, lon2, lat1, lon1
	}
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * earthRadiusInKm
}

// IsValidLatLon returns true if the given latitude and longitude values
// are finite and fall within the valid geographic coordinate bounds.
//
// Latitude must be between -90 and 90 degrees, and longitude must be
// between -180 and 180 degrees.
//
// Note: This function treats the coordinate (0,0) as invalid, even though it
// is a valid location in the Gulf of Guinea. Uninitialized or placeholder
// coordinates are commonly represented as (0,0) and must never be clustered.
func IsValidLatLon(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	if lat == 0 && lon == 0 {
		return false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return false
	}
	return true
}

// BoundingBox defines the corners of a lat/lon box
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Contains checks whether the given latitude and longitude are within the bounding box
func (b *BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Bounds converts the box into its serialized form.
func (b BoundingBox) Bounds() *models.Bounds {
	return &models.Bounds{MinLat: b.MinLat, MaxLat: b.MaxLat, MinLon: b.MinLon, MaxLon: b.MaxLon}
}

// ComputeBoundingBox computes the bounding box of all stations with valid coordinates.
func ComputeBoundingBox(stations []models.Station) (BoundingBox, error) {
	if len(stations) == 0 {
		return BoundingBox{}, fmt.Errorf("no stations to compute bounding box")
	}

	minLat := math.MaxFloat64
	maxLat := -math.MaxFloat64
	minLon := math.MaxFloat64
	maxLon := -math.MaxFloat64

	for _, station := range stations {
		if !IsValidLatLon(station.Latitude, station.Longitude) {
			continue
		}
		minLat = math.Min(minLat, station.Latitude)
		maxLat = math.Max(maxLat, station.Latitude)
		minLon = math.Min(minLon, station.Longitude)
		maxLon = math.Max(maxLon, station.Longitude)
	}

	if minLat == math.MaxFloat64 {
		return BoundingBox{}, fmt.Errorf("no valid latitude/longitude found in stations")
	}

	return BoundingBox{
		MinLat: minLat,
		MaxLat: maxLat,
		MinLon: minLon,
		MaxLon: maxLon,
	}, nil
}
