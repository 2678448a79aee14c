package geo

import (
	geohash "github.com/TomiHiltunen/geohash-golang"
)

// geohashPrecision of 7 characters gives cells of roughly 150m x 150m,
// fine enough for the map renderer to bucket markers per tile.
const geohashPrecision = 7

// Geohash encodes a coordinate for map tile bucketing.
func Geohash(lat, lon float64) string {
	return geohash.EncodeWithPrecision(lat, lon, geohashPrecision)
}
