// Package geo contains pure geographic helpers used for driver-side UI
// grouping. Zones play no part in the status state machine.
package geo

import "math"

const earthRadiusKm = 6371.0

// Zone is a coarse directional bucket relative to the pharmacy origin.
type Zone string

const (
	ZoneNorth Zone = "north"
	ZoneEast  Zone = "east"
	ZoneSouth Zone = "south"
	ZoneWest  Zone = "west"
)

// ZoneFor buckets a delivery point into north/east/south/west relative to the
// origin, by the dominant axis of the offset.
func ZoneFor(originLat, originLng, lat, lng float64) Zone {
	dLat := lat - originLat
	dLng := lng - originLng

	if math.Abs(dLat) >= math.Abs(dLng) {
		if dLat >= 0 {
			return ZoneNorth
		}

		return ZoneSouth
	}

	if dLng >= 0 {
		return ZoneEast
	}

	return ZoneWest
}

// HaversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLng := degreesToRadians(lng2 - lng1)

	rLat1 := degreesToRadians(lat1)
	rLat2 := degreesToRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
