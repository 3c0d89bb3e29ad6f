package geo

import (
	"math"

	"github.com/lintang-b-s/navigatorx-guidance/pkg/util"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (c Coordinate) GetLat() float64 {
	return c.Lat
}

func (c Coordinate) GetLon() float64 {
	return c.Lon
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

const (
	earthRadiusKM = 6371.0
	EarthRadiusM  = 6371000.0
)

func havFunction(angleRad float64) float64 {
	return (1 - math.Cos(angleRad)) / 2.0
}

// DistanceMeters. great-circle distance between a and b in meter (spherical earth, mean radius 6371 km)
func DistanceMeters(a, b Coordinate) float64 {
	return haversineCentralAngle(a.Lat, a.Lon, b.Lat, b.Lon) * EarthRadiusM
}

func haversineCentralAngle(latOne, longOne, latTwo, longTwo float64) float64 {
	latOne = util.DegreeToRadians(latOne)
	longOne = util.DegreeToRadians(longOne)
	latTwo = util.DegreeToRadians(latTwo)
	longTwo = util.DegreeToRadians(longTwo)

	a := havFunction(latOne-latTwo) + math.Cos(latOne)*math.Cos(latTwo)*havFunction(longOne-longTwo)
	// rounding can push a slightly above 1 for antipodal points
	a = util.Clamp(a, 0.0, 1.0)
	return 2.0 * math.Asin(math.Sqrt(a))
}

// GetDestinationPoint returns the destination point given the starting point, bearing and distance
// dist in km
func GetDestinationPoint(lat1, lon1 float64, bearing float64, dist float64) (float64, float64) {

	dr := dist / earthRadiusKM

	bearing = util.DegreeToRadians(bearing)

	lat1 = util.DegreeToRadians(lat1)
	lon1 = util.DegreeToRadians(lon1)

	lat2Part1 := math.Sin(lat1) * math.Cos(dr)
	lat2Part2 := math.Cos(lat1) * math.Sin(dr) * math.Cos(bearing)

	lat2 := math.Asin(lat2Part1 + lat2Part2)

	lon2Part1 := math.Sin(bearing) * math.Sin(dr) * math.Cos(lat1)
	lon2Part2 := math.Cos(dr) - (math.Sin(lat1) * math.Sin(lat2))

	lon2 := lon1 + math.Atan2(lon2Part1, lon2Part2)

	return util.RadiansToDegree(lat2), normalizeLongitude(util.RadiansToDegree(lon2))
}

// DestinationMeters. same as GetDestinationPoint but with dist in meter
func DestinationMeters(from Coordinate, bearing, distMeters float64) Coordinate {
	lat, lon := GetDestinationPoint(from.Lat, from.Lon, bearing, distMeters/1000.0)
	return NewCoordinate(lat, lon)
}

// normalizeLongitude. long in degree
func normalizeLongitude(long float64) float64 {
	return math.Mod((long+540), 360) - 180.0
}

// ValidLatLon. lat in [-90,90], lon in [-180,180], both finite
func ValidLatLon(lat, lon float64) bool {
	if !util.IsFinite(lat, lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
