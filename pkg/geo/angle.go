package geo

import (
	"math"

	"github.com/lintang-b-s/navigatorx-guidance/pkg/util"
)

/*
BearingTo. menghitung sudut initial bearing untuk edge (p1,p2), in degree [0,360).
https://www.movable-type.co.uk/scripts/latlong.html
*/
func BearingTo(p1Lat, p1Lon, p2Lat, p2Lon float64) float64 {

	dLon := util.DegreeToRadians(p2Lon - p1Lon)

	lat1 := util.DegreeToRadians(p1Lat)
	lat2 := util.DegreeToRadians(p2Lat)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) -
		math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	brng := math.Mod(util.RadiansToDegree(math.Atan2(y, x))+360, 360.0)

	return brng
}

// DeltaBearing. signed difference to-from in degree, normalized to (-180,180]. negative = turning left.
func DeltaBearing(from, to float64) float64 {
	d := math.Mod(to-from, 360.0)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}
