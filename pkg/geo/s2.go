package geo

import (
	"github.com/golang/geo/s2"
)

func toS2Point(c Coordinate) s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(c.Lat, c.Lon))
}

/*
ProjectOntoSegment. project point onto the great-circle chord a->b.
returns the distance (meter) from point to the closest point of the chord and the
fractional position (0..1) of that closest point along the chord.

	  point
	    |
	    | dist
	    |
	a---x-------------b
	<-f->
	<--------1-------->

a degenerate chord (a == b) gives fraction 1.
*/
func ProjectOntoSegment(point, a, b Coordinate) (float64, float64) {
	p := toS2Point(point)
	pa := toS2Point(a)
	pb := toS2Point(b)

	chord := pa.Distance(pb).Radians()
	if chord == 0 {
		return p.Distance(pa).Radians() * EarthRadiusM, 1.0
	}

	dist := s2.DistanceFromSegment(p, pa, pb).Radians() * EarthRadiusM

	x := s2.Project(p, pa, pb)
	fraction := pa.Distance(x).Radians() / chord
	if fraction > 1 {
		fraction = 1
	}
	return dist, fraction
}
