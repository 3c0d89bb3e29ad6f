package guidance

import (
	"math"

	"github.com/lintang-b-s/navigatorx-guidance/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/geo"
)

// initial bearing (bearing from a to b with meridian line crossing a), degree
func computeInitialBearing(lat1, lon1, lat2, lon2 float64) float64 {
	return geo.BearingTo(lat1, lon1, lat2, lon2)
}

// final bearing (bearing from a to b with meridian line crossing b), degree
func computeFinalBearing(lat1, lon1, lat2, lon2 float64) float64 {
	bearing := geo.BearingTo(lat2, lon2, lat1, lon1)
	return math.Mod(bearing+180, 360)
}

/*
getTurnDirection. classify the maneuver at the vertex joining two consecutive legs from the bearing
difference between the final bearing of the incoming leg and the initial bearing of the outgoing leg.

	          outgoing
	             /
	            /  delta
	-incoming--*- - - - -

|delta| < 12° continue, < 40° slight, < 105° normal, < 155° sharp, otherwise U-turn.
negative delta turns left.
*/
func getTurnDirection(incomingFinalBearing, outgoingInitialBearing float64) datastructure.TurnDirection {
	delta := geo.DeltaBearing(incomingFinalBearing, outgoingInitialBearing)
	deltaDegree := math.Abs(delta)
	left := delta < 0

	switch {
	case deltaDegree < 12:
		return datastructure.STRAIGHT
	case deltaDegree < 40:
		if left {
			return datastructure.TURN_SLIGHT_LEFT
		}
		return datastructure.TURN_SLIGHT_RIGHT
	case deltaDegree < 105:
		if left {
			return datastructure.TURN_LEFT
		}
		return datastructure.TURN_RIGHT
	case deltaDegree < 155:
		if left {
			return datastructure.TURN_SHARP_LEFT
		}
		return datastructure.TURN_SHARP_RIGHT
	default:
		if left {
			return datastructure.U_TURN_LEFT
		}
		return datastructure.U_TURN_RIGHT
	}
}

// TurnBetween. maneuver when driving a->b and continuing b->c
func TurnBetween(a, b, c datastructure.Coordinate) datastructure.TurnDirection {
	incoming := computeFinalBearing(a.Lat, a.Lon, b.Lat, b.Lon)
	outgoing := computeInitialBearing(b.Lat, b.Lon, c.Lat, c.Lon)
	return getTurnDirection(incoming, outgoing)
}
