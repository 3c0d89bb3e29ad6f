package guidance

import (
	"github.com/lintang-b-s/navigatorx-guidance/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/geo"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/util"
)

/*
BuildRouteFromPolyline. build a route from the bare geometry returned by a routing engine, when it comes
without maneuvers. every polyline leg becomes one segment; the turn at the end of a leg is classified from
the bearing change (see getTurnDirection) and the last leg ends at DESTINATION.

streetNames is optional, streetNames[i] names leg i. the route is validated (ErrInvalidRoute).
*/
func BuildRouteFromPolyline(encoded string, streetNames []string, estimatedTime float64) (*datastructure.Route, error) {
	geoCoords, err := geo.CoordsFromPolyline(encoded)
	if err != nil {
		return nil, util.WrapErrorf(ErrInvalidRoute, util.ErrBadParamInput, "cannot decode route polyline: %v", err)
	}
	return BuildRoute(datastructure.NewCoordinatesFromGeo(geoCoords), streetNames, estimatedTime)
}

func BuildRoute(points []datastructure.Coordinate, streetNames []string, estimatedTime float64) (*datastructure.Route, error) {
	points = dropDuplicatePoints(points)
	if len(points) < 2 {
		return nil, util.WrapErrorf(ErrInvalidRoute, util.ErrBadParamInput, "route geometry needs at least two distinct points, got %d",
			len(points))
	}

	segments := make([]datastructure.RouteSegment, 0, len(points)-1)
	for i := 0; i+1 < len(points); i++ {
		turn := datastructure.DESTINATION
		if i+2 < len(points) {
			turn = TurnBetween(points[i], points[i+1], points[i+2])
		}
		name := ""
		if i < len(streetNames) {
			name = streetNames[i]
		}
		length := points[i].DistanceTo(points[i+1])
		segments = append(segments, datastructure.NewRouteSegment(points[i], points[i+1], turn, length, name))
	}

	route := datastructure.NewRoute(points, segments, estimatedTime)
	if err := route.Validate(); err != nil {
		return nil, util.WrapErrorf(ErrInvalidRoute, util.ErrBadParamInput, "invalid route geometry: %v", err)
	}
	return route, nil
}

// dropDuplicatePoints. polyline encoding at 1e-5 precision can repeat a vertex
func dropDuplicatePoints(points []datastructure.Coordinate) []datastructure.Coordinate {
	out := make([]datastructure.Coordinate, 0, len(points))
	for _, p := range points {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	return out
}
