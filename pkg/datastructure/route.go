package datastructure

import (
	"errors"
	"fmt"
	"math"

	"github.com/lintang-b-s/navigatorx-guidance/pkg/util"
)

const (
	// max gap in meter between segment[i].end and segment[i+1].start
	SEGMENT_CONTIGUITY_TOLERANCE = 5.0
	// declared total distance must match the sum of segment lengths within max(abs, rel*sum)
	TOTAL_DISTANCE_ABS_TOLERANCE = 1.0
	TOTAL_DISTANCE_REL_TOLERANCE = 0.005
)

// RouteSegment. one leg of a route, the turn maneuver happens at its end.
type RouteSegment struct {
	start      Coordinate
	end        Coordinate
	turn       TurnDirection
	length     float64 // meter
	streetName string
	speedLimit float64 // meter/second, 0 if unknown
	exitNumber int     // roundabout exit, 0 if not a roundabout maneuver
}

func NewRouteSegment(start, end Coordinate, turn TurnDirection, length float64, streetName string) RouteSegment {
	return RouteSegment{
		start:      start,
		end:        end,
		turn:       turn,
		length:     length,
		streetName: streetName,
	}
}

func (rs RouteSegment) WithSpeedLimit(speedLimit float64) RouteSegment {
	rs.speedLimit = speedLimit
	return rs
}

func (rs RouteSegment) WithExitNumber(exitNumber int) RouteSegment {
	rs.exitNumber = exitNumber
	return rs
}

func (rs RouteSegment) GetStart() Coordinate {
	return rs.start
}

func (rs RouteSegment) GetEnd() Coordinate {
	return rs.end
}

func (rs RouteSegment) GetTurnDirection() TurnDirection {
	return rs.turn
}

func (rs RouteSegment) GetLength() float64 {
	return rs.length
}

func (rs RouteSegment) GetStreetName() string {
	return rs.streetName
}

func (rs RouteSegment) GetSpeedLimit() float64 {
	return rs.speedLimit
}

func (rs RouteSegment) GetExitNumber() int {
	return rs.exitNumber
}

// Route. immutable description of a precomputed route handed over by the routing engine.
type Route struct {
	waypoints     []Coordinate
	segments      []RouteSegment
	totalDistance float64 // meter
	estimatedTime float64 // second
	boundingBox   BoundingBox

	// distanceAfter[i] = sum of segment lengths strictly after segment i
	distanceAfter []float64
}

// NewRoute. total distance is the sum of the segment lengths.
func NewRoute(waypoints []Coordinate, segments []RouteSegment, estimatedTime float64) *Route {
	total := 0.0
	for _, s := range segments {
		total += s.length
	}
	return NewRouteWithDistance(waypoints, segments, total, estimatedTime)
}

// NewRouteWithDistance. route with the total distance declared by the routing engine. Validate checks it
// against the segment lengths.
func NewRouteWithDistance(waypoints []Coordinate, segments []RouteSegment, totalDistance, estimatedTime float64) *Route {
	wps := make([]Coordinate, len(waypoints))
	copy(wps, waypoints)
	segs := make([]RouteSegment, len(segments))
	copy(segs, segments)

	coords := make([]Coordinate, 0, len(wps)+2*len(segs))
	coords = append(coords, wps...)
	for _, s := range segs {
		coords = append(coords, s.start, s.end)
	}

	distanceAfter := make([]float64, len(segs))
	acc := 0.0
	for i := len(segs) - 1; i >= 0; i-- {
		distanceAfter[i] = acc
		acc += segs[i].length
	}

	return &Route{
		waypoints:     wps,
		segments:      segs,
		totalDistance: totalDistance,
		estimatedTime: estimatedTime,
		boundingBox:   NewBoundingBoxFromCoords(coords...),
		distanceAfter: distanceAfter,
	}
}

var (
	errNoSegments  = errors.New("route has no segments")
	errNoWaypoints = errors.New("route has no waypoints")
)

// Validate. check the structural invariants of a route: at least one waypoint and one segment, valid
// coordinates, finite non-negative lengths, contiguous segments, positive total distance matching the
// segment lengths, and a finite non-negative estimated time.
func (r *Route) Validate() error {
	if r == nil || len(r.segments) == 0 {
		return errNoSegments
	}
	if len(r.waypoints) == 0 {
		return errNoWaypoints
	}

	for i, wp := range r.waypoints {
		if !validCoordinate(wp) {
			return fmt.Errorf("waypoint %d has invalid coordinate (%f, %f)", i, wp.Lat, wp.Lon)
		}
	}

	sum := 0.0
	for i, s := range r.segments {
		if !validCoordinate(s.start) || !validCoordinate(s.end) {
			return fmt.Errorf("segment %d has invalid coordinates", i)
		}
		if !util.IsFinite(s.length) || s.length < 0 {
			return fmt.Errorf("segment %d has invalid length %f", i, s.length)
		}
		if !s.turn.Valid() {
			return fmt.Errorf("segment %d has unknown turn direction %d", i, int(s.turn))
		}
		if i > 0 {
			gap := r.segments[i-1].end.DistanceTo(s.start)
			if gap > SEGMENT_CONTIGUITY_TOLERANCE {
				return fmt.Errorf("segment %d starts %.1f m away from the end of segment %d", i, gap, i-1)
			}
		}
		sum += s.length
	}

	if !util.IsFinite(r.totalDistance) || r.totalDistance <= 0 {
		return fmt.Errorf("total distance must be positive, got %f", r.totalDistance)
	}
	tolerance := math.Max(TOTAL_DISTANCE_ABS_TOLERANCE, TOTAL_DISTANCE_REL_TOLERANCE*sum)
	if math.Abs(r.totalDistance-sum) > tolerance {
		return fmt.Errorf("total distance %.1f m does not match segment lengths %.1f m", r.totalDistance, sum)
	}

	if !util.IsFinite(r.estimatedTime) || r.estimatedTime < 0 {
		return fmt.Errorf("estimated time must be non-negative, got %f", r.estimatedTime)
	}
	return nil
}

func validCoordinate(c Coordinate) bool {
	return util.IsFinite(c.Lat, c.Lon) && c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

func (r *Route) GetWaypoints() []Coordinate {
	wps := make([]Coordinate, len(r.waypoints))
	copy(wps, r.waypoints)
	return wps
}

func (r *Route) GetSegments() []RouteSegment {
	segs := make([]RouteSegment, len(r.segments))
	copy(segs, r.segments)
	return segs
}

func (r *Route) GetSegment(i int) (RouteSegment, bool) {
	if i < 0 || i >= len(r.segments) {
		return RouteSegment{}, false
	}
	return r.segments[i], true
}

func (r *Route) NumberOfSegments() int {
	return len(r.segments)
}

func (r *Route) GetTotalDistance() float64 {
	return r.totalDistance
}

func (r *Route) GetEstimatedTime() float64 {
	return r.estimatedTime
}

func (r *Route) GetBoundingBox() BoundingBox {
	return r.boundingBox
}

func (r *Route) GetOrigin() Coordinate {
	return r.segments[0].start
}

func (r *Route) GetDestination() Coordinate {
	return r.segments[len(r.segments)-1].end
}

// DistanceAfter. sum of the lengths of all segments strictly after segment i
func (r *Route) DistanceAfter(i int) float64 {
	if i < 0 {
		return r.totalDistance
	}
	if i >= len(r.distanceAfter) {
		return 0
	}
	return r.distanceAfter[i]
}

// AverageSpeed. total distance / estimated time in meter/second, 0 if the route has no estimated time.
func (r *Route) AverageSpeed() float64 {
	if r.estimatedTime <= 0 {
		return 0
	}
	return r.totalDistance / r.estimatedTime
}
