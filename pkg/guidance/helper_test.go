package guidance

import (
	"testing"
	"time"

	"github.com/lintang-b-s/navigatorx-guidance/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/geo"
	"github.com/stretchr/testify/require"
)

var testOrigin = datastructure.NewCoordinate(-7.5533505900708455, 110.82338424980728)

type leg struct {
	bearing float64
	length  float64
	turn    datastructure.TurnDirection
	street  string
}

func move(c datastructure.Coordinate, bearing, dist float64) datastructure.Coordinate {
	g := geo.DestinationMeters(c.ToGeoCoordinate(), bearing, dist)
	return datastructure.NewCoordinate(g.Lat, g.Lon)
}

func buildTestRoute(t *testing.T, legs []leg, estimatedTime float64) *datastructure.Route {
	t.Helper()
	waypoints := []datastructure.Coordinate{testOrigin}
	segments := make([]datastructure.RouteSegment, 0, len(legs))
	cur := testOrigin
	for _, l := range legs {
		end := move(cur, l.bearing, l.length)
		segments = append(segments, datastructure.NewRouteSegment(cur, end, l.turn, l.length, l.street))
		waypoints = append(waypoints, end)
		cur = end
	}
	route := datastructure.NewRoute(waypoints, segments, estimatedTime)
	require.NoError(t, route.Validate())
	return route
}

// 500 m east, turn left, 600 m north. 1100 m in 120 s.
func scenarioRoute(t *testing.T) *datastructure.Route {
	return buildTestRoute(t, []leg{
		{bearing: 90, length: 500, turn: datastructure.TURN_LEFT, street: "Jalan Slamet Riyadi"},
		{bearing: 0, length: 600, turn: datastructure.DESTINATION, street: "Jalan Ahmad Yani"},
	}, 120)
}

// 1000 m east, turn left, 300 m north.
func longFirstLegRoute(t *testing.T) *datastructure.Route {
	return buildTestRoute(t, []leg{
		{bearing: 90, length: 1000, turn: datastructure.TURN_LEFT, street: "Jalan Slamet Riyadi"},
		{bearing: 0, length: 300, turn: datastructure.DESTINATION, street: "Jalan Ahmad Yani"},
	}, 150)
}

func threeSegmentRoute(t *testing.T) *datastructure.Route {
	return buildTestRoute(t, []leg{
		{bearing: 90, length: 500, turn: datastructure.TURN_LEFT, street: "Jalan Slamet Riyadi"},
		{bearing: 0, length: 400, turn: datastructure.TURN_RIGHT, street: "Jalan Ahmad Yani"},
		{bearing: 90, length: 300, turn: datastructure.DESTINATION, street: "Jalan Pemuda"},
	}, 100)
}

// 4 x 300 m square ending back at the origin.
func loopRoute(t *testing.T) *datastructure.Route {
	return buildTestRoute(t, []leg{
		{bearing: 90, length: 300, turn: datastructure.TURN_LEFT, street: "Jalan Slamet Riyadi"},
		{bearing: 0, length: 300, turn: datastructure.TURN_LEFT, street: "Jalan Ahmad Yani"},
		{bearing: 270, length: 300, turn: datastructure.TURN_LEFT, street: "Jalan Pemuda"},
		{bearing: 180, length: 300, turn: datastructure.DESTINATION, street: "Jalan Gatot Subroto"},
	}, 200)
}

// fixClock. hands out fixes one second apart
type fixClock struct {
	now time.Time
}

func newFixClock() *fixClock {
	return &fixClock{now: time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)}
}

func (fc *fixClock) fix(c datastructure.Coordinate, speed float64) *datastructure.GPSPoint {
	fc.now = fc.now.Add(time.Second)
	return datastructure.NewGPSPoint(c.Lat, c.Lon, fc.now, speed)
}

// beforeTurn. point on the first leg of a route heading east from testOrigin, d meters before its end
func beforeTurn(route *datastructure.Route, d float64) datastructure.Coordinate {
	seg, _ := route.GetSegment(0)
	return move(testOrigin, 90, seg.GetLength()-d)
}

type pipeline struct {
	tracker   *Tracker
	announcer *Announcer
}

func newPipeline(cfg Config) *pipeline {
	return &pipeline{tracker: NewTracker(cfg), announcer: NewAnnouncer(cfg)}
}

func (p *pipeline) step(t *testing.T, s Session, fix *datastructure.GPSPoint) (Session, datastructure.NavigationState,
	[]datastructure.AnnouncementEvent) {
	t.Helper()
	next, state, err := p.tracker.Advance(s, fix)
	require.NoError(t, err)
	next, events := p.announcer.Announce(s, next, state)
	return next, state, events
}
