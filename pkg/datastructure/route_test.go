package datastructure

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/lintang-b-s/navigatorx-guidance/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func moveMeters(c Coordinate, bearing, dist float64) Coordinate {
	g := geo.DestinationMeters(c.ToGeoCoordinate(), bearing, dist)
	return NewCoordinate(g.Lat, g.Lon)
}

// east 500 m then north 600 m
func twoSegmentRoute() (*Route, []RouteSegment) {
	a := NewCoordinate(-7.55, 110.82)
	b := moveMeters(a, 90, 500)
	c := moveMeters(b, 0, 600)
	segs := []RouteSegment{
		NewRouteSegment(a, b, TURN_LEFT, 500, "Jalan Slamet Riyadi"),
		NewRouteSegment(b, c, DESTINATION, 600, "Jalan Ahmad Yani").WithSpeedLimit(13.89),
	}
	return NewRoute([]Coordinate{a, b, c}, segs, 120), segs
}

func TestRouteValidate(t *testing.T) {
	route, segs := twoSegmentRoute()
	a, b, c := segs[0].GetStart(), segs[0].GetEnd(), segs[1].GetEnd()

	testCases := []struct {
		name    string
		route   *Route
		wantErr string
	}{
		{name: "valid", route: route},
		{name: "nil route", route: nil, wantErr: "no segments"},
		{name: "zero segments", route: NewRoute([]Coordinate{a}, nil, 10), wantErr: "no segments"},
		{name: "zero waypoints", route: NewRoute(nil, segs, 10), wantErr: "no waypoints"},
		{
			name:    "gap between segments",
			route:   NewRoute([]Coordinate{a, c}, []RouteSegment{segs[0], NewRouteSegment(moveMeters(b, 0, 50), c, DESTINATION, 550, "")}, 10),
			wantErr: "starts",
		},
		{
			name:    "total distance mismatch",
			route:   NewRouteWithDistance([]Coordinate{a, b, c}, segs, 2000, 120),
			wantErr: "does not match",
		},
		{
			name:  "total distance within tolerance",
			route: NewRouteWithDistance([]Coordinate{a, b, c}, segs, 1103, 120),
		},
		{
			name:    "zero total distance",
			route:   NewRoute([]Coordinate{a}, []RouteSegment{NewRouteSegment(a, a, DESTINATION, 0, "")}, 0),
			wantErr: "positive",
		},
		{
			name:    "negative length",
			route:   NewRoute([]Coordinate{a, b}, []RouteSegment{NewRouteSegment(a, b, DESTINATION, -5, "")}, 10),
			wantErr: "invalid length",
		},
		{
			name:    "NaN length",
			route:   NewRoute([]Coordinate{a, b}, []RouteSegment{NewRouteSegment(a, b, DESTINATION, math.NaN(), "")}, 10),
			wantErr: "invalid length",
		},
		{
			name:    "latitude out of range",
			route:   NewRoute([]Coordinate{NewCoordinate(91, 0)}, segs, 10),
			wantErr: "invalid coordinate",
		},
		{
			name:    "negative estimated time",
			route:   NewRoute([]Coordinate{a, b, c}, segs, -1),
			wantErr: "estimated time",
		},
		{
			name:    "unknown turn",
			route:   NewRoute([]Coordinate{a, b}, []RouteSegment{NewRouteSegment(a, b, TurnDirection(42), 500, "")}, 10),
			wantErr: "unknown turn",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.route.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRouteDistances(t *testing.T) {
	route, _ := twoSegmentRoute()

	assert.Equal(t, 1100.0, route.GetTotalDistance())
	assert.Equal(t, 600.0, route.DistanceAfter(0))
	assert.Equal(t, 0.0, route.DistanceAfter(1))
	assert.Equal(t, 0.0, route.DistanceAfter(5))
	assert.InDelta(t, 1100.0/120.0, route.AverageSpeed(), 1e-9)
	assert.Equal(t, 0.0, NewRoute(route.GetWaypoints(), route.GetSegments(), 0).AverageSpeed())

	bb := route.GetBoundingBox()
	for _, wp := range route.GetWaypoints() {
		assert.True(t, bb.Contains(wp))
	}
	assert.False(t, bb.Contains(NewCoordinate(0, 0)))
}

func TestRouteReadWrite(t *testing.T) {
	doc := `{
		"waypoints": [{"lat": 0, "lon": 0}, {"lat": 0, "lon": 0.01}],
		"segments": [
			{"start": {"lat": 0, "lon": 0}, "end": {"lat": 0, "lon": 0.01}, "turn": "destination", "street_name": "Jalan Pemuda"}
		],
		"estimated_time": 90
	}`

	route, err := ReadRoute(strings.NewReader(doc))
	require.NoError(t, err)
	require.NoError(t, route.Validate())

	seg, ok := route.GetSegment(0)
	require.True(t, ok)
	assert.Equal(t, DESTINATION, seg.GetTurnDirection())
	assert.InDelta(t, 1111.95, seg.GetLength(), 0.1)
	assert.Equal(t, "Jalan Pemuda", seg.GetStreetName())

	var buf bytes.Buffer
	require.NoError(t, route.Write(&buf))
	again, err := ReadRoute(&buf)
	require.NoError(t, err)
	assert.Equal(t, route.GetTotalDistance(), again.GetTotalDistance())
	assert.Equal(t, route.GetSegments(), again.GetSegments())

	_, err = ReadRoute(strings.NewReader(`{"segments": [{"turn": "sideways"}]}`))
	assert.Error(t, err)
}

func TestTurnDirection(t *testing.T) {
	td, err := ParseTurnDirection("turn_sharp_left")
	require.NoError(t, err)
	assert.Equal(t, TURN_SHARP_LEFT, td)
	assert.True(t, td.IsLeft())
	assert.Equal(t, "TURN_SHARP_LEFT", td.String())
	assert.False(t, TurnDirection(5).Valid())

	_, err = ParseTurnDirection("backflip")
	assert.Error(t, err)
}

func TestParseLocale(t *testing.T) {
	testCases := []struct {
		name    string
		in      string
		want    Locale
		wantErr bool
	}{
		{name: "empty is english", in: "", want: LOCALE_EN},
		{name: "upper case", in: "EN", want: LOCALE_EN},
		{name: "indonesian with spaces", in: " id ", want: LOCALE_ID},
		{name: "unsupported", in: "fr", want: LOCALE_EN, wantErr: true},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLocale(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "en", Locale("").String())
}

func TestAnnouncementTextIndonesian(t *testing.T) {
	now := time.Unix(0, 0)

	testCases := []struct {
		name  string
		event AnnouncementEvent
		want  string
	}{
		{
			name:  "near left turn",
			event: NewTurnAnnouncement(now, 0, TIER_NEAR, TURN_LEFT, 80, "Jalan Mataram", 0),
			want:  "Dalam 80 meter, belok kiri ke Jalan Mataram",
		},
		{
			name:  "imminent right turn",
			event: NewTurnAnnouncement(now, 1, TIER_IMMINENT, TURN_RIGHT, 5, "Jalan Pemuda", 0),
			want:  "Belok kanan ke Jalan Pemuda",
		},
		{
			name:  "roundabout exit",
			event: NewTurnAnnouncement(now, 2, TIER_FAR, ENTER_ROUNDABOUT, 450, "", 2),
			want:  "Dalam 450 meter, di bundaran, ambil jalan keluar ke-2",
		},
		{
			name:  "destination in kilometers",
			event: NewTurnAnnouncement(now, 3, TIER_FAR, DESTINATION, 1190, "Jalan Pemuda", 0),
			want:  "Dalam 1.2 kilometer, tiba di tujuan",
		},
		{name: "rerouting", event: NewReroutingRequested(now, 1), want: "Anda keluar dari rute, menghitung ulang"},
		{name: "arrived", event: NewArrived(now, 1), want: "Anda telah tiba di tujuan"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			ev := tt.event.WithLocale(LOCALE_ID)
			assert.Equal(t, tt.want, ev.Text())
			assert.Empty(t, tt.event.Locale)
		})
	}
}

func TestAnnouncementText(t *testing.T) {
	now := time.Unix(0, 0)

	testCases := []struct {
		name  string
		event AnnouncementEvent
		want  string
	}{
		{
			name:  "far turn",
			event: NewTurnAnnouncement(now, 0, TIER_FAR, TURN_LEFT, 480, "Jalan Slamet Riyadi", 0),
			want:  "In 500 meters, turn left onto Jalan Slamet Riyadi",
		},
		{
			name:  "near turn without street",
			event: NewTurnAnnouncement(now, 0, TIER_NEAR, TURN_SLIGHT_RIGHT, 64, "", 0),
			want:  "In 60 meters, turn slight right",
		},
		{
			name:  "imminent roundabout",
			event: NewTurnAnnouncement(now, 2, TIER_IMMINENT, ENTER_ROUNDABOUT, 4, "Bundaran Gladak", 2),
			want:  "At the roundabout, take exit 2 onto Bundaran Gladak",
		},
		{
			name:  "destination",
			event: NewTurnAnnouncement(now, 3, TIER_FAR, DESTINATION, 1190, "Jalan Pemuda", 0),
			want:  "In 1.2 kilometers, arrive at your destination",
		},
		{
			name:  "rerouting",
			event: NewReroutingRequested(now, 1),
			want:  "You are off the route, recalculating",
		},
		{
			name:  "arrived",
			event: NewArrived(now, 1),
			want:  "You have arrived at your destination",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.Text())
		})
	}

	assert.True(t, NewTurnAnnouncement(now, 0, TIER_NEAR, TURN_LEFT, 50, "", 0).Haptic)
	assert.False(t, NewTurnAnnouncement(now, 0, TIER_IMMINENT, TURN_LEFT, 5, "", 0).Haptic)
	assert.True(t, NewReroutingRequested(now, 0).Haptic)
}
