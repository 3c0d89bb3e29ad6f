package guidance

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/lintang-b-s/navigatorx-guidance/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigationScenario(t *testing.T) {
	route := scenarioRoute(t)
	p := newPipeline(DefaultConfig())
	clock := newFixClock()

	s, err := NewSession(route)
	require.NoError(t, err)

	s, state, events := p.step(t, s, clock.fix(route.GetOrigin(), 0))
	assert.InDelta(t, 1100, state.RemainingDistance, 0.5)
	assert.InDelta(t, 120, state.RemainingTime, 0.1)
	assert.Equal(t, 0, state.SegmentIndex)
	assert.False(t, state.OffRoute)
	assert.Empty(t, events)

	junction := route.GetWaypoints()[1]
	s, state, _ = p.step(t, s, clock.fix(junction, 13.89))
	assert.Equal(t, 1, state.SegmentIndex)
	assert.Equal(t, 1, s.GetSegmentIndex())
	assert.InDelta(t, 600, state.RemainingDistance, 0.5)
	assert.InDelta(t, 600/13.89, state.RemainingTime, 0.1)
	assert.Equal(t, "Jalan Ahmad Yani", state.CurrentStreetName)
	assert.Nil(t, state.NextSegment)
	assert.False(t, state.HasSpeedLimit())

	midSecond := move(junction, 0, 300)
	offRouteFix := move(midSecond, 90, 60)

	reroutes := 0
	for i := 0; i < 4; i++ {
		s, state, events = p.step(t, s, clock.fix(move(offRouteFix, 0, float64(i)), 10))
		assert.True(t, state.OffRoute)
		assert.True(t, s.IsOffRoute())
		for _, ev := range events {
			if ev.Kind == datastructure.REROUTING_REQUESTED {
				reroutes++
				assert.True(t, ev.Haptic)
			}
		}
	}
	assert.Equal(t, 1, reroutes)
}

func TestFirstFixAtOrigin(t *testing.T) {
	testCases := []struct {
		name  string
		route func(t *testing.T) *datastructure.Route
	}{
		{name: "two segments", route: scenarioRoute},
		{name: "three segments", route: threeSegmentRoute},
		{name: "long first leg", route: longFirstLegRoute},
		{
			name: "single segment",
			route: func(t *testing.T) *datastructure.Route {
				return buildTestRoute(t, []leg{{bearing: 45, length: 800, turn: datastructure.DESTINATION}}, 60)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			route := tc.route(t)
			s, err := NewSession(route)
			require.NoError(t, err)

			_, state, err := NewTracker(DefaultConfig()).Advance(s, newFixClock().fix(route.GetOrigin(), 0))
			require.NoError(t, err)
			assert.InDelta(t, route.GetTotalDistance(), state.RemainingDistance, 1e-3*route.GetTotalDistance())
			assert.False(t, state.OffRoute)
			assert.False(t, state.Arrived)
			assert.InDelta(t, 0, state.CompletionPercent, 0.1)
		})
	}
}

func TestArrivalAtLastWaypoint(t *testing.T) {
	route := threeSegmentRoute(t)
	p := newPipeline(DefaultConfig())
	clock := newFixClock()

	s, err := NewSession(route)
	require.NoError(t, err)

	s, state, events := p.step(t, s, clock.fix(route.GetDestination(), 12))
	assert.True(t, state.Arrived)
	assert.LessOrEqual(t, state.RemainingDistance, DefaultConfig().ArrivalThreshold)
	assert.InDelta(t, 100, state.CompletionPercent, 2.5)
	assert.False(t, s.IsActive())
	require.Len(t, events, 1)
	assert.Equal(t, datastructure.ARRIVED, events[0].Kind)

	_, _, err = NewTracker(DefaultConfig()).Advance(s, clock.fix(route.GetDestination(), 0))
	assert.True(t, errors.Is(err, ErrSessionInactive))
	assert.Equal(t, util.ErrConflict, util.ErrorCode(err))
}

func TestLoopRouteEndingAtOrigin(t *testing.T) {
	route := loopRoute(t)
	p := newPipeline(DefaultConfig())
	clock := newFixClock()

	s, err := NewSession(route)
	require.NoError(t, err)

	s, state, events := p.step(t, s, clock.fix(route.GetOrigin(), 0))
	assert.False(t, state.Arrived)
	assert.True(t, s.IsActive())
	assert.Equal(t, 0, state.SegmentIndex)
	assert.InDelta(t, route.GetTotalDistance(), state.RemainingDistance, 1.0)
	for _, ev := range events {
		assert.NotEqual(t, datastructure.ARRIVED, ev.Kind)
	}

	waypoints := route.GetWaypoints()
	for i := 1; i < len(waypoints)-1; i++ {
		s, state, _ = p.step(t, s, clock.fix(waypoints[i], 10))
		assert.Equal(t, i, state.SegmentIndex)
		assert.False(t, state.Arrived)
		assert.InDelta(t, route.DistanceAfter(i-1), state.RemainingDistance, 1.0)
	}

	s, state, events = p.step(t, s, clock.fix(waypoints[len(waypoints)-1], 10))
	assert.True(t, state.Arrived)
	assert.False(t, s.IsActive())
	require.NotEmpty(t, events)
	assert.Equal(t, datastructure.ARRIVED, events[len(events)-1].Kind)
}

func TestSegmentIndexIsMonotone(t *testing.T) {
	route := threeSegmentRoute(t)
	p := newPipeline(DefaultConfig())
	clock := newFixClock()

	s, err := NewSession(route)
	require.NoError(t, err)

	const step = 25.0
	prevIdx := 0
	prevRemaining := math.Inf(1)
	arrived := false

	for i, seg := range route.GetSegments() {
		bearing := []float64{90, 0, 90}[i]
		for offset := step; offset <= seg.GetLength() && !arrived; offset += step {
			var state datastructure.NavigationState
			s, state, _ = p.step(t, s, clock.fix(move(seg.GetStart(), bearing, offset), 10))

			assert.GreaterOrEqual(t, state.SegmentIndex, prevIdx)
			assert.LessOrEqual(t, state.SegmentIndex-prevIdx, 1)
			assert.Less(t, state.RemainingDistance, prevRemaining)
			assert.False(t, state.OffRoute)

			prevIdx = state.SegmentIndex
			prevRemaining = state.RemainingDistance
			arrived = state.Arrived
		}
	}

	assert.True(t, arrived)
	assert.Equal(t, route.NumberOfSegments()-1, prevIdx)
}

func TestOffRouteIsOneWay(t *testing.T) {
	route := scenarioRoute(t)
	p := newPipeline(DefaultConfig())
	clock := newFixClock()

	s, err := NewSession(route)
	require.NoError(t, err)

	s, state, _ := p.step(t, s, clock.fix(move(testOrigin, 90, 100), 10))
	require.False(t, state.OffRoute)

	s, state, events := p.step(t, s, clock.fix(move(move(testOrigin, 90, 200), 0, 60), 10))
	require.True(t, state.OffRoute)
	require.Len(t, events, 1)
	assert.Equal(t, datastructure.REROUTING_REQUESTED, events[0].Kind)

	// back on the route, inside the far tier of the turn
	s, state, events = p.step(t, s, clock.fix(move(testOrigin, 90, 250), 10))
	assert.True(t, state.OffRoute)
	assert.True(t, s.IsOffRoute())
	assert.Empty(t, events)
	assert.Equal(t, 0, s.NumberOfMarks())
}

func TestDeviationWithinThresholdStaysOnRoute(t *testing.T) {
	route := scenarioRoute(t)
	s, err := NewSession(route)
	require.NoError(t, err)

	_, state, err := NewTracker(DefaultConfig()).Advance(s, newFixClock().fix(move(move(testOrigin, 90, 200), 180, 40), 10))
	require.NoError(t, err)
	assert.False(t, state.OffRoute)
	assert.InDelta(t, 300, state.DistanceToNextTurn, 1)
}

func TestInvalidFix(t *testing.T) {
	route := scenarioRoute(t)
	tracker := NewTracker(DefaultConfig())
	t0 := time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)

	s, err := NewSession(route)
	require.NoError(t, err)
	accepted := move(testOrigin, 90, 100)
	s, _, err = tracker.Advance(s, datastructure.NewGPSPoint(accepted.Lat, accepted.Lon, t0, 10))
	require.NoError(t, err)

	testCases := []struct {
		name string
		fix  *datastructure.GPSPoint
	}{
		{name: "nil fix", fix: nil},
		{name: "latitude out of range", fix: datastructure.NewGPSPoint(91, 110.8, t0.Add(time.Second), 10)},
		{name: "longitude out of range", fix: datastructure.NewGPSPoint(-7.5, 181, t0.Add(time.Second), 10)},
		{name: "NaN latitude", fix: datastructure.NewGPSPoint(math.NaN(), 110.8, t0.Add(time.Second), 10)},
		{name: "infinite speed", fix: datastructure.NewGPSPoint(accepted.Lat, accepted.Lon, t0.Add(time.Second), math.Inf(1))},
		{name: "same timestamp", fix: datastructure.NewGPSPoint(accepted.Lat, accepted.Lon, t0, 10)},
		{name: "out of order", fix: datastructure.NewGPSPoint(accepted.Lat, accepted.Lon, t0.Add(-time.Second), 10)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			next, _, err := tracker.Advance(s, tc.fix)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidFix))
			assert.Equal(t, util.ErrBadParamInput, util.ErrorCode(err))

			assert.Equal(t, s.GetSegmentIndex(), next.GetSegmentIndex())
			assert.Equal(t, s.IsOffRoute(), next.IsOffRoute())
			assert.True(t, next.IsActive())
			last, ok := next.GetLastFix()
			require.True(t, ok)
			assert.Equal(t, t0, last.Time())
		})
	}
}

func TestNewSessionRejectsInvalidRoute(t *testing.T) {
	empty := datastructure.NewRoute(nil, nil, 0)

	s, err := NewSession(empty)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRoute))
	assert.Equal(t, util.ErrBadParamInput, util.ErrorCode(err))
	assert.False(t, s.IsActive())

	_, _, err = NewTracker(DefaultConfig()).Advance(s, newFixClock().fix(testOrigin, 0))
	assert.True(t, errors.Is(err, ErrSessionInactive))
}

func TestRemainingTimeWithoutEstimate(t *testing.T) {
	route := buildTestRoute(t, []leg{{bearing: 90, length: 800, turn: datastructure.DESTINATION}}, 0)
	s, err := NewSession(route)
	require.NoError(t, err)

	_, state, err := NewTracker(DefaultConfig()).Advance(s, newFixClock().fix(testOrigin, 0))
	require.NoError(t, err)
	assert.Equal(t, 0.0, state.RemainingTime)
	assert.GreaterOrEqual(t, state.RemainingTime, 0.0)
}

func TestSessionValueSemantics(t *testing.T) {
	route := scenarioRoute(t)
	s, err := NewSession(route)
	require.NoError(t, err)

	mark := AnnouncementMark{SegmentIndex: 0, Tier: datastructure.TIER_FAR}
	marked := s.markAnnounced(mark)
	assert.True(t, marked.Announced(mark))
	assert.False(t, s.Announced(mark))

	disabled := s.WithAnnouncementsEnabled(false)
	assert.False(t, disabled.AnnouncementsEnabled())
	assert.True(t, s.AnnouncementsEnabled())

	stopped := s.Deactivate()
	assert.False(t, stopped.IsActive())
	assert.True(t, s.IsActive())
}
