package guidance

import (
	"math"

	"github.com/lintang-b-s/navigatorx-guidance/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/geo"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/util"
)

// projection distances closer than this are treated as equal
const pointToleranceMeters = 0.01

// Tracker. computes the progress of a session along its route for every new fix.
type Tracker struct {
	cfg Config
}

func NewTracker(cfg Config) *Tracker {
	return &Tracker{cfg: cfg}
}

type segmentProjection struct {
	dist     float64 // perpendicular distance from the fix, meter
	fraction float64 // 0..1 along the segment chord
}

func projectOnSegment(route *datastructure.Route, i int, p datastructure.Coordinate) (segmentProjection, bool) {
	seg, ok := route.GetSegment(i)
	if !ok {
		return segmentProjection{}, false
	}
	dist, fraction := geo.ProjectOntoSegment(p.ToGeoCoordinate(), seg.GetStart().ToGeoCoordinate(),
		seg.GetEnd().ToGeoCoordinate())
	return segmentProjection{dist: dist, fraction: fraction}, true
}

/*
Advance. apply fix to session and return the updated session plus the navigation state snapshot.

the fix is rejected (ErrInvalidFix) before anything is changed when its position is out of range or its
timestamp is not after the last accepted fix. the session must be active (ErrSessionInactive).

  - the current segment index moves forward by at most one per fix: when the fix projects at (or past) the
    end of the current segment and is not farther from the next segment than from the current one.
  - off-route is set when the fix is farther than OffRouteThreshold from both the current and the next
    segment, and is never cleared for the rest of the session.
  - arrival (remaining distance within ArrivalThreshold, or the distance to the destination within
    ArrivalThreshold while on the last segment or away from the current one) deactivates the session.
    arrival is checked before off-route.
*/
func (t *Tracker) Advance(session Session, fix *datastructure.GPSPoint) (Session, datastructure.NavigationState, error) {
	if !session.active {
		return session, datastructure.NavigationState{}, util.WrapErrorf(ErrSessionInactive, util.ErrConflict,
			"cannot apply fix")
	}
	if err := t.checkFix(session, fix); err != nil {
		return session, datastructure.NavigationState{}, err
	}

	route := session.route
	position := fix.Coordinate()
	idx := session.segmentIndex

	cur, _ := projectOnSegment(route, idx, position)
	next, hasNext := projectOnSegment(route, idx+1, position)

	if hasNext && cur.fraction >= 1-t.cfg.SegmentEndEpsilon && next.dist <= cur.dist+pointToleranceMeters {
		idx++
		cur = next
		next, hasNext = projectOnSegment(route, idx+1, position)
	}

	seg, _ := route.GetSegment(idx)
	distanceToNextTurn := seg.GetLength() * (1 - cur.fraction)
	remaining := route.DistanceAfter(idx) + distanceToNextTurn

	arrived := remaining <= t.cfg.ArrivalThreshold
	// loops and out-and-back routes pass near the destination on earlier segments
	nearDestinationCounts := idx == route.NumberOfSegments()-1 || cur.dist > t.cfg.ArrivalThreshold
	if distToDestination := position.DistanceTo(route.GetDestination()); nearDestinationCounts &&
		distToDestination <= t.cfg.ArrivalThreshold {
		arrived = true
		remaining = math.Min(remaining, distToDestination)
		distanceToNextTurn = math.Min(distanceToNextTurn, remaining)
	}

	offRoute := session.offRoute
	if !arrived && !offRoute {
		deviation := cur.dist
		if hasNext {
			deviation = math.Min(deviation, next.dist)
		}
		offRoute = deviation > t.cfg.OffRouteThreshold
	}

	accepted := *fix
	session.segmentIndex = idx
	session.lastFix = &accepted
	session.offRoute = offRoute
	session.active = !arrived

	state := datastructure.NavigationState{
		Route:              route,
		Location:           accepted,
		SegmentIndex:       idx,
		CurrentSegment:     &seg,
		DistanceToNextTurn: distanceToNextTurn,
		RemainingDistance:  remaining,
		RemainingTime:      t.remainingTime(route, remaining, fix.Speed()),
		CompletionPercent:  completionPercent(route, remaining),
		OffRoute:           offRoute,
		Arrived:            arrived,
		CurrentStreetName:  seg.GetStreetName(),
		TurnDirection:      seg.GetTurnDirection(),
		ExitNumber:         seg.GetExitNumber(),
		SpeedLimit:         seg.GetSpeedLimit(),
	}
	if nextSeg, ok := route.GetSegment(idx + 1); ok {
		state.NextSegment = &nextSeg
		state.NextStreetName = nextSeg.GetStreetName()
	}

	return session, state, nil
}

func (t *Tracker) checkFix(session Session, fix *datastructure.GPSPoint) error {
	if fix == nil {
		return util.WrapErrorf(ErrInvalidFix, util.ErrBadParamInput, "missing fix")
	}
	if !fix.ValidPosition() {
		return util.WrapErrorf(ErrInvalidFix, util.ErrBadParamInput, "fix position (%f, %f) is out of range",
			fix.Lat(), fix.Lon())
	}
	if !util.IsFinite(fix.Speed()) {
		return util.WrapErrorf(ErrInvalidFix, util.ErrBadParamInput, "fix speed %f is not finite", fix.Speed())
	}
	if session.lastFix != nil && !fix.Time().After(session.lastFix.Time()) {
		return util.WrapErrorf(ErrInvalidFix, util.ErrBadParamInput, "fix at %s is not after the last accepted fix at %s",
			fix.Time().Format("15:04:05.000"), session.lastFix.Time().Format("15:04:05.000"))
	}
	return nil
}

// remainingTime. second. uses the fix speed when known, otherwise the average speed of the route.
func (t *Tracker) remainingTime(route *datastructure.Route, remaining, speed float64) float64 {
	if speed > 0 {
		return remaining / speed
	}
	avg := route.AverageSpeed()
	if avg <= 0 || !util.IsFinite(avg) {
		return 0
	}
	return remaining / avg
}

func completionPercent(route *datastructure.Route, remaining float64) float64 {
	total := route.GetTotalDistance()
	return util.Clamp((total-remaining)/total*100, 0.0, 100.0)
}
