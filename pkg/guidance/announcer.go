package guidance

import (
	"github.com/lintang-b-s/navigatorx-guidance/pkg/datastructure"
)

// Announcer. decides which announcement events are due after a tracker update.
type Announcer struct {
	cfg Config
}

func NewAnnouncer(cfg Config) *Announcer {
	return &Announcer{cfg: cfg}
}

/*
Announce. prev is the session before the fix, next the session returned by Tracker.Advance for the same fix.

	arrived                 -> ARRIVED
	off-route transition    -> REROUTING_REQUESTED (haptic)
	distance to next turn   -> TURN_ANNOUNCEMENT for the tier it falls in, at most once per (segment, tier)

	tier      distance to next turn
	far       (near, far]
	near      (imminent, near]       haptic
	imminent  [0, imminent]

events carry the session locale for their text.
tiers are independent range checks. a fix sequence that jumps over a band never announces it afterwards.
no turn is announced while off-route or while announcements are disabled; a tier that was not announced
is not marked.
*/
func (a *Announcer) Announce(prev, next Session, state datastructure.NavigationState) (Session, []datastructure.AnnouncementEvent) {
	at := state.Location.Time()

	if state.Arrived {
		return next, []datastructure.AnnouncementEvent{datastructure.NewArrived(at, state.SegmentIndex).WithLocale(next.locale)}
	}

	if next.offRoute {
		if !prev.offRoute {
			return next, []datastructure.AnnouncementEvent{datastructure.NewReroutingRequested(at, state.SegmentIndex).WithLocale(next.locale)}
		}
		return next, nil
	}

	if !next.announcementsEnabled {
		return next, nil
	}
	if state.TurnDirection == datastructure.STRAIGHT && !a.cfg.AnnounceStraight {
		return next, nil
	}

	tier, ok := a.tierOf(state.DistanceToNextTurn)
	if !ok {
		return next, nil
	}

	mark := AnnouncementMark{SegmentIndex: state.SegmentIndex, Tier: tier}
	if next.Announced(mark) {
		return next, nil
	}
	next = next.markAnnounced(mark)

	event := datastructure.NewTurnAnnouncement(at, state.SegmentIndex, tier, state.TurnDirection,
		state.DistanceToNextTurn, state.NextStreetName, state.ExitNumber).WithLocale(next.locale)
	return next, []datastructure.AnnouncementEvent{event}
}

func (a *Announcer) tierOf(distance float64) (datastructure.AnnouncementTier, bool) {
	switch {
	case distance < 0:
		return 0, false
	case distance <= a.cfg.ImminentTierDistance:
		return datastructure.TIER_IMMINENT, true
	case distance <= a.cfg.NearTierDistance:
		return datastructure.TIER_NEAR, true
	case distance <= a.cfg.FarTierDistance:
		return datastructure.TIER_FAR, true
	default:
		return 0, false
	}
}
