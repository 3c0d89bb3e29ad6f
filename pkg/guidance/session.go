package guidance

import (
	"github.com/lintang-b-s/navigatorx-guidance/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/util"
	"golang.org/x/exp/maps"
)

// AnnouncementMark. (segment index, tier) pair that has already been announced in a session
type AnnouncementMark struct {
	SegmentIndex int
	Tier         datastructure.AnnouncementTier
}

/*
Session. state of one navigation attempt along one route.

Session is a value: every transition (Advance, Announce, ...) returns a new Session and leaves the
receiver untouched. the announcement marks are copied on write, so older values stay valid snapshots.
the zero Session is inactive.
*/
type Session struct {
	route                *datastructure.Route
	segmentIndex         int
	lastFix              *datastructure.GPSPoint
	marks                map[AnnouncementMark]struct{}
	offRoute             bool
	active               bool
	announcementsEnabled bool
	locale               datastructure.Locale
}

// NewSession. active session at the first segment of route. fails with ErrInvalidRoute.
func NewSession(route *datastructure.Route) (Session, error) {
	if err := route.Validate(); err != nil {
		return Session{}, util.WrapErrorf(ErrInvalidRoute, util.ErrBadParamInput, "cannot start navigation: %v", err)
	}
	return Session{
		route:                route,
		segmentIndex:         0,
		marks:                make(map[AnnouncementMark]struct{}),
		active:               true,
		announcementsEnabled: true,
		locale:               datastructure.LOCALE_EN,
	}, nil
}

func (s Session) GetRoute() *datastructure.Route {
	return s.route
}

func (s Session) GetSegmentIndex() int {
	return s.segmentIndex
}

func (s Session) GetLastFix() (datastructure.GPSPoint, bool) {
	if s.lastFix == nil {
		return datastructure.GPSPoint{}, false
	}
	return *s.lastFix, true
}

func (s Session) IsOffRoute() bool {
	return s.offRoute
}

func (s Session) IsActive() bool {
	return s.active
}

func (s Session) AnnouncementsEnabled() bool {
	return s.announcementsEnabled
}

func (s Session) Announced(mark AnnouncementMark) bool {
	_, ok := s.marks[mark]
	return ok
}

func (s Session) NumberOfMarks() int {
	return len(s.marks)
}

func (s Session) WithAnnouncementsEnabled(enabled bool) Session {
	s.announcementsEnabled = enabled
	return s
}

func (s Session) Locale() datastructure.Locale {
	return s.locale
}

func (s Session) WithLocale(locale datastructure.Locale) Session {
	s.locale = locale
	return s
}

func (s Session) Deactivate() Session {
	s.active = false
	return s
}

func (s Session) markAnnounced(mark AnnouncementMark) Session {
	marks := maps.Clone(s.marks)
	if marks == nil {
		marks = make(map[AnnouncementMark]struct{}, 1)
	}
	marks[mark] = struct{}{}
	s.marks = marks
	return s
}
