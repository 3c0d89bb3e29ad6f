package datastructure

import (
	"fmt"
	"math"
	"time"
)

type AnnouncementKind uint8

const (
	TURN_ANNOUNCEMENT AnnouncementKind = iota
	REROUTING_REQUESTED
	ARRIVED
)

func (k AnnouncementKind) String() string {
	switch k {
	case TURN_ANNOUNCEMENT:
		return "TURN_ANNOUNCEMENT"
	case REROUTING_REQUESTED:
		return "REROUTING_REQUESTED"
	case ARRIVED:
		return "ARRIVED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(k))
	}
}

// AnnouncementTier. distance band before a turn, each band is announced at most once per turn.
type AnnouncementTier uint8

const (
	TIER_FAR AnnouncementTier = iota
	TIER_NEAR
	TIER_IMMINENT
)

func (t AnnouncementTier) String() string {
	switch t {
	case TIER_FAR:
		return "FAR"
	case TIER_NEAR:
		return "NEAR"
	case TIER_IMMINENT:
		return "IMMINENT"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(t))
	}
}

// AnnouncementEvent. fire-once event for the voice/haptic/ui collaborators. Turn fields are only set for
// TURN_ANNOUNCEMENT.
type AnnouncementEvent struct {
	Kind   AnnouncementKind
	Time   time.Time
	Haptic bool

	SegmentIndex int
	Tier         AnnouncementTier
	Turn         TurnDirection
	Distance     float64 // meter to the turn
	StreetName   string
	ExitNumber   int

	Locale Locale
}

func NewTurnAnnouncement(t time.Time, segmentIndex int, tier AnnouncementTier, turn TurnDirection,
	distance float64, streetName string, exitNumber int) AnnouncementEvent {
	return AnnouncementEvent{
		Kind:         TURN_ANNOUNCEMENT,
		Time:         t,
		Haptic:       tier == TIER_NEAR,
		SegmentIndex: segmentIndex,
		Tier:         tier,
		Turn:         turn,
		Distance:     distance,
		StreetName:   streetName,
		ExitNumber:   exitNumber,
	}
}

func NewReroutingRequested(t time.Time, segmentIndex int) AnnouncementEvent {
	return AnnouncementEvent{
		Kind:         REROUTING_REQUESTED,
		Time:         t,
		Haptic:       true,
		SegmentIndex: segmentIndex,
	}
}

func NewArrived(t time.Time, segmentIndex int) AnnouncementEvent {
	return AnnouncementEvent{
		Kind:         ARRIVED,
		Time:         t,
		SegmentIndex: segmentIndex,
	}
}

// Text. notification text in the event locale, e.g. "In 500 meters, turn left onto Jalan Slamet Riyadi"
func (e AnnouncementEvent) Text() string {
	pb := e.Locale.phrasebook()
	switch e.Kind {
	case REROUTING_REQUESTED:
		return pb.offRoute
	case ARRIVED:
		return pb.arrived
	}

	maneuver := pb.maneuver(e.Turn, e.ExitNumber)
	if !isEmpty(e.StreetName) && e.Turn != DESTINATION {
		maneuver = fmt.Sprintf(pb.onto, maneuver, e.StreetName)
	}
	if e.Tier == TIER_IMMINENT {
		return maneuver
	}

	return fmt.Sprintf(pb.in, formatDistance(pb, e.Distance), lowerFirst(maneuver))
}

// WithLocale. copy of the event with its text in locale
func (e AnnouncementEvent) WithLocale(locale Locale) AnnouncementEvent {
	e.Locale = locale
	return e
}

// formatDistance. rounded to 50 m above 100 m, to 10 m below
func formatDistance(pb phrasebook, meter float64) string {
	step := 10.0
	if meter > 100 {
		step = 50.0
	}
	rounded := math.Max(step, math.Round(meter/step)*step)
	if rounded >= 1000 {
		return fmt.Sprintf(pb.kilometers, rounded/1000)
	}
	return fmt.Sprintf(pb.meters, rounded)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
