package controllers

import (
	"time"

	"github.com/lintang-b-s/navigatorx-guidance/pkg/datastructure"
)

type coordinate struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
}

func (c coordinate) toData() datastructure.Coordinate {
	return datastructure.NewCoordinate(c.Lat, c.Lon)
}

type routeSegmentRequest struct {
	Start      coordinate `json:"start"`
	End        coordinate `json:"end"`
	Turn       string     `json:"turn" validate:"required,oneof=U_TURN_LEFT EXIT_ROUNDABOUT TURN_SHARP_LEFT TURN_LEFT TURN_SLIGHT_LEFT STRAIGHT TURN_SLIGHT_RIGHT TURN_RIGHT TURN_SHARP_RIGHT DESTINATION ENTER_ROUNDABOUT U_TURN_RIGHT"`
	Length     float64    `json:"length" validate:"omitempty,gt=0"`
	StreetName string     `json:"street_name" validate:"max=256"`
	SpeedLimit float64    `json:"speed_limit" validate:"gte=0"`
	ExitNumber int        `json:"exit_number" validate:"gte=0"`
}

// startNavigationRequest. either explicit segments (with maneuvers) or an encoded polyline.
type startNavigationRequest struct {
	Waypoints     []coordinate          `json:"waypoints" validate:"omitempty,dive"`
	Segments      []routeSegmentRequest `json:"segments" validate:"omitempty,dive"`
	Polyline      string                `json:"polyline" validate:"required_without=Segments"`
	StreetNames   []string              `json:"street_names" validate:"omitempty,dive,max=256"`
	TotalDistance float64               `json:"total_distance" validate:"omitempty,gt=0"`
	EstimatedTime float64               `json:"estimated_time" validate:"gte=0"`
}

// toRoute. route built from explicit segments. a segment without length takes the great-circle distance.
func (req startNavigationRequest) toRoute() *datastructure.Route {
	segments := make([]datastructure.RouteSegment, len(req.Segments))
	for i, s := range req.Segments {
		turn, _ := datastructure.ParseTurnDirection(s.Turn)
		length := s.Length
		if length == 0 {
			length = s.Start.toData().DistanceTo(s.End.toData())
		}
		segments[i] = datastructure.NewRouteSegment(s.Start.toData(), s.End.toData(), turn, length, s.StreetName).
			WithSpeedLimit(s.SpeedLimit).
			WithExitNumber(s.ExitNumber)
	}

	waypoints := make([]datastructure.Coordinate, 0, len(req.Waypoints)+1)
	for _, w := range req.Waypoints {
		waypoints = append(waypoints, w.toData())
	}
	if len(waypoints) == 0 && len(segments) > 0 {
		waypoints = append(waypoints, segments[0].GetStart())
		for _, s := range segments {
			waypoints = append(waypoints, s.GetEnd())
		}
	}

	if req.TotalDistance > 0 {
		return datastructure.NewRouteWithDistance(waypoints, segments, req.TotalDistance, req.EstimatedTime)
	}
	return datastructure.NewRoute(waypoints, segments, req.EstimatedTime)
}

type fixRequest struct {
	Lat       *float64   `json:"lat" validate:"required,min=-90,max=90"`
	Lon       *float64   `json:"lon" validate:"required,min=-180,max=180"`
	Timestamp *time.Time `json:"timestamp"`
	Speed     float64    `json:"speed" validate:"gte=0"`
	Altitude  *float64   `json:"altitude"`
	Accuracy  *float64   `json:"accuracy" validate:"omitempty,gte=0"`
	Heading   *float64   `json:"heading" validate:"omitempty,gte=0,lt=360"`
}

// toDataGPS. fixes without a timestamp are stamped with now
func (req fixRequest) toDataGPS(now time.Time) *datastructure.GPSPoint {
	t := now
	if req.Timestamp != nil {
		t = *req.Timestamp
	}
	fix := datastructure.NewGPSPoint(*req.Lat, *req.Lon, t, req.Speed)
	if req.Altitude != nil {
		fix = fix.WithAltitude(*req.Altitude)
	}
	if req.Accuracy != nil {
		fix = fix.WithAccuracy(*req.Accuracy)
	}
	if req.Heading != nil {
		fix = fix.WithHeading(*req.Heading)
	}
	return fix
}

type announcementsRequest struct {
	Enabled *bool   `json:"enabled" validate:"required_without=Locale"`
	Locale  *string `json:"locale" validate:"omitempty,oneof=en id"`
}

type boundingBoxResponse struct {
	Min coordinate `json:"min"`
	Max coordinate `json:"max"`
}

type routeSummaryResponse struct {
	Segments      int                 `json:"segments"`
	TotalDistance float64             `json:"total_distance"`
	EstimatedTime float64             `json:"estimated_time"`
	BoundingBox   boundingBoxResponse `json:"bounding_box"`
	Polyline      string              `json:"polyline,omitempty"`
}

func NewRouteSummaryResponse(route *datastructure.Route, polyline string) routeSummaryResponse {
	bb := route.GetBoundingBox()
	minLat, minLon := bb.GetMinCoord()
	maxLat, maxLon := bb.GetMaxCoord()
	return routeSummaryResponse{
		Segments:      route.NumberOfSegments(),
		TotalDistance: route.GetTotalDistance(),
		EstimatedTime: route.GetEstimatedTime(),
		BoundingBox: boundingBoxResponse{
			Min: coordinate{Lat: minLat, Lon: minLon},
			Max: coordinate{Lat: maxLat, Lon: maxLon},
		},
		Polyline: polyline,
	}
}

type navigationStateResponse struct {
	Lat                float64   `json:"lat"`
	Lon                float64   `json:"lon"`
	Timestamp          time.Time `json:"timestamp"`
	SegmentIndex       int       `json:"segment_index"`
	DistanceToNextTurn float64   `json:"distance_to_next_turn"`
	RemainingDistance  float64   `json:"remaining_distance"`
	RemainingTime      float64   `json:"remaining_time"`
	CompletionPercent  float64   `json:"completion_percent"`
	OffRoute           bool      `json:"off_route"`
	Arrived            bool      `json:"arrived"`
	CurrentStreetName  string    `json:"current_street_name"`
	NextStreetName     string    `json:"next_street_name,omitempty"`
	TurnDirection      string    `json:"turn_direction"`
	ExitNumber         int       `json:"exit_number,omitempty"`
	SpeedLimit         float64   `json:"speed_limit,omitempty"`
}

func NewNavigationStateResponse(state datastructure.NavigationState) navigationStateResponse {
	return navigationStateResponse{
		Lat:                state.Location.Lat(),
		Lon:                state.Location.Lon(),
		Timestamp:          state.Location.Time(),
		SegmentIndex:       state.SegmentIndex,
		DistanceToNextTurn: state.DistanceToNextTurn,
		RemainingDistance:  state.RemainingDistance,
		RemainingTime:      state.RemainingTime,
		CompletionPercent:  state.CompletionPercent,
		OffRoute:           state.OffRoute,
		Arrived:            state.Arrived,
		CurrentStreetName:  state.CurrentStreetName,
		NextStreetName:     state.NextStreetName,
		TurnDirection:      state.TurnDirection.String(),
		ExitNumber:         state.ExitNumber,
		SpeedLimit:         state.SpeedLimit,
	}
}

type announcementEventResponse struct {
	Kind         string    `json:"kind"`
	Timestamp    time.Time `json:"timestamp"`
	Haptic       bool      `json:"haptic"`
	SegmentIndex int       `json:"segment_index"`
	Tier         string    `json:"tier,omitempty"`
	Turn         string    `json:"turn,omitempty"`
	Distance     float64   `json:"distance,omitempty"`
	StreetName   string    `json:"street_name,omitempty"`
	ExitNumber   int       `json:"exit_number,omitempty"`
	Text         string    `json:"text"`
}

func NewAnnouncementEventsResponse(events []datastructure.AnnouncementEvent) []announcementEventResponse {
	resp := make([]announcementEventResponse, 0, len(events))
	for _, ev := range events {
		r := announcementEventResponse{
			Kind:         ev.Kind.String(),
			Timestamp:    ev.Time,
			Haptic:       ev.Haptic,
			SegmentIndex: ev.SegmentIndex,
			Text:         ev.Text(),
		}
		if ev.Kind == datastructure.TURN_ANNOUNCEMENT {
			r.Tier = ev.Tier.String()
			r.Turn = ev.Turn.String()
			r.Distance = ev.Distance
			r.StreetName = ev.StreetName
			r.ExitNumber = ev.ExitNumber
		}
		resp = append(resp, r)
	}
	return resp
}

type navigationUpdateResponse struct {
	State  navigationStateResponse     `json:"state"`
	Events []announcementEventResponse `json:"events"`
}

func NewNavigationUpdateResponse(state datastructure.NavigationState, events []datastructure.AnnouncementEvent) navigationUpdateResponse {
	return navigationUpdateResponse{
		State:  NewNavigationStateResponse(state),
		Events: NewAnnouncementEventsResponse(events),
	}
}

type statusResponse struct {
	Active               bool                     `json:"active"`
	AnnouncementsEnabled bool                     `json:"announcements_enabled"`
	AnnouncementsLocale  string                   `json:"announcements_locale"`
	State                *navigationStateResponse `json:"state,omitempty"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
