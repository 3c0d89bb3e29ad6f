package datastructure

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

type routeFileSegment struct {
	Start      Coordinate    `json:"start"`
	End        Coordinate    `json:"end"`
	Turn       TurnDirection `json:"turn"`
	Length     *float64      `json:"length,omitempty"` // computed from start/end when omitted
	StreetName string        `json:"street_name,omitempty"`
	SpeedLimit float64       `json:"speed_limit,omitempty"`
	ExitNumber int           `json:"exit_number,omitempty"`
}

type routeFile struct {
	Waypoints     []Coordinate       `json:"waypoints"`
	Segments      []routeFileSegment `json:"segments"`
	TotalDistance *float64           `json:"total_distance,omitempty"`
	EstimatedTime float64            `json:"estimated_time"`
}

// ReadRoute. decode a json route document. the route is not validated.
func ReadRoute(r io.Reader) (*Route, error) {
	var rf routeFile
	if err := json.NewDecoder(r).Decode(&rf); err != nil {
		return nil, fmt.Errorf("decode route: %w", err)
	}

	segments := make([]RouteSegment, len(rf.Segments))
	for i, s := range rf.Segments {
		length := s.Start.DistanceTo(s.End)
		if s.Length != nil {
			length = *s.Length
		}
		segments[i] = NewRouteSegment(s.Start, s.End, s.Turn, length, s.StreetName).
			WithSpeedLimit(s.SpeedLimit).
			WithExitNumber(s.ExitNumber)
	}

	if rf.TotalDistance != nil {
		return NewRouteWithDistance(rf.Waypoints, segments, *rf.TotalDistance, rf.EstimatedTime), nil
	}
	return NewRoute(rf.Waypoints, segments, rf.EstimatedTime), nil
}

func ReadRouteFile(path string) (*Route, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadRoute(f)
}

func (r *Route) Write(w io.Writer) error {
	rf := routeFile{
		Waypoints:     r.waypoints,
		Segments:      make([]routeFileSegment, len(r.segments)),
		TotalDistance: &r.totalDistance,
		EstimatedTime: r.estimatedTime,
	}
	for i, s := range r.segments {
		length := s.length
		rf.Segments[i] = routeFileSegment{
			Start:      s.start,
			End:        s.end,
			Turn:       s.turn,
			Length:     &length,
			StreetName: s.streetName,
			SpeedLimit: s.speedLimit,
			ExitNumber: s.exitNumber,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rf)
}
