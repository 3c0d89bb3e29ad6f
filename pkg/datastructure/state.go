package datastructure

// NavigationState. immutable snapshot of the progress along the active route, produced on every accepted fix.
type NavigationState struct {
	Route          *Route
	Location       GPSPoint
	SegmentIndex   int
	CurrentSegment *RouteSegment
	NextSegment    *RouteSegment

	DistanceToNextTurn float64 // meter
	RemainingDistance  float64 // meter
	RemainingTime      float64 // second
	CompletionPercent  float64 // 0..100

	OffRoute bool
	Arrived  bool

	CurrentStreetName string
	NextStreetName    string
	TurnDirection     TurnDirection
	ExitNumber        int
	SpeedLimit        float64 // meter/second, 0 if unknown
}

func (ns NavigationState) HasSpeedLimit() bool {
	return ns.SpeedLimit > 0
}
