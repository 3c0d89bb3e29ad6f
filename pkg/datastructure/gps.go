package datastructure

import (
	"time"

	"github.com/lintang-b-s/navigatorx-guidance/pkg/geo"
)

// GPSPoint. a single timestamped position fix pushed by the location provider.
type GPSPoint struct {
	lon   float64
	lat   float64
	time  time.Time
	speed float64 // meter/second, <= 0 if unknown

	altitude    float64
	hasAltitude bool
	accuracy    float64 // horizontal accuracy radius in meter
	hasAccuracy bool
	heading     float64 // degree clockwise from north
	hasHeading  bool
}

func NewGPSPoint(lat, lon float64, t time.Time, speed float64) *GPSPoint {
	return &GPSPoint{
		lon:   lon,
		lat:   lat,
		time:  t,
		speed: speed,
	}
}

func (gp *GPSPoint) WithAltitude(altitude float64) *GPSPoint {
	gp.altitude, gp.hasAltitude = altitude, true
	return gp
}

func (gp *GPSPoint) WithAccuracy(accuracy float64) *GPSPoint {
	gp.accuracy, gp.hasAccuracy = accuracy, true
	return gp
}

func (gp *GPSPoint) WithHeading(heading float64) *GPSPoint {
	gp.heading, gp.hasHeading = heading, true
	return gp
}

func (gp *GPSPoint) Lon() float64 {
	return gp.lon
}

func (gp *GPSPoint) Lat() float64 {
	return gp.lat
}

func (gp *GPSPoint) Time() time.Time {
	return gp.time
}

func (gp *GPSPoint) Speed() float64 {
	return gp.speed
}

func (gp *GPSPoint) HasSpeed() bool {
	return gp.speed > 0
}

func (gp *GPSPoint) Altitude() (float64, bool) {
	return gp.altitude, gp.hasAltitude
}

func (gp *GPSPoint) Accuracy() (float64, bool) {
	return gp.accuracy, gp.hasAccuracy
}

func (gp *GPSPoint) Heading() (float64, bool) {
	return gp.heading, gp.hasHeading
}

func (gp *GPSPoint) Coordinate() Coordinate {
	return NewCoordinate(gp.lat, gp.lon)
}

func (gp *GPSPoint) ValidPosition() bool {
	return geo.ValidLatLon(gp.lat, gp.lon)
}
