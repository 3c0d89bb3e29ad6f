package geo

import (
	"fmt"

	"github.com/twpayne/go-polyline"
)

// PolylineFromCoords. encode coords as google encoded polyline (precision 5)
func PolylineFromCoords(coords []Coordinate) string {
	points := make([][]float64, len(coords))
	for i, c := range coords {
		points[i] = []float64{c.Lat, c.Lon}
	}
	return string(polyline.EncodeCoords(points))
}

func CoordsFromPolyline(encoded string) ([]Coordinate, error) {
	points, rest, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("trailing %d bytes after polyline", len(rest))
	}

	coords := make([]Coordinate, len(points))
	for i, p := range points {
		coords[i] = NewCoordinate(p[0], p[1])
	}
	return coords, nil
}
