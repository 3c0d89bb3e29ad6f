package datastructure

import "math"

type BoundingBox struct {
	minLat, minLon float64
	maxLat, maxLon float64
}

// NewBoundingBoxFromCoords. smallest box containing every coord. empty input gives an inverted (empty) box.
func NewBoundingBoxFromCoords(coords ...Coordinate) BoundingBox {
	bb := BoundingBox{
		minLat: math.Inf(1), minLon: math.Inf(1),
		maxLat: math.Inf(-1), maxLon: math.Inf(-1),
	}
	for _, c := range coords {
		bb.minLat = math.Min(bb.minLat, c.Lat)
		bb.minLon = math.Min(bb.minLon, c.Lon)
		bb.maxLat = math.Max(bb.maxLat, c.Lat)
		bb.maxLon = math.Max(bb.maxLon, c.Lon)
	}
	return bb
}

func (b *BoundingBox) GetMinCoord() (float64, float64) {
	return b.minLat, b.minLon
}

func (b *BoundingBox) GetMaxCoord() (float64, float64) {
	return b.maxLat, b.maxLon
}

func (b *BoundingBox) Contains(c Coordinate) bool {
	return c.Lat >= b.minLat && c.Lat <= b.maxLat && c.Lon >= b.minLon && c.Lon <= b.maxLon
}
