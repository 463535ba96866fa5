// Package geo provides the small geometry types shared by the fetch and planet paths
package geo

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang/geo/s2"
)

// Point is a lon lat pair in degrees
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// BBox is a closed lon lat box in degrees
// the wire form is the four number array [min_lon, min_lat, max_lon, max_lat]
type BBox struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// Valid reports whether the box is ordered and within world bounds
func (b BBox) Valid() bool {
	if b.MinLon > b.MaxLon || b.MinLat > b.MaxLat {
		return false
	}
	if b.MinLon < -180 || b.MaxLon > 180 {
		return false
	}
	return b.MinLat >= -90 && b.MaxLat <= 90
}

// Center is the arithmetic midpoint of the box
func (b BBox) Center() Point {
	return Point{
		Lon: (b.MinLon + b.MaxLon) / 2,
		Lat: (b.MinLat + b.MaxLat) / 2,
	}
}

// Contains reports whether p lies within the box, edges included
func (b BBox) Contains(p Point) bool {
	return b.rect().ContainsLatLng(s2.LatLngFromDegrees(p.Lat, p.Lon))
}

// rect builds the closed s2 rect for the box
// none of our boxes cross the antimeridian so the short lng interval is right
func (b BBox) rect() s2.Rect {
	r := s2.RectFromLatLng(s2.LatLngFromDegrees(b.MinLat, b.MinLon))
	return r.AddPoint(s2.LatLngFromDegrees(b.MaxLat, b.MaxLon))
}

// ParseBBox parses the comma form "min_lon,min_lat,max_lon,max_lat"
func ParseBBox(s string) (BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return BBox{}, fmt.Errorf("geo: bbox wants 4 numbers, got %d", len(parts))
	}
	var vals [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return BBox{}, fmt.Errorf("geo: bbox part %d: %w", i+1, err)
		}
		vals[i] = f
	}
	b := BBox{MinLon: vals[0], MinLat: vals[1], MaxLon: vals[2], MaxLat: vals[3]}
	if !b.Valid() {
		return BBox{}, fmt.Errorf("geo: bbox out of order or out of bounds")
	}
	return b, nil
}

// MarshalJSON renders the four number array wire form
func (b BBox) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{b.MinLon, b.MinLat, b.MaxLon, b.MaxLat})
}

// UnmarshalJSON parses the four number array wire form
func (b *BBox) UnmarshalJSON(data []byte) error {
	var a []float64
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("geo: bbox: %w", err)
	}
	if len(a) != 4 {
		return fmt.Errorf("geo: bbox wants 4 numbers, got %d", len(a))
	}
	b.MinLon, b.MinLat, b.MaxLon, b.MaxLat = a[0], a[1], a[2], a[3]
	return nil
}
