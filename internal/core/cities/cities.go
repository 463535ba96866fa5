// Package cities holds the city tables and the first match classifier
package cities

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"osmwatch/internal/core/geo"
)

// Fallback is the label for points outside every box
const Fallback = "Other"

// City pairs a label with its bounding box
type City struct {
	Name string
	Box  geo.BBox
}

// Center is the midpoint of the city box
func (c City) Center() geo.Point { return c.Box.Center() }

// Table is an ordered city list
// order decides precedence when boxes overlap, so this stays a slice
type Table []City

// Classify returns the label of the first city whose box contains p
// nil points classify as "" and points outside every box as Fallback
func (t Table) Classify(p *geo.Point) string {
	if p == nil {
		return ""
	}
	for _, c := range t {
		if c.Box.Contains(*p) {
			return c.Name
		}
	}
	return Fallback
}

// WireEntry is the marshalled form used by cities.json and the API
type WireEntry struct {
	BBox   geo.BBox   `json:"bbox"`
	Center [2]float64 `json:"center"`
}

// Wire renders the table into its output map
func (t Table) Wire() map[string]WireEntry {
	out := make(map[string]WireEntry, len(t))
	for _, c := range t {
		ctr := c.Center()
		out[c.Name] = WireEntry{BBox: c.Box, Center: [2]float64{ctr.Lon, ctr.Lat}}
	}
	return out
}

// Default returns the built in table
// Scottsdale stays ahead of Phoenix because the two boxes overlap
func Default() Table {
	return Table{
		{Name: "Rome, IT", Box: geo.BBox{MinLon: 12.23, MinLat: 41.65, MaxLon: 12.85, MaxLat: 42.10}},
		{Name: "London, UK", Box: geo.BBox{MinLon: -0.51, MinLat: 51.28, MaxLon: 0.33, MaxLat: 51.69}},
		{Name: "Manchester, UK", Box: geo.BBox{MinLon: -2.35, MinLat: 53.35, MaxLon: -2.15, MaxLat: 53.55}},
		{Name: "Naples, IT", Box: geo.BBox{MinLon: 14.10, MinLat: 40.78, MaxLon: 14.40, MaxLat: 40.95}},
		{Name: "Brooklyn, NY", Box: geo.BBox{MinLon: -74.05, MinLat: 40.57, MaxLon: -73.83, MaxLat: 40.74}},
		{Name: "Atlanta, GA", Box: geo.BBox{MinLon: -84.55, MinLat: 33.65, MaxLon: -84.29, MaxLat: 33.89}},
		{Name: "Austin, TX", Box: geo.BBox{MinLon: -97.95, MinLat: 30.10, MaxLon: -97.60, MaxLat: 30.50}},
		{Name: "Scottsdale, AZ", Box: geo.BBox{MinLon: -111.96, MinLat: 33.40, MaxLon: -111.68, MaxLat: 33.85}},
		{Name: "Phoenix, AZ", Box: geo.BBox{MinLon: -112.35, MinLat: 33.27, MaxLon: -111.90, MaxLat: 33.70}},
	}
}

// fileCity is the wire row for the optional city file
type fileCity struct {
	Name string    `json:"name" validate:"required"`
	BBox []float64 `json:"bbox" validate:"required,len=4"`
}

// Resolve returns the table from file when set, the default table otherwise
func Resolve(file string) (Table, error) {
	if file == "" {
		return Default(), nil
	}
	return Load(file)
}

// Load reads an ordered city table from a JSON file
// the file replaces the default table entirely, preserving its row order
func Load(path string) (Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cities: read %s: %w", path, err)
	}

	var rows []fileCity
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("cities: parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("cities: %s has no entries", path)
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	out := make(Table, 0, len(rows))
	for i, r := range rows {
		if err := v.Struct(r); err != nil {
			return nil, fmt.Errorf("cities: entry %d: %w", i, err)
		}
		b := geo.BBox{MinLon: r.BBox[0], MinLat: r.BBox[1], MaxLon: r.BBox[2], MaxLat: r.BBox[3]}
		if !b.Valid() {
			return nil, fmt.Errorf("cities: entry %d (%s): bbox out of bounds", i, r.Name)
		}
		out = append(out, City{Name: r.Name, Box: b})
	}
	return out, nil
}
