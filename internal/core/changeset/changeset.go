// Package changeset defines the records produced by the fetch and planet paths
package changeset

import (
	"sort"
	"time"

	"osmwatch/internal/core/geo"
)

// Changeset is one OSM changeset with the metadata both paths care about
// timestamps are UTC and marshal as RFC 3339
type Changeset struct {
	ID            int64             `json:"id"`
	User          string            `json:"user"`
	UID           int64             `json:"uid,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	ClosedAt      *time.Time        `json:"closed_at,omitempty"`
	Open          bool              `json:"open"`
	ChangesCount  int               `json:"changes_count"`
	CommentsCount int               `json:"comments_count"`
	BBox          *geo.BBox         `json:"bbox,omitempty"`
	City          string            `json:"city,omitempty"`
	Tags          map[string]string `json:"tags,omitempty"`
}

// Center is the midpoint of the bounding box, nil for boxless changesets
func (c Changeset) Center() *geo.Point {
	if c.BBox == nil {
		return nil
	}
	p := c.BBox.Center()
	return &p
}

// Comment returns the comment tag or ""
func (c Changeset) Comment() string { return c.Tags["comment"] }

// Flat is the projection used by the bucket rollups and the planet raw output
type Flat struct {
	ID           int64     `json:"id"`
	User         string    `json:"user"`
	Lon          float64   `json:"lon"`
	Lat          float64   `json:"lat"`
	ChangesCount int       `json:"changes_count"`
	City         string    `json:"city"`
	CreatedAt    time.Time `json:"created_at"`
	Comment      string    `json:"comment,omitempty"`
}

// Flatten projects a changeset onto its flat form
// ok is false when the changeset has no bounding box
func Flatten(c Changeset) (Flat, bool) {
	ctr := c.Center()
	if ctr == nil {
		return Flat{}, false
	}
	return Flat{
		ID:           c.ID,
		User:         c.User,
		Lon:          ctr.Lon,
		Lat:          ctr.Lat,
		ChangesCount: c.ChangesCount,
		City:         c.City,
		CreatedAt:    c.CreatedAt,
		Comment:      c.Comment(),
	}, true
}

// SortByCreatedAt orders changesets oldest first, stable on equal timestamps
func SortByCreatedAt(cs []Changeset) {
	sort.SliceStable(cs, func(i, j int) bool {
		return cs[i].CreatedAt.Before(cs[j].CreatedAt)
	})
}
