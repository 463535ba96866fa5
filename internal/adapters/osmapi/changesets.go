package osmapi

import (
	"context"
	"encoding/xml"
	"io"
	"net/url"
	"strconv"
	"time"

	"osmwatch/internal/core/changeset"
	"osmwatch/internal/core/geo"
	"osmwatch/internal/core/sanitize"
	perr "osmwatch/internal/platform/errors"
	tim "osmwatch/internal/platform/time"
)

// PageSize is the server side page limit on the changesets endpoint
const PageSize = 100

// maxBody caps a single page read; a full page is well under this
const maxBody = 8 << 20

// TimeWindow is the time filter for the changesets endpoint
// zero End means everything since Start, otherwise the closed range Start,End
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

func (w TimeWindow) encode() string {
	s := w.Start.UTC().Format(time.RFC3339)
	if w.End.IsZero() {
		return s
	}
	return s + "," + w.End.UTC().Format(time.RFC3339)
}

// wire shapes for the endpoint's XML
// bbox attributes stay strings so an absent box is not a zero box
type osmRoot struct {
	XMLName    xml.Name       `xml:"osm"`
	Changesets []osmChangeset `xml:"changeset"`
}

type osmChangeset struct {
	ID            int64    `xml:"id,attr"`
	User          string   `xml:"user,attr"`
	UID           int64    `xml:"uid,attr"`
	CreatedAt     string   `xml:"created_at,attr"`
	ClosedAt      string   `xml:"closed_at,attr"`
	Open          bool     `xml:"open,attr"`
	ChangesCount  int      `xml:"changes_count,attr"`
	CommentsCount int      `xml:"comments_count,attr"`
	MinLon        string   `xml:"min_lon,attr"`
	MinLat        string   `xml:"min_lat,attr"`
	MaxLon        string   `xml:"max_lon,attr"`
	MaxLat        string   `xml:"max_lat,attr"`
	Tags          []osmTag `xml:"tag"`
}

type osmTag struct {
	K string `xml:"k,attr"`
	V string `xml:"v,attr"`
}

// ChangesetsPage fetches one page of changesets for a display name
// the server caps pages at PageSize and returns newest first
func (c *Client) ChangesetsPage(ctx context.Context, user string, w TimeWindow) ([]changeset.Changeset, error) {
	q := url.Values{}
	q.Set("display_name", user)
	q.Set("time", w.encode())

	resp, err := c.Do(ctx, "/changesets", q)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("user", user).Msg("osm close body failed")
		}
	}()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "osm read body failed")
	}

	var root osmRoot
	if err := xml.Unmarshal(b, &root); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "osm changesets parse failed")
	}

	out := make([]changeset.Changeset, 0, len(root.Changesets))
	for _, raw := range root.Changesets {
		cs, err := toChangeset(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, nil
}

func toChangeset(raw osmChangeset) (changeset.Changeset, error) {
	created, err := time.Parse(time.RFC3339, raw.CreatedAt)
	if err != nil {
		return changeset.Changeset{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "osm changeset %d bad created_at %q", raw.ID, raw.CreatedAt)
	}

	cs := changeset.Changeset{
		ID:            raw.ID,
		User:          sanitize.Clean(raw.User),
		UID:           raw.UID,
		CreatedAt:     created.UTC(),
		Open:          raw.Open,
		ChangesCount:  raw.ChangesCount,
		CommentsCount: raw.CommentsCount,
		BBox:          parseBBox(raw),
	}

	if raw.ClosedAt != "" {
		closed, err := time.Parse(time.RFC3339, raw.ClosedAt)
		if err != nil {
			return changeset.Changeset{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "osm changeset %d bad closed_at %q", raw.ID, raw.ClosedAt)
		}
		cs.ClosedAt = tim.UTCPtr(closed)
	}

	if len(raw.Tags) > 0 {
		cs.Tags = make(map[string]string, len(raw.Tags))
		for _, t := range raw.Tags {
			cs.Tags[t.K] = sanitize.Clean(t.V)
		}
	}
	return cs, nil
}

// parseBBox returns nil unless all four corner attributes are present and numeric
// open or empty changesets legitimately come back without a box
func parseBBox(raw osmChangeset) *geo.BBox {
	parts := [4]string{raw.MinLon, raw.MinLat, raw.MaxLon, raw.MaxLat}
	var vals [4]float64
	for i, s := range parts {
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		vals[i] = f
	}
	return &geo.BBox{MinLon: vals[0], MinLat: vals[1], MaxLon: vals[2], MaxLat: vals[3]}
}
