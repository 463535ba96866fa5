// Package osmpds reads the public OSM changeset export through ClickHouse
package osmpds

import (
	"context"
	"fmt"
	"strings"
	"time"

	"osmwatch/internal/core/changeset"
	"osmwatch/internal/core/geo"
	"osmwatch/internal/core/sanitize"
	perr "osmwatch/internal/platform/errors"
	"osmwatch/internal/platform/logger"
	"osmwatch/internal/platform/store"
	tim "osmwatch/internal/platform/time"
)

// defaultSource is the public ORC export of every OSM changeset
const defaultSource = "https://osm-pds.s3.amazonaws.com/changesets/changesets-latest.orc"

// Options configures the Reader
type Options struct {
	// Source is the URL the s3 table function reads
	Source string
}

// Reader pulls roster changesets out of the public export
type Reader struct {
	ch   store.Clickhouse
	opts Options
	log  logger.Logger
}

// NewReader creates a Reader over an opened ClickHouse seam
func NewReader(ch store.Clickhouse, o Options) *Reader {
	if o.Source == "" {
		o.Source = defaultSource
	}
	return &Reader{ch: ch, opts: o, log: *logger.Named("osmpds")}
}

// Changesets runs the export query for the roster since the given instant
// the roster inlines as an escaped IN list because the list length varies,
// while the date rides as a bound parameter
// rows with any missing bbox coordinate are dropped here
func (r *Reader) Changesets(ctx context.Context, users []string, since time.Time) ([]changeset.Changeset, error) {
	if len(users) == 0 {
		return nil, perr.InvalidArgf("osmpds empty roster")
	}

	// casts keep the ORC decimals and nullables scannable as plain Go types
	sql := fmt.Sprintf(`
		SELECT
			CAST(id AS Int64)                            AS id,
			CAST(uid AS Nullable(Int64))                 AS uid,
			CAST(user AS String)                         AS user,
			CAST(created_at AS DateTime('UTC'))          AS created_at,
			CAST(closed_at AS Nullable(DateTime('UTC'))) AS closed_at,
			CAST(min_lon AS Nullable(Float64))           AS min_lon,
			CAST(min_lat AS Nullable(Float64))           AS min_lat,
			CAST(max_lon AS Nullable(Float64))           AS max_lon,
			CAST(max_lat AS Nullable(Float64))           AS max_lat,
			CAST(num_changes AS Nullable(Int64))         AS num_changes,
			tags
		FROM s3(%s, NOSIGN, 'ORC')
		WHERE user IN (%s)
		  AND created_at >= ?
		ORDER BY created_at
	`, quote(r.opts.Source), quoteList(users))

	start := time.Now()
	rs, err := r.ch.Query(ctx, sql, since.UTC())
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "osmpds query failed")
	}
	defer rs.Close()

	var out []changeset.Changeset
	skipped := 0
	for rs.Next() {
		var (
			id         int64
			uid        *int64
			user       string
			created    time.Time
			closed     *time.Time
			minLon     *float64
			minLat     *float64
			maxLon     *float64
			maxLat     *float64
			numChanges *int64
			tags       map[string]string
		)
		if err := rs.Scan(&id, &uid, &user, &created, &closed,
			&minLon, &minLat, &maxLon, &maxLat, &numChanges, &tags); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeDB, "osmpds scan failed")
		}

		if minLon == nil || minLat == nil || maxLon == nil || maxLat == nil {
			skipped++
			continue
		}

		cs := changeset.Changeset{
			ID:        id,
			User:      sanitize.Clean(user),
			CreatedAt: created.UTC(),
			BBox:      &geo.BBox{MinLon: *minLon, MinLat: *minLat, MaxLon: *maxLon, MaxLat: *maxLat},
		}
		if uid != nil {
			cs.UID = *uid
		}
		if closed != nil {
			cs.ClosedAt = tim.UTCPtr(*closed)
		}
		if numChanges != nil {
			cs.ChangesCount = int(*numChanges)
		}
		if len(tags) > 0 {
			cs.Tags = make(map[string]string, len(tags))
			for k, v := range tags {
				cs.Tags[k] = sanitize.Clean(v)
			}
		}
		out = append(out, cs)
	}
	if err := rs.Err(); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "osmpds rows failed")
	}

	r.log.Debug().
		Int("rows", len(out)).
		Int("skipped_boxless", skipped).
		Dur("elapsed", time.Since(start)).
		Msg("osmpds export scanned")
	return out, nil
}

// quoteList renders display names as an escaped IN list
func quoteList(names []string) string {
	quoted := make([]string, 0, len(names))
	for _, n := range names {
		quoted = append(quoted, quote(n))
	}
	return strings.Join(quoted, ", ")
}

// quote escapes a string literal for inlining into ClickHouse SQL
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}
