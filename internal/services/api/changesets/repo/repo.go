// Package repo reads changeset outputs from the data directory
package repo

import (
	"context"
	"encoding/json"
	"os"

	"osmwatch/internal/adapters/datadir"
	"osmwatch/internal/core/changeset"
	perr "osmwatch/internal/platform/errors"
)

// Files is the read side over the output directory
// every call re reads disk so responses always track the latest run
type Files struct {
	dir datadir.Dir
}

// NewFiles constructs the file repo over a data directory handle
func NewFiles(dir datadir.Dir) *Files { return &Files{dir: dir} }

// Raw returns the changesets file bytes exactly as the last run wrote them
func (f *Files) Raw(_ context.Context) (json.RawMessage, error) {
	b, err := f.dir.ReadRaw(datadir.ChangesetsFile)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}

// Weekly returns the weekly rollup buckets
func (f *Files) Weekly(_ context.Context) (map[string][]changeset.Flat, error) {
	return f.readBuckets(datadir.WeeklyFile)
}

// Monthly returns the monthly rollup buckets
func (f *Files) Monthly(_ context.Context) (map[string][]changeset.Flat, error) {
	return f.readBuckets(datadir.MonthlyFile)
}

// Newest returns the most recently written rollup
// the fetch run writes the weekly file, the planet run the monthly one
func (f *Files) Newest(_ context.Context) (map[string][]changeset.Flat, error) {
	name, err := f.newestRollup()
	if err != nil {
		return nil, err
	}
	return f.readBuckets(name)
}

func (f *Files) readBuckets(name string) (map[string][]changeset.Flat, error) {
	var out map[string][]changeset.Flat
	if err := f.dir.ReadJSON(name, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (f *Files) newestRollup() (string, error) {
	wi, werr := os.Stat(f.dir.File(datadir.WeeklyFile))
	mi, merr := os.Stat(f.dir.File(datadir.MonthlyFile))
	switch {
	case werr == nil && merr == nil:
		if mi.ModTime().After(wi.ModTime()) {
			return datadir.MonthlyFile, nil
		}
		return datadir.WeeklyFile, nil
	case werr == nil:
		return datadir.WeeklyFile, nil
	case merr == nil:
		return datadir.MonthlyFile, nil
	default:
		return "", perr.NotFoundf("no rollup file in %s", f.dir.Path())
	}
}
