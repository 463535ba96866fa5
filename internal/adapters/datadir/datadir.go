// Package datadir owns the JSON output directory shared by the batch paths and the API
package datadir

import (
	"encoding/json"
	"os"
	"path/filepath"

	perr "osmwatch/internal/platform/errors"
)

// output file names, one set per run
const (
	ChangesetsFile = "changesets.json"
	WeeklyFile     = "weekly_changesets.json"
	MonthlyFile    = "monthly_changesets.json"
	CitiesFile     = "cities.json"
)

// Dir is a handle on the output directory
type Dir struct {
	path string
}

// New ensures the directory exists and returns a handle
func New(path string) (Dir, error) {
	if path == "" {
		path = "data"
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return Dir{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "datadir mkdir %s failed", path)
	}
	return Dir{path: path}, nil
}

// Path returns the directory location
func (d Dir) Path() string { return d.path }

// File returns the location of a named output file
func (d Dir) File(name string) string { return filepath.Join(d.path, name) }

// WriteJSON marshals v and replaces name atomically
// temp file in the same directory, fsync, then rename
func (d Dir) WriteJSON(name string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "datadir marshal %s failed", name)
	}

	path := d.File(name)
	tmp := path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "datadir create %s failed", tmp)
	}
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "datadir write %s failed", name)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "datadir sync %s failed", name)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "datadir close %s failed", name)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "datadir rename %s failed", name)
	}
	return nil
}

// ReadJSON loads name into out
func (d Dir) ReadJSON(name string, out any) error {
	raw, err := d.ReadRaw(name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "datadir parse %s failed", name)
	}
	return nil
}

// ReadRaw returns the bytes of name, for passthrough endpoints
func (d Dir) ReadRaw(name string) ([]byte, error) {
	raw, err := os.ReadFile(d.File(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perr.Wrapf(err, perr.ErrorCodeNotFound, "datadir %s missing", name)
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "datadir read %s failed", name)
	}
	return raw, nil
}
