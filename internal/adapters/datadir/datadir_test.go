package datadir

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"osmwatch/internal/core/changeset"
	perr "osmwatch/internal/platform/errors"
)

func TestNew_CreatesNestedDirs(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "a", "b", "data")
	d, err := New(p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if d.Path() != p {
		t.Fatalf("unexpected path %q", d.Path())
	}
	info, err := os.Stat(p)
	if err != nil || !info.IsDir() {
		t.Fatalf("directory not created: %v", err)
	}
}

func TestWriteThenRead_RoundTripsFlats(t *testing.T) {
	t.Parallel()

	d, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	created, _ := time.Parse(time.RFC3339, "2024-03-14T09:30:00Z")
	in := map[string][]changeset.Flat{
		"2024-03-11": {
			{ID: 1, User: "haycam", Lon: 12.54, Lat: 41.875, ChangesCount: 3, City: "Rome, IT", CreatedAt: created, Comment: "retag benches"},
			{ID: 2, User: "o_paq", Lon: -73.94, Lat: 40.655, City: "Brooklyn, NY", CreatedAt: created},
		},
	}

	if err := d.WriteJSON(WeeklyFile, in); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var out map[string][]changeset.Flat
	if err := d.ReadJSON(WeeklyFile, &out); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch\n in=%+v\nout=%+v", in, out)
	}
}

func TestWriteJSON_LeavesNoTempFile(t *testing.T) {
	t.Parallel()

	d, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := d.WriteJSON(CitiesFile, map[string]int{"x": 1}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	entries, err := os.ReadDir(d.Path())
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != CitiesFile {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("unexpected directory contents %v", names)
	}
}

func TestWriteJSON_OverwritesPreviousRun(t *testing.T) {
	t.Parallel()

	d, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := d.WriteJSON(ChangesetsFile, []int{1, 2, 3}); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := d.WriteJSON(ChangesetsFile, []int{9}); err != nil {
		t.Fatalf("second write: %v", err)
	}

	var out []int
	if err := d.ReadJSON(ChangesetsFile, &out); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if len(out) != 1 || out[0] != 9 {
		t.Fatalf("expected the second payload, got %v", out)
	}
}

func TestReadJSON_MissingFileIsNotFound(t *testing.T) {
	t.Parallel()

	d, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var out any
	err = d.ReadJSON(MonthlyFile, &out)
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if perr.CodeOf(err) != perr.ErrorCodeNotFound {
		t.Fatalf("unexpected code %v", perr.CodeOf(err))
	}
}

func TestReadRaw_PassthroughBytes(t *testing.T) {
	t.Parallel()

	d, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := d.WriteJSON(ChangesetsFile, map[string]string{"k": "v"}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	raw, err := d.ReadRaw(ChangesetsFile)
	if err != nil {
		t.Fatalf("ReadRaw: %v", err)
	}
	want, _ := os.ReadFile(d.File(ChangesetsFile))
	if string(raw) != string(want) {
		t.Fatal("raw bytes differ from the file contents")
	}
}
