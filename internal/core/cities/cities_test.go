package cities

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"osmwatch/internal/core/geo"
)

func TestClassify_FirstMatchWins(t *testing.T) {
	t.Parallel()

	tbl := Table{
		{Name: "inner", Box: geo.BBox{MinLon: 0, MinLat: 0, MaxLon: 10, MaxLat: 10}},
		{Name: "outer", Box: geo.BBox{MinLon: -5, MinLat: -5, MaxLon: 15, MaxLat: 15}},
	}

	if got := tbl.Classify(&geo.Point{Lon: 5, Lat: 5}); got != "inner" {
		t.Fatalf("overlap should resolve to the first entry, got %q", got)
	}
	if got := tbl.Classify(&geo.Point{Lon: 12, Lat: 12}); got != "outer" {
		t.Fatalf("expected outer, got %q", got)
	}
}

func TestClassify_NilAndNoMatch(t *testing.T) {
	t.Parallel()

	tbl := Default()
	if got := tbl.Classify(nil); got != "" {
		t.Fatalf("nil point should classify as empty, got %q", got)
	}
	// middle of the Atlantic
	if got := tbl.Classify(&geo.Point{Lon: -30, Lat: 20}); got != Fallback {
		t.Fatalf("expected %q, got %q", Fallback, got)
	}
}

func TestDefault_ScottsdaleBeforePhoenix(t *testing.T) {
	t.Parallel()

	tbl := Default()

	idx := map[string]int{}
	for i, c := range tbl {
		idx[c.Name] = i
	}
	si, ok := idx["Scottsdale, AZ"]
	if !ok {
		t.Fatal("Scottsdale missing from default table")
	}
	pi, ok := idx["Phoenix, AZ"]
	if !ok {
		t.Fatal("Phoenix missing from default table")
	}
	if si >= pi {
		t.Fatalf("Scottsdale (%d) must come before Phoenix (%d)", si, pi)
	}

	// the two boxes overlap; points in the overlap belong to Scottsdale
	p := &geo.Point{Lon: -111.93, Lat: 33.50}
	if got := tbl.Classify(p); got != "Scottsdale, AZ" {
		t.Fatalf("overlap point classified as %q", got)
	}
}

func TestDefault_EveryCenterClassifiesAsItsOwnCity(t *testing.T) {
	t.Parallel()

	tbl := Default()
	for _, c := range tbl {
		ctr := c.Center()
		if got := tbl.Classify(&ctr); got != c.Name {
			t.Fatalf("center of %s classified as %q", c.Name, got)
		}
	}
}

func TestWire_ShapesEveryCity(t *testing.T) {
	t.Parallel()

	tbl := Default()
	w := tbl.Wire()
	if len(w) != len(tbl) {
		t.Fatalf("wire map has %d entries, want %d", len(w), len(tbl))
	}

	e, ok := w["Rome, IT"]
	if !ok {
		t.Fatal("Rome missing from wire map")
	}
	if e.BBox != tbl[0].Box {
		t.Fatalf("unexpected bbox %+v", e.BBox)
	}
	ctr := tbl[0].Center()
	if e.Center != [2]float64{ctr.Lon, ctr.Lat} {
		t.Fatalf("unexpected center %+v", e.Center)
	}
}

func writeCityFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "cities.json")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return p
}

func TestLoad_ReplacesTableInFileOrder(t *testing.T) {
	t.Parallel()

	p := writeCityFile(t, `[
		{"name": "Springfield", "bbox": [-93.35, 37.10, -93.20, 37.25]},
		{"name": "Shelbyville", "bbox": [-93.55, 37.00, -93.30, 37.20]}
	]`)

	tbl, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tbl) != 2 || tbl[0].Name != "Springfield" || tbl[1].Name != "Shelbyville" {
		t.Fatalf("unexpected table %+v", tbl)
	}

	// overlap resolves by file order
	if got := tbl.Classify(&geo.Point{Lon: -93.32, Lat: 37.15}); got != "Springfield" {
		t.Fatalf("expected Springfield, got %q", got)
	}
}

func TestLoad_Rejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing name", `[{"bbox": [1, 2, 3, 4]}]`, "entry 0"},
		{"short bbox", `[{"name": "x", "bbox": [1, 2, 3]}]`, "entry 0"},
		{"inverted bbox", `[{"name": "x", "bbox": [3, 2, 1, 4]}]`, "out of bounds"},
		{"empty list", `[]`, "no entries"},
		{"not json", `nope`, "parse"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(writeCityFile(t, tc.body))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tbl, err := Resolve("")
	if err != nil || len(tbl) != len(Default()) {
		t.Fatalf("empty path should yield the default table: %d, %v", len(tbl), err)
	}

	p := writeCityFile(t, `[{"name": "Springfield", "bbox": [-93.35, 37.10, -93.20, 37.25]}]`)
	tbl, err = Resolve(p)
	if err != nil || len(tbl) != 1 || tbl[0].Name != "Springfield" {
		t.Fatalf("file path should load the file: %+v, %v", tbl, err)
	}

	if _, err := Resolve(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected load error to surface")
	}
}
