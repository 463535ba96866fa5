package config

import (
	"testing"
	"time"

	kit "osmwatch/internal/platform/testkit"
)

func TestPrefix_Composes(t *testing.T) {
	fetch := New().Prefix("CORE_").Prefix("FETCH_")
	if got := fetch.key("TIMEOUT"); got != "CORE_FETCH_TIMEOUT" {
		t.Fatalf("key = %q", got)
	}
	if got := New().key("LOG_LEVEL"); got != "LOG_LEVEL" {
		t.Fatalf("root key = %q", got)
	}
}

func TestMustString_TrimsAndPanicsWhenAbsent(t *testing.T) {
	core := New().Prefix("CORE_")
	t.Setenv("CORE_DATA_DIR", "  /var/lib/osmwatch ")
	if got := core.MustString("DATA_DIR"); got != "/var/lib/osmwatch" {
		t.Fatalf("MustString = %q", got)
	}

	kit.MustPanic(t, func() { _ = core.MustString("NOPE") })

	// whitespace-only counts as missing
	t.Setenv("CORE_BLANK", "   ")
	kit.MustPanic(t, func() { _ = core.MustString("BLANK") })
}

func TestMustURL_RequiresAbsolute(t *testing.T) {
	ch := New().Prefix("SERVICE_CLICKHOUSE_")
	t.Setenv("SERVICE_CLICKHOUSE_DBURL", "clickhouse://default@localhost:9000/osm")
	u := ch.MustURL("DBURL")
	if u.Scheme != "clickhouse" || u.Host != "localhost:9000" {
		t.Fatalf("MustURL = %v", u)
	}

	t.Setenv("SERVICE_CLICKHOUSE_RELATIVE", "/data/planet")
	kit.MustPanic(t, func() { _ = ch.MustURL("RELATIVE") })

	t.Setenv("SERVICE_CLICKHOUSE_GARBAGE", "://bad")
	kit.MustPanic(t, func() { _ = ch.MustURL("GARBAGE") })
}

func TestMayString(t *testing.T) {
	core := New().Prefix("CORE_")
	if got := core.MayString("CITIES_FILE", "cities.json"); got != "cities.json" {
		t.Fatalf("default = %q", got)
	}
	t.Setenv("CORE_CITIES_FILE", " boroughs.json ")
	if got := core.MayString("CITIES_FILE", "cities.json"); got != "boroughs.json" {
		t.Fatalf("value = %q", got)
	}
}

func TestMayInt(t *testing.T) {
	pg := New().Prefix("SERVICE_PGSQL_")
	if got := pg.MayInt("MAX_CONNS", 4); got != 4 {
		t.Fatalf("default = %d", got)
	}
	t.Setenv("SERVICE_PGSQL_MAX_CONNS", " 16 ")
	if got := pg.MayInt("MAX_CONNS", 4); got != 16 {
		t.Fatalf("value = %d", got)
	}
	t.Setenv("SERVICE_PGSQL_SLOW_MS", "fast")
	if got := pg.MayInt("SLOW_MS", 500); got != 500 {
		t.Fatalf("bad value should fall back, got %d", got)
	}
}

func TestMayBool(t *testing.T) {
	core := New().Prefix("CORE_")
	if core.MayBool("ARCHIVE_ENABLED", false) {
		t.Fatal("default should be false")
	}
	t.Setenv("CORE_ARCHIVE_ENABLED", "1")
	if !core.MayBool("ARCHIVE_ENABLED", false) {
		t.Fatal("1 should read as true")
	}
	t.Setenv("CORE_ARCHIVE_ENABLED", "yes")
	if core.MayBool("ARCHIVE_ENABLED", false) {
		t.Fatal("unparseable should fall back to the default")
	}
}

func TestMayDuration(t *testing.T) {
	f := New().Prefix("CORE_FETCH_")
	if got := f.MayDuration("PAGE_DELAY", time.Second); got != time.Second {
		t.Fatalf("default = %v", got)
	}
	t.Setenv("CORE_FETCH_PAGE_DELAY", "750ms")
	if got := f.MayDuration("PAGE_DELAY", time.Second); got != 750*time.Millisecond {
		t.Fatalf("value = %v", got)
	}
	t.Setenv("CORE_FETCH_USER_DELAY", "2 seconds")
	if got := f.MayDuration("USER_DELAY", 2*time.Second); got != 2*time.Second {
		t.Fatalf("bad value should fall back, got %v", got)
	}
}

func TestMayTime_AcceptsTimestampOrBareDate(t *testing.T) {
	core := New().Prefix("CORE_")
	def := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if got := core.MayTime("START", def); !got.Equal(def) {
		t.Fatalf("default = %v", got)
	}

	t.Setenv("CORE_START", "2024-03-14T12:30:00Z")
	if got := core.MayTime("START", def); !got.Equal(time.Date(2024, 3, 14, 12, 30, 0, 0, time.UTC)) {
		t.Fatalf("rfc3339 = %v", got)
	}

	// a bare date means midnight UTC
	t.Setenv("CORE_START", "2024-03-14")
	if got := core.MayTime("START", def); !got.Equal(time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("bare date = %v", got)
	}

	t.Setenv("CORE_START", "14/03/2024")
	if got := core.MayTime("START", def); !got.Equal(def) {
		t.Fatalf("bad value should fall back, got %v", got)
	}
}

func TestMayCSV_TrimsAndDropsEmpties(t *testing.T) {
	core := New().Prefix("CORE_")
	if got := core.MayCSV("USERS", []string{"haycam"}); len(got) != 1 || got[0] != "haycam" {
		t.Fatalf("default = %#v", got)
	}

	t.Setenv("CORE_USERS", " haycam, o_paq , ,Waltuh ,, ")
	got := core.MayCSV("USERS", nil)
	want := []string{"haycam", "o_paq", "Waltuh"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// separators with nothing between them count as unset
	t.Setenv("CORE_USERS", " , ,,")
	if got := core.MayCSV("USERS", []string{"fallback"}); len(got) != 1 || got[0] != "fallback" {
		t.Fatalf("all-empty = %#v", got)
	}
}
