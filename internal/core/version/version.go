// Package version carries the build identity the release process stamps in.
package version

// BuildInfo is the identity block /meta/service answers with.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info snapshots the stamped values. Defaults describe a local dev build.
func Info() BuildInfo {
	// Set via -ldflags "-X 'osmwatch/internal/core/version.version=v0.1.0'
	// -X 'osmwatch/internal/core/version.commit=abcd' -X 'osmwatch/internal/core/version.date=2026-01-05'"
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

var (
	service = "osmwatch"
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
