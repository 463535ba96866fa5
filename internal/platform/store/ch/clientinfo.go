package ch

import (
	"runtime/debug"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// BuildClientInfo assembles the client product list reported to the server.
// Role distinguishes the planet reader from the api surface in query_log
func BuildClientInfo(role, version string) clickhouse.ClientInfo {
	if version == "" {
		version = moduleVersion()
	}
	name := "osmwatch"
	if role != "" {
		name = name + "-" + role
	}
	return clickhouse.ClientInfo{
		Products: []struct {
			Name    string
			Version string
		}{
			{Name: name, Version: version},
		},
	}
}

// moduleVersion pulls the main module version when built with module info
func moduleVersion() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi.Main.Version == "" || bi.Main.Version == "(devel)" {
		return "dev"
	}
	return bi.Main.Version
}
