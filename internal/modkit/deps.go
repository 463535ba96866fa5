// Package modkit provides module wiring and core deps
package modkit

import (
	"osmwatch/internal/modkit/repokit"
	"osmwatch/internal/platform/config"
	"osmwatch/internal/platform/logger"
	"osmwatch/internal/platform/store"
)

// Deps carries the process wide handles a module may need. Every field is
// optional: the fetcher runs without CH, the api runs without PG unless the
// archive is enabled, and tests pass the zero value
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
}
