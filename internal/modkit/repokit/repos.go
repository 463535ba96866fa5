// Package repokit holds the shared types repo implementations build on:
// the store seam re-exported under shorter names, the binder that ties a
// repo to a transaction, and the boot guard the batch mains run
package repokit

import (
	"osmwatch/internal/platform/store"
)

// Queryer is the surface a bound repo queries through, pool or tx alike
type Queryer = store.RowQuerier

// TxRunner can execute a function inside a transaction
type TxRunner = store.TxRunner

type (
	// Rows are the result set of a query
	Rows = store.Rows

	// Row is a single row result from a query
	Row = store.Row

	// CommandTag is the result of a command that modifies data
	CommandTag = store.CommandTag
)
