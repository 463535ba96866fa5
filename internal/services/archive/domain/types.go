// Package domain holds the archive records and ports
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Run statuses recorded in the ledger
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Batch sources recorded in the ledger
const (
	SourceRest   = "rest"
	SourcePlanet = "planet"
)

// Run is one ledger row describing a batch execution
// ID is assigned by the service when the run is archived
type Run struct {
	ID         uuid.UUID
	Source     string
	StartedAt  time.Time
	FinishedAt time.Time
	Users      int
	Changesets int
	Status     string
	Error      string
}
