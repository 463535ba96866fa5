// Package service contains the cities read workflows
package service

import (
	"context"

	"osmwatch/internal/core/cities"
	"osmwatch/internal/core/geo"
	"osmwatch/internal/services/api/cities/domain"
)

// Service defines the cities service contract
type Service interface {
	domain.ServicePort
}

// Svc serves the configured city table
type Svc struct {
	table cities.Table
}

// New constructs a cities service
func New(table cities.Table) *Svc {
	if len(table) == 0 {
		panic("cities.Service requires a non empty table")
	}
	return &Svc{table: table}
}

// Cities returns the table in its wire form
func (s *Svc) Cities(_ context.Context) map[string]cities.WireEntry {
	return s.table.Wire()
}

// Classify places a point inside the first matching city box
func (s *Svc) Classify(_ context.Context, in domain.ClassifyInput) domain.ClassifyOutput {
	label := s.table.Classify(&geo.Point{Lon: in.Lon, Lat: in.Lat})
	return domain.ClassifyOutput{City: label}
}
