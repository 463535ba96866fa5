// Package domain holds DTOs for changesets http and service contracts
package domain

// QueryInput filters the flat records of the newest rollup
// From and To are dates; To is inclusive through end of day.
// BBox takes the comma form min_lon,min_lat,max_lon,max_lat
type QueryInput struct {
	Users []string `json:"users,omitempty" validate:"omitempty,max=64,dive,min=1,max=255" example:"haycam"`
	City  string   `json:"city,omitempty" validate:"omitempty,min=1,max=120" example:"Brooklyn, NY"`
	BBox  string   `json:"bbox,omitempty" validate:"omitempty,bbox" example:"-74.05,40.57,-73.83,40.74"`
	From  string   `json:"from,omitempty" validate:"omitempty,datetime=2006-01-02" example:"2024-01-01"`
	To    string   `json:"to,omitempty" validate:"omitempty,datetime=2006-01-02" example:"2024-12-31"`
	Limit int      `json:"limit,omitempty" validate:"omitempty,min=1,max=1000" example:"100"`
}
