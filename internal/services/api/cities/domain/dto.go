// Package domain holds DTOs for the cities http and service contracts
package domain

// ClassifyInput is a lon lat pair to place inside a city box
// zero values are legal coordinates so nothing here is required
type ClassifyInput struct {
	Lon float64 `json:"lon" validate:"gte=-180,lte=180" example:"-73.94"`
	Lat float64 `json:"lat" validate:"gte=-90,lte=90" example:"40.65"`
}

// ClassifyOutput carries the matched city label, Other when nothing matches
type ClassifyOutput struct {
	City string `json:"city" example:"Brooklyn, NY"`
}
