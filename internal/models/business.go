package models

import (
	"time"

	"github.com/google/uuid"
)

// Coordinate is a latitude/longitude pair. Both values are present together
// or absent together; validation of ranges happens at the request boundary.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// BusinessLocation holds the administrative hierarchy labels plus the
// optional coordinate of a business. Region labels are free text and are
// compared case-insensitively.
type BusinessLocation struct {
	Province string      `json:"province"`
	District string      `json:"district"`
	Sector   string      `json:"sector"`
	Cell     string      `json:"cell"`
	Village  string      `json:"village"`
	Coord    *Coordinate `json:"coordinate,omitempty"`
}

// Business represents a stored business record.
// Latitude/Longitude are nullable in the database; HasCoordinates reports
// whether both are set.
type Business struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	About       string    `db:"about" json:"about"`
	WebsiteLink string    `db:"website_link" json:"websiteLink"`
	Province    string    `db:"province" json:"province"`
	District    string    `db:"district" json:"district"`
	Sector      string    `db:"sector" json:"sector"`
	Cell        string    `db:"cell" json:"cell"`
	Village     string    `db:"village" json:"village"`
	Latitude    *float64  `db:"latitude" json:"latitude,omitempty"`
	Longitude   *float64  `db:"longitude" json:"longitude,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"-"`
	UpdatedAt   time.Time `db:"updated_at" json:"-"`
}

// HasCoordinates reports whether the business has a usable coordinate pair.
func (b *Business) HasCoordinates() bool {
	return b.Latitude != nil && b.Longitude != nil
}

// Location assembles the BusinessLocation view of the stored row.
func (b *Business) Location() BusinessLocation {
	loc := BusinessLocation{
		Province: b.Province,
		District: b.District,
		Sector:   b.Sector,
		Cell:     b.Cell,
		Village:  b.Village,
	}
	if b.HasCoordinates() {
		loc.Coord = &Coordinate{Latitude: *b.Latitude, Longitude: *b.Longitude}
	}
	return loc
}

// BusinessSummary is the outward-facing discovery DTO for a business.
// DistanceKm and FormattedDistance are only set when both the requester and
// the business have coordinates.
type BusinessSummary struct {
	ID                uuid.UUID        `json:"id"`
	Name              string           `json:"name"`
	Location          BusinessLocation `json:"location"`
	About             string           `json:"about"`
	WebsiteLink       string           `json:"websiteLink"`
	ProductCount      int              `json:"productCount"`
	DistanceKm        *float64         `json:"distanceKm,omitempty"`
	FormattedDistance *string          `json:"formattedDistance,omitempty"`
}
