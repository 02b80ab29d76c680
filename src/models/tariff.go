package models

import "vbs/src/types"

// Tariff overrides a venue's hourly price on a given weekday when its clock
// window fully contains the requested interval.
type Tariff struct {
	ID           uint    `gorm:"primarykey" json:"id"`
	VenueID      uint    `gorm:"index" json:"venue_id,omitempty"`
	Weekday      int     `json:"weekday"`
	StartClock   string  `json:"start_clock,omitempty"`
	EndClock     string  `json:"end_clock,omitempty"`
	PricePerHour float64 `json:"price_per_hour,omitempty"`

	Venue Venue `gorm:"foreignKey:venue_id" json:"-"`

	types.Timestamps
}
