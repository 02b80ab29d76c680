package models

import "vbs/src/types"

// Equipment rental is priced as a flat per-booking add-on, not scaled by
// duration.
type Equipment struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	Name        string  `json:"name,omitempty"`
	RentalPrice float64 `json:"rental_price,omitempty"`

	types.Timestamps
}
