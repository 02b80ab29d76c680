package models

import (
	"time"

	"vbs/src/types"
)

// Booking is a confirmed, paid reservation. Created only by the reservation
// coordinator after a successful payment confirmation, never directly by a
// customer-facing call.
type Booking struct {
	ID            uint                `gorm:"primarykey" json:"id"`
	Reference     string              `gorm:"index" json:"reference,omitempty"`
	CustomerID    uint                `json:"customer_id,omitempty"`
	VenueID       uint                `gorm:"index" json:"venue_id,omitempty"`
	CoachID       *uint               `gorm:"index" json:"coach_id,omitempty"`
	StartTime     time.Time           `json:"start_time,omitempty"`
	EndTime       time.Time           `json:"end_time,omitempty"`
	TotalAmount   float64             `json:"total_amount,omitempty"`
	Currency      string              `json:"currency,omitempty"`
	PaymentStatus types.PaymentState  `gorm:"default:'paid'" json:"payment_status,omitempty"`
	Status        types.BookingStatus `gorm:"default:'confirmed'" json:"status,omitempty"`

	Customer  *User        `gorm:"foreignKey:customer_id" json:"customer,omitempty"`
	Venue     *Venue       `gorm:"foreignKey:venue_id" json:"venue,omitempty"`
	Coach     *Coach       `gorm:"foreignKey:coach_id" json:"coach,omitempty"`
	Equipment []*Equipment `gorm:"many2many:booking_equipment;" json:"equipment,omitempty"`

	types.Timestamps
}
