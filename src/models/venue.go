package models

import (
	"vbs/src/types"
)

type Venue struct {
	ID           uint    `gorm:"primarykey" json:"id"`
	Name         string  `json:"name,omitempty"`
	Slug         string  `gorm:"index" json:"slug,omitempty"`
	Location     string  `json:"location,omitempty"`
	PricePerHour float64 `json:"price_per_hour,omitempty"`
	Currency     string  `gorm:"default:'inr'" json:"currency,omitempty"`
	OpenTime     string  `gorm:"default:'06:00'" json:"open_time,omitempty"`
	CloseTime    string  `gorm:"default:'22:00'" json:"close_time,omitempty"`
	OwnerID      uint    `json:"owner_id,omitempty"`

	Owner     *User        `gorm:"foreignKey:owner_id" json:"-"`
	Equipment []*Equipment `gorm:"many2many:venue_equipment;" json:"equipment,omitempty"`
	Tariffs   []Tariff     `gorm:"foreignKey:venue_id" json:"tariffs,omitempty"`

	types.Timestamps
}
