package models

import "vbs/src/types"

type Coach struct {
	ID         uint    `gorm:"primarykey" json:"id"`
	Name       string  `json:"name,omitempty"`
	HourlyRate float64 `json:"hourly_rate,omitempty"`

	types.Timestamps
}
