package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

// StagedDetails holds everything needed to materialize a Booking once the
// payment clears. Present while a PendingReservation is pending, cleared on
// success, retained on failure for forensics.
type StagedDetails struct {
	VenueID      uint      `json:"venue_id"`
	CoachID      *uint     `json:"coach_id,omitempty"`
	EquipmentIDs []uint    `json:"equipment_ids,omitempty"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Amount       float64   `json:"amount"`
}

func (d StagedDetails) Value() (driver.Value, error) {
	valueString, err := json.Marshal(d)
	return string(valueString), err
}
func (d *StagedDetails) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	return nil
}

// ResourceAxis is one of the three independent things a reservation claims
// exclusively. A conflict on any axis blocks the reservation.
type ResourceAxis string

const (
	AxisVenue     ResourceAxis = "venue"
	AxisCoach     ResourceAxis = "coach"
	AxisEquipment ResourceAxis = "equipment"
)

type ResourceKey struct {
	Axis ResourceAxis `json:"axis"`
	ID   uint         `json:"id"`
}

func (k ResourceKey) String() string {
	return fmt.Sprintf("%s:%d", k.Axis, k.ID)
}

type BookingStatus string

const (
	BOOKING_CONFIRMED BookingStatus = "confirmed"
	BOOKING_CANCELED  BookingStatus = "cancelled"
	BOOKING_COMPLETED BookingStatus = "completed"
)

type PaymentState string

const (
	PAYMENT_PAID     PaymentState = "paid"
	PAYMENT_REFUNDED PaymentState = "refunded"
)

type PendingStatus string

const (
	PENDING_PENDING  PendingStatus = "pending"
	PENDING_SUCCESS  PendingStatus = "success"
	PENDING_FAILED   PendingStatus = "failed"
	PENDING_REFUNDED PendingStatus = "refunded"
)

// GatewayStatus is the payment adapter's view of an intent. succeeded and
// failed are terminal; pending may still change.
type GatewayStatus string

const (
	GATEWAY_PENDING   GatewayStatus = "pending"
	GATEWAY_SUCCEEDED GatewayStatus = "succeeded"
	GATEWAY_FAILED    GatewayStatus = "failed"
)

type Slot struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Price     float64   `json:"price"`
	Available bool      `json:"available"`
}

type CreateReservationRequestBody struct {
	VenueID      uint    `json:"venue" binding:"required"`
	StartTime    string  `json:"start_time" binding:"required,bookabledate" time_format:"2006-01-02 15:04:05 -07:00"`
	EndTime      string  `json:"end_time" binding:"required,bookabledate,gtdate=StartTime" time_format:"2006-01-02 15:04:05 -07:00"`
	CoachID      *uint   `json:"coach,omitempty"`
	EquipmentIDs []uint  `json:"equipment,omitempty"`
	QuotedAmount float64 `json:"quoted_amount,omitempty"`
}

type ListSlotsQuery struct {
	Date     string `form:"date" binding:"required"`
	Duration uint   `form:"duration,default=60"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type PendingURIParams struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type Claims struct {
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

type Env string

const (
	Local      Env = "local"
	Test       Env = "test"
	Production Env = "production"
)
