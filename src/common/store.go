package common

import (
	"errors"
	"log"
	"time"

	"vbs/src/models"
	"vbs/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is the booking/pending-reservation persistence boundary. It is the
// only shared mutable state in the system.
type Store interface {
	OverlappingConfirmed(key types.ResourceKey, start, end time.Time) (bool, error)
	CreatePending(p *models.PendingReservation) error
	GetPending(id uuid.UUID) (*models.PendingReservation, error)
	SetGatewayReference(id uuid.UUID, ref string) error
	MarkPendingFailed(id uuid.UUID, note string) error
	CommitBooking(pendingID uuid.UUID, booking *models.Booking) (uint, error)
	ExpirePending(before time.Time, note string) (int64, error)
}

type GormStore struct {
	DB *gorm.DB
}

// OverlappingConfirmed reports whether any confirmed booking claims the
// resource for an interval overlapping [start, end). Half-open semantics:
// touching endpoints do not overlap.
func (s *GormStore) OverlappingConfirmed(key types.ResourceKey, start, end time.Time) (bool, error) {
	q := s.DB.Model(&models.Booking{}).
		Where("bookings.status = ?", types.BOOKING_CONFIRMED).
		Where("bookings.start_time < ? AND bookings.end_time > ?", end, start)
	switch key.Axis {
	case types.AxisVenue:
		q = q.Where("bookings.venue_id = ?", key.ID)
	case types.AxisCoach:
		q = q.Where("bookings.coach_id = ?", key.ID)
	case types.AxisEquipment:
		q = q.
			Joins("JOIN booking_equipment be ON be.booking_id = bookings.id").
			Where("be.equipment_id = ?", key.ID)
	default:
		return false, errors.New("unknown resource axis")
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *GormStore) CreatePending(p *models.PendingReservation) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(p).Error
	})
}

func (s *GormStore) GetPending(id uuid.UUID) (*models.PendingReservation, error) {
	var p models.PendingReservation
	if err := s.DB.
		Model(&models.PendingReservation{}).
		Where("id = ?", id).
		First(&p).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *GormStore) SetGatewayReference(id uuid.UUID, ref string) error {
	return s.DB.
		Model(&models.PendingReservation{}).
		Where("id = ?", id).
		Update("gateway_reference", ref).
		Error
}

// MarkPendingFailed flips a pending record to failed and appends the
// explanation to its forensic notes. Terminal records are left untouched.
func (s *GormStore) MarkPendingFailed(id uuid.UUID, note string) error {
	res := s.DB.
		Model(&models.PendingReservation{}).
		Where("id = ? AND status = ?", id, types.PENDING_PENDING).
		Updates(map[string]any{
			"status": types.PENDING_FAILED,
			"notes":  gorm.Expr("concat(notes, ?::text)", "\n"+note),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvalidState
	}
	return nil
}

// CommitBooking atomically creates the Booking and flips the pending record
// to success with its staged details cleared. Either both writes apply or
// neither does.
func (s *GormStore) CommitBooking(pendingID uuid.UUID, booking *models.Booking) (uint, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(booking).Error; err != nil {
			return err
		}
		res := tx.
			Model(&models.PendingReservation{}).
			Where("id = ? AND status = ?", pendingID, types.PENDING_PENDING).
			Updates(map[string]any{
				"status":         types.PENDING_SUCCESS,
				"booking_id":     booking.ID,
				"staged_details": nil,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Another confirmation won the record; roll the booking back.
			return ErrInvalidState
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return booking.ID, nil
}

// ExpirePending sweeps stale pending records into failed. Records that got a
// terminal result keep it; only status=pending rows older than the cutoff
// are touched.
func (s *GormStore) ExpirePending(before time.Time, note string) (int64, error) {
	var affected int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(&models.PendingReservation{}).
			Where("status = ?", types.PENDING_PENDING).
			Where("created_at < ?", before).
			Updates(map[string]any{
				"status": types.PENDING_FAILED,
				"notes":  gorm.Expr("concat(notes, ?::text)", "\n"+note),
			})
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		log.Printf("Error expiring pending reservations: %s\n", err.Error())
		return 0, err
	}
	return affected, nil
}
