package common

import (
	"errors"
	"fmt"
	"log"
	"time"

	"vbs/src/config"
	"vbs/src/models"
	"vbs/src/types"
	"vbs/src/utils"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// lockTTL bounds how long the confirm critical section may hold its
// advisory resource locks.
const lockTTL = 10 * time.Second

// A contended acquisition is retried a few times before giving up; the
// critical section it waits on is only a conflict re-check and one insert.
const (
	lockRetryDelay = 50 * time.Millisecond
	lockRetries    = 5
)

// Coordinator owns the two-phase initiate/confirm protocol and the
// PendingReservation state machine. It is the only component permitted to
// create a Booking.
type Coordinator struct {
	Availability *AvailabilityEngine
	Pricing      *PricingResolver
	Store        Store
	Catalog      Catalog
	Gateway      PaymentGateway
	Notifier     Notifier
	Locker       Locker
	Clock        clockwork.Clock
}

type InitiateInput struct {
	CustomerID   uint
	VenueID      uint
	StartTime    time.Time
	EndTime      time.Time
	CoachID      *uint
	EquipmentIDs []uint
	QuotedAmount float64
}

type InitiateResult struct {
	PendingReservationID uuid.UUID `json:"pending_reservation_id"`
	IntentRef            string    `json:"intent_ref"`
	ClientSecret         string    `json:"client_secret"`
	Amount               float64   `json:"amount"`
	Currency             string    `json:"currency"`
}

// Initiate validates the request, verifies the slot is free on every claimed
// resource axis, computes the authoritative price, stages a pending
// reservation and opens a gateway intent for it. It never creates a Booking.
func (c *Coordinator) Initiate(in InitiateInput) (*InitiateResult, error) {
	if !in.StartTime.Before(in.EndTime) {
		return nil, ErrInvalidInterval
	}
	seen := make(map[uint]bool, len(in.EquipmentIDs))
	for _, id := range in.EquipmentIDs {
		if seen[id] {
			return nil, ErrDuplicateEquipment
		}
		seen[id] = true
	}
	if err := c.Availability.CheckReservation(in.VenueID, in.StartTime, in.EndTime, in.CoachID, in.EquipmentIDs); err != nil {
		return nil, err
	}

	amount, err := c.Pricing.Price(in.VenueID, in.StartTime, in.EndTime, in.CoachID, in.EquipmentIDs)
	if err != nil {
		return nil, err
	}
	if in.QuotedAmount != 0 && !utils.WithinTolerance(amount, in.QuotedAmount, config.AmountTolerance) {
		// Never trust the client figure; charge the authoritative amount.
		log.Printf("Quoted amount %.2f disagrees with authoritative price %.2f for customer %d on venue %d\n",
			in.QuotedAmount, amount, in.CustomerID, in.VenueID)
	}

	pending := &models.PendingReservation{
		ID:       uuid.New(),
		PayerID:  in.CustomerID,
		Amount:   amount,
		Currency: config.CURRENCY,
		Status:   types.PENDING_PENDING,
		StagedDetails: &types.StagedDetails{
			VenueID:      in.VenueID,
			CoachID:      in.CoachID,
			EquipmentIDs: in.EquipmentIDs,
			StartTime:    in.StartTime,
			EndTime:      in.EndTime,
			Amount:       amount,
		},
	}
	if err := c.Store.CreatePending(pending); err != nil {
		return nil, err
	}

	intent, err := c.Gateway.CreateIntent(amount, config.CURRENCY, map[string]string{
		"pending_reservation_id": pending.ID.String(),
		"payer_id":               fmt.Sprint(in.CustomerID),
	})
	if err != nil {
		// The pending record stays without a reference and is picked up by
		// the expiry sweep; no Booking can ever come out of this path.
		log.Printf("Gateway intent failed for pending reservation %s: %s\n", pending.ID, err.Error())
		return nil, fmt.Errorf("%w: %s", ErrGateway, err.Error())
	}
	if err := c.Store.SetGatewayReference(pending.ID, intent.Reference); err != nil {
		return nil, err
	}

	return &InitiateResult{
		PendingReservationID: pending.ID,
		IntentRef:            intent.Reference,
		ClientSecret:         intent.ClientSecret,
		Amount:               amount,
		Currency:             config.CURRENCY,
	}, nil
}

// Confirm verifies the gateway reached a terminal successful state for the
// staged amount, re-checks the slot, and atomically materializes the Booking
// while flipping the pending record to success. Confirm on an
// already-successful record is idempotent and returns the same booking id.
func (c *Coordinator) Confirm(customerID uint, pendingID uuid.UUID) (uint, error) {
	pending, err := c.Store.GetPending(pendingID)
	if err != nil {
		return 0, err
	}
	if pending.PayerID != customerID {
		return 0, ErrForbidden
	}
	if pending.Status == types.PENDING_SUCCESS {
		if pending.BookingID == nil {
			return 0, ErrInvalidState
		}
		return *pending.BookingID, nil
	}
	if pending.Status != types.PENDING_PENDING {
		return 0, ErrInvalidState
	}
	if pending.GatewayReference == "" {
		return 0, fmt.Errorf("%w: no payment intent attached", ErrGateway)
	}
	staged := pending.StagedDetails
	if staged == nil {
		return 0, ErrInvalidState
	}

	status, err := c.Gateway.GetIntentStatus(pending.GatewayReference)
	if err != nil {
		// Could not reach the oracle; leave the record pending for retry.
		return 0, fmt.Errorf("%w: %s", ErrGateway, err.Error())
	}
	switch status.Status {
	case types.GATEWAY_PENDING:
		return 0, fmt.Errorf("%w: payment still processing", ErrGateway)
	case types.GATEWAY_FAILED:
		if err := c.Store.MarkPendingFailed(pending.ID, "gateway reported a failed payment"); err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("%w: payment failed", ErrGateway)
	}
	if !utils.WithinTolerance(status.ChargedAmount, staged.Amount, config.AmountTolerance) {
		note := fmt.Sprintf("charged amount %.2f does not match staged amount %.2f", status.ChargedAmount, staged.Amount)
		if err := c.Store.MarkPendingFailed(pending.ID, note); err != nil {
			return 0, err
		}
		log.Printf("Amount mismatch on pending reservation %s: %s\n", pending.ID, note)
		return 0, ErrAmountMismatch
	}

	release, err := c.acquireResourceLocks(staged)
	if err != nil {
		// Retries exhausted; the record stays pending for another attempt.
		return 0, err
	}
	defer release()

	// Critical re-check: time has passed since Initiate and another
	// confirmation may have claimed the slot.
	if err := c.Availability.CheckReservation(staged.VenueID, staged.StartTime, staged.EndTime, staged.CoachID, staged.EquipmentIDs); err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			note := fmt.Sprintf("payment succeeded but slot became unavailable: %s", conflict.Reason)
			if err := c.Store.MarkPendingFailed(pending.ID, note); err != nil {
				return 0, err
			}
			log.Printf("Paid-but-unbookable on pending reservation %s: %s\n", pending.ID, note)
			return 0, &PaidUnbookableError{PendingID: pending.ID, Conflict: conflict}
		}
		return 0, err
	}

	venue, err := c.Catalog.GetVenue(staged.VenueID)
	if err != nil {
		return 0, err
	}
	equipment := make([]*models.Equipment, 0, len(staged.EquipmentIDs))
	for _, id := range staged.EquipmentIDs {
		equipment = append(equipment, &models.Equipment{ID: id})
	}
	booking := &models.Booking{
		Reference:     utils.BookingReference(venue.Name, staged.StartTime),
		CustomerID:    pending.PayerID,
		VenueID:       staged.VenueID,
		CoachID:       staged.CoachID,
		StartTime:     staged.StartTime,
		EndTime:       staged.EndTime,
		TotalAmount:   staged.Amount,
		Currency:      pending.Currency,
		PaymentStatus: types.PAYMENT_PAID,
		Status:        types.BOOKING_CONFIRMED,
		Equipment:     equipment,
	}
	bookingID, err := c.Store.CommitBooking(pending.ID, booking)
	if err != nil {
		return 0, err
	}

	link := fmt.Sprintf("/bookings/%d", bookingID)
	message := fmt.Sprintf("Booking %s is confirmed", booking.Reference)
	go c.Notifier.Notify(fmt.Sprintf("user:%d", pending.PayerID), message, "booking.confirmed", link)
	go c.Notifier.Notify(fmt.Sprintf("user:%d", venue.OwnerID), message, "booking.confirmed", link)

	return bookingID, nil
}

// acquireResourceLocks waits out short contention so that of two racing
// confirmations for the same slot, the loser runs its re-check after the
// winner commits and lands on the terminal paid-but-unbookable outcome
// instead of bouncing with a retryable error.
func (c *Coordinator) acquireResourceLocks(staged *types.StagedDetails) (func(), error) {
	keys := resourceLockKeys(staged)
	for attempt := 0; ; attempt++ {
		release, err := c.Locker.Acquire(keys, lockTTL)
		if err == nil {
			return release, nil
		}
		if !errors.Is(err, ErrContended) || attempt == lockRetries {
			return nil, err
		}
		c.Clock.Sleep(lockRetryDelay)
	}
}

func resourceLockKeys(staged *types.StagedDetails) []string {
	keys := []string{types.ResourceKey{Axis: types.AxisVenue, ID: staged.VenueID}.String()}
	if staged.CoachID != nil {
		keys = append(keys, types.ResourceKey{Axis: types.AxisCoach, ID: *staged.CoachID}.String())
	}
	for _, id := range staged.EquipmentIDs {
		keys = append(keys, types.ResourceKey{Axis: types.AxisEquipment, ID: id}.String())
	}
	return keys
}
