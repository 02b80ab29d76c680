package common

import (
	"fmt"
	"iter"
	"log"
	"time"

	"vbs/src/types"
	"vbs/src/utils"
)

// AvailabilityEngine answers whether a candidate interval is free on each of
// the three resource axes, and enumerates a venue's discrete free slots for
// a day. It only ever reads confirmed bookings; pending reservations do not
// block a slot.
type AvailabilityEngine struct {
	Store   Store
	Catalog Catalog
	Pricing *PricingResolver
}

func (e *AvailabilityEngine) HasConflict(key types.ResourceKey, start, end time.Time) (bool, error) {
	return e.Store.OverlappingConfirmed(key, start, end)
}

// CheckReservation validates the interval, then checks the venue, the coach
// (when selected) and each equipment item in order, reporting the first
// conflicting axis.
func (e *AvailabilityEngine) CheckReservation(venueID uint, start, end time.Time, coachID *uint, equipmentIDs []uint) error {
	if !start.Before(end) {
		return ErrInvalidInterval
	}
	keys := []types.ResourceKey{{Axis: types.AxisVenue, ID: venueID}}
	if coachID != nil {
		keys = append(keys, types.ResourceKey{Axis: types.AxisCoach, ID: *coachID})
	}
	for _, id := range equipmentIDs {
		keys = append(keys, types.ResourceKey{Axis: types.AxisEquipment, ID: id})
	}
	for _, key := range keys {
		conflict, err := e.HasConflict(key, start, end)
		if err != nil {
			return err
		}
		if conflict {
			return &ConflictError{
				Key:    key,
				Reason: fmt.Sprintf("%s %d is already booked for the requested time", key.Axis, key.ID),
			}
		}
	}
	return nil
}

// ListFreeSlots yields the venue's discrete slots for the given day, each
// priced and flagged on the venue axis only (coach and equipment are not yet
// chosen at browse time). The sequence is finite and restartable; a trailing
// remainder that does not fit a whole slot is dropped.
func (e *AvailabilityEngine) ListFreeSlots(venueID uint, date time.Time, slotMinutes uint) (iter.Seq[types.Slot], error) {
	venue, err := e.Catalog.GetVenue(venueID)
	if err != nil {
		return nil, err
	}
	openMinute, err := utils.ParseClock(venue.OpenTime)
	if err != nil {
		return nil, fmt.Errorf("invalid opening time for venue %d: %w", venueID, err)
	}
	closeMinute, err := utils.ParseClock(venue.CloseTime)
	if err != nil {
		return nil, fmt.Errorf("invalid closing time for venue %d: %w", venueID, err)
	}
	if slotMinutes == 0 {
		return nil, fmt.Errorf("slot duration must be positive")
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	step := int(slotMinutes)
	key := types.ResourceKey{Axis: types.AxisVenue, ID: venueID}

	return func(yield func(types.Slot) bool) {
		for minute := openMinute; minute+step <= closeMinute; minute += step {
			start := day.Add(time.Duration(minute) * time.Minute)
			end := start.Add(time.Duration(step) * time.Minute)
			price, err := e.Pricing.Price(venueID, start, end, nil, nil)
			if err != nil {
				log.Printf("Error pricing slot %s for venue %d: %s\n", start, venueID, err.Error())
				return
			}
			taken, err := e.HasConflict(key, start, end)
			if err != nil {
				log.Printf("Error checking slot %s for venue %d: %s\n", start, venueID, err.Error())
				return
			}
			if !yield(types.Slot{
				StartTime: start,
				EndTime:   end,
				Price:     price,
				Available: !taken,
			}) {
				return
			}
		}
	}, nil
}
