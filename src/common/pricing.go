package common

import (
	"time"

	"vbs/src/utils"
)

// PricingResolver computes the authoritative price for a reservation from
// the venue tariff (or flat hourly fallback), the optional coach rate, and
// flat equipment rental add-ons. It is re-run server-side on every initiate;
// client quotes are never trusted for the actual charge.
type PricingResolver struct {
	Catalog Catalog
}

func (r *PricingResolver) Price(venueID uint, start, end time.Time, coachID *uint, equipmentIDs []uint) (float64, error) {
	if !start.Before(end) {
		return 0, ErrInvalidInterval
	}
	hours := utils.DurationHours(start, end)

	venue, err := r.Catalog.GetVenue(venueID)
	if err != nil {
		return 0, err
	}
	rate := venue.PricePerHour
	tariff, err := r.Catalog.FindTariff(venueID, start.Weekday(), utils.MinuteOfDay(start), utils.MinuteOfDay(end))
	if err != nil {
		return 0, err
	}
	if tariff != nil {
		rate = tariff.PricePerHour
	}
	total := rate * hours

	if coachID != nil {
		coach, err := r.Catalog.GetCoach(*coachID)
		if err != nil {
			return 0, err
		}
		total += coach.HourlyRate * hours
	}

	items, err := r.Catalog.GetEquipment(equipmentIDs)
	if err != nil {
		return 0, err
	}
	for _, item := range items {
		// Flat per-booking rental, regardless of duration.
		total += item.RentalPrice
	}

	total -= r.Discount(venueID, start, end)
	return total, nil
}

// Discount is a hook for future promotions; it currently grants nothing.
func (r *PricingResolver) Discount(venueID uint, start, end time.Time) float64 {
	return 0
}
