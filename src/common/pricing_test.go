package common

import (
	"testing"

	"vbs/src/models"

	"github.com/stretchr/testify/assert"
)

func testPricing() (*PricingResolver, *fakeCatalog) {
	catalog := newFakeCatalog()
	catalog.venues[1] = &models.Venue{
		ID:           1,
		Name:         "Grand Arena",
		PricePerHour: 1000,
		OpenTime:     "06:00",
		CloseTime:    "22:00",
	}
	catalog.coaches[7] = &models.Coach{ID: 7, Name: "R. Iyer", HourlyRate: 500}
	catalog.equipment[4] = &models.Equipment{ID: 4, Name: "Net", RentalPrice: 200}
	return &PricingResolver{Catalog: catalog}, catalog
}

func TestPriceVenueCoachEquipment(t *testing.T) {
	pricing, _ := testPricing()

	coachId := uint(7)
	total, err := pricing.Price(1, at(9, 0), at(10, 0), &coachId, []uint{4})
	assert.NoError(t, err)
	assert.Equal(t, 1700.0, total)
}

func TestPriceScalesHourlyComponentsOnly(t *testing.T) {
	pricing, _ := testPricing()

	coachId := uint(7)
	total, err := pricing.Price(1, at(9, 0), at(11, 0), &coachId, []uint{4})
	assert.NoError(t, err)
	// Venue and coach double with the duration; the rental does not.
	assert.Equal(t, 3200.0, total)
}

func TestPriceVenueOnly(t *testing.T) {
	pricing, _ := testPricing()

	total, err := pricing.Price(1, at(9, 0), at(10, 30), nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, 1500.0, total)
}

func TestPriceTariffOverride(t *testing.T) {
	pricing, catalog := testPricing()
	catalog.tariffs = append(catalog.tariffs, models.Tariff{
		VenueID:      1,
		Weekday:      int(at(9, 0).Weekday()),
		StartClock:   "08:00",
		EndClock:     "12:00",
		PricePerHour: 1500,
	})

	total, err := pricing.Price(1, at(9, 0), at(10, 0), nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, 1500.0, total)
}

func TestPriceTariffMustContainWindow(t *testing.T) {
	pricing, catalog := testPricing()
	catalog.tariffs = append(catalog.tariffs, models.Tariff{
		VenueID:      1,
		Weekday:      int(at(9, 0).Weekday()),
		StartClock:   "08:00",
		EndClock:     "10:00",
		PricePerHour: 1500,
	})

	// The window spills past the tariff; the flat venue rate applies.
	total, err := pricing.Price(1, at(9, 0), at(11, 0), nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, 2000.0, total)
}

func TestPriceTariffIgnoredOnOtherWeekday(t *testing.T) {
	pricing, catalog := testPricing()
	catalog.tariffs = append(catalog.tariffs, models.Tariff{
		VenueID:      1,
		Weekday:      int(at(9, 0).Weekday()) + 1,
		StartClock:   "06:00",
		EndClock:     "22:00",
		PricePerHour: 1500,
	})

	total, err := pricing.Price(1, at(9, 0), at(10, 0), nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, 1000.0, total)
}

func TestPriceInvalidInterval(t *testing.T) {
	pricing, _ := testPricing()

	_, err := pricing.Price(1, at(10, 0), at(9, 0), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestPriceUnknownCoach(t *testing.T) {
	pricing, _ := testPricing()

	coachId := uint(99)
	_, err := pricing.Price(1, at(9, 0), at(10, 0), &coachId, nil)
	assert.Error(t, err)
}
