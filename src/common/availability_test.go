package common

import (
	"testing"
	"time"

	"vbs/src/models"
	"vbs/src/types"

	"github.com/stretchr/testify/assert"
)

func testEngine() (*AvailabilityEngine, *fakeStore, *fakeCatalog) {
	store := newFakeStore()
	catalog := newFakeCatalog()
	catalog.venues[1] = &models.Venue{
		ID:           1,
		Name:         "Grand Arena",
		PricePerHour: 500,
		OpenTime:     "06:00",
		CloseTime:    "10:00",
	}
	pricing := &PricingResolver{Catalog: catalog}
	return &AvailabilityEngine{Store: store, Catalog: catalog, Pricing: pricing}, store, catalog
}

func at(hour, minute int) time.Time {
	return time.Date(2026, time.September, 7, hour, minute, 0, 0, time.UTC)
}

func TestCheckReservationRejectsInvalidInterval(t *testing.T) {
	engine, _, _ := testEngine()

	err := engine.CheckReservation(1, at(9, 0), at(9, 0), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	err = engine.CheckReservation(1, at(10, 0), at(9, 0), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestCheckReservationTouchingEndpointsDoNotOverlap(t *testing.T) {
	engine, store, _ := testEngine()
	store.addConfirmedBooking(&models.Booking{
		VenueID:   1,
		StartTime: at(8, 0),
		EndTime:   at(9, 0),
	})

	assert.NoError(t, engine.CheckReservation(1, at(9, 0), at(10, 0), nil, nil))
	assert.NoError(t, engine.CheckReservation(1, at(7, 0), at(8, 0), nil, nil))

	err := engine.CheckReservation(1, at(8, 30), at(9, 30), nil, nil)
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
	assert.Equal(t, types.AxisVenue, conflict.Key.Axis)

	// Checking writes nothing; the same call answers the same way again.
	err = engine.CheckReservation(1, at(8, 30), at(9, 30), nil, nil)
	assert.ErrorAs(t, err, &conflict)
	assert.Equal(t, 1, store.bookingCount())
}

func TestCheckReservationReportsFirstConflictingAxis(t *testing.T) {
	engine, store, catalog := testEngine()
	catalog.coaches[7] = &models.Coach{ID: 7, Name: "R. Iyer", HourlyRate: 300}
	catalog.equipment[4] = &models.Equipment{ID: 4, Name: "Net", RentalPrice: 100}

	coachId := uint(7)
	store.addConfirmedBooking(&models.Booking{
		VenueID:   2,
		CoachID:   &coachId,
		StartTime: at(8, 0),
		EndTime:   at(9, 0),
	})

	// The coach is tied up at another venue; the venue axis itself is free.
	err := engine.CheckReservation(1, at(8, 0), at(9, 0), &coachId, []uint{4})
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
	assert.Equal(t, types.AxisCoach, conflict.Key.Axis)
	assert.Equal(t, coachId, conflict.Key.ID)
}

func TestCheckReservationEquipmentAxis(t *testing.T) {
	engine, store, catalog := testEngine()
	catalog.equipment[4] = &models.Equipment{ID: 4, Name: "Net", RentalPrice: 100}

	store.addConfirmedBooking(&models.Booking{
		VenueID:   3,
		StartTime: at(8, 0),
		EndTime:   at(9, 0),
		Equipment: []*models.Equipment{{ID: 4}},
	})

	err := engine.CheckReservation(1, at(8, 30), at(9, 30), nil, []uint{4})
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
	assert.Equal(t, types.AxisEquipment, conflict.Key.Axis)
}

func TestListFreeSlots(t *testing.T) {
	engine, store, _ := testEngine()
	store.addConfirmedBooking(&models.Booking{
		VenueID:   1,
		StartTime: at(7, 0),
		EndTime:   at(8, 0),
	})

	day := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)
	seq, err := engine.ListFreeSlots(1, day, 60)
	assert.NoError(t, err)

	var slots []types.Slot
	for slot := range seq {
		slots = append(slots, slot)
	}
	assert.Len(t, slots, 4)
	assert.Equal(t, at(6, 0), slots[0].StartTime)
	assert.True(t, slots[0].Available)
	assert.False(t, slots[1].Available)
	assert.True(t, slots[2].Available)
	assert.True(t, slots[3].Available)
	for _, slot := range slots {
		assert.Equal(t, 500.0, slot.Price)
	}
}

func TestListFreeSlotsIsRestartable(t *testing.T) {
	engine, _, _ := testEngine()

	day := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)
	seq, err := engine.ListFreeSlots(1, day, 60)
	assert.NoError(t, err)

	first := 0
	for range seq {
		first++
	}
	second := 0
	for range seq {
		second++
	}
	assert.Equal(t, first, second)
	assert.Equal(t, 4, first)
}

func TestListFreeSlotsDropsTrailingRemainder(t *testing.T) {
	engine, _, _ := testEngine()

	// 06:00 to 10:00 holds two 90-minute slots; the trailing hour is dropped.
	day := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)
	seq, err := engine.ListFreeSlots(1, day, 90)
	assert.NoError(t, err)

	var slots []types.Slot
	for slot := range seq {
		slots = append(slots, slot)
	}
	assert.Len(t, slots, 2)
	assert.Equal(t, at(6, 0), slots[0].StartTime)
	assert.Equal(t, at(7, 30), slots[0].EndTime)
	assert.Equal(t, at(9, 0), slots[1].EndTime)
}

func TestListFreeSlotsUnknownVenue(t *testing.T) {
	engine, _, _ := testEngine()

	day := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)
	_, err := engine.ListFreeSlots(99, day, 60)
	assert.Error(t, err)
}
