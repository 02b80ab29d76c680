package common

import (
	"errors"
	"time"

	"vbs/src/models"
	"vbs/src/utils"

	"gorm.io/gorm"
)

// Catalog is the read-only view of the venue/coach/equipment inventory that
// the pricing and availability engines consume. Catalog management itself
// lives elsewhere.
type Catalog interface {
	GetVenue(id uint) (*models.Venue, error)
	GetCoach(id uint) (*models.Coach, error)
	GetEquipment(ids []uint) ([]models.Equipment, error)
	FindTariff(venueID uint, weekday time.Weekday, startMinute, endMinute int) (*models.Tariff, error)
}

type GormCatalog struct {
	DB *gorm.DB
}

func (c *GormCatalog) GetVenue(id uint) (*models.Venue, error) {
	var venue models.Venue
	if err := c.DB.
		Model(&models.Venue{}).
		Where(&models.Venue{ID: id}).
		First(&venue).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("venue not found")
		}
		return nil, err
	}
	return &venue, nil
}

func (c *GormCatalog) GetCoach(id uint) (*models.Coach, error) {
	var coach models.Coach
	if err := c.DB.
		Model(&models.Coach{}).
		Where(&models.Coach{ID: id}).
		First(&coach).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("coach not found")
		}
		return nil, err
	}
	return &coach, nil
}

func (c *GormCatalog) GetEquipment(ids []uint) ([]models.Equipment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.Equipment
	if err := c.DB.
		Model(&models.Equipment{}).
		Where("id IN (?)", ids).
		Find(&items).
		Error; err != nil {
		return nil, err
	}
	if len(items) != len(ids) {
		return nil, errors.New("one or more equipment items not found")
	}
	return items, nil
}

// FindTariff returns the override whose clock window fully contains the
// requested window, or nil when the venue's flat hourly price applies.
func (c *GormCatalog) FindTariff(venueID uint, weekday time.Weekday, startMinute, endMinute int) (*models.Tariff, error) {
	var tariffs []models.Tariff
	if err := c.DB.
		Model(&models.Tariff{}).
		Where(&models.Tariff{VenueID: venueID}).
		Where("weekday = ?", int(weekday)).
		Find(&tariffs).
		Error; err != nil {
		return nil, err
	}
	for _, t := range tariffs {
		from, err := utils.ParseClock(t.StartClock)
		if err != nil {
			continue
		}
		to, err := utils.ParseClock(t.EndClock)
		if err != nil {
			continue
		}
		if from <= startMinute && to >= endMinute {
			return &t, nil
		}
	}
	return nil, nil
}
