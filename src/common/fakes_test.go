package common

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"vbs/src/models"
	"vbs/src/types"

	"github.com/google/uuid"
)

type fakeCatalog struct {
	venues    map[uint]*models.Venue
	coaches   map[uint]*models.Coach
	equipment map[uint]*models.Equipment
	tariffs   []models.Tariff
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		venues:    make(map[uint]*models.Venue),
		coaches:   make(map[uint]*models.Coach),
		equipment: make(map[uint]*models.Equipment),
	}
}

func (c *fakeCatalog) GetVenue(id uint) (*models.Venue, error) {
	venue, ok := c.venues[id]
	if !ok {
		return nil, errors.New("venue not found")
	}
	return venue, nil
}

func (c *fakeCatalog) GetCoach(id uint) (*models.Coach, error) {
	coach, ok := c.coaches[id]
	if !ok {
		return nil, errors.New("coach not found")
	}
	return coach, nil
}

func (c *fakeCatalog) GetEquipment(ids []uint) ([]models.Equipment, error) {
	items := make([]models.Equipment, 0, len(ids))
	for _, id := range ids {
		item, ok := c.equipment[id]
		if !ok {
			return nil, errors.New("one or more equipment items not found")
		}
		items = append(items, *item)
	}
	return items, nil
}

func (c *fakeCatalog) FindTariff(venueID uint, weekday time.Weekday, startMinute, endMinute int) (*models.Tariff, error) {
	for _, t := range c.tariffs {
		if t.VenueID != venueID || t.Weekday != int(weekday) {
			continue
		}
		from := clockMinutes(t.StartClock)
		to := clockMinutes(t.EndClock)
		if from <= startMinute && to >= endMinute {
			return &t, nil
		}
	}
	return nil, nil
}

func clockMinutes(value string) int {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0
	}
	return t.Hour()*60 + t.Minute()
}

type fakeStore struct {
	mu            sync.Mutex
	bookings      []*models.Booking
	pending       map[uuid.UUID]*models.PendingReservation
	nextBookingID uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		pending:       make(map[uuid.UUID]*models.PendingReservation),
		nextBookingID: 1,
	}
}

func (s *fakeStore) OverlappingConfirmed(key types.ResourceKey, start, end time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.Status != types.BOOKING_CONFIRMED {
			continue
		}
		if !(b.StartTime.Before(end) && b.EndTime.After(start)) {
			continue
		}
		switch key.Axis {
		case types.AxisVenue:
			if b.VenueID == key.ID {
				return true, nil
			}
		case types.AxisCoach:
			if b.CoachID != nil && *b.CoachID == key.ID {
				return true, nil
			}
		case types.AxisEquipment:
			for _, item := range b.Equipment {
				if item.ID == key.ID {
					return true, nil
				}
			}
		}
	}
	return false, nil
}

func (s *fakeStore) CreatePending(p *models.PendingReservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	clone := *p
	s.pending[p.ID] = &clone
	return nil
}

func (s *fakeStore) GetPending(id uuid.UUID) (*models.PendingReservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (s *fakeStore) SetGatewayReference(id uuid.UUID, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[id]
	if !ok {
		return ErrNotFound
	}
	p.GatewayReference = ref
	return nil
}

func (s *fakeStore) MarkPendingFailed(id uuid.UUID, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[id]
	if !ok {
		return ErrNotFound
	}
	if p.Status != types.PENDING_PENDING {
		return ErrInvalidState
	}
	p.Status = types.PENDING_FAILED
	p.Notes = p.Notes + "\n" + note
	return nil
}

func (s *fakeStore) CommitBooking(pendingID uuid.UUID, booking *models.Booking) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[pendingID]
	if !ok {
		return 0, ErrNotFound
	}
	if p.Status != types.PENDING_PENDING {
		return 0, ErrInvalidState
	}
	booking.ID = s.nextBookingID
	s.nextBookingID++
	s.bookings = append(s.bookings, booking)
	p.Status = types.PENDING_SUCCESS
	p.BookingID = &booking.ID
	p.StagedDetails = nil
	return booking.ID, nil
}

func (s *fakeStore) ExpirePending(before time.Time, note string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var affected int64
	for _, p := range s.pending {
		if p.Status != types.PENDING_PENDING {
			continue
		}
		if !p.CreatedAt.Before(before) {
			continue
		}
		p.Status = types.PENDING_FAILED
		p.Notes = p.Notes + "\n" + note
		affected++
	}
	return affected, nil
}

func (s *fakeStore) addConfirmedBooking(b *models.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == 0 {
		b.ID = s.nextBookingID
		s.nextBookingID++
	}
	if b.Status == "" {
		b.Status = types.BOOKING_CONFIRMED
	}
	s.bookings = append(s.bookings, b)
}

func (s *fakeStore) bookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

type fakeGateway struct {
	mu        sync.Mutex
	createErr error
	statusErr error
	statuses  map[string]IntentStatus
	created   int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{statuses: make(map[string]IntentStatus)}
}

func (g *fakeGateway) CreateIntent(amount float64, currency string, metadata map[string]string) (*PaymentIntentRef, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.created++
	ref := fmt.Sprintf("pi_test_%d", g.created)
	g.statuses[ref] = IntentStatus{Status: types.GATEWAY_PENDING, ChargedAmount: 0}
	return &PaymentIntentRef{Reference: ref, ClientSecret: ref + "_secret"}, nil
}

func (g *fakeGateway) GetIntentStatus(ref string) (*IntentStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.statusErr != nil {
		return nil, g.statusErr
	}
	status, ok := g.statuses[ref]
	if !ok {
		return nil, errors.New("no such intent")
	}
	return &status, nil
}

func (g *fakeGateway) settle(ref string, status types.GatewayStatus, charged float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statuses[ref] = IntentStatus{Status: status, ChargedAmount: charged}
}

type notification struct {
	Target   string
	Message  string
	Category string
	Link     string
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notification
}

func (n *recordingNotifier) Notify(target, message, category, link string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notification{Target: target, Message: message, Category: category, Link: link})
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}
