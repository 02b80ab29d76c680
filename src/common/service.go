package common

import (
	"os"

	"vbs/src/db"
	"vbs/src/lib"
)

var coordinator *Coordinator

// GetCoordinator wires the default production coordinator over the shared
// database handle. The locker is redis-backed when REDIS_HOST is set,
// in-process otherwise.
func GetCoordinator() *Coordinator {
	if coordinator != nil {
		return coordinator
	}
	store := &GormStore{DB: db.GetDb()}
	catalog := &GormCatalog{DB: db.GetDb()}
	pricing := &PricingResolver{Catalog: catalog}
	availability := &AvailabilityEngine{Store: store, Catalog: catalog, Pricing: pricing}

	var locker Locker = NewMemoryLocker()
	if os.Getenv("REDIS_HOST") != "" {
		if client := lib.GetRedisClient(); client != nil {
			locker = &RedisLocker{Client: client}
		}
	}

	coordinator = &Coordinator{
		Availability: availability,
		Pricing:      pricing,
		Store:        store,
		Catalog:      catalog,
		Gateway:      &StripeGateway{},
		Notifier:     &PusherNotifier{},
		Locker:       locker,
		Clock:        lib.GetClock(),
	}
	return coordinator
}

// NewCoordinator replaces the shared coordinator. Used by tests.
func NewCoordinator(c *Coordinator) *Coordinator {
	coordinator = c
	return coordinator
}
