package common

import (
	"log"
	"time"

	"vbs/src/lib"
)

// PendingTTL is how long an initiated reservation may sit without a
// successful confirmation before the sweep fails it.
const PendingTTL = 30 * time.Minute

const sweepInterval = 5 * time.Minute

// StartPendingSweep schedules the recurring expiry job for stale pending
// reservations. Expired records are failed with a note; they are never
// deleted.
func StartPendingSweep(store Store) error {
	_, err := lib.CreateCronJob(func() {
		cutoff := lib.GetClock().Now().Add(-PendingTTL)
		n, err := store.ExpirePending(cutoff, "expired before payment completed")
		if err != nil {
			return
		}
		if n > 0 {
			log.Printf("Expired %d stale pending reservations\n", n)
		}
	}, sweepInterval)
	return err
}
