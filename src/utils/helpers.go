package utils

import (
	"fmt"
	"math"
	"os"
	"time"

	"vbs/src/config"
	"vbs/src/types"

	"github.com/gosimple/slug"
)

// ParseClock turns a "15:04" venue clock string into minutes since midnight.
func ParseClock(value string) (int, error) {
	t, err := time.Parse(config.CLOCK_PARSE_FORMAT, value)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// MinuteOfDay returns the instant's offset into its day in minutes.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// WithinTolerance reports whether two amounts agree within the allowed
// currency-rounding slack.
func WithinTolerance(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func DurationHours(start, end time.Time) float64 {
	return end.Sub(start).Hours()
}

// BookingReference builds the human-readable code printed on receipts,
// e.g. "grand-arena-20260901-0900".
func BookingReference(venueName string, start time.Time) string {
	return fmt.Sprintf("%s-%s", slug.Make(venueName), start.Format("20060102-1504"))
}

func IsProd() bool {
	return os.Getenv("API_ENV") == string(types.Production)
}
