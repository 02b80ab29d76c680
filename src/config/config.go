package config

import (
	"fmt"
	"os"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"
const DATE_PARSE_FORMAT = "2006-01-02"
const CLOCK_PARSE_FORMAT = "15:04"

// Currency is fixed; multi-currency is out of scope.
const CURRENCY = "inr"

// AmountTolerance is the currency-rounding slack allowed between the staged
// amount and the gateway's charged amount.
const AmountTolerance = 1.0

// DefaultSlotMinutes is the discrete slot length used by the availability
// listing when the caller does not pick one.
const DefaultSlotMinutes = 60
