package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	IntervalMonthly = "monthly"
	IntervalYearly  = "yearly"
)

const DefaultSubscriptionSeats = 30

type Subscription struct {
	ID         uuid.UUID
	Club       string
	Plan       string
	Interval   string
	Active     bool
	Seats      int
	StartedAt  time.Time
	CanceledAt *time.Time // nil while active
}

func ValidInterval(interval string) bool {
	return interval == IntervalMonthly || interval == IntervalYearly
}
