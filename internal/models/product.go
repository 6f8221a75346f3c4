package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID    uuid.UUID
	Name  string
	Price decimal.Decimal
	Stock int
}

// Booking links one stock decrement with one drink ledger entry
type Booking struct {
	ID            uuid.UUID
	BookedAt      time.Time
	MemberID      uuid.UUID
	ProductID     uuid.UUID
	LedgerEntryID uuid.UUID
	Quantity      int
	Total         decimal.Decimal
}
