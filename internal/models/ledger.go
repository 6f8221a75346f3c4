package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EntryKind string

const (
	EntryKindBalance    EntryKind = "balance"
	EntryKindDeposit    EntryKind = "deposit"
	EntryKindDrink      EntryKind = "drink"
	EntryKindFine       EntryKind = "fine"
	EntryKindDues       EntryKind = "dues"
	EntryKindAdjustment EntryKind = "adjustment"
)

// LedgerEntry is a signed monetary movement attributed to one member
// Entries are never changed or removed; a mistake is corrected by an offsetting entry
type LedgerEntry struct {
	ID          uuid.UUID
	CreatedAt   time.Time
	MemberID    uuid.UUID
	Kind        EntryKind
	Description string
	Amount      decimal.Decimal
}
