package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type FineTemplate struct {
	ID     uuid.UUID
	Reason string
	Amount decimal.Decimal // positive, posted negated
}
