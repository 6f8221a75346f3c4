package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Role string

const (
	RolePlayer    Role = "player"
	RoleAdmin     Role = "admin"
	RoleTreasurer Role = "treasurer"
)

// Roles lists known roles in display order
var Roles = []Role{RolePlayer, RoleAdmin, RoleTreasurer}

func (r Role) Valid() bool {
	switch r {
	case RolePlayer, RoleAdmin, RoleTreasurer:
		return true
	default:
		return false
	}
}

type Member struct {
	ID               uuid.UUID
	CreatedAt        time.Time
	Name             string
	Email            string
	MembershipNumber string
	Role             Role

	// Cached sum of member's ledger entries
	// Changed by repository.MemberRepo.ApplyEntry only
	Wallet decimal.Decimal
}
