package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/nkiryanov/clubhouse/internal/models"
)

// Member repository interface
type MemberRepo interface {
	// Create member
	// If email or membership number is taken must return apperrors.ErrMemberAlreadyExists
	CreateMember(ctx context.Context, m models.Member) (models.Member, error)

	// Get member by id
	// If forUpdate is set the member row stays locked until the transaction ends
	// If member not found must return apperrors.ErrMemberNotFound
	GetMember(ctx context.Context, id uuid.UUID, forUpdate bool) (models.Member, error)

	// Find member by email (case insensitive) or membership number
	// If nobody matches must return apperrors.ErrMemberNotFound
	FindMember(ctx context.Context, identifier string) (models.Member, error)

	// Members in registration order
	ListMembers(ctx context.Context) ([]models.Member, error)

	SetRole(ctx context.Context, id uuid.UUID, role models.Role) (models.Member, error)

	// Add entry amount to the member wallet (rounded to cents)
	// The only way the wallet changes
	ApplyEntry(ctx context.Context, entry models.LedgerEntry) (models.Member, error)
}

type ListEntriesOpts struct {
	MemberID *uuid.UUID          // nil means all members
	Kinds    []models.EntryKind // empty means all kinds
}

// Ledger repository interface
// Append only: there is no way to change or remove an entry once it is committed
type LedgerRepo interface {
	AppendEntry(ctx context.Context, entry models.LedgerEntry) (models.LedgerEntry, error)

	// Entries in append order
	ListEntries(ctx context.Context, opts ListEntriesOpts) ([]models.LedgerEntry, error)
}

// Product repository interface
type ProductRepo interface {
	CreateProduct(ctx context.Context, p models.Product) (models.Product, error)

	// If forUpdate is set the product row stays locked until the transaction ends
	// If product not found must return apperrors.ErrProductNotFound
	GetProduct(ctx context.Context, id uuid.UUID, forUpdate bool) (models.Product, error)

	ListProducts(ctx context.Context) ([]models.Product, error)

	// Change stock by delta
	// If stock would become negative must return apperrors.ErrInsufficientStock and keep stock unchanged
	// If stock would overflow must return apperrors.ErrInvalidQuantity
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (models.Product, error)
}

type ListBookingsOpts struct {
	MemberID *uuid.UUID
}

type BookingRepo interface {
	CreateBooking(ctx context.Context, b models.Booking) (models.Booking, error)
	ListBookings(ctx context.Context, opts ListBookingsOpts) ([]models.Booking, error)
}

// Fine catalog repository interface
type FineRepo interface {
	CreateFine(ctx context.Context, f models.FineTemplate) (models.FineTemplate, error)

	// If fine not found must return apperrors.ErrFineNotFound
	GetFine(ctx context.Context, id uuid.UUID) (models.FineTemplate, error)

	ListFines(ctx context.Context) ([]models.FineTemplate, error)
}

// Live ticker repository interface
type MatchRepo interface {
	// If match with the id exists must return apperrors.ErrMatchAlreadyExists
	CreateMatch(ctx context.Context, m models.Match) (models.Match, error)

	// If forUpdate is set the match row stays locked until the transaction ends
	// If match not found must return apperrors.ErrMatchNotFound
	GetMatch(ctx context.Context, id string, forUpdate bool) (models.Match, error)

	// Matches ordered by last update, most recent first
	ListMatches(ctx context.Context) ([]models.Match, error)

	// Append event and update score from it
	// The only way the score changes
	AppendEvent(ctx context.Context, matchID string, e models.MatchEvent) (models.Match, error)

	SetStatus(ctx context.Context, matchID string, status string) (models.Match, error)
}

// Club fixtures repository interface
type EventRepo interface {
	CreateEvent(ctx context.Context, e models.Event) (models.Event, error)

	// If event not found must return apperrors.ErrEventNotFound
	GetEvent(ctx context.Context, id uuid.UUID) (models.Event, error)

	// Events in creation order
	ListEvents(ctx context.Context) ([]models.Event, error)

	// Insert or replace member's response
	SetResponse(ctx context.Context, eventID uuid.UUID, memberID uuid.UUID, r models.EventResponse) (models.Event, error)

	SetLineup(ctx context.Context, eventID uuid.UUID, lineup []uuid.UUID) (models.Event, error)
}

type SubscriptionRepo interface {
	CreateSubscription(ctx context.Context, s models.Subscription) (models.Subscription, error)
	ListSubscriptions(ctx context.Context) ([]models.Subscription, error)

	// If subscription not found must return apperrors.ErrSubscriptionNotFound
	Cancel(ctx context.Context, id uuid.UUID) (models.Subscription, error)
}

type Storage interface {
	Member() MemberRepo
	Ledger() LedgerRepo
	Product() ProductRepo
	Booking() BookingRepo
	Fine() FineRepo
	Match() MatchRepo
	Event() EventRepo
	Subscription() SubscriptionRepo

	// Run fn in transaction
	// Changes made through the passed storage are rolled back if fn returns error
	// Calling InTx on the passed storage joins the running transaction
	InTx(ctx context.Context, fn func(Storage) error) error

	// Run fn while no transaction is in flight, so every read inside sees the same state
	// fn must only read
	Snapshot(ctx context.Context, fn func(Storage) error) error
}
