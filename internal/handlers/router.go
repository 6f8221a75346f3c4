package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/clubhouse/internal/handlers/middleware"
	"github.com/nkiryanov/clubhouse/internal/logger"
	"github.com/nkiryanov/clubhouse/internal/models"
	"github.com/nkiryanov/clubhouse/internal/repository"
	"github.com/nkiryanov/clubhouse/internal/service/club"
	"github.com/nkiryanov/clubhouse/internal/service/member"
	"github.com/nkiryanov/clubhouse/internal/service/stats"
	"github.com/nkiryanov/clubhouse/internal/service/ticker"
	"github.com/nkiryanov/clubhouse/internal/service/wallet"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

// Services the router dispatches to
type Services struct {
	Members   memberService
	Wallet    walletService
	Inventory inventoryService
	Fines     fineService
	Ticker    tickerService
	Stats     statsService
	Club      clubService
}

func NewRouter(s Services, logger logger.Logger) http.Handler {
	api := http.NewServeMux()

	api.Handle("GET /health", handleHealth())
	api.Handle("GET /roles", handleRoles())

	api.Handle("GET /users", handleListMembers(s.Members, logger))
	api.Handle("POST /users", handleRegisterMember(s.Members, logger))
	api.Handle("GET /users/lookup/{identifier}", handleLookupMember(s.Members, logger))
	api.Handle("PATCH /users/{id}/role", handleChangeRole(s.Members, logger))

	api.Handle("GET /events", handleListEvents(s.Club, logger))
	api.Handle("POST /events", handleCreateEvent(s.Club, logger))
	api.Handle("GET /events/{id}", handleGetEvent(s.Club, logger))
	api.Handle("POST /events/{id}/rsvp", handleRespond(s.Club, logger))
	api.Handle("POST /events/{id}/lineup", handleSetLineup(s.Club, logger))

	api.Handle("GET /drinks", handleListProducts(s.Inventory, logger))
	api.Handle("POST /drinks", handleCreateProduct(s.Inventory, logger))
	api.Handle("GET /drinks/bookings", handleListBookings(s.Inventory, logger))
	api.Handle("GET /drinks/stats", handleDrinkStats(s.Stats, logger))
	api.Handle("POST /drinks/{id}/book", handleBook(s.Inventory, logger))
	api.Handle("POST /drinks/{id}/restock", handleRestock(s.Inventory, logger))

	api.Handle("GET /ledger", handleListEntries(s.Wallet, logger))
	api.Handle("POST /ledger", handlePostEntry(s.Wallet, logger))
	api.Handle("GET /wallet/{id}", handleStatement(s.Wallet, logger))
	api.Handle("GET /wallet/{id}/reconcile", handleReconcile(s.Wallet, logger))

	api.Handle("GET /fines", handleListFines(s.Fines, logger))
	api.Handle("POST /fines", handleCreateFine(s.Fines, logger))
	api.Handle("POST /fines/{id}/assign", handleAssignFine(s.Fines, logger))

	api.Handle("GET /live", handleListMatches(s.Ticker, logger))
	api.Handle("GET /live/{matchId}", handleGetMatch(s.Ticker, logger))
	api.Handle("POST /live/{matchId}", handlePostMatchEvent(s.Ticker, logger))
	api.Handle("PATCH /live/{matchId}/status", handleSetMatchStatus(s.Ticker, logger))

	api.Handle("GET /stats", handleStats(s.Stats, logger))
	api.Handle("GET /dashboard", handleDashboard(s.Stats, logger))

	api.Handle("GET /subscriptions", handleListSubscriptions(s.Club, logger))
	api.Handle("POST /subscriptions", handleCreateSubscription(s.Club, logger))
	api.Handle("POST /subscriptions/{id}/cancel", handleCancelSubscription(s.Club, logger))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	handler := chain(root,
		middleware.LoggerMiddleware(logger),
	)

	return handler
}

type memberService interface {
	// Register member; has to return apperrors.ErrMemberAlreadyExists on duplicate email or number
	Register(ctx context.Context, p member.RegisterParams) (models.Member, error)
	ListMembers(ctx context.Context) ([]models.Member, error)
	// Find member by email or player number; has to return apperrors.ErrMemberNotFound if nobody matches
	Lookup(ctx context.Context, identifier string) (models.Member, error)
	ChangeRole(ctx context.Context, id uuid.UUID, role models.Role) (models.Member, error)
}

type walletService interface {
	AppendEntry(ctx context.Context, memberID uuid.UUID, kind models.EntryKind, description string, amount decimal.Decimal) (models.LedgerEntry, error)
	ListEntries(ctx context.Context, opts repository.ListEntriesOpts) ([]models.LedgerEntry, error)
	Statement(ctx context.Context, memberID uuid.UUID) (wallet.Statement, error)
	Reconcile(ctx context.Context, memberID uuid.UUID) (wallet.Reconciliation, error)
}

type inventoryService interface {
	// Book drinks; has to return apperrors.ErrInsufficientStock if stock is lower than quantity
	Book(ctx context.Context, memberID uuid.UUID, productID uuid.UUID, quantity int) (models.Booking, error)
	CreateProduct(ctx context.Context, name string, price decimal.Decimal, stock int) (models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	Restock(ctx context.Context, productID uuid.UUID, quantity int) (models.Product, error)
	ListBookings(ctx context.Context, opts repository.ListBookingsOpts) ([]models.Booking, error)
}

type fineService interface {
	AssignFine(ctx context.Context, memberID uuid.UUID, fineID uuid.UUID) (models.LedgerEntry, error)
	CreateFine(ctx context.Context, reason string, amount decimal.Decimal) (models.FineTemplate, error)
	ListFines(ctx context.Context) ([]models.FineTemplate, error)
}

type tickerService interface {
	// Post event; creates the match on first post
	PostEvent(ctx context.Context, matchID string, in ticker.EventInput) (models.Match, error)
	GetMatch(ctx context.Context, matchID string) (models.Match, error)
	SetStatus(ctx context.Context, matchID string, status string) (models.Match, error)
	ListMatches(ctx context.Context) ([]models.Match, error)
}

type statsService interface {
	Report(ctx context.Context) (stats.Report, error)
	Dashboard(ctx context.Context) (stats.Dashboard, error)
}

type clubService interface {
	CreateEvent(ctx context.Context, p club.EventParams) (models.Event, error)
	GetEvent(ctx context.Context, id uuid.UUID) (models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	Respond(ctx context.Context, eventID uuid.UUID, memberID uuid.UUID, status models.ResponseStatus, note string) (models.Event, error)
	SetLineup(ctx context.Context, eventID uuid.UUID, memberIDs []uuid.UUID) (models.Event, error)
	CreateSubscription(ctx context.Context, p club.SubscriptionParams) (models.Subscription, error)
	ListSubscriptions(ctx context.Context) ([]models.Subscription, error)
	CancelSubscription(ctx context.Context, id uuid.UUID) (models.Subscription, error)
}
