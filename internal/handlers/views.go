package handlers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/clubhouse/internal/models"
)

// JSON views shared by several handlers; money goes out as plain numbers

func money(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

type memberView struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PlayerNumber string    `json:"playerNumber"`
	Role         string    `json:"role"`
	Wallet       float64   `json:"wallet"`
	CreatedAt    time.Time `json:"createdAt"`
}

func newMemberView(m models.Member) memberView {
	return memberView{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PlayerNumber: m.MembershipNumber,
		Role:         string(m.Role),
		Wallet:       money(m.Wallet),
		CreatedAt:    m.CreatedAt,
	}
}

type entryView struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	CreatedAt   time.Time `json:"createdAt"`
}

func newEntryView(e models.LedgerEntry) entryView {
	return entryView{
		ID:          e.ID,
		UserID:      e.MemberID,
		Kind:        string(e.Kind),
		Description: e.Description,
		Amount:      money(e.Amount),
		CreatedAt:   e.CreatedAt,
	}
}

func newEntryViews(entries []models.LedgerEntry) []entryView {
	views := make([]entryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, newEntryView(e))
	}
	return views
}

type productView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Price float64   `json:"price"`
	Stock int       `json:"stock"`
}

func newProductView(p models.Product) productView {
	return productView{ID: p.ID, Name: p.Name, Price: money(p.Price), Stock: p.Stock}
}

type bookingView struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"userId"`
	ProductID     uuid.UUID `json:"productId"`
	LedgerEntryID uuid.UUID `json:"ledgerEntryId"`
	Quantity      int       `json:"quantity"`
	Total         float64   `json:"total"`
	BookedAt      time.Time `json:"bookedAt"`
}

func newBookingView(b models.Booking) bookingView {
	return bookingView{
		ID:            b.ID,
		UserID:        b.MemberID,
		ProductID:     b.ProductID,
		LedgerEntryID: b.LedgerEntryID,
		Quantity:      b.Quantity,
		Total:         money(b.Total),
		BookedAt:      b.BookedAt,
	}
}

type fineView struct {
	ID     uuid.UUID `json:"id"`
	Reason string    `json:"reason"`
	Amount float64   `json:"amount"`
}

func newFineView(f models.FineTemplate) fineView {
	return fineView{ID: f.ID, Reason: f.Reason, Amount: money(f.Amount)}
}

type scoreView struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

type matchEventView struct {
	ID     uuid.UUID `json:"id"`
	Minute int       `json:"minute"`
	Type   string    `json:"type"`
	Team   string    `json:"team,omitempty"`
	Player string    `json:"player,omitempty"`
	Note   string    `json:"note,omitempty"`
}

type matchView struct {
	MatchID   string           `json:"matchId"`
	Home      string           `json:"home"`
	Away      string           `json:"away"`
	Status    string           `json:"status"`
	Score     scoreView        `json:"score"`
	Events    []matchEventView `json:"events"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

func newMatchView(m models.Match) matchView {
	events := make([]matchEventView, 0, len(m.Events))
	for _, e := range m.Events {
		events = append(events, matchEventView{
			ID:     e.ID,
			Minute: e.Minute,
			Type:   string(e.Type),
			Team:   e.Team,
			Player: e.Player,
			Note:   e.Note,
		})
	}

	return matchView{
		MatchID:   m.ID,
		Home:      m.Home,
		Away:      m.Away,
		Status:    m.Status,
		Score:     scoreView{Home: m.Score.Home, Away: m.Score.Away},
		Events:    events,
		UpdatedAt: m.UpdatedAt,
	}
}

type responseView struct {
	Status string    `json:"status"`
	Note   string    `json:"note"`
	At     time.Time `json:"at"`
}

type eventView struct {
	ID               uuid.UUID                  `json:"id"`
	Type             string                     `json:"type"`
	Title            string                     `json:"title"`
	Location         string                     `json:"location"`
	DateTime         time.Time                  `json:"dateTime"`
	RequiresResponse bool                       `json:"requiresResponse"`
	Status           string                     `json:"status"`
	Notes            string                     `json:"notes"`
	Responses        map[uuid.UUID]responseView `json:"responses"`
	Lineup           []uuid.UUID                `json:"lineup"`
}

func newEventView(e models.Event) eventView {
	responses := make(map[uuid.UUID]responseView, len(e.Responses))
	for id, r := range e.Responses {
		responses[id] = responseView{Status: string(r.Status), Note: r.Note, At: r.RespondedAt}
	}

	lineup := e.Lineup
	if lineup == nil {
		lineup = []uuid.UUID{}
	}

	return eventView{
		ID:               e.ID,
		Type:             string(e.Type),
		Title:            e.Title,
		Location:         e.Location,
		DateTime:         e.StartsAt,
		RequiresResponse: e.RequiresResponse,
		Status:           e.Status,
		Notes:            e.Notes,
		Responses:        responses,
		Lineup:           lineup,
	}
}

type subscriptionView struct {
	ID         uuid.UUID  `json:"id"`
	Club       string     `json:"club"`
	Plan       string     `json:"plan"`
	Interval   string     `json:"interval"`
	Active     bool       `json:"active"`
	Seats      int        `json:"seats"`
	StartedAt  time.Time  `json:"startedAt"`
	CanceledAt *time.Time `json:"canceledAt,omitempty"`
}

func newSubscriptionView(s models.Subscription) subscriptionView {
	return subscriptionView{
		ID:         s.ID,
		Club:       s.Club,
		Plan:       s.Plan,
		Interval:   s.Interval,
		Active:     s.Active,
		Seats:      s.Seats,
		StartedAt:  s.StartedAt,
		CanceledAt: s.CanceledAt,
	}
}
