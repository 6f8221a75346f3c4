// Package seed fills a fresh storage with demo club data
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nkiryanov/clubhouse/internal/models"
	"github.com/nkiryanov/clubhouse/internal/service/club"
	"github.com/nkiryanov/clubhouse/internal/service/member"
	"github.com/nkiryanov/clubhouse/internal/service/ticker"
)

// ID of the finished demo match
const DemoMatchID = "demo"

type memberRegistrar interface {
	Register(ctx context.Context, p member.RegisterParams) (models.Member, error)
}

type productCreator interface {
	CreateProduct(ctx context.Context, name string, price decimal.Decimal, stock int) (models.Product, error)
}

type fineCreator interface {
	CreateFine(ctx context.Context, reason string, amount decimal.Decimal) (models.FineTemplate, error)
}

type clubPlanner interface {
	CreateEvent(ctx context.Context, p club.EventParams) (models.Event, error)
	CreateSubscription(ctx context.Context, p club.SubscriptionParams) (models.Subscription, error)
}

type matchTicker interface {
	PostEvent(ctx context.Context, matchID string, in ticker.EventInput) (models.Match, error)
	SetStatus(ctx context.Context, matchID string, status string) (models.Match, error)
}

// Services seed writes through; data goes the same way as API requests do
type Services struct {
	Members   memberRegistrar
	Inventory productCreator
	Fines     fineCreator
	Club      clubPlanner
	Ticker    matchTicker
}

// Run seeds members with opening balances, the fine catalog, drinks, two upcoming fixtures,
// a subscription and a finished match. Fixtures are scheduled relative to now.
func Run(ctx context.Context, s Services, now time.Time) error {
	members := []member.RegisterParams{
		{
			Name:               "Max Mustermann",
			Email:              "max@example.com",
			MembershipNumber:   "P001",
			Role:               models.RoleAdmin,
			OpeningBalance:     decimal.RequireFromString("1250.5"),
			OpeningDescription: "Anfangsbestand Vereinskasse",
		},
		{
			Name:             "Mia Musterfrau",
			Email:            "mia@example.com",
			MembershipNumber: "P002",
			Role:             models.RoleTreasurer,
			OpeningBalance:   decimal.NewFromInt(840),
		},
		{
			Name:             "Alex Beispiel",
			Email:            "alex@example.com",
			MembershipNumber: "P003",
			Role:             models.RolePlayer,
			OpeningBalance:   decimal.NewFromInt(50),
		},
	}
	for _, p := range members {
		if _, err := s.Members.Register(ctx, p); err != nil {
			return fmt.Errorf("can't seed member %s. Err: %w", p.Name, err)
		}
	}

	fines := []struct {
		reason string
		amount int64
	}{
		{"Zu spät gekommen", 5},
		{"Trikot vergessen", 3},
	}
	for _, f := range fines {
		if _, err := s.Fines.CreateFine(ctx, f.reason, decimal.NewFromInt(f.amount)); err != nil {
			return fmt.Errorf("can't seed fine. Err: %w", err)
		}
	}

	products := []struct {
		name  string
		price string
		stock int
	}{
		{"Wasser 0.5l", "1.0", 60},
		{"Isodrink", "2.5", 40},
		{"Kaffee", "1.5", 25},
	}
	for _, p := range products {
		if _, err := s.Inventory.CreateProduct(ctx, p.name, decimal.RequireFromString(p.price), p.stock); err != nil {
			return fmt.Errorf("can't seed product %s. Err: %w", p.name, err)
		}
	}

	day := 24 * time.Hour
	events := []club.EventParams{
		{
			Type:             models.EventTypeTraining,
			Title:            "Wochentraining",
			Location:         "Sportplatz Hauptstraße",
			StartsAt:         now.Add(3 * day),
			RequiresResponse: true,
		},
		{
			Type:             models.EventTypeMatch,
			Title:            "Liga: FC Stadtmitte vs Verein24",
			Location:         "Sportpark Zentrum",
			StartsAt:         now.Add(6 * day),
			RequiresResponse: true,
		},
	}
	for _, e := range events {
		if _, err := s.Club.CreateEvent(ctx, e); err != nil {
			return fmt.Errorf("can't seed event %s. Err: %w", e.Title, err)
		}
	}

	_, err := s.Club.CreateSubscription(ctx, club.SubscriptionParams{
		Club:     "Verein24",
		Plan:     "premium",
		Interval: models.IntervalYearly,
		Seats:    40,
	})
	if err != nil {
		return fmt.Errorf("can't seed subscription. Err: %w", err)
	}

	return seedMatch(ctx, s.Ticker)
}

func seedMatch(ctx context.Context, t matchTicker) error {
	events := []ticker.EventInput{
		{Minute: 12, Type: models.MatchEventGoal, Team: models.TeamHome, Player: "Müller", Note: "Elfmeter"},
		{Minute: 44, Type: models.MatchEventYellowCard, Team: models.TeamAway, Player: "Weber", Note: "Foul"},
		{Minute: 77, Type: models.MatchEventGoal, Team: models.TeamAway, Player: "Becker", Note: "Kopfball"},
	}
	events[0].Home = "FC Stadtmitte"
	events[0].Away = "Verein24"

	for _, e := range events {
		if _, err := t.PostEvent(ctx, DemoMatchID, e); err != nil {
			return fmt.Errorf("can't seed match event. Err: %w", err)
		}
	}

	if _, err := t.SetStatus(ctx, DemoMatchID, models.MatchStatusFullTime); err != nil {
		return fmt.Errorf("can't finish seeded match. Err: %w", err)
	}
	return nil
}
