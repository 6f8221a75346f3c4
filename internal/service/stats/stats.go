package stats

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/clubhouse/internal/models"
	"github.com/nkiryanov/clubhouse/internal/repository"
)

type AttendanceRow struct {
	EventID    uuid.UUID
	Title      string
	Type       models.EventType
	StartsAt   time.Time
	Responses  map[models.ResponseStatus]int
	LineupSize int
}

type DrinkSpendRow struct {
	MemberID uuid.UUID
	Name     string
	Bookings int
	Spend    decimal.Decimal
}

type ProductOrdersRow struct {
	ProductID uuid.UUID
	Name      string
	Ordered   int // units booked over all time
}

type RankingRow struct {
	Rank     int
	MemberID uuid.UUID
	Name     string
	Balance  decimal.Decimal
}

type Report struct {
	Attendance    []AttendanceRow
	DrinkSpend    []DrinkSpendRow
	ProductOrders []ProductOrdersRow
	WalletRanking []RankingRow
}

type PendingRow struct {
	EventID  uuid.UUID
	Title    string
	Awaiting int
}

type Dashboard struct {
	NextEvent        *models.Event
	PendingResponses []PendingRow
	LedgerTotal      decimal.Decimal
	Live             *models.Match

	// Members whose wallet differs from the sum of their entries, zero when healthy
	WalletDrift int
}

// StatsService computes read-only projections
// Each call reads one snapshot, so the figures agree with each other
type StatsService struct {
	storage repository.Storage
	now     func() time.Time
}

func NewService(storage repository.Storage) *StatsService {
	return &StatsService{
		storage: storage,
		now:     time.Now,
	}
}

func (s *StatsService) Attendance(ctx context.Context) ([]AttendanceRow, error) {
	r, err := s.Report(ctx)
	return r.Attendance, err
}

func (s *StatsService) DrinkSpend(ctx context.Context) ([]DrinkSpendRow, error) {
	r, err := s.Report(ctx)
	return r.DrinkSpend, err
}

func (s *StatsService) ProductOrders(ctx context.Context) ([]ProductOrdersRow, error) {
	r, err := s.Report(ctx)
	return r.ProductOrders, err
}

func (s *StatsService) WalletRanking(ctx context.Context) ([]RankingRow, error) {
	r, err := s.Report(ctx)
	return r.WalletRanking, err
}

func (s *StatsService) Report(ctx context.Context) (Report, error) {
	var r Report

	err := s.storage.Snapshot(ctx, func(snap repository.Storage) error {
		events, err := snap.Event().ListEvents(ctx)
		if err != nil {
			return err
		}
		members, err := snap.Member().ListMembers(ctx)
		if err != nil {
			return err
		}
		products, err := snap.Product().ListProducts(ctx)
		if err != nil {
			return err
		}
		bookings, err := snap.Booking().ListBookings(ctx, repository.ListBookingsOpts{})
		if err != nil {
			return err
		}

		r = Report{
			Attendance:    attendance(events),
			DrinkSpend:    drinkSpend(members, bookings),
			ProductOrders: productOrders(products, bookings),
			WalletRanking: walletRanking(members),
		}
		return nil
	})

	return r, err
}

func (s *StatsService) Dashboard(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	now := s.now()

	err := s.storage.Snapshot(ctx, func(snap repository.Storage) error {
		events, err := snap.Event().ListEvents(ctx)
		if err != nil {
			return err
		}
		members, err := snap.Member().ListMembers(ctx)
		if err != nil {
			return err
		}
		entries, err := snap.Ledger().ListEntries(ctx, repository.ListEntriesOpts{})
		if err != nil {
			return err
		}
		matches, err := snap.Match().ListMatches(ctx)
		if err != nil {
			return err
		}

		d = Dashboard{
			NextEvent:        nextEvent(events, now),
			PendingResponses: pendingResponses(events, members),
			LedgerTotal:      ledgerTotal(entries),
			WalletDrift:      walletDrift(members, entries),
		}
		if len(matches) > 0 {
			d.Live = &matches[0]
		}
		return nil
	})

	return d, err
}

func attendance(events []models.Event) []AttendanceRow {
	rows := make([]AttendanceRow, 0, len(events))
	for _, e := range events {
		counts := make(map[models.ResponseStatus]int)
		for _, resp := range e.Responses {
			counts[resp.Status]++
		}

		rows = append(rows, AttendanceRow{
			EventID:    e.ID,
			Title:      e.Title,
			Type:       e.Type,
			StartsAt:   e.StartsAt,
			Responses:  counts,
			LineupSize: len(e.Lineup),
		})
	}
	return rows
}

func drinkSpend(members []models.Member, bookings []models.Booking) []DrinkSpendRow {
	byMember := make(map[uuid.UUID][]models.Booking)
	for _, b := range bookings {
		byMember[b.MemberID] = append(byMember[b.MemberID], b)
	}

	rows := make([]DrinkSpendRow, 0, len(members))
	for _, m := range members {
		spend := decimal.Zero
		for _, b := range byMember[m.ID] {
			spend = models.RoundMoney(spend.Add(b.Total))
		}

		rows = append(rows, DrinkSpendRow{
			MemberID: m.ID,
			Name:     m.Name,
			Bookings: len(byMember[m.ID]),
			Spend:    spend,
		})
	}
	return rows
}

func productOrders(products []models.Product, bookings []models.Booking) []ProductOrdersRow {
	ordered := make(map[uuid.UUID]int, len(products))
	for _, b := range bookings {
		ordered[b.ProductID] += b.Quantity
	}

	rows := make([]ProductOrdersRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, ProductOrdersRow{
			ProductID: p.ID,
			Name:      p.Name,
			Ordered:   ordered[p.ID],
		})
	}
	return rows
}

// walletRanking orders members by wallet, richest first; equal wallets keep registration order
func walletRanking(members []models.Member) []RankingRow {
	sorted := append([]models.Member(nil), members...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Wallet.GreaterThan(sorted[j].Wallet)
	})

	rows := make([]RankingRow, 0, len(sorted))
	for i, m := range sorted {
		rows = append(rows, RankingRow{
			Rank:     i + 1,
			MemberID: m.ID,
			Name:     m.Name,
			Balance:  m.Wallet,
		})
	}
	return rows
}

// nextEvent is the earliest event starting after now; canceled fixtures are skipped
func nextEvent(events []models.Event, now time.Time) *models.Event {
	var next *models.Event
	for i := range events {
		e := &events[i]
		if e.Status == models.EventStatusCanceled || !e.StartsAt.After(now) {
			continue
		}
		if next == nil || e.StartsAt.Before(next.StartsAt) {
			next = e
		}
	}
	return next
}

func pendingResponses(events []models.Event, members []models.Member) []PendingRow {
	rows := make([]PendingRow, 0, len(events))
	for _, e := range events {
		answered := 0
		for _, m := range members {
			if _, ok := e.Responses[m.ID]; ok {
				answered++
			}
		}

		rows = append(rows, PendingRow{
			EventID:  e.ID,
			Title:    e.Title,
			Awaiting: len(members) - answered,
		})
	}
	return rows
}

func ledgerTotal(entries []models.LedgerEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = models.RoundMoney(total.Add(e.Amount))
	}
	return total
}

func walletDrift(members []models.Member, entries []models.LedgerEntry) int {
	sums := make(map[uuid.UUID]decimal.Decimal, len(members))
	for _, e := range entries {
		sums[e.MemberID] = models.RoundMoney(sums[e.MemberID].Add(e.Amount))
	}

	drift := 0
	for _, m := range members {
		if !m.Wallet.Equal(sums[m.ID]) {
			drift++
		}
	}
	return drift
}
