package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/clubhouse/internal/handlers/render"
	"github.com/nkiryanov/clubhouse/internal/logger"
)

func handleStats(statsService statsService, l logger.Logger) http.Handler {
	type attendance struct {
		ID         uuid.UUID      `json:"id"`
		Title      string         `json:"title"`
		Type       string         `json:"type"`
		DateTime   time.Time      `json:"dateTime"`
		Responses  map[string]int `json:"responses"`
		LineupSize int            `json:"lineupSize"`
	}

	type drinks struct {
		UserID      uuid.UUID `json:"userId"`
		Name        string    `json:"name"`
		TotalDrinks int       `json:"totalDrinks"`
		Spend       float64   `json:"spend"`
	}

	type products struct {
		ProductID uuid.UUID `json:"productId"`
		Name      string    `json:"name"`
		Ordered   int       `json:"ordered"`
	}

	type ranking struct {
		Rank    int       `json:"rank"`
		UserID  uuid.UUID `json:"userId"`
		Name    string    `json:"name"`
		Balance float64   `json:"balance"`
	}

	type response struct {
		Attendance     []attendance `json:"attendance"`
		DrinkByPlayer  []drinks     `json:"drinkByPlayer"`
		DrinkByProduct []products   `json:"drinkByProduct"`
		WalletRanking  []ranking    `json:"walletRanking"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		report, err := statsService.Report(r.Context())
		if err != nil {
			serviceError(w, err, l, "Failed to compute stats")
			return
		}

		resp := response{
			Attendance:     make([]attendance, 0, len(report.Attendance)),
			DrinkByPlayer:  make([]drinks, 0, len(report.DrinkSpend)),
			DrinkByProduct: make([]products, 0, len(report.ProductOrders)),
			WalletRanking:  make([]ranking, 0, len(report.WalletRanking)),
		}
		for _, a := range report.Attendance {
			counts := make(map[string]int, len(a.Responses))
			for status, n := range a.Responses {
				counts[string(status)] = n
			}
			resp.Attendance = append(resp.Attendance, attendance{
				ID:         a.EventID,
				Title:      a.Title,
				Type:       string(a.Type),
				DateTime:   a.StartsAt,
				Responses:  counts,
				LineupSize: a.LineupSize,
			})
		}
		for _, d := range report.DrinkSpend {
			resp.DrinkByPlayer = append(resp.DrinkByPlayer, drinks{
				UserID:      d.MemberID,
				Name:        d.Name,
				TotalDrinks: d.Bookings,
				Spend:       money(d.Spend),
			})
		}
		for _, p := range report.ProductOrders {
			resp.DrinkByProduct = append(resp.DrinkByProduct, products{ProductID: p.ProductID, Name: p.Name, Ordered: p.Ordered})
		}
		for _, rank := range report.WalletRanking {
			resp.WalletRanking = append(resp.WalletRanking, ranking{
				Rank:    rank.Rank,
				UserID:  rank.MemberID,
				Name:    rank.Name,
				Balance: money(rank.Balance),
			})
		}

		render.JSON(w, resp)
	})
}

// handleDrinkStats reports units ordered per product, keyed by product id
func handleDrinkStats(statsService statsService, l logger.Logger) http.Handler {
	type response struct {
		Ordered map[string]int `json:"ordered"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		report, err := statsService.Report(r.Context())
		if err != nil {
			serviceError(w, err, l, "Failed to compute drink stats")
			return
		}

		resp := response{Ordered: make(map[string]int, len(report.ProductOrders))}
		for _, p := range report.ProductOrders {
			resp.Ordered[p.ProductID.String()] = p.Ordered
		}

		render.JSON(w, resp)
	})
}

func handleDashboard(statsService statsService, l logger.Logger) http.Handler {
	type pending struct {
		EventID  uuid.UUID `json:"eventId"`
		Title    string    `json:"title"`
		Awaiting int       `json:"awaiting"`
	}

	type response struct {
		NextEvent        *eventView `json:"nextEvent"`
		PendingResponses []pending  `json:"pendingResponses"`
		LedgerTotal      float64    `json:"ledgerTotal"`
		Live             *matchView `json:"live"`
		WalletDrift      int        `json:"walletDrift"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d, err := statsService.Dashboard(r.Context())
		if err != nil {
			serviceError(w, err, l, "Failed to build dashboard")
			return
		}

		resp := response{
			PendingResponses: make([]pending, 0, len(d.PendingResponses)),
			LedgerTotal:      money(d.LedgerTotal),
			WalletDrift:      d.WalletDrift,
		}
		if d.NextEvent != nil {
			v := newEventView(*d.NextEvent)
			resp.NextEvent = &v
		}
		if d.Live != nil {
			v := newMatchView(*d.Live)
			resp.Live = &v
		}
		for _, p := range d.PendingResponses {
			resp.PendingResponses = append(resp.PendingResponses, pending{EventID: p.EventID, Title: p.Title, Awaiting: p.Awaiting})
		}
		if d.WalletDrift > 0 {
			l.Warn("Wallets drifted from ledger", "members", d.WalletDrift)
		}

		render.JSON(w, resp)
	})
}
