package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/clubhouse/internal/handlers/render"
	"github.com/nkiryanov/clubhouse/internal/logger"
	"github.com/nkiryanov/clubhouse/internal/models"
	"github.com/nkiryanov/clubhouse/internal/repository"
)

type entryResponse struct {
	Entry entryView `json:"entry"`
}

// entryKinds lists kinds accepted in ?kind= filter
var entryKinds = map[string]models.EntryKind{
	string(models.EntryKindBalance):    models.EntryKindBalance,
	string(models.EntryKindDeposit):    models.EntryKindDeposit,
	string(models.EntryKindDrink):      models.EntryKindDrink,
	string(models.EntryKindFine):       models.EntryKindFine,
	string(models.EntryKindDues):       models.EntryKindDues,
	string(models.EntryKindAdjustment): models.EntryKindAdjustment,
}

func handleListEntries(walletService walletService, l logger.Logger) http.Handler {
	type response struct {
		Ledger []entryView `json:"ledger"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		var opts repository.ListEntriesOpts
		if v := query.Get("userId"); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				render.FieldError(w, "userId", "Invalid id")
				return
			}
			opts.MemberID = &id
		}
		for _, v := range query["kind"] {
			for _, name := range strings.Split(v, ",") {
				kind, ok := entryKinds[strings.TrimSpace(name)]
				if !ok {
					render.FieldError(w, "kind", "Invalid value")
					return
				}
				opts.Kinds = append(opts.Kinds, kind)
			}
		}

		entries, err := walletService.ListEntries(r.Context(), opts)
		if err != nil {
			serviceError(w, err, l, "Failed to list ledger")
			return
		}

		render.JSON(w, response{Ledger: newEntryViews(entries)})
	})
}

// Drinks and fines have own endpoints, so they are not accepted here
func handlePostEntry(walletService walletService, l logger.Logger) http.Handler {
	type request struct {
		UserID      uuid.UUID        `json:"userId" validate:"required"`
		Kind        string           `json:"kind" validate:"required,oneof=balance deposit dues adjustment"`
		Description string           `json:"description" validate:"required,notblank,max=200"`
		Amount      *decimal.Decimal `json:"amount" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		entry, err := walletService.AppendEntry(r.Context(), req.UserID, models.EntryKind(req.Kind), req.Description, *req.Amount)
		if err != nil {
			serviceError(w, err, l, "Failed to append ledger entry")
			return
		}

		render.Created(w, entryResponse{Entry: newEntryView(entry)})
	})
}

func handleStatement(walletService walletService, l logger.Logger) http.Handler {
	type response struct {
		User    memberView  `json:"user"`
		Balance float64     `json:"balance"`
		Entries []entryView `json:"entries"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		st, err := walletService.Statement(r.Context(), id)
		if err != nil {
			serviceError(w, err, l, "Failed to get wallet")
			return
		}

		render.JSON(w, response{
			User:    newMemberView(st.Member),
			Balance: money(st.Balance),
			Entries: newEntryViews(st.Entries),
		})
	})
}

func handleReconcile(walletService walletService, l logger.Logger) http.Handler {
	type response struct {
		UserID     uuid.UUID `json:"userId"`
		Wallet     float64   `json:"wallet"`
		LedgerSum  float64   `json:"ledgerSum"`
		Drift      float64   `json:"drift"`
		Consistent bool      `json:"consistent"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		rec, err := walletService.Reconcile(r.Context(), id)
		if err != nil {
			serviceError(w, err, l, "Failed to reconcile wallet")
			return
		}

		render.JSON(w, response{
			UserID:     rec.MemberID,
			Wallet:     money(rec.Wallet),
			LedgerSum:  money(rec.LedgerSum),
			Drift:      money(rec.Drift),
			Consistent: rec.Consistent(),
		})
	})
}
