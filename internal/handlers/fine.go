package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/clubhouse/internal/handlers/render"
	"github.com/nkiryanov/clubhouse/internal/logger"
)

func handleListFines(fineService fineService, l logger.Logger) http.Handler {
	type response struct {
		Catalog []fineView `json:"catalog"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fines, err := fineService.ListFines(r.Context())
		if err != nil {
			serviceError(w, err, l, "Failed to list fines")
			return
		}

		views := make([]fineView, 0, len(fines))
		for _, f := range fines {
			views = append(views, newFineView(f))
		}
		render.JSON(w, response{Catalog: views})
	})
}

func handleCreateFine(fineService fineService, l logger.Logger) http.Handler {
	type request struct {
		Reason string          `json:"reason" validate:"required,notblank,max=200"`
		Amount decimal.Decimal `json:"amount" validate:"gt=0"`
	}

	type response struct {
		Fine fineView `json:"fine"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		f, err := fineService.CreateFine(r.Context(), req.Reason, req.Amount)
		if err != nil {
			serviceError(w, err, l, "Failed to create fine")
			return
		}

		render.Created(w, response{Fine: newFineView(f)})
	})
}

func handleAssignFine(fineService fineService, l logger.Logger) http.Handler {
	type request struct {
		UserID uuid.UUID `json:"userId" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		entry, err := fineService.AssignFine(r.Context(), req.UserID, id)
		if err != nil {
			serviceError(w, err, l, "Failed to assign fine")
			return
		}

		render.Created(w, entryResponse{Entry: newEntryView(entry)})
	})
}
