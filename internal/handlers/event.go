package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/clubhouse/internal/handlers/render"
	"github.com/nkiryanov/clubhouse/internal/logger"
	"github.com/nkiryanov/clubhouse/internal/models"
	"github.com/nkiryanov/clubhouse/internal/service/club"
)

type eventResponse struct {
	Event eventView `json:"event"`
}

func handleListEvents(clubService clubService, l logger.Logger) http.Handler {
	type response struct {
		Events []eventView `json:"events"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		events, err := clubService.ListEvents(r.Context())
		if err != nil {
			serviceError(w, err, l, "Failed to list events")
			return
		}

		views := make([]eventView, 0, len(events))
		for _, e := range events {
			views = append(views, newEventView(e))
		}
		render.JSON(w, response{Events: views})
	})
}

func handleGetEvent(clubService clubService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		e, err := clubService.GetEvent(r.Context(), id)
		if err != nil {
			serviceError(w, err, l, "Failed to get event")
			return
		}

		render.JSON(w, eventResponse{Event: newEventView(e)})
	})
}

func handleCreateEvent(clubService clubService, l logger.Logger) http.Handler {
	type request struct {
		Type             string    `json:"type" validate:"required,oneof=training match event"`
		Title            string    `json:"title" validate:"required,notblank,max=200"`
		Location         string    `json:"location" validate:"required,notblank,max=200"`
		DateTime         time.Time `json:"dateTime" validate:"required"`
		RequiresResponse bool      `json:"requiresResponse"`
		Status           string    `json:"status" validate:"max=20"`
		Notes            string    `json:"notes" validate:"max=1000"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		e, err := clubService.CreateEvent(r.Context(), club.EventParams{
			Type:             models.EventType(req.Type),
			Title:            req.Title,
			Location:         req.Location,
			StartsAt:         req.DateTime,
			RequiresResponse: req.RequiresResponse,
			Status:           req.Status,
			Notes:            req.Notes,
		})
		if err != nil {
			serviceError(w, err, l, "Failed to create event")
			return
		}

		render.Created(w, eventResponse{Event: newEventView(e)})
	})
}

func handleRespond(clubService clubService, l logger.Logger) http.Handler {
	type request struct {
		UserID uuid.UUID `json:"userId" validate:"required"`
		Status string    `json:"status" validate:"required,oneof=accepted tentative declined"`
		Note   string    `json:"note" validate:"max=500"`
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

		e, err := clubService.Respond(r.Context(), id, req.UserID, models.ResponseStatus(req.Status), req.Note)
		if err != nil {
			serviceError(w, err, l, "Failed to store response")
			return
		}

		render.JSON(w, eventResponse{Event: newEventView(e)})
	})
}

func handleSetLineup(clubService clubService, l logger.Logger) http.Handler {
	type request struct {
		Lineup []uuid.UUID `json:"lineup" validate:"max=50,dive,required"`
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

		e, err := clubService.SetLineup(r.Context(), id, req.Lineup)
		if err != nil {
			serviceError(w, err, l, "Failed to set lineup")
			return
		}

		render.JSON(w, eventResponse{Event: newEventView(e)})
	})
}
