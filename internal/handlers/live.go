package handlers

import (
	"net/http"

	"github.com/nkiryanov/clubhouse/internal/handlers/render"
	"github.com/nkiryanov/clubhouse/internal/logger"
	"github.com/nkiryanov/clubhouse/internal/models"
	"github.com/nkiryanov/clubhouse/internal/service/ticker"
)

const maxMatchIDLength = 64

type tickerResponse struct {
	Ticker matchView `json:"ticker"`
}

func matchID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("matchId")
	if len(id) > maxMatchIDLength {
		render.FieldError(w, "matchId", "Value is too long")
		return "", false
	}
	return id, true
}

func handleListMatches(tickerService tickerService, l logger.Logger) http.Handler {
	type response struct {
		Matches []matchView `json:"matches"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		matches, err := tickerService.ListMatches(r.Context())
		if err != nil {
			serviceError(w, err, l, "Failed to list matches")
			return
		}

		views := make([]matchView, 0, len(matches))
		for _, m := range matches {
			views = append(views, newMatchView(m))
		}
		render.JSON(w, response{Matches: views})
	})
}

func handleGetMatch(tickerService tickerService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := matchID(w, r)
		if !ok {
			return
		}

		m, err := tickerService.GetMatch(r.Context(), id)
		if err != nil {
			serviceError(w, err, l, "Failed to get match")
			return
		}

		render.JSON(w, tickerResponse{Ticker: newMatchView(m)})
	})
}

// Event payload is a variant tagged by type: goals and cards need the team, other types may omit it
func handlePostMatchEvent(tickerService tickerService, l logger.Logger) http.Handler {
	type request struct {
		Home   string `json:"home" validate:"max=100"`
		Away   string `json:"away" validate:"max=100"`
		Minute int    `json:"minute" validate:"gte=0,lte=130"`
		Type   string `json:"type" validate:"required,oneof=goal card_yellow card_red substitution comment"`
		Team   string `json:"team" validate:"required_if=Type goal,required_if=Type card_yellow,required_if=Type card_red,team"`
		Player string `json:"player" validate:"max=100"`
		Note   string `json:"note" validate:"max=500"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := matchID(w, r)
		if !ok {
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		m, err := tickerService.PostEvent(r.Context(), id, ticker.EventInput{
			Home:   req.Home,
			Away:   req.Away,
			Minute: req.Minute,
			Type:   models.MatchEventType(req.Type),
			Team:   req.Team,
			Player: req.Player,
			Note:   req.Note,
		})
		if err != nil {
			serviceError(w, err, l, "Failed to post match event")
			return
		}

		render.Created(w, tickerResponse{Ticker: newMatchView(m)})
	})
}

func handleSetMatchStatus(tickerService tickerService, l logger.Logger) http.Handler {
	type request struct {
		Status string `json:"status" validate:"required,notblank,max=10"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := matchID(w, r)
		if !ok {
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		m, err := tickerService.SetStatus(r.Context(), id, req.Status)
		if err != nil {
			serviceError(w, err, l, "Failed to set match status")
			return
		}

		render.JSON(w, tickerResponse{Ticker: newMatchView(m)})
	})
}
