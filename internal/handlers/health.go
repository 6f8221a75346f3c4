package handlers

import (
	"net/http"
	"time"

	"github.com/nkiryanov/clubhouse/internal/handlers/render"
	"github.com/nkiryanov/clubhouse/internal/models"
)

func handleHealth() http.Handler {
	type response struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		render.JSON(w, response{Status: "ok", Timestamp: time.Now().UTC()})
	})
}

func handleRoles() http.Handler {
	type response struct {
		Roles []models.Role `json:"roles"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		render.JSON(w, response{Roles: models.Roles})
	})
}
