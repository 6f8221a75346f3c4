package handlers

import (
	"net/http"

	"github.com/nkiryanov/clubhouse/internal/handlers/render"
	"github.com/nkiryanov/clubhouse/internal/logger"
	"github.com/nkiryanov/clubhouse/internal/service/club"
)

type subscriptionResponse struct {
	Subscription subscriptionView `json:"subscription"`
}

func handleListSubscriptions(clubService clubService, l logger.Logger) http.Handler {
	type response struct {
		Subscriptions []subscriptionView `json:"subscriptions"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subs, err := clubService.ListSubscriptions(r.Context())
		if err != nil {
			serviceError(w, err, l, "Failed to list subscriptions")
			return
		}

		views := make([]subscriptionView, 0, len(subs))
		for _, s := range subs {
			views = append(views, newSubscriptionView(s))
		}
		render.JSON(w, response{Subscriptions: views})
	})
}

func handleCreateSubscription(clubService clubService, l logger.Logger) http.Handler {
	type request struct {
		Club     string `json:"club" validate:"required,notblank,max=100"`
		Plan     string `json:"plan" validate:"required,notblank,max=50"`
		Interval string `json:"interval" validate:"required,oneof=monthly yearly"`
		Seats    int    `json:"seats" validate:"gte=0"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		s, err := clubService.CreateSubscription(r.Context(), club.SubscriptionParams{
			Club:     req.Club,
			Plan:     req.Plan,
			Interval: req.Interval,
			Seats:    req.Seats,
		})
		if err != nil {
			serviceError(w, err, l, "Failed to create subscription")
			return
		}

		render.Created(w, subscriptionResponse{Subscription: newSubscriptionView(s)})
	})
}

func handleCancelSubscription(clubService clubService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		s, err := clubService.CancelSubscription(r.Context(), id)
		if err != nil {
			serviceError(w, err, l, "Failed to cancel subscription")
			return
		}

		render.JSON(w, subscriptionResponse{Subscription: newSubscriptionView(s)})
	})
}
