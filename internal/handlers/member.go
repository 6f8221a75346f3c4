package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/nkiryanov/clubhouse/internal/handlers/render"
	"github.com/nkiryanov/clubhouse/internal/logger"
	"github.com/nkiryanov/clubhouse/internal/models"
	"github.com/nkiryanov/clubhouse/internal/service/member"
)

type memberResponse struct {
	User memberView `json:"user"`
}

func handleListMembers(memberService memberService, l logger.Logger) http.Handler {
	type response struct {
		Users []memberView `json:"users"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		members, err := memberService.ListMembers(r.Context())
		if err != nil {
			serviceError(w, err, l, "Failed to list members")
			return
		}

		users := make([]memberView, 0, len(members))
		for _, m := range members {
			users = append(users, newMemberView(m))
		}
		render.JSON(w, response{Users: users})
	})
}

func handleRegisterMember(memberService memberService, l logger.Logger) http.Handler {
	type request struct {
		Name         string          `json:"name" validate:"required,notblank,max=100"`
		Email        string          `json:"email" validate:"required,email"`
		PlayerNumber string          `json:"playerNumber" validate:"required,notblank,max=20"`
		Role         string          `json:"role" validate:"omitempty,oneof=player admin treasurer"`
		Wallet       decimal.Decimal `json:"wallet"`
		Description  string          `json:"walletDescription" validate:"max=200"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		m, err := memberService.Register(r.Context(), member.RegisterParams{
			Name:               req.Name,
			Email:              req.Email,
			MembershipNumber:   req.PlayerNumber,
			Role:               models.Role(req.Role),
			OpeningBalance:     req.Wallet,
			OpeningDescription: req.Description,
		})
		if err != nil {
			serviceError(w, err, l, "Failed to register member")
			return
		}

		render.Created(w, memberResponse{User: newMemberView(m)})
	})
}

func handleLookupMember(memberService memberService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m, err := memberService.Lookup(r.Context(), r.PathValue("identifier"))
		if err != nil {
			serviceError(w, err, l, "Failed to lookup member")
			return
		}

		render.JSON(w, memberResponse{User: newMemberView(m)})
	})
}

func handleChangeRole(memberService memberService, l logger.Logger) http.Handler {
	type request struct {
		Role string `json:"role" validate:"required,oneof=player admin treasurer"`
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

		m, err := memberService.ChangeRole(r.Context(), id, models.Role(req.Role))
		if err != nil {
			serviceError(w, err, l, "Failed to change role")
			return
		}

		render.JSON(w, memberResponse{User: newMemberView(m)})
	})
}
