package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/clubhouse/internal/handlers/render"
	"github.com/nkiryanov/clubhouse/internal/logger"
	"github.com/nkiryanov/clubhouse/internal/repository"
)

type productResponse struct {
	Product productView `json:"product"`
}

func handleListProducts(inventoryService inventoryService, l logger.Logger) http.Handler {
	type response struct {
		Products []productView `json:"products"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		products, err := inventoryService.ListProducts(r.Context())
		if err != nil {
			serviceError(w, err, l, "Failed to list products")
			return
		}

		views := make([]productView, 0, len(products))
		for _, p := range products {
			views = append(views, newProductView(p))
		}
		render.JSON(w, response{Products: views})
	})
}

func handleCreateProduct(inventoryService inventoryService, l logger.Logger) http.Handler {
	type request struct {
		Name  string          `json:"name" validate:"required,notblank,max=100"`
		Price decimal.Decimal `json:"price" validate:"gte=0"`
		Stock int             `json:"stock" validate:"gte=0"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		p, err := inventoryService.CreateProduct(r.Context(), req.Name, req.Price, req.Stock)
		if err != nil {
			serviceError(w, err, l, "Failed to create product")
			return
		}

		render.Created(w, productResponse{Product: newProductView(p)})
	})
}

func handleBook(inventoryService inventoryService, l logger.Logger) http.Handler {
	type request struct {
		UserID   uuid.UUID `json:"userId" validate:"required"`
		Quantity int       `json:"quantity" validate:"gt=0"`
	}

	type response struct {
		Booking bookingView `json:"booking"`
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

		b, err := inventoryService.Book(r.Context(), req.UserID, id, req.Quantity)
		if err != nil {
			serviceError(w, err, l, "Failed to book drink")
			return
		}

		render.Created(w, response{Booking: newBookingView(b)})
	})
}

func handleRestock(inventoryService inventoryService, l logger.Logger) http.Handler {
	type request struct {
		Quantity int `json:"quantity" validate:"gt=0"`
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

		p, err := inventoryService.Restock(r.Context(), id, req.Quantity)
		if err != nil {
			serviceError(w, err, l, "Failed to restock product")
			return
		}

		render.JSON(w, productResponse{Product: newProductView(p)})
	})
}

func handleListBookings(inventoryService inventoryService, l logger.Logger) http.Handler {
	type response struct {
		Bookings []bookingView `json:"bookings"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var opts repository.ListBookingsOpts
		if v := r.URL.Query().Get("userId"); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				render.FieldError(w, "userId", "Invalid id")
				return
			}
			opts.MemberID = &id
		}

		bookings, err := inventoryService.ListBookings(r.Context(), opts)
		if err != nil {
			serviceError(w, err, l, "Failed to list bookings")
			return
		}

		views := make([]bookingView, 0, len(bookings))
		for _, b := range bookings {
			views = append(views, newBookingView(b))
		}
		render.JSON(w, response{Bookings: views})
	})
}
