package memory

import (
	"context"
	"math"

	"github.com/google/uuid"

	"github.com/nkiryanov/clubhouse/internal/apperrors"
	"github.com/nkiryanov/clubhouse/internal/models"
	"github.com/nkiryanov/clubhouse/internal/repository"
)

type ProductRepo struct {
	s *Storage
}

func (r *ProductRepo) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	p.Price = models.RoundMoney(p.Price)

	err := r.s.do(ctx, func(sess *session) error {
		t := r.s.t
		t.mu.Lock()
		defer t.mu.Unlock()

		rw := &row[models.Product]{val: p}
		sess.lock(&rw.mu)

		t.products[p.ID] = rw
		t.productOrder = append(t.productOrder, p.ID)

		sess.onRollback(func() {
			t.mu.Lock()
			defer t.mu.Unlock()

			rw.gone = true
			delete(t.products, p.ID)
			t.productOrder = without(t.productOrder, p.ID)
		})

		return nil
	})

	if err != nil {
		return models.Product{}, err
	}

	return p, nil
}

func (r *ProductRepo) GetProduct(ctx context.Context, id uuid.UUID, forUpdate bool) (models.Product, error) {
	var p models.Product

	err := r.s.do(ctx, func(sess *session) error {
		rw, ok := r.s.t.productRow(id)
		if !ok {
			return apperrors.ErrProductNotFound
		}

		var gone bool
		if forUpdate {
			sess.lock(&rw.mu)
			p, gone = rw.val, rw.gone
		} else {
			sess.read(&rw.mu, func() { p, gone = rw.val, rw.gone })
		}

		if gone {
			return apperrors.ErrProductNotFound
		}
		return nil
	})

	return p, err
}

func (r *ProductRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product

	err := r.s.do(ctx, func(sess *session) error {
		t := r.s.t

		t.mu.RLock()
		rows := make([]*row[models.Product], 0, len(t.productOrder))
		for _, id := range t.productOrder {
			rows = append(rows, t.products[id])
		}
		t.mu.RUnlock()

		products = make([]models.Product, 0, len(rows))
		for _, rw := range rows {
			sess.read(&rw.mu, func() {
				if !rw.gone {
					products = append(products, rw.val)
				}
			})
		}

		return nil
	})

	return products, err
}

func (r *ProductRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (models.Product, error) {
	var p models.Product

	err := r.s.do(ctx, func(sess *session) error {
		rw, ok := r.s.t.productRow(id)
		if !ok {
			return apperrors.ErrProductNotFound
		}

		sess.lock(&rw.mu)
		if rw.gone {
			return apperrors.ErrProductNotFound
		}

		if delta > 0 && rw.val.Stock > math.MaxInt-delta {
			return apperrors.ErrInvalidQuantity
		}
		if rw.val.Stock+delta < 0 {
			return apperrors.ErrInsufficientStock
		}

		prev := rw.val.Stock
		rw.val.Stock += delta
		sess.onRollback(func() { rw.val.Stock = prev })

		p = rw.val
		return nil
	})

	return p, err
}

type BookingRepo struct {
	s *Storage
}

// CreateBooking buffers the booking in the transaction; it becomes visible to others on commit
func (r *BookingRepo) CreateBooking(ctx context.Context, b models.Booking) (models.Booking, error) {
	b.Total = models.RoundMoney(b.Total)

	err := r.s.do(ctx, func(sess *session) error {
		sess.pendingBookings = append(sess.pendingBookings, b)
		return nil
	})

	if err != nil {
		return models.Booking{}, err
	}

	return b, nil
}

func (r *BookingRepo) ListBookings(ctx context.Context, opts repository.ListBookingsOpts) ([]models.Booking, error) {
	var bookings []models.Booking

	match := func(b models.Booking) bool {
		return opts.MemberID == nil || b.MemberID == *opts.MemberID
	}

	err := r.s.do(ctx, func(sess *session) error {
		t := r.s.t

		t.mu.RLock()
		defer t.mu.RUnlock()

		bookings = make([]models.Booking, 0)
		for _, b := range t.bookings {
			if match(b) {
				bookings = append(bookings, b)
			}
		}
		for _, b := range sess.pendingBookings {
			if match(b) {
				bookings = append(bookings, b)
			}
		}

		return nil
	})

	return bookings, err
}
