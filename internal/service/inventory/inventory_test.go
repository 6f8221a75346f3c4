package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/clubhouse/internal/apperrors"
	"github.com/nkiryanov/clubhouse/internal/logger"
	"github.com/nkiryanov/clubhouse/internal/models"
	"github.com/nkiryanov/clubhouse/internal/repository"
	"github.com/nkiryanov/clubhouse/internal/repository/memory"
	"github.com/nkiryanov/clubhouse/internal/service/wallet"
	"github.com/nkiryanov/clubhouse/internal/testutil"
)

type failingWallet struct{}

func (failingWallet) Post(context.Context, repository.Storage, uuid.UUID, models.EntryKind, string, decimal.Decimal) (models.LedgerEntry, error) {
	return models.LedgerEntry{}, errors.New("ledger unavailable")
}

func TestInventory(t *testing.T) {
	type fixture struct {
		s       *InventoryService
		storage repository.Storage
		wallet  *wallet.WalletService
		member  models.Member
		product models.Product
	}

	// Member M with balance 50 and product P with price 2.5 and stock 10
	setup := func(t *testing.T) fixture {
		storage := memory.NewStorage()
		l := logger.NewNoOpLogger()
		w := wallet.NewService(storage, nil, l)
		s := NewService(storage, w, nil, l)

		m, err := storage.Member().CreateMember(t.Context(), models.Member{ID: uuid.New(), CreatedAt: time.Now(), Name: "M"})
		require.NoError(t, err)
		_, err = w.AppendEntry(t.Context(), m.ID, models.EntryKindBalance, "Anfangsbestand", decimal.NewFromInt(50))
		require.NoError(t, err)

		p, err := s.CreateProduct(t.Context(), "Isodrink", decimal.RequireFromString("2.5"), 10)
		require.NoError(t, err)

		return fixture{s: s, storage: storage, wallet: w, member: m, product: p}
	}

	memberWallet := func(t *testing.T, f fixture) decimal.Decimal {
		m, err := f.storage.Member().GetMember(t.Context(), f.member.ID, false)
		require.NoError(t, err)
		return m.Wallet
	}

	t.Run("Book", func(t *testing.T) {
		t.Run("book ok", func(t *testing.T) {
			f := setup(t)

			booking, err := f.s.Book(t.Context(), f.member.ID, f.product.ID, 4)

			require.NoError(t, err)
			testutil.RequireDecEqual(t, "10", booking.Total)
			require.Equal(t, 4, booking.Quantity)

			p, err := f.s.GetProduct(t.Context(), f.product.ID)
			require.NoError(t, err)
			require.Equal(t, 6, p.Stock)

			testutil.RequireDecEqual(t, "40", memberWallet(t, f))

			drinks, err := f.wallet.ListEntries(t.Context(), repository.ListEntriesOpts{Kinds: []models.EntryKind{models.EntryKindDrink}})
			require.NoError(t, err)
			require.Len(t, drinks, 1)
			testutil.RequireDecEqual(t, "-10", drinks[0].Amount)
			require.Equal(t, "Getränk: Isodrink x4", drinks[0].Description)
			require.Equal(t, booking.LedgerEntryID, drinks[0].ID)
		})

		t.Run("insufficient stock changes nothing", func(t *testing.T) {
			f := setup(t)
			_, err := f.s.Restock(t.Context(), f.product.ID, 1) // stock 11
			require.NoError(t, err)
			_, err = f.s.Book(t.Context(), f.member.ID, f.product.ID, 9) // stock 2
			require.NoError(t, err)
			before := memberWallet(t, f)

			_, err = f.s.Book(t.Context(), f.member.ID, f.product.ID, 5)

			require.ErrorIs(t, err, apperrors.ErrInsufficientStock)
			p, err := f.s.GetProduct(t.Context(), f.product.ID)
			require.NoError(t, err)
			require.Equal(t, 2, p.Stock)
			bookings, err := f.s.ListBookings(t.Context(), repository.ListBookingsOpts{})
			require.NoError(t, err)
			require.Len(t, bookings, 1, "no booking for failed attempt")
			require.True(t, before.Equal(memberWallet(t, f)))
		})

		t.Run("product not found", func(t *testing.T) {
			f := setup(t)

			_, err := f.s.Book(t.Context(), f.member.ID, uuid.New(), 1)

			require.ErrorIs(t, err, apperrors.ErrProductNotFound)
		})

		t.Run("quantity must be positive", func(t *testing.T) {
			f := setup(t)

			_, err := f.s.Book(t.Context(), f.member.ID, f.product.ID, 0)

			require.ErrorIs(t, err, apperrors.ErrInvalidQuantity)
		})

		t.Run("total rounded to cents", func(t *testing.T) {
			f := setup(t)
			p, err := f.s.CreateProduct(t.Context(), "Kaffee", decimal.RequireFromString("0.333"), 10)
			require.NoError(t, err)
			testutil.RequireDecEqual(t, "0.33", p.Price)

			booking, err := f.s.Book(t.Context(), f.member.ID, p.ID, 3)

			require.NoError(t, err)
			testutil.RequireDecEqual(t, "0.99", booking.Total)
		})

		t.Run("failed ledger post rolls back stock", func(t *testing.T) {
			f := setup(t)
			s := NewService(f.storage, failingWallet{}, nil, logger.NewNoOpLogger())

			_, err := s.Book(t.Context(), f.member.ID, f.product.ID, 3)

			require.Error(t, err)
			p, err := s.GetProduct(t.Context(), f.product.ID)
			require.NoError(t, err)
			require.Equal(t, 10, p.Stock)
			bookings, err := s.ListBookings(t.Context(), repository.ListBookingsOpts{})
			require.NoError(t, err)
			require.Empty(t, bookings)
		})

		t.Run("concurrent bookings never oversell", func(t *testing.T) {
			f := setup(t)

			var wg sync.WaitGroup
			var mu sync.Mutex
			okCount := 0
			for range 30 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, err := f.s.Book(t.Context(), f.member.ID, f.product.ID, 1); err == nil {
						mu.Lock()
						okCount++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			require.Equal(t, 10, okCount)
			p, err := f.s.GetProduct(t.Context(), f.product.ID)
			require.NoError(t, err)
			require.Equal(t, 0, p.Stock)

			r, err := f.wallet.Reconcile(t.Context(), f.member.ID)
			require.NoError(t, err)
			require.True(t, r.Consistent())
			testutil.RequireDecEqual(t, "25", r.Wallet)

			bookings, err := f.s.ListBookings(t.Context(), repository.ListBookingsOpts{MemberID: &f.member.ID})
			require.NoError(t, err)
			require.Len(t, bookings, 10)
		})
	})

	t.Run("CreateProduct", func(t *testing.T) {
		f := setup(t)

		_, err := f.s.CreateProduct(t.Context(), "Bad", decimal.NewFromInt(-1), 1)
		require.ErrorIs(t, err, apperrors.ErrInvalidAmount)

		_, err = f.s.CreateProduct(t.Context(), "Bad", decimal.NewFromInt(1), -1)
		require.ErrorIs(t, err, apperrors.ErrInvalidQuantity)

		products, err := f.s.ListProducts(t.Context())
		require.NoError(t, err)
		require.Len(t, products, 1)
	})

	t.Run("Restock", func(t *testing.T) {
		f := setup(t)

		p, err := f.s.Restock(t.Context(), f.product.ID, 5)
		require.NoError(t, err)
		require.Equal(t, 15, p.Stock)

		_, err = f.s.Restock(t.Context(), f.product.ID, 0)
		require.ErrorIs(t, err, apperrors.ErrInvalidQuantity)

		_, err = f.s.Restock(t.Context(), uuid.New(), 1)
		require.ErrorIs(t, err, apperrors.ErrProductNotFound)
	})
}
