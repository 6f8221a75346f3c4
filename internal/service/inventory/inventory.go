package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/clubhouse/internal/apperrors"
	"github.com/nkiryanov/clubhouse/internal/logger"
	"github.com/nkiryanov/clubhouse/internal/models"
	"github.com/nkiryanov/clubhouse/internal/notify"
	"github.com/nkiryanov/clubhouse/internal/repository"
)

type walletPoster interface {
	Post(ctx context.Context, tx repository.Storage, memberID uuid.UUID, kind models.EntryKind, description string, amount decimal.Decimal) (models.LedgerEntry, error)
}

// InventoryService owns product stock: nothing else changes it
type InventoryService struct {
	storage  repository.Storage
	wallet   walletPoster
	notifier notify.Notifier
	logger   logger.Logger
}

func NewService(storage repository.Storage, wallet walletPoster, notifier notify.Notifier, l logger.Logger) *InventoryService {
	if notifier == nil {
		notifier = notify.Discard
	}

	return &InventoryService{
		storage:  storage,
		wallet:   wallet,
		notifier: notifier,
		logger:   l,
	}
}

func DrinkDescription(productName string, quantity int) string {
	return fmt.Sprintf("Getränk: %s x%d", productName, quantity)
}

// Book sells quantity of product to member
// Stock decrement, booking and drink ledger entry happen together or not at all
func (s *InventoryService) Book(ctx context.Context, memberID uuid.UUID, productID uuid.UUID, quantity int) (models.Booking, error) {
	if quantity <= 0 {
		return models.Booking{}, apperrors.ErrInvalidQuantity
	}

	var booking models.Booking
	var entry models.LedgerEntry

	err := s.storage.InTx(ctx, func(tx repository.Storage) error {
		// Product row first, member row (locked by wallet) second
		product, err := tx.Product().GetProduct(ctx, productID, true)
		if err != nil {
			return err
		}

		if product.Stock < quantity {
			return apperrors.ErrInsufficientStock
		}

		if _, err := tx.Product().AdjustStock(ctx, productID, -quantity); err != nil {
			return err
		}

		total := models.RoundMoney(product.Price.Mul(decimal.NewFromInt(int64(quantity))))

		entry, err = s.wallet.Post(ctx, tx, memberID, models.EntryKindDrink, DrinkDescription(product.Name, quantity), total.Neg())
		if err != nil {
			return fmt.Errorf("can't post drink entry. Err: %w", err)
		}

		booking, err = tx.Booking().CreateBooking(ctx, models.Booking{
			ID:            uuid.New(),
			BookedAt:      entry.CreatedAt,
			MemberID:      memberID,
			ProductID:     productID,
			LedgerEntryID: entry.ID,
			Quantity:      quantity,
			Total:         total,
		})
		if err != nil {
			return fmt.Errorf("can't create booking. Err: %w", err)
		}

		return nil
	})
	if err != nil {
		return models.Booking{}, err
	}

	s.logger.Debug("Drink booked", "booking_id", booking.ID, "product_id", productID, "member_id", memberID, "quantity", quantity)
	s.notifier.Notify(notify.TopicLedgerEntryAppended, notify.NewEntryPayload(entry))

	return booking, nil
}

func (s *InventoryService) CreateProduct(ctx context.Context, name string, price decimal.Decimal, stock int) (models.Product, error) {
	if price.IsNegative() {
		return models.Product{}, apperrors.ErrInvalidAmount
	}
	if stock < 0 {
		return models.Product{}, apperrors.ErrInvalidQuantity
	}

	return s.storage.Product().CreateProduct(ctx, models.Product{
		ID:    uuid.New(),
		Name:  name,
		Price: models.RoundMoney(price),
		Stock: stock,
	})
}

func (s *InventoryService) GetProduct(ctx context.Context, id uuid.UUID) (models.Product, error) {
	return s.storage.Product().GetProduct(ctx, id, false)
}

func (s *InventoryService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.storage.Product().ListProducts(ctx)
}

// Restock adds quantity to product stock
func (s *InventoryService) Restock(ctx context.Context, productID uuid.UUID, quantity int) (models.Product, error) {
	if quantity <= 0 {
		return models.Product{}, apperrors.ErrInvalidQuantity
	}

	return s.storage.Product().AdjustStock(ctx, productID, quantity)
}

func (s *InventoryService) ListBookings(ctx context.Context, opts repository.ListBookingsOpts) ([]models.Booking, error) {
	return s.storage.Booking().ListBookings(ctx, opts)
}
