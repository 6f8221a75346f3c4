package fine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/clubhouse/internal/apperrors"
	"github.com/nkiryanov/clubhouse/internal/models"
	"github.com/nkiryanov/clubhouse/internal/notify"
	"github.com/nkiryanov/clubhouse/internal/repository"
)

type walletPoster interface {
	Post(ctx context.Context, tx repository.Storage, memberID uuid.UUID, kind models.EntryKind, description string, amount decimal.Decimal) (models.LedgerEntry, error)
}

type FineService struct {
	storage  repository.Storage
	wallet   walletPoster
	notifier notify.Notifier
}

func NewService(storage repository.Storage, wallet walletPoster, notifier notify.Notifier) *FineService {
	if notifier == nil {
		notifier = notify.Discard
	}

	return &FineService{
		storage:  storage,
		wallet:   wallet,
		notifier: notifier,
	}
}

// AssignFine charges member the catalog amount
// Assigning the same fine twice charges twice
func (s *FineService) AssignFine(ctx context.Context, memberID uuid.UUID, fineID uuid.UUID) (models.LedgerEntry, error) {
	var entry models.LedgerEntry

	err := s.storage.InTx(ctx, func(tx repository.Storage) error {
		f, err := tx.Fine().GetFine(ctx, fineID)
		if err != nil {
			return err
		}

		entry, err = s.wallet.Post(ctx, tx, memberID, models.EntryKindFine, "Strafe: "+f.Reason, f.Amount.Neg())
		if err != nil {
			return fmt.Errorf("can't post fine entry. Err: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.LedgerEntry{}, err
	}

	s.notifier.Notify(notify.TopicLedgerEntryAppended, notify.NewEntryPayload(entry))
	return entry, nil
}

func (s *FineService) CreateFine(ctx context.Context, reason string, amount decimal.Decimal) (models.FineTemplate, error) {
	amount = models.RoundMoney(amount)
	if !amount.IsPositive() {
		return models.FineTemplate{}, apperrors.ErrInvalidAmount
	}

	return s.storage.Fine().CreateFine(ctx, models.FineTemplate{
		ID:     uuid.New(),
		Reason: reason,
		Amount: amount,
	})
}

func (s *FineService) ListFines(ctx context.Context) ([]models.FineTemplate, error) {
	return s.storage.Fine().ListFines(ctx)
}
