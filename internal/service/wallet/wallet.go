package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/clubhouse/internal/apperrors"
	"github.com/nkiryanov/clubhouse/internal/logger"
	"github.com/nkiryanov/clubhouse/internal/models"
	"github.com/nkiryanov/clubhouse/internal/notify"
	"github.com/nkiryanov/clubhouse/internal/repository"
)

// WalletService is the only writer of member wallets
// Every wallet change is a ledger entry appended in the same transaction
type WalletService struct {
	storage  repository.Storage
	notifier notify.Notifier
	logger   logger.Logger
}

func NewService(storage repository.Storage, notifier notify.Notifier, l logger.Logger) *WalletService {
	if notifier == nil {
		notifier = notify.Discard
	}

	return &WalletService{
		storage:  storage,
		notifier: notifier,
		logger:   l,
	}
}

// AppendEntry appends an entry and updates member wallet atomically
// An entry for unknown member is kept, but no wallet is changed
func (s *WalletService) AppendEntry(ctx context.Context, memberID uuid.UUID, kind models.EntryKind, description string, amount decimal.Decimal) (models.LedgerEntry, error) {
	var entry models.LedgerEntry

	err := s.storage.InTx(ctx, func(tx repository.Storage) error {
		var err error
		entry, err = s.Post(ctx, tx, memberID, kind, description, amount)
		return err
	})
	if err != nil {
		return models.LedgerEntry{}, err
	}

	s.notifier.Notify(notify.TopicLedgerEntryAppended, notify.NewEntryPayload(entry))
	return entry, nil
}

// Post does what AppendEntry does but within caller's transaction
// Caller notifies about the entry once the transaction is committed
func (s *WalletService) Post(ctx context.Context, tx repository.Storage, memberID uuid.UUID, kind models.EntryKind, description string, amount decimal.Decimal) (models.LedgerEntry, error) {
	entry := models.LedgerEntry{
		ID:          uuid.New(),
		CreatedAt:   time.Now(),
		MemberID:    memberID,
		Kind:        kind,
		Description: description,
		Amount:      models.RoundMoney(amount),
	}

	// Lock member row first, so nobody sees the entry without the wallet change
	orphan := false
	_, err := tx.Member().GetMember(ctx, memberID, true)
	switch {
	case errors.Is(err, apperrors.ErrMemberNotFound):
		orphan = true
	case err != nil:
		return models.LedgerEntry{}, fmt.Errorf("can't lock member wallet. Err: %w", err)
	}

	entry, err = tx.Ledger().AppendEntry(ctx, entry)
	if err != nil {
		return models.LedgerEntry{}, fmt.Errorf("can't append ledger entry. Err: %w", err)
	}

	if orphan {
		s.logger.Warn("Ledger entry for unknown member, wallet not updated", "member_id", memberID, "entry_id", entry.ID, "amount", entry.Amount)
		return entry, nil
	}

	if _, err := tx.Member().ApplyEntry(ctx, entry); err != nil {
		return models.LedgerEntry{}, fmt.Errorf("can't update member wallet. Err: %w", err)
	}

	return entry, nil
}

type Statement struct {
	Member  models.Member
	Balance decimal.Decimal
	Entries []models.LedgerEntry
}

// Statement returns member wallet with the entries it is made of
func (s *WalletService) Statement(ctx context.Context, memberID uuid.UUID) (Statement, error) {
	var st Statement

	err := s.storage.InTx(ctx, func(tx repository.Storage) error {
		m, err := tx.Member().GetMember(ctx, memberID, true)
		if err != nil {
			return err
		}

		entries, err := tx.Ledger().ListEntries(ctx, repository.ListEntriesOpts{MemberID: &memberID})
		if err != nil {
			return fmt.Errorf("can't list member entries. Err: %w", err)
		}

		st = Statement{Member: m, Balance: m.Wallet, Entries: entries}
		return nil
	})

	return st, err
}

func (s *WalletService) ListEntries(ctx context.Context, opts repository.ListEntriesOpts) ([]models.LedgerEntry, error) {
	return s.storage.Ledger().ListEntries(ctx, opts)
}

type Reconciliation struct {
	MemberID  uuid.UUID
	Wallet    decimal.Decimal
	LedgerSum decimal.Decimal
	Drift     decimal.Decimal // Wallet - LedgerSum
}

func (r Reconciliation) Consistent() bool {
	return r.Drift.IsZero()
}

// Reconcile compares cached wallet with the sum of member's entries
func (s *WalletService) Reconcile(ctx context.Context, memberID uuid.UUID) (Reconciliation, error) {
	st, err := s.Statement(ctx, memberID)
	if err != nil {
		return Reconciliation{}, err
	}

	amounts := make([]decimal.Decimal, 0, len(st.Entries))
	for _, e := range st.Entries {
		amounts = append(amounts, e.Amount)
	}
	sum := models.SumMoney(amounts...)

	return Reconciliation{
		MemberID:  memberID,
		Wallet:    st.Balance,
		LedgerSum: sum,
		Drift:     models.RoundMoney(st.Balance.Sub(sum)),
	}, nil
}
