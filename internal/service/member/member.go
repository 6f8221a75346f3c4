package member

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/clubhouse/internal/apperrors"
	"github.com/nkiryanov/clubhouse/internal/models"
	"github.com/nkiryanov/clubhouse/internal/notify"
	"github.com/nkiryanov/clubhouse/internal/repository"
)

const DefaultOpeningDescription = "Anfangsbestand"

type walletPoster interface {
	Post(ctx context.Context, tx repository.Storage, memberID uuid.UUID, kind models.EntryKind, description string, amount decimal.Decimal) (models.LedgerEntry, error)
}

type RegisterParams struct {
	Name             string
	Email            string
	MembershipNumber string
	Role             models.Role // player if empty

	// Posted as "balance" ledger entry when not zero
	OpeningBalance     decimal.Decimal
	OpeningDescription string
}

type MemberService struct {
	storage  repository.Storage
	wallet   walletPoster
	notifier notify.Notifier
}

func NewService(storage repository.Storage, wallet walletPoster, notifier notify.Notifier) *MemberService {
	if notifier == nil {
		notifier = notify.Discard
	}

	return &MemberService{
		storage:  storage,
		wallet:   wallet,
		notifier: notifier,
	}
}

// Register creates member and posts the opening balance in one transaction
func (s *MemberService) Register(ctx context.Context, p RegisterParams) (models.Member, error) {
	if p.Role == "" {
		p.Role = models.RolePlayer
	}
	if !p.Role.Valid() {
		return models.Member{}, apperrors.ErrInvalidRole
	}
	if p.OpeningDescription == "" {
		p.OpeningDescription = DefaultOpeningDescription
	}

	var m models.Member
	var entry *models.LedgerEntry

	err := s.storage.InTx(ctx, func(tx repository.Storage) error {
		var err error
		m, err = tx.Member().CreateMember(ctx, models.Member{
			ID:               uuid.New(),
			CreatedAt:        time.Now(),
			Name:             strings.TrimSpace(p.Name),
			Email:            strings.TrimSpace(p.Email),
			MembershipNumber: strings.TrimSpace(p.MembershipNumber),
			Role:             p.Role,
		})
		if err != nil {
			return err
		}

		if p.OpeningBalance.IsZero() {
			return nil
		}

		e, err := s.wallet.Post(ctx, tx, m.ID, models.EntryKindBalance, p.OpeningDescription, p.OpeningBalance)
		if err != nil {
			return fmt.Errorf("can't post opening balance. Err: %w", err)
		}
		entry = &e

		m, err = tx.Member().GetMember(ctx, m.ID, false)
		return err
	})
	if err != nil {
		return models.Member{}, err
	}

	if entry != nil {
		s.notifier.Notify(notify.TopicLedgerEntryAppended, notify.NewEntryPayload(*entry))
	}
	return m, nil
}

func (s *MemberService) GetMember(ctx context.Context, id uuid.UUID) (models.Member, error) {
	return s.storage.Member().GetMember(ctx, id, false)
}

// Lookup finds member by email or membership number
func (s *MemberService) Lookup(ctx context.Context, identifier string) (models.Member, error) {
	return s.storage.Member().FindMember(ctx, identifier)
}

func (s *MemberService) ListMembers(ctx context.Context) ([]models.Member, error) {
	return s.storage.Member().ListMembers(ctx)
}

func (s *MemberService) ChangeRole(ctx context.Context, id uuid.UUID, role models.Role) (models.Member, error) {
	if !role.Valid() {
		return models.Member{}, apperrors.ErrInvalidRole
	}

	return s.storage.Member().SetRole(ctx, id, role)
}
