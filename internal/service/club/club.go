package club

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/clubhouse/internal/apperrors"
	"github.com/nkiryanov/clubhouse/internal/models"
	"github.com/nkiryanov/clubhouse/internal/repository"
)

type EventParams struct {
	Type             models.EventType
	Title            string
	Location         string
	StartsAt         time.Time
	RequiresResponse bool
	Status           string // planned if empty
	Notes            string
}

type SubscriptionParams struct {
	Club     string
	Plan     string
	Interval string
	Seats    int // models.DefaultSubscriptionSeats if zero
}

// ClubService manages fixtures with their RSVPs and lineups, and club subscriptions
type ClubService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *ClubService {
	return &ClubService{storage: storage}
}

func (s *ClubService) CreateEvent(ctx context.Context, p EventParams) (models.Event, error) {
	if !p.Type.Valid() {
		return models.Event{}, apperrors.ErrInvalidEventType
	}
	if p.Status == "" {
		p.Status = models.EventStatusPlanned
	}

	return s.storage.Event().CreateEvent(ctx, models.Event{
		ID:               uuid.New(),
		CreatedAt:        time.Now(),
		Type:             p.Type,
		Title:            p.Title,
		Location:         p.Location,
		StartsAt:         p.StartsAt,
		RequiresResponse: p.RequiresResponse,
		Status:           p.Status,
		Notes:            p.Notes,
		Responses:        map[uuid.UUID]models.EventResponse{},
	})
}

func (s *ClubService) GetEvent(ctx context.Context, id uuid.UUID) (models.Event, error) {
	return s.storage.Event().GetEvent(ctx, id)
}

func (s *ClubService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return s.storage.Event().ListEvents(ctx)
}

// Respond stores member's answer to the event, replacing the previous one
func (s *ClubService) Respond(ctx context.Context, eventID uuid.UUID, memberID uuid.UUID, status models.ResponseStatus, note string) (models.Event, error) {
	if !status.Valid() {
		return models.Event{}, apperrors.ErrInvalidStatus
	}

	var e models.Event
	err := s.storage.InTx(ctx, func(tx repository.Storage) error {
		if _, err := tx.Member().GetMember(ctx, memberID, false); err != nil {
			return err
		}

		var err error
		e, err = tx.Event().SetResponse(ctx, eventID, memberID, models.EventResponse{
			Status:      status,
			Note:        note,
			RespondedAt: time.Now(),
		})
		return err
	})

	return e, err
}

// SetLineup replaces event lineup; duplicates are dropped keeping the first position
func (s *ClubService) SetLineup(ctx context.Context, eventID uuid.UUID, memberIDs []uuid.UUID) (models.Event, error) {
	var e models.Event

	err := s.storage.InTx(ctx, func(tx repository.Storage) error {
		seen := make(map[uuid.UUID]struct{}, len(memberIDs))
		lineup := make([]uuid.UUID, 0, len(memberIDs))

		for _, id := range memberIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			if _, err := tx.Member().GetMember(ctx, id, false); err != nil {
				return err
			}
			seen[id] = struct{}{}
			lineup = append(lineup, id)
		}

		var err error
		e, err = tx.Event().SetLineup(ctx, eventID, lineup)
		return err
	})

	return e, err
}

func (s *ClubService) CreateSubscription(ctx context.Context, p SubscriptionParams) (models.Subscription, error) {
	if !models.ValidInterval(p.Interval) {
		return models.Subscription{}, apperrors.ErrInvalidInterval
	}
	if p.Seats < 0 {
		return models.Subscription{}, apperrors.ErrInvalidQuantity
	}
	if p.Seats == 0 {
		p.Seats = models.DefaultSubscriptionSeats
	}

	return s.storage.Subscription().CreateSubscription(ctx, models.Subscription{
		ID:        uuid.New(),
		Club:      p.Club,
		Plan:      p.Plan,
		Interval:  p.Interval,
		Active:    true,
		Seats:     p.Seats,
		StartedAt: time.Now(),
	})
}

func (s *ClubService) ListSubscriptions(ctx context.Context) ([]models.Subscription, error) {
	return s.storage.Subscription().ListSubscriptions(ctx)
}

func (s *ClubService) CancelSubscription(ctx context.Context, id uuid.UUID) (models.Subscription, error) {
	return s.storage.Subscription().Cancel(ctx, id)
}
