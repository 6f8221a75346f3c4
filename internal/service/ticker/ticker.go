package ticker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/clubhouse/internal/apperrors"
	"github.com/nkiryanov/clubhouse/internal/logger"
	"github.com/nkiryanov/clubhouse/internal/models"
	"github.com/nkiryanov/clubhouse/internal/notify"
	"github.com/nkiryanov/clubhouse/internal/repository"
)

// EventInput is an already validated in-match event
// Home and Away label the teams and are used only when the post creates the match
type EventInput struct {
	Home string
	Away string

	Minute int
	Type   models.MatchEventType
	Team   string
	Player string
	Note   string
}

type TickerService struct {
	storage  repository.Storage
	notifier notify.Notifier
	logger   logger.Logger
}

func NewService(storage repository.Storage, notifier notify.Notifier, l logger.Logger) *TickerService {
	if notifier == nil {
		notifier = notify.Discard
	}

	return &TickerService{
		storage:  storage,
		notifier: notifier,
		logger:   l,
	}
}

func newMatch(id string, home string, away string) models.Match {
	if home == "" {
		home = models.DefaultHomeLabel
	}
	if away == "" {
		away = models.DefaultAwayLabel
	}

	return models.Match{
		ID:        id,
		Home:      home,
		Away:      away,
		Status:    models.MatchStatusLive,
		UpdatedAt: time.Now(),
	}
}

// PostEvent appends event to the match, creating the match on the first post
// Score changes only for goals of "home" or "away"
func (s *TickerService) PostEvent(ctx context.Context, matchID string, in EventInput) (models.Match, error) {
	var m models.Match

	err := s.storage.InTx(ctx, func(tx repository.Storage) error {
		_, err := tx.Match().GetMatch(ctx, matchID, true)
		switch {
		case errors.Is(err, apperrors.ErrMatchNotFound):
			_, err = tx.Match().CreateMatch(ctx, newMatch(matchID, in.Home, in.Away))
			// Concurrent first post created it: just append to it
			if err != nil && !errors.Is(err, apperrors.ErrMatchAlreadyExists) {
				return fmt.Errorf("can't create match. Err: %w", err)
			}
		case err != nil:
			return err
		}

		m, err = tx.Match().AppendEvent(ctx, matchID, models.MatchEvent{
			ID:     uuid.New(),
			Minute: in.Minute,
			Type:   in.Type,
			Team:   in.Team,
			Player: in.Player,
			Note:   in.Note,
		})
		return err
	})
	if err != nil {
		return models.Match{}, err
	}

	if in.Type == models.MatchEventGoal && in.Team != models.TeamHome && in.Team != models.TeamAway {
		s.logger.Warn("Goal for unknown team recorded, score unchanged", "match_id", matchID, "team", in.Team)
	}

	s.notifier.Notify(notify.TopicMatchUpdated, notify.NewMatchPayload(m))
	return m, nil
}

func (s *TickerService) GetMatch(ctx context.Context, matchID string) (models.Match, error) {
	return s.storage.Match().GetMatch(ctx, matchID, false)
}

// CreateMatch registers match before any event is posted
func (s *TickerService) CreateMatch(ctx context.Context, matchID string, home string, away string) (models.Match, error) {
	m, err := s.storage.Match().CreateMatch(ctx, newMatch(matchID, home, away))
	if err != nil {
		return models.Match{}, err
	}

	s.notifier.Notify(notify.TopicMatchUpdated, notify.NewMatchPayload(m))
	return m, nil
}

// SetStatus moves match to status chosen by caller, e.g. HT or FT
func (s *TickerService) SetStatus(ctx context.Context, matchID string, status string) (models.Match, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status == "" {
		return models.Match{}, apperrors.ErrInvalidStatus
	}

	m, err := s.storage.Match().SetStatus(ctx, matchID, status)
	if err != nil {
		return models.Match{}, err
	}

	s.notifier.Notify(notify.TopicMatchUpdated, notify.NewMatchPayload(m))
	return m, nil
}

func (s *TickerService) ListMatches(ctx context.Context) ([]models.Match, error) {
	return s.storage.Match().ListMatches(ctx)
}

// Current returns most recently updated match
func (s *TickerService) Current(ctx context.Context) (models.Match, error) {
	matches, err := s.storage.Match().ListMatches(ctx)
	if err != nil {
		return models.Match{}, err
	}
	if len(matches) == 0 {
		return models.Match{}, apperrors.ErrMatchNotFound
	}

	return matches[0], nil
}
