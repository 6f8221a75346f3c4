package club

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/clubhouse/internal/apperrors"
	"github.com/nkiryanov/clubhouse/internal/models"
	"github.com/nkiryanov/clubhouse/internal/repository"
	"github.com/nkiryanov/clubhouse/internal/repository/memory"
)

func TestClub(t *testing.T) {
	setup := func(t *testing.T) (*ClubService, repository.Storage, models.Event, models.Member) {
		storage := memory.NewStorage()
		s := NewService(storage)

		e, err := s.CreateEvent(t.Context(), EventParams{
			Type:             models.EventTypeTraining,
			Title:            "Wochentraining",
			Location:         "Sportplatz Hauptstraße",
			StartsAt:         time.Now().Add(72 * time.Hour),
			RequiresResponse: true,
		})
		require.NoError(t, err)

		m, err := storage.Member().CreateMember(t.Context(), models.Member{ID: uuid.New(), Name: "Alex"})
		require.NoError(t, err)

		return s, storage, e, m
	}

	t.Run("CreateEvent", func(t *testing.T) {
		t.Run("defaults", func(t *testing.T) {
			_, _, e, _ := setup(t)

			require.Equal(t, models.EventStatusPlanned, e.Status)
			require.NotNil(t, e.Responses)
			require.Empty(t, e.Lineup)
		})

		t.Run("invalid type", func(t *testing.T) {
			s, _, _, _ := setup(t)

			_, err := s.CreateEvent(t.Context(), EventParams{Type: "party", Title: "x"})

			require.ErrorIs(t, err, apperrors.ErrInvalidEventType)
		})

		t.Run("list in creation order", func(t *testing.T) {
			s, _, first, _ := setup(t)
			second, err := s.CreateEvent(t.Context(), EventParams{Type: models.EventTypeMatch, Title: "Liga"})
			require.NoError(t, err)

			events, err := s.ListEvents(t.Context())

			require.NoError(t, err)
			require.Len(t, events, 2)
			require.Equal(t, first.ID, events[0].ID)
			require.Equal(t, second.ID, events[1].ID)
		})
	})

	t.Run("Respond", func(t *testing.T) {
		t.Run("upsert response", func(t *testing.T) {
			s, _, e, m := setup(t)

			_, err := s.Respond(t.Context(), e.ID, m.ID, models.ResponseTentative, "")
			require.NoError(t, err)
			e, err = s.Respond(t.Context(), e.ID, m.ID, models.ResponseAccepted, "komme später")
			require.NoError(t, err)

			require.Len(t, e.Responses, 1)
			require.Equal(t, models.ResponseAccepted, e.Responses[m.ID].Status)
			require.Equal(t, "komme später", e.Responses[m.ID].Note)
			require.NotZero(t, e.Responses[m.ID].RespondedAt)
		})

		t.Run("unknown member", func(t *testing.T) {
			s, _, e, _ := setup(t)

			_, err := s.Respond(t.Context(), e.ID, uuid.New(), models.ResponseAccepted, "")

			require.ErrorIs(t, err, apperrors.ErrMemberNotFound)
		})

		t.Run("unknown event", func(t *testing.T) {
			s, _, _, m := setup(t)

			_, err := s.Respond(t.Context(), uuid.New(), m.ID, models.ResponseAccepted, "")

			require.ErrorIs(t, err, apperrors.ErrEventNotFound)
		})

		t.Run("invalid status", func(t *testing.T) {
			s, _, e, m := setup(t)

			_, err := s.Respond(t.Context(), e.ID, m.ID, "maybe", "")

			require.ErrorIs(t, err, apperrors.ErrInvalidStatus)
		})
	})

	t.Run("SetLineup", func(t *testing.T) {
		t.Run("drop duplicates", func(t *testing.T) {
			s, storage, e, m := setup(t)
			other, err := storage.Member().CreateMember(t.Context(), models.Member{ID: uuid.New(), Name: "Mia"})
			require.NoError(t, err)

			e, err = s.SetLineup(t.Context(), e.ID, []uuid.UUID{other.ID, m.ID, other.ID})

			require.NoError(t, err)
			require.Equal(t, []uuid.UUID{other.ID, m.ID}, e.Lineup)
		})

		t.Run("unknown member keeps lineup", func(t *testing.T) {
			s, _, e, m := setup(t)
			_, err := s.SetLineup(t.Context(), e.ID, []uuid.UUID{m.ID})
			require.NoError(t, err)

			_, err = s.SetLineup(t.Context(), e.ID, []uuid.UUID{uuid.New()})
			require.ErrorIs(t, err, apperrors.ErrMemberNotFound)

			got, err := s.GetEvent(t.Context(), e.ID)
			require.NoError(t, err)
			require.Equal(t, []uuid.UUID{m.ID}, got.Lineup)
		})
	})

	t.Run("Subscriptions", func(t *testing.T) {
		s, _, _, _ := setup(t)

		sub, err := s.CreateSubscription(t.Context(), SubscriptionParams{Club: "Verein24", Plan: "premium", Interval: models.IntervalYearly})
		require.NoError(t, err)
		require.True(t, sub.Active)
		require.Equal(t, models.DefaultSubscriptionSeats, sub.Seats)

		_, err = s.CreateSubscription(t.Context(), SubscriptionParams{Club: "Verein24", Plan: "basic", Interval: "weekly"})
		require.ErrorIs(t, err, apperrors.ErrInvalidInterval)

		sub, err = s.CancelSubscription(t.Context(), sub.ID)
		require.NoError(t, err)
		require.False(t, sub.Active)

		_, err = s.CancelSubscription(t.Context(), uuid.New())
		require.ErrorIs(t, err, apperrors.ErrSubscriptionNotFound)

		subs, err := s.ListSubscriptions(t.Context())
		require.NoError(t, err)
		require.Len(t, subs, 1)
	})
}
