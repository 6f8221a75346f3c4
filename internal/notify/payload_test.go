package notify

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/clubhouse/internal/models"
)

func TestPayload(t *testing.T) {
	at := time.Date(2025, 5, 1, 18, 30, 0, 0, time.UTC)

	t.Run("entry", func(t *testing.T) {
		entryID := uuid.MustParse("0b5e0b4e-9f3c-4b8e-8a51-0d1c5a3e7f01")
		memberID := uuid.MustParse("5d7e1c0a-2b6f-4e33-9c41-7a8b9c0d1e02")

		body, err := json.Marshal(NewEntryPayload(models.LedgerEntry{
			ID:          entryID,
			CreatedAt:   at,
			MemberID:    memberID,
			Kind:        models.EntryKindDrink,
			Description: "Getränk: Isodrink x2",
			Amount:      decimal.RequireFromString("-5.00"),
		}))

		require.NoError(t, err)
		require.JSONEq(t, `{
			"id": "0b5e0b4e-9f3c-4b8e-8a51-0d1c5a3e7f01",
			"userId": "5d7e1c0a-2b6f-4e33-9c41-7a8b9c0d1e02",
			"kind": "drink",
			"description": "Getränk: Isodrink x2",
			"amount": -5,
			"createdAt": "2025-05-01T18:30:00Z"
		}`, string(body))
	})

	t.Run("match", func(t *testing.T) {
		eventID := uuid.MustParse("9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c03")

		body, err := json.Marshal(NewMatchPayload(models.Match{
			ID:        "demo",
			Home:      "FC Beispiel",
			Away:      "SV Muster",
			Status:    models.MatchStatusLive,
			Score:     models.Score{Home: 1},
			Events:    []models.MatchEvent{{ID: eventID, Minute: 12, Type: models.MatchEventGoal, Team: models.TeamHome, Player: "Max"}},
			UpdatedAt: at,
		}))

		require.NoError(t, err)
		require.JSONEq(t, `{
			"matchId": "demo",
			"home": "FC Beispiel",
			"away": "SV Muster",
			"status": "LIVE",
			"score": {"home": 1, "away": 0},
			"events": [{"id": "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c03", "minute": 12, "type": "goal", "team": "home", "player": "Max"}],
			"updatedAt": "2025-05-01T18:30:00Z"
		}`, string(body))
	})
}
