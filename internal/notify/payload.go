package notify

import (
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/clubhouse/internal/models"
)

// Payloads share the HTTP API wire format: camelCase keys, money as JSON numbers

type EntryPayload struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	CreatedAt   time.Time `json:"createdAt"`
}

func NewEntryPayload(e models.LedgerEntry) EntryPayload {
	return EntryPayload{
		ID:          e.ID,
		UserID:      e.MemberID,
		Kind:        string(e.Kind),
		Description: e.Description,
		Amount:      e.Amount.InexactFloat64(),
		CreatedAt:   e.CreatedAt,
	}
}

type ScorePayload struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

type MatchEventPayload struct {
	ID     uuid.UUID `json:"id"`
	Minute int       `json:"minute"`
	Type   string    `json:"type"`
	Team   string    `json:"team,omitempty"`
	Player string    `json:"player,omitempty"`
	Note   string    `json:"note,omitempty"`
}

type MatchPayload struct {
	MatchID   string              `json:"matchId"`
	Home      string              `json:"home"`
	Away      string              `json:"away"`
	Status    string              `json:"status"`
	Score     ScorePayload        `json:"score"`
	Events    []MatchEventPayload `json:"events"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

func NewMatchPayload(m models.Match) MatchPayload {
	events := make([]MatchEventPayload, 0, len(m.Events))
	for _, e := range m.Events {
		events = append(events, MatchEventPayload{
			ID:     e.ID,
			Minute: e.Minute,
			Type:   string(e.Type),
			Team:   e.Team,
			Player: e.Player,
			Note:   e.Note,
		})
	}

	return MatchPayload{
		MatchID:   m.ID,
		Home:      m.Home,
		Away:      m.Away,
		Status:    m.Status,
		Score:     ScorePayload{Home: m.Score.Home, Away: m.Score.Away},
		Events:    events,
		UpdatedAt: m.UpdatedAt,
	}
}
