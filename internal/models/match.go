package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MatchStatusLive     = "LIVE"
	MatchStatusHalfTime = "HT"
	MatchStatusFullTime = "FT"
)

// Labels used when the first posted event does not name the teams
const (
	DefaultHomeLabel = "Heim"
	DefaultAwayLabel = "Gast"
)

type MatchEventType string

const (
	MatchEventGoal         MatchEventType = "goal"
	MatchEventYellowCard   MatchEventType = "card_yellow"
	MatchEventRedCard      MatchEventType = "card_red"
	MatchEventSubstitution MatchEventType = "substitution"
	MatchEventComment      MatchEventType = "comment"
)

const (
	TeamHome = "home"
	TeamAway = "away"
)

type MatchEvent struct {
	ID     uuid.UUID
	Minute int
	Type   MatchEventType
	Team   string
	Player string
	Note   string
}

type Score struct {
	Home int
	Away int
}

// Apply returns score after the event
// Only goals for "home" or "away" count, anything else leaves score as is
func (s Score) Apply(e MatchEvent) Score {
	if e.Type != MatchEventGoal {
		return s
	}

	switch e.Team {
	case TeamHome:
		s.Home++
	case TeamAway:
		s.Away++
	}

	return s
}

// ScoreOf derives score from the event sequence
func ScoreOf(events []MatchEvent) Score {
	var s Score
	for _, e := range events {
		s = s.Apply(e)
	}
	return s
}

type Match struct {
	ID        string
	Home      string
	Away      string
	Status    string
	Score     Score
	Events    []MatchEvent // append order
	UpdatedAt time.Time
}

// Clone returns a copy that shares no slices with m
func (m Match) Clone() Match {
	c := m
	c.Events = append([]MatchEvent(nil), m.Events...)
	return c
}
