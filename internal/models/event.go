package models

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTypeTraining EventType = "training"
	EventTypeMatch    EventType = "match"
	EventTypeEvent    EventType = "event"
)

const (
	EventStatusPlanned  = "planned"
	EventStatusCanceled = "canceled"
)

type ResponseStatus string

const (
	ResponseAccepted  ResponseStatus = "accepted"
	ResponseTentative ResponseStatus = "tentative"
	ResponseDeclined  ResponseStatus = "declined"
)

type EventResponse struct {
	Status      ResponseStatus
	Note        string
	RespondedAt time.Time
}

// Event is a club fixture: training, match or any other appointment
type Event struct {
	ID               uuid.UUID
	CreatedAt        time.Time
	Type             EventType
	Title            string
	Location         string
	StartsAt         time.Time
	RequiresResponse bool
	Status           string
	Notes            string
	Responses        map[uuid.UUID]EventResponse
	Lineup           []uuid.UUID
}

// Clone returns a copy that shares no maps or slices with e
func (e Event) Clone() Event {
	c := e
	c.Responses = make(map[uuid.UUID]EventResponse, len(e.Responses))
	for k, v := range e.Responses {
		c.Responses[k] = v
	}
	c.Lineup = append([]uuid.UUID(nil), e.Lineup...)
	return c
}

func (t EventType) Valid() bool {
	switch t {
	case EventTypeTraining, EventTypeMatch, EventTypeEvent:
		return true
	default:
		return false
	}
}

func (s ResponseStatus) Valid() bool {
	switch s {
	case ResponseAccepted, ResponseTentative, ResponseDeclined:
		return true
	default:
		return false
	}
}
