package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/clubhouse/internal/apperrors"
	"github.com/nkiryanov/clubhouse/internal/models"
)

type EventRepo struct {
	s *Storage
}

func (r *EventRepo) CreateEvent(ctx context.Context, e models.Event) (models.Event, error) {
	e = e.Clone()

	err := r.s.do(ctx, func(sess *session) error {
		t := r.s.t
		t.mu.Lock()
		defer t.mu.Unlock()

		rw := &row[models.Event]{val: e}
		sess.lock(&rw.mu)

		t.events[e.ID] = rw
		t.eventOrder = append(t.eventOrder, e.ID)

		sess.onRollback(func() {
			t.mu.Lock()
			defer t.mu.Unlock()

			rw.gone = true
			delete(t.events, e.ID)
			t.eventOrder = without(t.eventOrder, e.ID)
		})

		return nil
	})

	if err != nil {
		return models.Event{}, err
	}

	return e.Clone(), nil
}

func (r *EventRepo) GetEvent(ctx context.Context, id uuid.UUID) (models.Event, error) {
	var e models.Event

	err := r.s.do(ctx, func(sess *session) error {
		rw, ok := r.s.t.eventRow(id)
		if !ok {
			return apperrors.ErrEventNotFound
		}

		var gone bool
		sess.read(&rw.mu, func() { e, gone = rw.val.Clone(), rw.gone })
		if gone {
			return apperrors.ErrEventNotFound
		}
		return nil
	})

	return e, err
}

func (r *EventRepo) ListEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event

	err := r.s.do(ctx, func(sess *session) error {
		t := r.s.t

		t.mu.RLock()
		rows := make([]*row[models.Event], 0, len(t.eventOrder))
		for _, id := range t.eventOrder {
			rows = append(rows, t.events[id])
		}
		t.mu.RUnlock()

		events = make([]models.Event, 0, len(rows))
		for _, rw := range rows {
			sess.read(&rw.mu, func() {
				if !rw.gone {
					events = append(events, rw.val.Clone())
				}
			})
		}

		return nil
	})

	return events, err
}

func (r *EventRepo) SetResponse(ctx context.Context, eventID uuid.UUID, memberID uuid.UUID, resp models.EventResponse) (models.Event, error) {
	return r.update(ctx, eventID, func(e *models.Event) {
		e.Responses[memberID] = resp
	})
}

func (r *EventRepo) SetLineup(ctx context.Context, eventID uuid.UUID, lineup []uuid.UUID) (models.Event, error) {
	return r.update(ctx, eventID, func(e *models.Event) {
		e.Lineup = append([]uuid.UUID(nil), lineup...)
	})
}

func (r *EventRepo) update(ctx context.Context, id uuid.UUID, fn func(*models.Event)) (models.Event, error) {
	var e models.Event

	err := r.s.do(ctx, func(sess *session) error {
		rw, ok := r.s.t.eventRow(id)
		if !ok {
			return apperrors.ErrEventNotFound
		}

		sess.lock(&rw.mu)
		if rw.gone {
			return apperrors.ErrEventNotFound
		}

		prev := rw.val.Clone()
		next := rw.val.Clone()
		fn(&next)

		rw.val = next
		sess.onRollback(func() { rw.val = prev })

		e = next.Clone()
		return nil
	})

	return e, err
}

type SubscriptionRepo struct {
	s *Storage
}

func (r *SubscriptionRepo) CreateSubscription(ctx context.Context, sub models.Subscription) (models.Subscription, error) {
	err := r.s.do(ctx, func(sess *session) error {
		t := r.s.t
		t.mu.Lock()
		defer t.mu.Unlock()

		rw := &row[models.Subscription]{val: sub}
		sess.lock(&rw.mu)

		t.subscriptions[sub.ID] = rw
		t.subscriptionOrder = append(t.subscriptionOrder, sub.ID)

		sess.onRollback(func() {
			t.mu.Lock()
			defer t.mu.Unlock()

			rw.gone = true
			delete(t.subscriptions, sub.ID)
			t.subscriptionOrder = without(t.subscriptionOrder, sub.ID)
		})

		return nil
	})

	if err != nil {
		return models.Subscription{}, err
	}

	return sub, nil
}

func (r *SubscriptionRepo) ListSubscriptions(ctx context.Context) ([]models.Subscription, error) {
	var subs []models.Subscription

	err := r.s.do(ctx, func(sess *session) error {
		t := r.s.t

		t.mu.RLock()
		rows := make([]*row[models.Subscription], 0, len(t.subscriptionOrder))
		for _, id := range t.subscriptionOrder {
			rows = append(rows, t.subscriptions[id])
		}
		t.mu.RUnlock()

		subs = make([]models.Subscription, 0, len(rows))
		for _, rw := range rows {
			sess.read(&rw.mu, func() {
				if !rw.gone {
					subs = append(subs, rw.val)
				}
			})
		}

		return nil
	})

	return subs, err
}

// Cancel deactivates subscription; canceling twice keeps the first cancel time
func (r *SubscriptionRepo) Cancel(ctx context.Context, id uuid.UUID) (models.Subscription, error) {
	var sub models.Subscription

	err := r.s.do(ctx, func(sess *session) error {
		rw, ok := r.s.t.subscriptionRow(id)
		if !ok {
			return apperrors.ErrSubscriptionNotFound
		}

		sess.lock(&rw.mu)
		if rw.gone {
			return apperrors.ErrSubscriptionNotFound
		}

		prev := rw.val
		if rw.val.CanceledAt == nil {
			now := time.Now()
			rw.val.CanceledAt = &now
		}
		rw.val.Active = false
		sess.onRollback(func() { rw.val = prev })

		sub = rw.val
		return nil
	})

	return sub, err
}
