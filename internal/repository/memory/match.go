package memory

import (
	"context"
	"sort"
	"time"

	"github.com/nkiryanov/clubhouse/internal/apperrors"
	"github.com/nkiryanov/clubhouse/internal/models"
)

type MatchRepo struct {
	s *Storage
}

func (r *MatchRepo) CreateMatch(ctx context.Context, m models.Match) (models.Match, error) {
	m = m.Clone()
	m.Score = models.ScoreOf(m.Events)

	err := r.s.do(ctx, func(sess *session) error {
		t := r.s.t
		t.mu.Lock()
		defer t.mu.Unlock()

		if _, ok := t.matches[m.ID]; ok {
			return apperrors.ErrMatchAlreadyExists
		}

		rw := &row[models.Match]{val: m}
		sess.lock(&rw.mu)

		t.matches[m.ID] = rw
		t.matchOrder = append(t.matchOrder, m.ID)

		sess.onRollback(func() {
			t.mu.Lock()
			defer t.mu.Unlock()

			rw.gone = true
			delete(t.matches, m.ID)
			t.matchOrder = without(t.matchOrder, m.ID)
		})

		return nil
	})

	if err != nil {
		return models.Match{}, err
	}

	return m.Clone(), nil
}

func (r *MatchRepo) GetMatch(ctx context.Context, id string, forUpdate bool) (models.Match, error) {
	var m models.Match

	err := r.s.do(ctx, func(sess *session) error {
		rw, ok := r.s.t.matchRow(id)
		if !ok {
			return apperrors.ErrMatchNotFound
		}

		var gone bool
		if forUpdate {
			sess.lock(&rw.mu)
			m, gone = rw.val.Clone(), rw.gone
		} else {
			sess.read(&rw.mu, func() { m, gone = rw.val.Clone(), rw.gone })
		}

		if gone {
			return apperrors.ErrMatchNotFound
		}
		return nil
	})

	return m, err
}

func (r *MatchRepo) ListMatches(ctx context.Context) ([]models.Match, error) {
	var matches []models.Match

	err := r.s.do(ctx, func(sess *session) error {
		t := r.s.t

		t.mu.RLock()
		rows := make([]*row[models.Match], 0, len(t.matchOrder))
		for _, id := range t.matchOrder {
			rows = append(rows, t.matches[id])
		}
		t.mu.RUnlock()

		matches = make([]models.Match, 0, len(rows))
		for _, rw := range rows {
			sess.read(&rw.mu, func() {
				if !rw.gone {
					matches = append(matches, rw.val.Clone())
				}
			})
		}

		return nil
	})

	// Most recently updated first, ties keep creation order
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].UpdatedAt.After(matches[j].UpdatedAt)
	})

	return matches, err
}

func (r *MatchRepo) AppendEvent(ctx context.Context, matchID string, e models.MatchEvent) (models.Match, error) {
	return r.update(ctx, matchID, func(m *models.Match) {
		m.Events = append(m.Events, e)
		m.Score = m.Score.Apply(e)
	})
}

func (r *MatchRepo) SetStatus(ctx context.Context, matchID string, status string) (models.Match, error) {
	return r.update(ctx, matchID, func(m *models.Match) {
		m.Status = status
	})
}

func (r *MatchRepo) update(ctx context.Context, id string, fn func(*models.Match)) (models.Match, error) {
	var m models.Match

	err := r.s.do(ctx, func(sess *session) error {
		rw, ok := r.s.t.matchRow(id)
		if !ok {
			return apperrors.ErrMatchNotFound
		}

		sess.lock(&rw.mu)
		if rw.gone {
			return apperrors.ErrMatchNotFound
		}

		prev := rw.val.Clone()
		next := rw.val.Clone()
		fn(&next)
		next.UpdatedAt = time.Now()

		rw.val = next
		sess.onRollback(func() { rw.val = prev })

		m = next.Clone()
		return nil
	})

	return m, err
}
