package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/nkiryanov/clubhouse/internal/apperrors"
	"github.com/nkiryanov/clubhouse/internal/models"
)

// FineRepo keeps the fine catalog
// Templates never change after creation, so they are stored by value without row locks
type FineRepo struct {
	s *Storage
}

func (r *FineRepo) CreateFine(ctx context.Context, f models.FineTemplate) (models.FineTemplate, error) {
	f.Amount = models.RoundMoney(f.Amount)

	err := r.s.do(ctx, func(sess *session) error {
		t := r.s.t
		t.mu.Lock()
		defer t.mu.Unlock()

		t.fines[f.ID] = f
		t.fineOrder = append(t.fineOrder, f.ID)

		sess.onRollback(func() {
			t.mu.Lock()
			defer t.mu.Unlock()

			delete(t.fines, f.ID)
			t.fineOrder = without(t.fineOrder, f.ID)
		})

		return nil
	})

	if err != nil {
		return models.FineTemplate{}, err
	}

	return f, nil
}

func (r *FineRepo) GetFine(ctx context.Context, id uuid.UUID) (models.FineTemplate, error) {
	var f models.FineTemplate

	err := r.s.do(ctx, func(_ *session) error {
		t := r.s.t
		t.mu.RLock()
		defer t.mu.RUnlock()

		var ok bool
		if f, ok = t.fines[id]; !ok {
			return apperrors.ErrFineNotFound
		}
		return nil
	})

	return f, err
}

func (r *FineRepo) ListFines(ctx context.Context) ([]models.FineTemplate, error) {
	var fines []models.FineTemplate

	err := r.s.do(ctx, func(_ *session) error {
		t := r.s.t
		t.mu.RLock()
		defer t.mu.RUnlock()

		fines = make([]models.FineTemplate, 0, len(t.fineOrder))
		for _, id := range t.fineOrder {
			fines = append(fines, t.fines[id])
		}
		return nil
	})

	return fines, err
}
