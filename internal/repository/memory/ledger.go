package memory

import (
	"context"
	"slices"

	"github.com/nkiryanov/clubhouse/internal/models"
	"github.com/nkiryanov/clubhouse/internal/repository"
)

type LedgerRepo struct {
	s *Storage
}

// AppendEntry buffers the entry in the transaction; it becomes visible to others on commit
func (r *LedgerRepo) AppendEntry(ctx context.Context, entry models.LedgerEntry) (models.LedgerEntry, error) {
	entry.Amount = models.RoundMoney(entry.Amount)

	err := r.s.do(ctx, func(sess *session) error {
		sess.pendingEntries = append(sess.pendingEntries, entry)
		return nil
	})

	if err != nil {
		return models.LedgerEntry{}, err
	}

	return entry, nil
}

func (r *LedgerRepo) ListEntries(ctx context.Context, opts repository.ListEntriesOpts) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry

	match := func(e models.LedgerEntry) bool {
		if opts.MemberID != nil && e.MemberID != *opts.MemberID {
			return false
		}
		if len(opts.Kinds) > 0 && !slices.Contains(opts.Kinds, e.Kind) {
			return false
		}
		return true
	}

	err := r.s.do(ctx, func(sess *session) error {
		t := r.s.t

		t.mu.RLock()
		defer t.mu.RUnlock()

		entries = make([]models.LedgerEntry, 0)
		for _, e := range t.ledger {
			if match(e) {
				entries = append(entries, e)
			}
		}

		// Own uncommitted entries come last, they will be appended on commit
		for _, e := range sess.pendingEntries {
			if match(e) {
				entries = append(entries, e)
			}
		}

		return nil
	})

	return entries, err
}
