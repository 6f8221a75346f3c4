package memory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/clubhouse/internal/apperrors"
	"github.com/nkiryanov/clubhouse/internal/models"
)

type MemberRepo struct {
	s *Storage
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *MemberRepo) CreateMember(ctx context.Context, m models.Member) (models.Member, error) {
	// Wallet is a projection of the ledger and starts empty
	m.Wallet = decimal.Zero

	err := r.s.do(ctx, func(sess *session) error {
		t := r.s.t
		t.mu.Lock()
		defer t.mu.Unlock()

		if _, ok := t.members[m.ID]; ok {
			return apperrors.ErrMemberAlreadyExists
		}
		email := emailKey(m.Email)
		if _, ok := t.memberEmails[email]; ok && email != "" {
			return apperrors.ErrMemberAlreadyExists
		}
		if _, ok := t.memberNumbers[m.MembershipNumber]; ok && m.MembershipNumber != "" {
			return apperrors.ErrMemberAlreadyExists
		}

		rw := &row[models.Member]{val: m}
		sess.lock(&rw.mu) // new row, never blocks

		t.members[m.ID] = rw
		t.memberOrder = append(t.memberOrder, m.ID)
		if email != "" {
			t.memberEmails[email] = m.ID
		}
		if m.MembershipNumber != "" {
			t.memberNumbers[m.MembershipNumber] = m.ID
		}

		sess.onRollback(func() {
			t.mu.Lock()
			defer t.mu.Unlock()

			rw.gone = true
			delete(t.members, m.ID)
			delete(t.memberEmails, email)
			delete(t.memberNumbers, m.MembershipNumber)
			t.memberOrder = without(t.memberOrder, m.ID)
		})

		return nil
	})

	if err != nil {
		return models.Member{}, err
	}

	return m, nil
}

func (r *MemberRepo) GetMember(ctx context.Context, id uuid.UUID, forUpdate bool) (models.Member, error) {
	var m models.Member

	err := r.s.do(ctx, func(sess *session) error {
		rw, ok := r.s.t.memberRow(id)
		if !ok {
			return apperrors.ErrMemberNotFound
		}

		var gone bool
		if forUpdate {
			sess.lock(&rw.mu)
			m, gone = rw.val, rw.gone
		} else {
			sess.read(&rw.mu, func() { m, gone = rw.val, rw.gone })
		}

		if gone {
			return apperrors.ErrMemberNotFound
		}
		return nil
	})

	return m, err
}

func (r *MemberRepo) FindMember(ctx context.Context, identifier string) (models.Member, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return models.Member{}, apperrors.ErrMemberNotFound
	}

	t := r.s.t
	t.mu.RLock()
	id, ok := t.memberEmails[emailKey(identifier)]
	if !ok {
		id, ok = t.memberNumbers[identifier]
	}
	t.mu.RUnlock()

	if !ok {
		return models.Member{}, apperrors.ErrMemberNotFound
	}
	return r.GetMember(ctx, id, false)
}

func (r *MemberRepo) ListMembers(ctx context.Context) ([]models.Member, error) {
	var members []models.Member

	err := r.s.do(ctx, func(sess *session) error {
		t := r.s.t

		t.mu.RLock()
		rows := make([]*row[models.Member], 0, len(t.memberOrder))
		for _, id := range t.memberOrder {
			rows = append(rows, t.members[id])
		}
		t.mu.RUnlock()

		members = make([]models.Member, 0, len(rows))
		for _, rw := range rows {
			sess.read(&rw.mu, func() {
				if !rw.gone {
					members = append(members, rw.val)
				}
			})
		}

		return nil
	})

	return members, err
}

func (r *MemberRepo) SetRole(ctx context.Context, id uuid.UUID, role models.Role) (models.Member, error) {
	return r.update(ctx, id, func(m *models.Member) error {
		m.Role = role
		return nil
	})
}

func (r *MemberRepo) ApplyEntry(ctx context.Context, entry models.LedgerEntry) (models.Member, error) {
	return r.update(ctx, entry.MemberID, func(m *models.Member) error {
		m.Wallet = models.RoundMoney(m.Wallet.Add(entry.Amount))
		return nil
	})
}

// update locks member row, changes it with fn and registers undo
func (r *MemberRepo) update(ctx context.Context, id uuid.UUID, fn func(*models.Member) error) (models.Member, error) {
	var m models.Member

	err := r.s.do(ctx, func(sess *session) error {
		rw, ok := r.s.t.memberRow(id)
		if !ok {
			return apperrors.ErrMemberNotFound
		}

		sess.lock(&rw.mu)
		if rw.gone {
			return apperrors.ErrMemberNotFound
		}

		prev := rw.val
		next := rw.val
		if err := fn(&next); err != nil {
			return err
		}

		rw.val = next
		sess.onRollback(func() { rw.val = prev })

		m = next
		return nil
	})

	return m, err
}
