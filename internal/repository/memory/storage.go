package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/nkiryanov/clubhouse/internal/models"
	"github.com/nkiryanov/clubhouse/internal/repository"
)

var errAborted = errors.New("transaction aborted")

// row is a lockable record, the in-memory counterpart of 'SELECT ... FOR UPDATE'
type row[T any] struct {
	mu   sync.Mutex
	val  T
	gone bool // set when the creating transaction rolled back
}

type tables struct {
	// Transactions hold it shared, Snapshot holds it exclusively
	gate sync.RWMutex

	// Guards maps and slices below; never held while waiting for a row lock
	mu sync.RWMutex

	members       map[uuid.UUID]*row[models.Member]
	memberOrder   []uuid.UUID
	memberEmails  map[string]uuid.UUID
	memberNumbers map[string]uuid.UUID

	ledger   []models.LedgerEntry
	bookings []models.Booking

	products     map[uuid.UUID]*row[models.Product]
	productOrder []uuid.UUID

	fines     map[uuid.UUID]models.FineTemplate
	fineOrder []uuid.UUID

	matches    map[string]*row[models.Match]
	matchOrder []string

	events     map[uuid.UUID]*row[models.Event]
	eventOrder []uuid.UUID

	subscriptions     map[uuid.UUID]*row[models.Subscription]
	subscriptionOrder []uuid.UUID
}

// Storage keeps everything in process memory
// Zero value is not usable, create it with NewStorage
type Storage struct {
	t    *tables
	sess *session // nil: every call runs in its own transaction
}

func NewStorage() *Storage {
	return &Storage{
		t: &tables{
			members:       make(map[uuid.UUID]*row[models.Member]),
			memberEmails:  make(map[string]uuid.UUID),
			memberNumbers: make(map[string]uuid.UUID),
			products:      make(map[uuid.UUID]*row[models.Product]),
			fines:         make(map[uuid.UUID]models.FineTemplate),
			matches:       make(map[string]*row[models.Match]),
			events:        make(map[uuid.UUID]*row[models.Event]),
			subscriptions: make(map[uuid.UUID]*row[models.Subscription]),
		},
	}
}

func (s *Storage) Member() repository.MemberRepo {
	return &MemberRepo{s: s}
}

func (s *Storage) Ledger() repository.LedgerRepo {
	return &LedgerRepo{s: s}
}

func (s *Storage) Product() repository.ProductRepo {
	return &ProductRepo{s: s}
}

func (s *Storage) Booking() repository.BookingRepo {
	return &BookingRepo{s: s}
}

func (s *Storage) Fine() repository.FineRepo {
	return &FineRepo{s: s}
}

func (s *Storage) Match() repository.MatchRepo {
	return &MatchRepo{s: s}
}

func (s *Storage) Event() repository.EventRepo {
	return &EventRepo{s: s}
}

func (s *Storage) Subscription() repository.SubscriptionRepo {
	return &SubscriptionRepo{s: s}
}

func (s *Storage) InTx(ctx context.Context, fn func(repository.Storage) error) (err error) {
	// Already in transaction: join it
	if s.sess != nil {
		return fn(s)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	s.t.gate.RLock()
	defer s.t.gate.RUnlock()

	sess := newSession(s.t, false)

	// fn panicked or called runtime.Goexit: rollback and release locks anyway
	finished := false
	defer func() {
		if !finished {
			sess.finish(errAborted)
		}
	}()

	err = fn(&Storage{t: s.t, sess: sess})
	sess.finish(err)
	finished = true

	return err
}

func (s *Storage) Snapshot(ctx context.Context, fn func(repository.Storage) error) error {
	if s.sess != nil {
		return fn(s)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	s.t.gate.Lock()
	defer s.t.gate.Unlock()

	return fn(&Storage{t: s.t, sess: newSession(s.t, true)})
}

// do runs fn in the current transaction or in a new one-call transaction
func (s *Storage) do(ctx context.Context, fn func(*session) error) error {
	if s.sess != nil {
		return fn(s.sess)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	s.t.gate.RLock()
	defer s.t.gate.RUnlock()

	sess := newSession(s.t, false)
	err := fn(sess)
	sess.finish(err)

	return err
}

// session tracks what a transaction locked, buffered and has to undo
type session struct {
	t *tables

	// Snapshot session: the gate is held exclusively, so rows need no locks
	exclusive bool

	held  map[*sync.Mutex]struct{}
	locks []*sync.Mutex
	undo  []func()

	// Append-only tables are published on commit, so nobody sees entries that may be rolled back
	pendingEntries  []models.LedgerEntry
	pendingBookings []models.Booking
}

func newSession(t *tables, exclusive bool) *session {
	return &session{
		t:         t,
		exclusive: exclusive,
		held:      make(map[*sync.Mutex]struct{}),
	}
}

// lock acquires mu and keeps it until the session finishes
func (s *session) lock(mu *sync.Mutex) {
	if s.exclusive {
		return
	}
	if _, ok := s.held[mu]; ok {
		return
	}

	mu.Lock()
	s.held[mu] = struct{}{}
	s.locks = append(s.locks, mu)
}

// read runs fn under mu unless the session already holds it
func (s *session) read(mu *sync.Mutex, fn func()) {
	if _, ok := s.held[mu]; ok || s.exclusive {
		fn()
		return
	}

	mu.Lock()
	defer mu.Unlock()
	fn()
}

func (s *session) onRollback(fn func()) {
	s.undo = append(s.undo, fn)
}

// finish commits when err is nil and rolls back otherwise, then releases row locks
func (s *session) finish(err error) {
	switch err {
	case nil:
		if len(s.pendingEntries) > 0 || len(s.pendingBookings) > 0 {
			s.t.mu.Lock()
			s.t.ledger = append(s.t.ledger, s.pendingEntries...)
			s.t.bookings = append(s.t.bookings, s.pendingBookings...)
			s.t.mu.Unlock()
		}
	default:
		for i := len(s.undo) - 1; i >= 0; i-- {
			s.undo[i]()
		}
	}

	s.pendingEntries = nil
	s.pendingBookings = nil
	s.undo = nil

	for i := len(s.locks) - 1; i >= 0; i-- {
		s.locks[i].Unlock()
	}
	s.locks = nil
	clear(s.held)
}

// Helpers to find rows; the caller locks the row itself

func (t *tables) memberRow(id uuid.UUID) (*row[models.Member], bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.members[id]
	return r, ok
}

func (t *tables) productRow(id uuid.UUID) (*row[models.Product], bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.products[id]
	return r, ok
}

func (t *tables) matchRow(id string) (*row[models.Match], bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.matches[id]
	return r, ok
}

func (t *tables) eventRow(id uuid.UUID) (*row[models.Event], bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.events[id]
	return r, ok
}

func (t *tables) subscriptionRow(id uuid.UUID) (*row[models.Subscription], bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.subscriptions[id]
	return r, ok
}

func without[K comparable](ids []K, id K) []K {
	for i := range ids {
		if ids[i] == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
