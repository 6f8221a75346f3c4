package fine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/clubhouse/internal/apperrors"
	"github.com/nkiryanov/clubhouse/internal/logger"
	"github.com/nkiryanov/clubhouse/internal/models"
	"github.com/nkiryanov/clubhouse/internal/repository"
	"github.com/nkiryanov/clubhouse/internal/repository/memory"
	"github.com/nkiryanov/clubhouse/internal/service/wallet"
	"github.com/nkiryanov/clubhouse/internal/testutil"
)

func TestFine(t *testing.T) {
	setup := func(t *testing.T) (*FineService, repository.Storage, models.Member) {
		storage := memory.NewStorage()
		w := wallet.NewService(storage, nil, logger.NewNoOpLogger())
		s := NewService(storage, w, nil)

		m, err := storage.Member().CreateMember(t.Context(), models.Member{ID: uuid.New(), Name: "M"})
		require.NoError(t, err)
		_, err = w.AppendEntry(t.Context(), m.ID, models.EntryKindBalance, "", decimal.NewFromInt(50))
		require.NoError(t, err)

		return s, storage, m
	}

	t.Run("AssignFine", func(t *testing.T) {
		t.Run("assign ok", func(t *testing.T) {
			s, storage, m := setup(t)
			f, err := s.CreateFine(t.Context(), "Zu spät gekommen", decimal.NewFromInt(5))
			require.NoError(t, err)

			entry, err := s.AssignFine(t.Context(), m.ID, f.ID)

			require.NoError(t, err)
			testutil.RequireDecEqual(t, "-5", entry.Amount)
			require.Equal(t, models.EntryKindFine, entry.Kind)
			require.Equal(t, "Strafe: Zu spät gekommen", entry.Description)

			got, err := storage.Member().GetMember(t.Context(), m.ID, false)
			require.NoError(t, err)
			testutil.RequireDecEqual(t, "45", got.Wallet, "wallet decreases by exactly the fine")
		})

		t.Run("same fine twice charges twice", func(t *testing.T) {
			s, storage, m := setup(t)
			f, err := s.CreateFine(t.Context(), "Trikot vergessen", decimal.NewFromInt(3))
			require.NoError(t, err)

			_, err = s.AssignFine(t.Context(), m.ID, f.ID)
			require.NoError(t, err)
			_, err = s.AssignFine(t.Context(), m.ID, f.ID)
			require.NoError(t, err)

			got, err := storage.Member().GetMember(t.Context(), m.ID, false)
			require.NoError(t, err)
			testutil.RequireDecEqual(t, "44", got.Wallet)
		})

		t.Run("unknown fine changes nothing", func(t *testing.T) {
			s, storage, m := setup(t)

			_, err := s.AssignFine(t.Context(), m.ID, uuid.New())

			require.ErrorIs(t, err, apperrors.ErrFineNotFound)
			entries, err := storage.Ledger().ListEntries(t.Context(), repository.ListEntriesOpts{Kinds: []models.EntryKind{models.EntryKindFine}})
			require.NoError(t, err)
			require.Empty(t, entries)
		})
	})

	t.Run("CreateFine", func(t *testing.T) {
		s, _, _ := setup(t)

		_, err := s.CreateFine(t.Context(), "Free", decimal.Zero)
		require.ErrorIs(t, err, apperrors.ErrInvalidAmount)

		_, err = s.CreateFine(t.Context(), "Zu spät gekommen", decimal.NewFromInt(5))
		require.NoError(t, err)

		fines, err := s.ListFines(t.Context())
		require.NoError(t, err)
		require.Len(t, fines, 1)
	})
}
