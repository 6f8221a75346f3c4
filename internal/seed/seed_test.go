package seed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/clubhouse/internal/apperrors"
	"github.com/nkiryanov/clubhouse/internal/logger"
	"github.com/nkiryanov/clubhouse/internal/models"
	"github.com/nkiryanov/clubhouse/internal/repository/memory"
	"github.com/nkiryanov/clubhouse/internal/service/club"
	"github.com/nkiryanov/clubhouse/internal/service/fine"
	"github.com/nkiryanov/clubhouse/internal/service/inventory"
	"github.com/nkiryanov/clubhouse/internal/service/member"
	"github.com/nkiryanov/clubhouse/internal/service/stats"
	"github.com/nkiryanov/clubhouse/internal/service/ticker"
	"github.com/nkiryanov/clubhouse/internal/service/wallet"
	"github.com/nkiryanov/clubhouse/internal/testutil"
)

func TestRun(t *testing.T) {
	storage := memory.NewStorage()
	l := logger.NewNoOpLogger()
	w := wallet.NewService(storage, nil, l)
	tk := ticker.NewService(storage, nil, l)
	s := Services{
		Members:   member.NewService(storage, w, nil),
		Inventory: inventory.NewService(storage, w, nil, l),
		Fines:     fine.NewService(storage, w, nil),
		Club:      club.NewService(storage),
		Ticker:    tk,
	}
	now := time.Now()

	err := Run(t.Context(), s, now)
	require.NoError(t, err)

	t.Run("wallets agree with ledger", func(t *testing.T) {
		ranking, err := stats.NewService(storage).WalletRanking(t.Context())
		require.NoError(t, err)

		require.Len(t, ranking, 3)
		require.Equal(t, "Max Mustermann", ranking[0].Name)
		testutil.RequireDecEqual(t, "1250.5", ranking[0].Balance)
		testutil.RequireDecEqual(t, "840", ranking[1].Balance)
		testutil.RequireDecEqual(t, "50", ranking[2].Balance)

		d, err := stats.NewService(storage).Dashboard(t.Context())
		require.NoError(t, err)
		testutil.RequireDecEqual(t, "2140.5", d.LedgerTotal)
		require.Zero(t, d.WalletDrift)
	})

	t.Run("catalogs", func(t *testing.T) {
		products, err := storage.Product().ListProducts(t.Context())
		require.NoError(t, err)
		require.Len(t, products, 3)
		require.Equal(t, "Wasser 0.5l", products[0].Name)
		require.Equal(t, 60, products[0].Stock)

		fines, err := storage.Fine().ListFines(t.Context())
		require.NoError(t, err)
		require.Len(t, fines, 2)
		testutil.RequireDecEqual(t, "5", fines[0].Amount)
	})

	t.Run("upcoming fixtures", func(t *testing.T) {
		events, err := storage.Event().ListEvents(t.Context())
		require.NoError(t, err)
		require.Len(t, events, 2)
		require.Equal(t, models.EventTypeTraining, events[0].Type)
		require.True(t, events[1].StartsAt.Equal(now.Add(6*24*time.Hour)))
	})

	t.Run("finished match", func(t *testing.T) {
		m, err := tk.GetMatch(t.Context(), DemoMatchID)
		require.NoError(t, err)

		require.Equal(t, models.MatchStatusFullTime, m.Status)
		require.Equal(t, "FC Stadtmitte", m.Home)
		require.Equal(t, models.Score{Home: 1, Away: 1}, m.Score)
		require.Len(t, m.Events, 3)
	})

	t.Run("second run conflicts", func(t *testing.T) {
		err := Run(t.Context(), s, now)
		require.ErrorIs(t, err, apperrors.ErrMemberAlreadyExists)
	})
}
