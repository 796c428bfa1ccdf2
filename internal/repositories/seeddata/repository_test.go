package seeddata

import (
	"context"
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Ramsey-B/fern/internal/repositories/overview"
	"github.com/Ramsey-B/fern/internal/repositories/pet"
	"github.com/Ramsey-B/fern/internal/testutil"
	"github.com/Ramsey-B/fern/pkg/logging"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedOverviewAndCleanup(t *testing.T) {
	db := testutil.StartPostgres(t)
	repo := NewRepository(db, logging.Discard())
	pets := pet.NewRepository(db, logging.Discard())
	overviews := overview.NewRepository(db, logging.Discard())
	ctx := context.Background()

	profile, err := seed.DefaultProfile()
	require.NoError(t, err)
	batch := seed.NewGenerator(profile, 3).Generate(40)

	inserted, err := repo.Insert(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, batch.Result(), inserted)

	t.Run("pets are listed per friend", func(t *testing.T) {
		require.NotEmpty(t, batch.Pets)
		owner := batch.Pets[0].FriendID
		want := 0
		for _, p := range batch.Pets {
			if p.FriendID == owner {
				want++
			}
		}

		items, total, err := pets.List(ctx, models.ListQuery{Seeded: true, FriendID: owner, PageSize: 200})
		require.NoError(t, err)
		assert.Equal(t, want, total)
		assert.Len(t, items, want)
	})

	t.Run("overview totals match the batch", func(t *testing.T) {
		rows, err := overviews.ByLocation(ctx, true)
		require.NoError(t, err)

		friends, petCount := 0, 0
		for _, row := range rows {
			friends += row.Friends
			petCount += row.Pets
		}
		assert.Equal(t, len(batch.Friends), friends)
		assert.Equal(t, len(batch.Pets), petCount)

		unseeded, err := overviews.ByLocation(ctx, false)
		require.NoError(t, err)
		assert.Empty(t, unseeded)
	})

	t.Run("same batch twice is a conflict", func(t *testing.T) {
		_, err := repo.Insert(ctx, batch)
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, httperror.GetStatusCode(err))
	})

	t.Run("delete partition", func(t *testing.T) {
		removed, err := repo.DeletePartition(ctx, true)
		require.NoError(t, err)
		assert.Equal(t, inserted, removed)

		rows, err := overviews.ByLocation(ctx, true)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}
