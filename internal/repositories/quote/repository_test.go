package quote

import (
	"context"
	"testing"

	"github.com/Ramsey-B/fern/internal/repositories/friend"
	"github.com/Ramsey-B/fern/internal/testutil"
	"github.com/Ramsey-B/fern/pkg/logging"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryIntegration(t *testing.T) {
	db := testutil.StartPostgres(t)
	friends := friend.NewRepository(db, logging.Discard())
	repo := NewRepository(db, logging.Discard())
	ctx := context.Background()

	ada, err := friends.Create(ctx, models.FriendRequest{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Seeded: true})
	require.NoError(t, err)
	alan, err := friends.Create(ctx, models.FriendRequest{FirstName: "Alan", LastName: "Turing", Email: "alan@example.com", Seeded: true})
	require.NoError(t, err)

	shared, err := repo.Create(ctx, models.QuoteRequest{Quote: "Less is more.", Author: "Mies", FriendIDs: []string{ada.ID, alan.ID}, Seeded: true})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{ada.ID, alan.ID}, shared.FriendIDs)
	assert.Len(t, shared.Friends, 2)

	_, err = repo.Create(ctx, models.QuoteRequest{Quote: "Stay hungry.", Author: "Brand", FriendIDs: []string{alan.ID}, Seeded: true})
	require.NoError(t, err)

	t.Run("friendId filter uses links", func(t *testing.T) {
		quotes, total, err := repo.List(ctx, models.ListQuery{Seeded: true, FriendID: ada.ID, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, quotes, 1)
		assert.Equal(t, shared.ID, quotes[0].ID)
	})

	t.Run("list by friend", func(t *testing.T) {
		quotes, err := repo.ListByFriend(ctx, alan.ID)
		require.NoError(t, err)
		assert.Len(t, quotes, 2)
	})

	t.Run("update replaces links", func(t *testing.T) {
		updated, err := repo.Update(ctx, shared.ID, models.QuoteRequest{Quote: "Less is more.", Author: "Mies van der Rohe", FriendIDs: []string{alan.ID}})
		require.NoError(t, err)
		assert.Equal(t, []string{alan.ID}, updated.FriendIDs)

		quotes, err := repo.ListByFriend(ctx, ada.ID)
		require.NoError(t, err)
		assert.Empty(t, quotes)
	})

	t.Run("unknown friend link is rejected", func(t *testing.T) {
		_, err := repo.Create(ctx, models.QuoteRequest{Quote: "x", Author: "y", FriendIDs: []string{"00000000-0000-0000-0000-000000000000"}})
		assert.Error(t, err)
	})
}
